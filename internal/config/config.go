package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DeveloperToken  = "developer_token"
	AccessToken     = "access_token"
	LoginCustomerID = "login_customer_id"
	Endpoint        = "endpoint"
	APIVersion      = "api_version"
	Timeout         = "timeout"
	LogLevel        = "log_level"
)

const (
	DefaultEndpoint   = "https://googleads.googleapis.com"
	DefaultAPIVersion = "v22"
	DefaultTimeout    = 60 * time.Second

	fileName = ".google-ads"
	fileType = "yaml"
)

var (
	ErrMissingDeveloperToken = errors.New("developer token is not configured")
	ErrMissingAccessToken    = errors.New("access token is not configured")
	ErrUnknownKey            = errors.New("unknown configuration key")
)

// File overrides the default config file location when set (the --config flag).
var File string

// Credentials is everything the API client needs to talk to Google Ads.
type Credentials struct {
	DeveloperToken  string
	AccessToken     string
	LoginCustomerID string
	Endpoint        string
	APIVersion      string
	Timeout         time.Duration
}

// InitConfig initializes the configuration
func InitConfig() {
	viper.SetDefault(Endpoint, DefaultEndpoint)
	viper.SetDefault(APIVersion, DefaultAPIVersion)
	viper.SetDefault(Timeout, DefaultTimeout)
	viper.SetDefault(LogLevel, "info")

	if File != "" {
		viper.SetConfigFile(File)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType(fileType)
		viper.SetConfigName(fileName)
	}

	viper.SetEnvPrefix("GOOGLE_ADS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// A missing file is fine: credentials may come from the environment.
	_ = viper.ReadInConfig()
}

// Keys returns the keys that can be persisted with Set.
func Keys() []string {
	return []string{DeveloperToken, AccessToken, LoginCustomerID, Endpoint, APIVersion, Timeout, LogLevel}
}

// Load returns the configured credentials.
func Load() (Credentials, error) {
	creds := Credentials{
		DeveloperToken:  viper.GetString(DeveloperToken),
		AccessToken:     viper.GetString(AccessToken),
		LoginCustomerID: viper.GetString(LoginCustomerID),
		Endpoint:        viper.GetString(Endpoint),
		APIVersion:      viper.GetString(APIVersion),
		Timeout:         viper.GetDuration(Timeout),
	}
	if creds.DeveloperToken == "" {
		return creds, ErrMissingDeveloperToken
	}
	if creds.AccessToken == "" {
		return creds, ErrMissingAccessToken
	}
	if creds.Endpoint == "" {
		creds.Endpoint = DefaultEndpoint
	}
	if creds.APIVersion == "" {
		creds.APIVersion = DefaultAPIVersion
	}
	if creds.Timeout <= 0 {
		creds.Timeout = DefaultTimeout
	}
	return creds, nil
}

// Set sets key in the configuration file. Only the file's own contents and
// key are written; defaults and environment overrides stay out of it.
func Set(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	path, err := filePath()
	if err != nil {
		return err
	}

	file := viper.New()
	file.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		file.SetConfigType(fileType)
	}
	if err := file.ReadInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	file.Set(key, value)
	if err := file.WriteConfigAs(path); err != nil {
		return err
	}

	viper.Set(key, value)
	return nil
}

// Get returns the value of key from the configuration
func Get(key string) (string, error) {
	if !slices.Contains(Keys(), key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return viper.GetString(key), nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func filePath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	if File != "" {
		return File, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fileName+"."+fileType), nil
}
