package cmd

import (
	"errors"
	"fmt"
	"os"

	"adsreport-cli/internal/config"
	"adsreport-cli/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "adsreport",
	Short: "adsreport - Google Ads reports from the command line",
	Long: `adsreport runs read-only reports against the Google Ads API using the
credentials stored in ~/.google-ads.yaml or GOOGLE_ADS_* environment variables.`,
	SilenceErrors: true,
}

// exitError carries a non-zero status whose diagnostics were already printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func initLogger() {
	logger.InitLogger(viper.GetString(config.LogLevel), debug)
}

func init() {
	cobra.OnInitialize(config.InitConfig, initLogger)
	rootCmd.PersistentFlags().StringVar(&config.File, "config", "", "Config file (default is $HOME/.google-ads.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output, including HTTP traffic")
}
