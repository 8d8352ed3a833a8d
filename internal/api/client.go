package api

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"adsreport-cli/internal/config"

	"github.com/go-resty/resty/v2"
)

const requestIDHeader = "request-id"

// lastPageSizeVersion is the last API version that accepts a page size on
// search requests. Later versions use a fixed page size and reject the field.
const lastPageSizeVersion = 16

type Client struct {
	restyClient *resty.Client
	version     string
	log         resty.Logger
}

type Option func(*Client)

// WithLogger routes resty's own warnings and debug output, and the client's, to l.
func WithLogger(l resty.Logger) Option {
	return func(c *Client) {
		c.restyClient.SetLogger(l)
		c.log = l
	}
}

// WithDebug dumps every request and response through the client logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.restyClient.SetDebug(debug)
	}
}

func NewClient(creds config.Credentials, opts ...Option) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(creds.Endpoint, "/"))
	client.SetTimeout(creds.Timeout)
	client.SetHeader("developer-token", creds.DeveloperToken)
	client.SetAuthToken(creds.AccessToken)
	if creds.LoginCustomerID != "" {
		client.SetHeader("login-customer-id", NormalizeCustomerID(creds.LoginCustomerID))
	}

	c := &Client{restyClient: client, version: creds.APIVersion}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeCustomerID strips the dashes of the 123-456-7890 display form.
func NormalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}

// SupportsPageSize reports whether API version (e.g. "v16") accepts a page
// size on search. Versions that cannot be parsed are treated as current.
func SupportsPageSize(version string) bool {
	digits := strings.TrimPrefix(strings.ToLower(version), "v")
	if i := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		digits = digits[:i]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return false
	}
	return n <= lastPageSizeVersion
}

// Search runs query for customerID and yields its rows one at a time. Pages
// are requested lazily as iteration advances; stopping early stops fetching.
// Ranging over the sequence again re-issues the query. A failed request is
// yielded once as the error and ends the sequence.
//
// pageSize is only sent to API versions that accept it.
func (c *Client) Search(ctx context.Context, customerID, query string, pageSize int) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		size := pageSize
		if !SupportsPageSize(c.version) {
			if size > 0 && c.log != nil {
				c.log.Debugf("api %s uses a fixed page size, ignoring page size %d", c.version, size)
			}
			size = 0
		}

		pageToken := ""
		for {
			page, err := c.searchPage(ctx, customerID, query, size, pageToken)
			if err != nil {
				yield(Row{}, err)
				return
			}
			for _, row := range page.Results {
				if !yield(row, nil) {
					return
				}
			}
			if page.NextPageToken == "" {
				return
			}
			pageToken = page.NextPageToken
		}
	}
}

func (c *Client) searchPage(ctx context.Context, customerID, query string, pageSize int, pageToken string) (*searchResponse, error) {
	var (
		result searchResponse
		env    errorEnvelope
	)
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"version":    c.version,
			"customerID": NormalizeCustomerID(customerID),
		}).
		SetBody(searchRequest{Query: query, PageSize: pageSize, PageToken: pageToken}).
		SetResult(&result).
		SetError(&env).
		Post("/{version}/customers/{customerID}/googleAds:search")
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	if resp.IsError() {
		return nil, env.toError(resp.StatusCode(), resp.Header().Get(requestIDHeader))
	}
	if ct := resp.Header().Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "json") {
		return nil, fmt.Errorf("search returned %q with status %s: %w", ct, resp.Status(), ErrUnexpectedResponse)
	}
	return &result, nil
}
