package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/casualjim/cfagui/pkg/slogx"
	"github.com/fogfish/opts"
)

// DefaultBaseURL is the Cloudflare API root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// ErrMissingCredentials is returned by New without an account id or token.
var ErrMissingCredentials = errors.New("cloudflare: account id and api token are required")

// Client talks to the Workers AI REST API.
type Client struct {
	accountID  string
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

var (
	// AccountID sets the Cloudflare account the models run under.
	AccountID = opts.ForName[Client, string]("accountID")
	// APIToken sets the bearer token sent with every request.
	APIToken = opts.ForName[Client, string]("apiToken")
	// BaseURL overrides DefaultBaseURL.
	BaseURL = opts.ForName[Client, string]("baseURL")
	// HTTPClient sets the HTTP client used for requests.
	HTTPClient = opts.ForName[Client, *http.Client]("httpClient")
)

// New creates a client. The account id and token are required.
func New(options ...opts.Option[Client]) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
	}
	if err := opts.Apply(c, options); err != nil {
		return nil, err
	}
	if c.accountID == "" || c.apiToken == "" {
		return nil, ErrMissingCredentials
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if c.httpClient == nil {
		// no overall timeout: streams last as long as the model generates
		c.httpClient = &http.Client{Transport: http.DefaultTransport}
	}
	return c, nil
}

// AccountURL returns the API root for the configured account.
func (c *Client) AccountURL() string {
	return c.baseURL + "/accounts/" + c.accountID
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.AccountURL()+path, body)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: %s %s: %w", method, path, err)
	}
	slog.DebugContext(ctx, "cloudflare request",
		slogx.LoggerName("cloudflare"),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, newAPIError(resp)
	}
	return resp, nil
}
