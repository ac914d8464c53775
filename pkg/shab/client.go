package shab

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gantapp/gant/config"
	"github.com/gantapp/gant/internal"
	"github.com/gantapp/gant/pkg/models"
)

// Client is the HTTP fetch collaborator for the gazette portal. Retries
// and timeouts live here; transport errors are returned to the caller
// unmodified so the surrounding scheduler can apply its own policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ models.Fetcher = &Client{}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: newRetryableHTTPClient(
			cfg.SHAB.MaxRetries,
			time.Duration(cfg.SHAB.TimeoutSeconds)*time.Second,
		),
		baseURL: cfg.SHAB.BaseURL,
	}
}

// newRetryableHTTPClient returns a retrying HTTP client wrapped in an
// OpenTelemetry transport.
func newRetryableHTTPClient(retryMax int, timeout time.Duration) *http.Client {
	retryableHTTPClient := retryablehttp.NewClient()
	retryableHTTPClient.RetryMax = retryMax
	retryableHTTPClient.HTTPClient.Timeout = timeout
	retryableHTTPClient.Logger = internal.NewLeveledLogrus(log)
	retryableHTTPClient.Backoff = retryablehttp.DefaultBackoff
	retryableHTTPClient.CheckRetry = retryablehttp.DefaultRetryPolicy

	return &http.Client{
		Transport: otelhttp.NewTransport(
			retryableHTTPClient.StandardClient().Transport,
		),
	}
}

// Fetch retrieves the resource at rawURL as text.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", rawURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", rawURL, err)
	}
	return string(body), nil
}

// ExportURL builds the dated export query against the gazette API.
func (c *Client) ExportURL(dateFrom, dateTo time.Time) string {
	return ExportURL(c.baseURL, dateFrom, dateTo)
}

// ExportURL builds the dated export query for baseURL.
func ExportURL(baseURL string, dateFrom, dateTo time.Time) string {
	query := url.Values{}
	if !dateFrom.IsZero() {
		query.Set("dateFrom", dateFrom.Format("2006-01-02"))
	}
	if !dateTo.IsZero() {
		query.Set("dateTo", dateTo.Format("2006-01-02"))
	}
	exportURL := baseURL + "/shab"
	if encoded := query.Encode(); encoded != "" {
		exportURL += "?" + encoded
	}
	return exportURL
}

// PublicationURL points at the standalone XML document for one publication.
func PublicationURL(baseURL, publicationID string) string {
	return baseURL + "/publications/" + publicationID + "/xml"
}
