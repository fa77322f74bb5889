package pexels

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"reelfeed/internal/catalog"
	"reelfeed/internal/config"
)

const (
	defaultTimeout = 30 * time.Second
	rawPreviewLen  = 500
)

var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          20,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// Client fetches search result pages from the video API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	endpoint   string
	query      string
	apiKey     string
	logger     zerolog.Logger
}

func NewClient(cfg config.APIConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: defaultTransport,
		},
		baseURL:  cfg.BaseURL,
		endpoint: cfg.SearchEndpoint,
		query:    cfg.Query,
		apiKey:   cfg.Key,
		logger:   logger.With().Str("component", "pexels").Logger(),
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

func (c *Client) searchURL(page, perPage int) (string, error) {
	u, err := url.Parse(c.baseURL + c.endpoint)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q has no scheme or host", c.baseURL)
	}

	q := u.Query()
	q.Set("query", c.query)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// FetchPage requests one page of search results.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) (*catalog.Page, error) {
	endpoint, err := c.searchURL(page, perPage)
	if err != nil {
		return nil, newError(ErrInvalidRequest, page, err.Error(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newError(ErrInvalidRequest, page, err.Error(), err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("url", endpoint).
		Int("page", page).
		Int("per_page", perPage).
		Msg("calling video search")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(ErrTransport, page, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(ErrTransport, page, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(ErrTransport, page, err.Error(), err)
	}
	if len(data) == 0 {
		return nil, newError(ErrEmptyResponse, page, "", nil)
	}

	result, err := catalog.DecodePage(data)
	if err != nil {
		preview := data
		if len(preview) > rawPreviewLen {
			preview = preview[:rawPreviewLen]
		}
		c.logger.Debug().
			Err(err).
			Int("page", page).
			Bytes("body", preview).
			Msg("failed to decode search response")
		return nil, newError(ErrDecode, page, err.Error(), err)
	}

	c.logger.Info().
		Int("page", page).
		Int("count", len(result.Items)).
		Msg("decoded search page")

	return result, nil
}
