package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"

	"github.com/mcdev12/rikiki/go/internal/poll"
)

const defaultTimeout = 30 * time.Second

// BaseClient performs guarded calls against one origin. Every call returns a
// poll.Result; no failure escapes as a Go error.
type BaseClient struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

func NewBaseClient(baseURL string) *BaseClient {
	// the jar keeps the server's session cookie, like same-origin credentials
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		log.Warn().Err(err).Msg("cookie jar unavailable, continuing without cookies")
	}
	return &BaseClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		headers: make(map[string]string),
	}
}

func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// BaseURL is the origin (plus any path prefix) requests are made against.
func (c *BaseClient) BaseURL() string { return c.baseURL }

// Attempt GETs endpoint, bypassing caches and following redirects.
func (c *BaseClient) Attempt(ctx context.Context, endpoint string) poll.Result {
	return c.MakeRequest(ctx, http.MethodGet, endpoint, nil, "")
}

// PostForm POSTs form-encoded fields to endpoint.
func (c *BaseClient) PostForm(ctx context.Context, endpoint string, form url.Values) poll.Result {
	return c.MakeRequest(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// MakeRequest runs one call and classifies the outcome: a call that fails to
// complete is a transport failure, a non-2xx status is an HTTP failure and is
// not parsed, anything else must be a JSON body.
func (c *BaseClient) MakeRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType string) poll.Result {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return poll.TransportFailure(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return poll.TransportFailure(fmt.Errorf("failed to make request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return poll.HTTPFailure(resp.StatusCode, statusText(resp))
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return poll.TransportFailure(fmt.Errorf("failed to read response body: %w", err))
	}
	if !json.Valid(responseBody) {
		return poll.MalformedFailure(fmt.Errorf("%s %s returned non-JSON body (%d bytes)", method, endpoint, len(responseBody)))
	}

	return poll.Success(responseBody)
}

// statusText extracts the reason phrase from "404 Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	text = strings.TrimSpace(text)
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
