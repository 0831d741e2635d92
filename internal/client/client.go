package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/corpscope/internal/model"
)

// Endpoint paths relative to the base URL.
const (
	KeysPath     = "/api/keys/set"
	GeneratePath = "/api/report/generate"
)

// maxErrorBody bounds how much of an error response is read for its detail.
const maxErrorBody = 64 * 1024

// KeysRequest is the body of POST /api/keys/set.
type KeysRequest struct {
	CohereAPIKey string `json:"cohere_api_key"`
	TavilyAPIKey string `json:"tavily_api_key"`
}

// GenerateRequest is the body of POST /api/report/generate.
type GenerateRequest struct {
	CompanyName string `json:"company_name"`

	// CompanyLink is sent as JSON null when nil.
	CompanyLink *string `json:"company_link"`
}

// NewGenerateRequest builds a GenerateRequest; a blank link becomes null.
func NewGenerateRequest(name, link string) GenerateRequest {
	req := GenerateRequest{CompanyName: name}
	if link != "" {
		req.CompanyLink = &link
	}
	return req
}

// errorBody is the failure body of the generate endpoint.
type errorBody struct {
	Detail string `json:"detail"`
}

// Client calls the backend API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger

	// timeout and proxyAddress are applied when building the default
	// http.Client; they are ignored with WithHTTPClient.
	timeout      time.Duration
	proxyAddress string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses hc for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Zero means no timeout: the request waits
// on the transport's own behaviour.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithProxy routes requests through the SOCKS5 proxy at address ("host:port").
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the backend at baseURL.
// It does not contact the backend.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidBaseURL
	}

	c := &Client{
		baseURL: u,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		hc, err := newHTTPClient(c.timeout, c.proxyAddress)
		if err != nil {
			return nil, err
		}
		c.httpClient = hc
	}

	return c, nil
}

// newHTTPClient builds the default http.Client, optionally dialing through a
// SOCKS5 proxy.
func newHTTPClient(timeout time.Duration, proxyAddress string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyAddress != "" {
		if _, _, err := net.SplitHostPort(proxyAddress); err != nil {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("SOCKS5 dialer does not support contexts")
		}
		transport.Proxy = nil
		transport.DialContext = contextDialer.DialContext
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetKeys stores the credential pair on the backend.
// Any 2xx status is success; the response body is ignored.
func (c *Client) SetKeys(ctx context.Context, req KeysRequest) error {
	resp, err := c.post(ctx, "set keys", KeysPath, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// GenerateReport asks the backend to research a company.
func (c *Client) GenerateReport(ctx context.Context, req GenerateRequest) (*model.ReportData, error) {
	resp, err := c.post(ctx, "generate report", GeneratePath, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, decodeAPIError(resp)
	}

	var data model.ReportData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &TransportError{Op: "generate report", Err: fmt.Errorf("failed to decode report: %w", err)}
	}
	return &data, nil
}

// post sends body as JSON to path.
func (c *Client) post(ctx context.Context, op, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
	}

	endpoint := c.baseURL.JoinPath(path).String()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "url", endpoint, "error", err)
		return nil, &TransportError{Op: op, Err: err}
	}

	c.logger.Debug("request completed",
		"op", op,
		"url", endpoint,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)
	return resp, nil
}

// decodeAPIError reads the backend detail from an error response.
// A missing or unparsable body yields an APIError without detail.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}

// isSuccess reports whether status is 2xx.
func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
