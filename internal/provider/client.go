// Package provider performs the raw HTTP operations against the two
// supported registry APIs: the Zenodo-style deposition API and the
// InvenioRDM-style records/draft API. Each provider kind owns its own
// URL building and payload shaping behind the Client interface; callers
// sequence the operations, this package never retries or rolls back.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/aknutsen/depositor/internal/deposit"
)

const (
	// ReadTimeout bounds record fetches.
	ReadTimeout = 10 * time.Second

	// SubmitTimeout bounds metadata and file submission calls, which can
	// carry large payloads.
	SubmitTimeout = 60 * time.Second

	// RequestsPerSecond is the client-side rate limit applied to all
	// provider calls.
	RequestsPerSecond = 5.0
)

// Client is the set of raw operations a registry provider supports.
// Every operation requires a record ID except CreateDraft. Failures are
// surfaced as APIError (non-2xx), ErrTransport (network), or
// ErrWorkflowState (unusable response); nothing is retried here.
type Client interface {
	// CreateDraft creates a new unpublished deposit from creators and
	// cleaned metadata.
	CreateDraft(ctx context.Context, creators []deposit.Creator, md map[string]any) (*deposit.Deposit, error)

	// UploadFile uploads one attachment to the deposit's upload target.
	UploadFile(ctx context.Context, dep *deposit.Deposit, filename string, content io.Reader) error

	// UpdateMetadata rewrites the record's metadata.
	UpdateMetadata(ctx context.Context, recordID string, creators []deposit.Creator, md map[string]any) (*deposit.Deposit, error)

	// Publish commits the record, assigning its DOI on first publish.
	Publish(ctx context.Context, recordID string) (*deposit.Deposit, error)

	// CreateNewVersion derives a new draft record from a published one.
	// The new record receives its own DOI at publish.
	CreateNewVersion(ctx context.Context, recordID string) (*deposit.Deposit, error)

	// GetRecord fetches the current state of a record.
	GetRecord(ctx context.Context, recordID string) (*deposit.Deposit, error)

	// RequiresUnlock reports whether published records must be unlocked
	// via an edit action before metadata can change.
	RequiresUnlock() bool

	// Unlock makes a published record's metadata mutable again. On
	// providers without an unlock step it returns the deposit unchanged.
	Unlock(ctx context.Context, dep *deposit.Deposit) (*deposit.Deposit, error)

	// Kind returns the provider this client talks to.
	Kind() deposit.Provider
}

// Option configures a client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.client = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// New returns a Client for the given provider kind, talking to baseURL
// with bearer-token auth.
func New(kind deposit.Provider, baseURL, token string, opts ...Option) (Client, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown provider %q", ErrValidation, kind)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrCredential)
	}

	hc := newHTTPClient(baseURL, token, opts...)
	switch kind {
	case deposit.ProviderInvenio:
		return &invenioClient{httpClient: hc}, nil
	default:
		return &zenodoClient{httpClient: hc}, nil
	}
}

// httpClient is the shared request machinery for both provider kinds:
// rate limiting, bearer auth, JSON decoding, and the error taxonomy.
type httpClient struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	token   string
}

func newHTTPClient(baseURL, token string, opts ...Option) *httpClient {
	c := &httpClient{
		client:  &http.Client{Timeout: SubmitTimeout},
		limiter: rate.NewLimiter(rate.Limit(RequestsPerSecond), 1),
		baseURL: baseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doJSON issues a request with a JSON body (nil for none) and decodes a
// JSON object response. The deadline is layered onto ctx per call.
func (c *httpClient) doJSON(ctx context.Context, method, url string, body any, timeout time.Duration, op string) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding %s payload: %v", ErrValidation, op, err)
		}
		reader = bytes.NewReader(data)
	}

	respBody, err := c.do(ctx, method, url, reader, "application/json", timeout, op)
	if err != nil {
		return nil, err
	}
	if len(respBody) == 0 {
		return map[string]any{}, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding %s response: %v", ErrWorkflowState, op, err)
	}
	return raw, nil
}

// do issues a raw request and returns the response body. Non-2xx maps
// to APIError (401/403 additionally wrap ErrCredential); network
// failures wrap ErrTransport.
func (c *httpClient) do(ctx context.Context, method, url string, body io.Reader, contentType string, timeout time.Duration, op string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrTransport, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: building %s request: %v", ErrValidation, op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if contentType != "" && body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", ErrTransport, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody), Op: op}
		if resp.StatusCode == 401 || resp.StatusCode == 403 {
			return nil, fmt.Errorf("%w: %v", ErrCredential, apiErr)
		}
		return nil, apiErr
	}

	return respBody, nil
}
