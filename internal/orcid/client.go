// Package orcid is a rate-limited client for the ORCID public and
// member APIs: read-only profile and works lookups, a single
// authenticated add-work call, and a bounded concurrent summary fetch.
package orcid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/aknutsen/depositor/internal/identifier"
)

const (
	// PublicBaseURL is the ORCID public API base URL.
	PublicBaseURL = "https://pub.orcid.org/v3.0"

	// MemberBaseURL is the ORCID member API base URL, required for
	// writes.
	MemberBaseURL = "https://api.orcid.org/v3.0"

	// DefaultTimeout bounds individual API requests.
	DefaultTimeout = 10 * time.Second

	// RateLimit is the public API's documented request ceiling.
	RateLimit = 8.0
)

// Common errors returned by the ORCID client.
var (
	// ErrNotFound indicates the ORCID iD has no public record.
	ErrNotFound = errors.New("ORCID record not found")

	// ErrAuthError indicates a missing or rejected access token.
	ErrAuthError = errors.New("ORCID authentication error")

	// ErrInvalidID indicates a malformed ORCID iD.
	ErrInvalidID = errors.New("invalid ORCID iD")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with ORCID")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("ORCID API error")
)

// Client is a rate-limited HTTP client for the ORCID APIs.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithBaseURL sets a custom base URL (member API, sandbox, or tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new ORCID API client against the public API.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    PublicBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Profile is the subset of an ORCID person record the depositor needs.
type Profile struct {
	ORCID       string `json:"orcid"`
	GivenNames  string `json:"given_names,omitempty"`
	FamilyName  string `json:"family_name,omitempty"`
	CreditName  string `json:"credit_name,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
}

// DisplayName returns the best available display name for the profile.
func (p Profile) DisplayName() string {
	if p.CreditName != "" {
		return p.CreditName
	}
	if p.FamilyName != "" && p.GivenNames != "" {
		return p.FamilyName + ", " + p.GivenNames
	}
	if p.FamilyName != "" {
		return p.FamilyName
	}
	return p.GivenNames
}

// WorkSummary is one entry of an ORCID works listing.
type WorkSummary struct {
	PutCode int64  `json:"put_code"`
	Title   string `json:"title"`
	Type    string `json:"type,omitempty"`
	DOI     string `json:"doi,omitempty"`
	Year    string `json:"year,omitempty"`
}

// GetProfile fetches the person section of a public ORCID record.
func (c *Client) GetProfile(ctx context.Context, id string) (*Profile, error) {
	id, ok := identifier.ValidateORCID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	raw, err := c.get(ctx, c.baseURL+"/"+id+"/person")
	if err != nil {
		return nil, err
	}

	var body struct {
		Name struct {
			GivenNames struct {
				Value string `json:"value"`
			} `json:"given-names"`
			FamilyName struct {
				Value string `json:"value"`
			} `json:"family-name"`
			CreditName struct {
				Value string `json:"value"`
			} `json:"credit-name"`
		} `json:"name"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: parsing person record: %v", ErrAPIError, err)
	}

	return &Profile{
		ORCID:      id,
		GivenNames: body.Name.GivenNames.Value,
		FamilyName: body.Name.FamilyName.Value,
		CreditName: body.Name.CreditName.Value,
	}, nil
}

// GetWorks fetches the works listing of a public ORCID record.
func (c *Client) GetWorks(ctx context.Context, id string) ([]WorkSummary, error) {
	id, ok := identifier.ValidateORCID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	raw, err := c.get(ctx, c.baseURL+"/"+id+"/works")
	if err != nil {
		return nil, err
	}

	var body struct {
		Group []struct {
			WorkSummary []struct {
				PutCode int64 `json:"put-code"`
				Title   struct {
					Title struct {
						Value string `json:"value"`
					} `json:"title"`
				} `json:"title"`
				Type            string `json:"type"`
				PublicationDate struct {
					Year struct {
						Value string `json:"value"`
					} `json:"year"`
				} `json:"publication-date"`
				ExternalIDs struct {
					ExternalID []struct {
						Type  string `json:"external-id-type"`
						Value string `json:"external-id-value"`
					} `json:"external-id"`
				} `json:"external-ids"`
			} `json:"work-summary"`
		} `json:"group"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: parsing works: %v", ErrAPIError, err)
	}

	var works []WorkSummary
	for _, group := range body.Group {
		for _, ws := range group.WorkSummary {
			summary := WorkSummary{
				PutCode: ws.PutCode,
				Title:   ws.Title.Title.Value,
				Type:    ws.Type,
				Year:    ws.PublicationDate.Year.Value,
			}
			for _, ext := range ws.ExternalIDs.ExternalID {
				if ext.Type == "doi" {
					summary.DOI = ext.Value
					break
				}
			}
			works = append(works, summary)
		}
	}
	return works, nil
}

// AddWork posts a new work record to an ORCID profile. A member-API
// token with update scope is required. Returns the location of the
// created work.
func (c *Client) AddWork(ctx context.Context, id string, work map[string]any) (string, error) {
	id, ok := identifier.ValidateORCID(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if c.token == "" {
		return "", fmt.Errorf("%w: add work requires an access token", ErrAuthError)
	}

	data, err := json.Marshal(work)
	if err != nil {
		return "", fmt.Errorf("encoding work: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+id+"/work", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return resp.Header.Get("Location"), nil
}

// get performs a rate-limited authenticated GET and returns the body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// checkStatus maps a non-2xx response to the client's error taxonomy.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == 404:
		return ErrNotFound
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: status %d: %s", ErrAPIError, resp.StatusCode, body)
	}
	return nil
}
