// Package credentials resolves per-user deposit provider credentials.
//
// Tokens are looked up by user ID so that deposits made on behalf of a
// discussion participant use that participant's own provider account when
// one is linked, falling back to a shared service token otherwise.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNoCredentials indicates no source could supply a token for the user.
var ErrNoCredentials = errors.New("no credentials available")

// Credentials holds what a provider client needs to authenticate.
type Credentials struct {
	Token    string `json:"-"`
	Provider string `json:"provider"`
	BaseURL  string `json:"base_url,omitempty"`
}

// Source resolves credentials for a user. Implementations return
// ErrNoCredentials (possibly wrapped) when the user has nothing linked;
// other errors indicate a lookup failure.
type Source interface {
	Lookup(ctx context.Context, userID string) (Credentials, error)
}

// EnvSource reads a shared service token from the environment. It ignores
// the user ID: every caller gets the same token. Provider and base URL are
// passed through as-is; when unset the caller falls back to its own
// configuration. Environment variables:
//
//	DEPOSITOR_TOKEN     API token (required)
//	DEPOSITOR_PROVIDER  provider kind override
//	DEPOSITOR_BASE_URL  override for the provider base URL
type EnvSource struct{}

func (EnvSource) Lookup(_ context.Context, _ string) (Credentials, error) {
	token := os.Getenv("DEPOSITOR_TOKEN")
	if token == "" {
		return Credentials{}, fmt.Errorf("DEPOSITOR_TOKEN not set: %w", ErrNoCredentials)
	}
	return Credentials{
		Token:    token,
		Provider: os.Getenv("DEPOSITOR_PROVIDER"),
		BaseURL:  os.Getenv("DEPOSITOR_BASE_URL"),
	}, nil
}

// StaticSource returns fixed credentials for every user. Useful in tests
// and for single-tenant deployments.
type StaticSource struct {
	Credentials Credentials
}

func (s StaticSource) Lookup(_ context.Context, _ string) (Credentials, error) {
	if s.Credentials.Token == "" {
		return Credentials{}, ErrNoCredentials
	}
	return s.Credentials, nil
}

// Chain tries each source in order, returning the first hit. A source
// failing with ErrNoCredentials falls through to the next; any other
// error aborts the chain.
type Chain []Source

func (c Chain) Lookup(ctx context.Context, userID string) (Credentials, error) {
	for _, src := range c {
		creds, err := src.Lookup(ctx, userID)
		if err == nil {
			return creds, nil
		}
		if !errors.Is(err, ErrNoCredentials) {
			return Credentials{}, err
		}
	}
	return Credentials{}, ErrNoCredentials
}
