package tokens

import (
	"context"
	"errors"
)

// Kind selects one half of the stored token pair
type Kind string

const (
	Access  Kind = "access"
	Refresh Kind = "refresh"
)

// ErrMissingCredential is returned by callers when the store has no token of
// the requested kind
var ErrMissingCredential = errors.New("no stored token available")

// ErrNotFound is returned by backends when no record has ever been saved
var ErrNotFound = errors.New("token record not found")

// Pair is the access/refresh token pair issued by the provider
type Pair struct {
	AccessToken  string `json:"access_token" yaml:"access_token"`
	RefreshToken string `json:"refresh_token" yaml:"refresh_token"`
}

// Complete reports whether both halves are present. Partial pairs are never
// persisted and are treated as absent on read.
func (p Pair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// Get returns the half of the pair selected by kind
func (p Pair) Get(kind Kind) (string, bool) {
	switch kind {
	case Access:
		return p.AccessToken, p.AccessToken != ""
	case Refresh:
		return p.RefreshToken, p.RefreshToken != ""
	default:
		return "", false
	}
}

// Backend is the persistence layer behind a Store. Save must replace the
// whole record in one step so readers never observe half of a write.
type Backend interface {
	Load(ctx context.Context) (*Pair, error)
	Save(ctx context.Context, pair Pair) error
}
