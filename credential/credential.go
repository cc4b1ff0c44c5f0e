// Package credential supplies the bearer token attached to API requests.
//
// Providers are read on every request and never cache, so a token changed
// in the backing store is picked up by the next call.
package credential

import (
	"context"
	"fmt"
	"os"

	"github.com/philippgille/gokv"
)

// DefaultKey is the key the API token is stored under.
const DefaultKey = "api_token"

// Provider returns the current API token. An absent token is the empty
// string, not an error.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static is a fixed token.
type Static string

func (s Static) Token(context.Context) (string, error) {
	return string(s), nil
}

// Env reads the token from the named environment variable.
type Env string

func (e Env) Token(context.Context) (string, error) {
	return os.Getenv(string(e)), nil
}

// Chain returns the first non-empty token of its providers.
type Chain []Provider

func (c Chain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		token, err := p.Token(ctx)
		if err != nil {
			return "", err
		}
		if token != "" {
			return token, nil
		}
	}
	return "", nil
}

// KV keeps the token in a key-value store.
type KV struct {
	store gokv.Store
	key   string
}

// NewKV creates a KV provider over store using DefaultKey.
func NewKV(store gokv.Store) *KV {
	return &KV{store: store, key: DefaultKey}
}

// WithKey returns a copy of the provider reading a different key.
func (k *KV) WithKey(key string) *KV {
	return &KV{store: k.store, key: key}
}

func (k *KV) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var token string
	found, err := k.store.Get(k.key, &token)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if !found {
		return "", nil
	}
	return token, nil
}

// Set stores token.
func (k *KV) Set(token string) error {
	if err := k.store.Set(k.key, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Clear removes the stored token.
func (k *KV) Clear() error {
	if err := k.store.Delete(k.key); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
