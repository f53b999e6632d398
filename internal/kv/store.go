// Package kv is the string-keyed, string-valued persistent store used for
// recorded paths and trip lists. There are no transactions across keys.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend-yatra/internal/apperr"
)

// ErrMissing is returned by Get when the key has never been set or was deleted.
var ErrMissing = errors.New("kv: key not set")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value under key into dst. It reports false, nil when the
// key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrMissing) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv get %s: %w: %v", key, apperr.ErrStorage, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("kv decode %s: %w: %v", key, apperr.ErrStorage, err)
	}
	return true, nil
}

// SetJSON replaces the value under key with the JSON encoding of v.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv encode %s: %w: %v", key, apperr.ErrStorage, err)
	}
	if err := s.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("kv set %s: %w: %v", key, apperr.ErrStorage, err)
	}
	return nil
}
