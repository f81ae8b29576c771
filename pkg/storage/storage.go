// Package storage is the key-value persistence facade used by every state
// module. Values are JSON encoded; read failures degrade to the caller's
// default and write failures are logged, never returned.
package storage

import (
	"context"
	"encoding/json"

	"souk-oman/pkg/logger"
)

// Persisted keys.
const (
	KeyLanguage      = "sooq_language"
	KeyUserAds       = "sooq_user_ads"
	KeyAnalytics     = "sooq_analytics"
	KeyAuthUser      = "sooq_auth_user"
	KeyFavorites     = "sooq_favorites"
	KeyWeeklyAdCount = "sooq_weekly_ad_count"
	KeyFilters       = "sooq_filters"
	KeySubscriptions = "sooq_subscriptions"
)

// Backend is a text key-value store.
type Backend interface {
	Read(ctx context.Context, key string) (value string, found bool, err error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Option func(*Facade)

// WithErrorHook registers a callback invoked for every swallowed failure.
func WithErrorHook(hook func(op string, err error)) Option {
	return func(f *Facade) {
		f.onError = hook
	}
}

type Facade struct {
	backend Backend
	prefix  string
	logger  *logger.Logger
	onError func(op string, err error)
}

func NewFacade(backend Backend, log *logger.Logger, opts ...Option) *Facade {
	f := &Facade{
		backend: backend,
		logger:  log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Scope returns a facade whose keys live under prefix. Scopes nest.
func (f *Facade) Scope(prefix string) *Facade {
	return &Facade{
		backend: f.backend,
		prefix:  f.key(prefix),
		logger:  f.logger,
		onError: f.onError,
	}
}

func (f *Facade) key(key string) string {
	if f.prefix == "" {
		return key
	}
	return f.prefix + ":" + key
}

// Get decodes the value stored under key into dest and reports whether it
// did. dest is left untouched when the key is absent or unreadable, so
// callers pre-fill it with their default.
func (f *Facade) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, found, err := f.backend.Read(ctx, f.key(key))
	if err != nil {
		f.fail("read", key, err)
		return false
	}
	if !found || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		f.fail("decode", key, err)
		return false
	}
	return true
}

func (f *Facade) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		f.fail("encode", key, err)
		return
	}
	if err := f.backend.Write(ctx, f.key(key), string(data)); err != nil {
		f.fail("write", key, err)
	}
}

func (f *Facade) Remove(ctx context.Context, key string) {
	if err := f.backend.Delete(ctx, f.key(key)); err != nil {
		f.fail("remove", key, err)
	}
}

func (f *Facade) fail(op, key string, err error) {
	f.logger.Error("Storage %s failed for key %s: %v", op, f.key(key), err)
	if f.onError != nil {
		f.onError(op, err)
	}
}

// GetItem returns the value under key, or def when it is absent or
// cannot be decoded.
func GetItem[T any](ctx context.Context, f *Facade, key string, def T) T {
	var value T
	if !f.Get(ctx, key, &value) {
		return def
	}
	return value
}
