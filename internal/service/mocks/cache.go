package mocks

import (
	"context"
	"time"

	"github.com/godilite/kiosk-feedback/pkg/cache"
)

// MockStore is a mock implementation of cache.Store. Get misses unless GetFunc is set.
type MockStore struct {
	GetFunc func(ctx context.Context, key string, dest any) error
	SetFunc func(ctx context.Context, key string, value any, expiration time.Duration) error
}

func (m *MockStore) Get(ctx context.Context, key string, dest any) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return cache.ErrMiss
}

func (m *MockStore) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}
