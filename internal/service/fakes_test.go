package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/microshop/microshop/internal/cache"
	"github.com/microshop/microshop/internal/model"
	"github.com/microshop/microshop/internal/testutil"
)

// fakeCache is an in-memory EntityCache storing JSON like the Redis cache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	err     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// pausingUserStore blocks GetUser after the store read until released.
type pausingUserStore struct {
	*testutil.UserStore
	read    chan struct{}
	release chan struct{}
}

func newPausingUserStore() *pausingUserStore {
	return &pausingUserStore{
		UserStore: testutil.NewUserStore(),
		read:      make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (s *pausingUserStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.UserStore.GetUser(ctx, id)
	if s.read != nil {
		close(s.read)
		s.read = nil
		<-s.release
	}
	return user, err
}

// pausingProductStore blocks GetProduct after the store read until released.
type pausingProductStore struct {
	*testutil.ProductStore
	read    chan struct{}
	release chan struct{}
}

func newPausingProductStore() *pausingProductStore {
	return &pausingProductStore{
		ProductStore: testutil.NewProductStore(),
		read:         make(chan struct{}),
		release:      make(chan struct{}),
	}
}

func (s *pausingProductStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.ProductStore.GetProduct(ctx, id)
	if s.read != nil {
		close(s.read)
		s.read = nil
		<-s.release
	}
	return product, err
}
