package testutil

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/microshop/microshop/internal/model"
	"github.com/microshop/microshop/internal/repository"
)

// UserStore is an in-memory users store with the same error contract as
// repository.Postgres.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	m      map[int64]model.User
	err    error
}

// NewUserStore returns an empty in-memory users store.
func NewUserStore() *UserStore {
	return &UserStore{m: make(map[int64]model.User)}
}

// FailWith makes every later call return err. Pass nil to recover.
func (s *UserStore) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *UserStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}

	users := make([]*model.User, 0, len(s.m))
	for _, u := range s.m {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *UserStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	key, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}

	u, ok := s.m[key]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	s.nextID++
	u := *user
	u.ID = s.nextID
	s.m[u.ID] = u
	return &u, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, id string, user *model.User) (*model.User, error) {
	key, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	if _, ok := s.m[key]; !ok {
		return nil, repository.ErrUserNotFound
	}
	u := *user
	u.ID = key
	s.m[key] = u
	return &u, nil
}

func (s *UserStore) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	key, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	u, ok := s.m[key]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	delete(s.m, key)
	return &u, nil
}

// Ping returns the configured failure, if any.
func (s *UserStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func parseUserID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, repository.ErrInvalidID
	}
	return n, nil
}

// ProductStore is an in-memory products store with the same error contract
// as repository.Mongo.
type ProductStore struct {
	mu  sync.RWMutex
	m   map[primitive.ObjectID]model.Product
	err error
}

// NewProductStore returns an empty in-memory products store.
func NewProductStore() *ProductStore {
	return &ProductStore{m: make(map[primitive.ObjectID]model.Product)}
}

// FailWith makes every later call return err. Pass nil to recover.
func (s *ProductStore) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Len returns the number of stored products.
func (s *ProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *ProductStore) ListProducts(ctx context.Context) ([]*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}

	products := make([]*model.Product, 0, len(s.m))
	for _, p := range s.m {
		p := p
		products = append(products, &p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID.Hex() < products[j].ID.Hex() })
	return products, nil
}

func (s *ProductStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}

	p, ok := s.m[oid]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (s *ProductStore) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	now := time.Now().UTC()
	p := *product
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.m[p.ID] = p
	return &p, nil
}

func (s *ProductStore) UpdateProduct(ctx context.Context, id string, product *model.Product) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	existing, ok := s.m[oid]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	existing.Name = product.Name
	existing.Price = product.Price
	existing.Stock = product.Stock
	existing.UpdatedAt = time.Now().UTC()
	s.m[oid] = existing
	return &existing, nil
}

func (s *ProductStore) DeleteProduct(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	p, ok := s.m[oid]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	delete(s.m, oid)
	return &p, nil
}

// Ping returns the configured failure, if any.
func (s *ProductStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
