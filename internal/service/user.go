package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/microshop/microshop/internal/metrics"
	"github.com/microshop/microshop/internal/model"
)

const resourceUser = "user"

// UserStore persists users.
type UserStore interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUser(ctx context.Context, id string, user *model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
}

// UserInput carries the optional fields of a user request body.
type UserInput struct {
	Name  *string
	Email *string
}

// validate checks required fields and builds the entity.
func (in UserInput) validate() (*model.User, error) {
	var missing []string
	if in.Name == nil || *in.Name == "" {
		missing = append(missing, "name")
	}
	if in.Email == nil || *in.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	return &model.User{Name: *in.Name, Email: *in.Email}, nil
}

// UserService handles user business logic.
type UserService struct {
	store   UserStore
	cache   *entityCache
	metrics metrics.Recorder
}

// NewUserService creates a new UserService. entities may be nil.
func NewUserService(store UserStore, entities EntityCache, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
		cache: &entityCache{
			cache:    entities,
			resource: resourceUser,
			metrics:  recorder,
			logger:   logger,
		},
	}
}

// List returns all users in ascending id order.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	var cached model.User
	if s.cache.load(ctx, id, &cached) {
		return &cached, nil
	}

	gen := s.cache.generation()
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.cache.fill(ctx, userKey(user), gen, user)
	return user, nil
}

// Create validates input and inserts a new user.
func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	user, err := in.validate()
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.metrics.IncResourceCreated(resourceUser)
	return created, nil
}

// Update replaces all mutable fields of a user.
// Validation happens before the store is touched.
func (s *UserService) Update(ctx context.Context, id string, in UserInput) (*model.User, error) {
	user, err := in.validate()
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateUser(ctx, id, user)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.cache.invalidate(ctx, userKey(updated))
	s.metrics.IncResourceUpdated(resourceUser)
	return updated, nil
}

// Delete removes a user and returns the deleted record.
func (s *UserService) Delete(ctx context.Context, id string) (*model.User, error) {
	deleted, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.cache.invalidate(ctx, userKey(deleted))
	s.metrics.IncResourceDeleted(resourceUser)
	return deleted, nil
}

func userKey(user *model.User) string {
	return strconv.FormatInt(user.ID, 10)
}
