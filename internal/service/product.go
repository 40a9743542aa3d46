package service

import (
	"context"
	"log/slog"

	"github.com/microshop/microshop/internal/metrics"
	"github.com/microshop/microshop/internal/model"
)

const resourceProduct = "product"

// ProductStore persists products.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, product *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (*model.Product, error)
}

// ProductInput carries the optional fields of a product request body.
type ProductInput struct {
	Name  *string
	Price *float64
	Stock *int64
}

// validate checks required fields, applies the stock default and builds the entity.
func (in ProductInput) validate() (*model.Product, error) {
	var missing []string
	if in.Name == nil || *in.Name == "" {
		missing = append(missing, "name")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	var stock int64
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return nil, &ValidationError{Fields: []string{"stock"}, Reason: "stock must not be negative"}
	}

	return &model.Product{Name: *in.Name, Price: *in.Price, Stock: stock}, nil
}

// ProductService handles product business logic.
type ProductService struct {
	store   ProductStore
	cache   *entityCache
	metrics metrics.Recorder
}

// NewProductService creates a new ProductService. entities may be nil.
func NewProductService(store ProductStore, entities EntityCache, recorder metrics.Recorder, logger *slog.Logger) *ProductService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		store:   store,
		metrics: recorder,
		cache: &entityCache{
			cache:    entities,
			resource: resourceProduct,
			metrics:  recorder,
			logger:   logger,
		},
	}
}

// List returns all products in ascending id order.
func (s *ProductService) List(ctx context.Context) ([]*model.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if products == nil {
		products = []*model.Product{}
	}
	return products, nil
}

// Get retrieves a product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	var cached model.Product
	if s.cache.load(ctx, id, &cached) {
		return &cached, nil
	}

	gen := s.cache.generation()
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.cache.fill(ctx, product.ID.Hex(), gen, product)
	return product, nil
}

// Create validates input and inserts a new product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	product, err := in.validate()
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.metrics.IncResourceCreated(resourceProduct)
	return created, nil
}

// Update replaces name, price and stock. An absent stock resets to 0.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	product, err := in.validate()
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateProduct(ctx, id, product)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.cache.invalidate(ctx, updated.ID.Hex())
	s.metrics.IncResourceUpdated(resourceProduct)
	return updated, nil
}

// Delete removes a product and returns the deleted record.
func (s *ProductService) Delete(ctx context.Context, id string) (*model.Product, error) {
	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.cache.invalidate(ctx, deleted.ID.Hex())
	s.metrics.IncResourceDeleted(resourceProduct)
	return deleted, nil
}
