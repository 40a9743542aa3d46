package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/microshop/microshop/internal/model"
)

// ListProducts returns every product ordered by _id ascending.
func (m *Mongo) ListProducts(ctx context.Context) ([]*model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*model.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// GetProduct retrieves a product by its hex ObjectID.
func (m *Mongo) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	var product model.Product
	err = m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}

	return &product, nil
}

// CreateProduct inserts a new product document with a fresh ObjectID.
func (m *Mongo) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	now := time.Now().UTC()
	doc := *product
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := m.coll.InsertOne(ctx, &doc); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &doc, nil
}

// UpdateProduct replaces name, price and stock of an existing product.
func (m *Mongo) UpdateProduct(ctx context.Context, id string, product *model.Product) (*model.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":       product.Name,
		"price":      product.Price,
		"stock":      product.Stock,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Product
	err = m.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &updated, nil
}

// DeleteProduct removes a product and returns the deleted document.
func (m *Mongo) DeleteProduct(ctx context.Context, id string) (*model.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	var deleted model.Product
	err = m.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	return &deleted, nil
}

func parseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
