//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/microshop/microshop/internal/model"
	"github.com/microshop/microshop/internal/testutil"
)

func newTestMongo(t *testing.T) (context.Context, *Mongo) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	uri := testutil.RequireEnv(t, "MONGO_URL")

	store, err := NewMongo(ctx, uri, "microshop_test", testutil.UniqueID("products"))
	if err != nil {
		t.Fatalf("create mongo store: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.coll.Drop(cleanupCtx)
		_ = store.Close(cleanupCtx)
	})

	return ctx, store
}

func TestIntegrationMongo_ProductLifecycle(t *testing.T) {
	ctx, store := newTestMongo(t)

	input := testutil.NewTestProduct(t, "Keyboard", 49.9)
	input.Stock = 3

	created, err := store.CreateProduct(ctx, input)
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("expected ObjectID to be assigned")
	}
	if !input.ID.IsZero() {
		t.Error("CreateProduct must not mutate its input")
	}

	got, err := store.GetProduct(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.ID != created.ID || got.Name != "Keyboard" || got.Price != 49.9 || got.Stock != 3 {
		t.Errorf("unexpected product %+v", got)
	}

	updated, err := store.UpdateProduct(ctx, created.ID.Hex(), &model.Product{Name: "Keyboard TKL", Price: 59})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "Keyboard TKL" || updated.Price != 59 || updated.Stock != 0 {
		t.Errorf("unexpected updated product %+v", updated)
	}

	deleted, err := store.DeleteProduct(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if deleted.ID != created.ID {
		t.Errorf("deleted wrong product %+v", deleted)
	}

	if _, err := store.GetProduct(ctx, created.ID.Hex()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after delete, got %v", err)
	}
	if _, err := store.DeleteProduct(ctx, created.ID.Hex()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestIntegrationMongo_ListOrderedByID(t *testing.T) {
	ctx, store := newTestMongo(t)

	products, err := store.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", products)
	}

	var ids []primitive.ObjectID
	for _, name := range []string{"a", "b", "c"} {
		p, err := store.CreateProduct(ctx, testutil.NewTestProduct(t, name, 1))
		if err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		ids = append(ids, p.ID)
	}

	products, err = store.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != len(ids) {
		t.Fatalf("expected %d products, got %d", len(ids), len(products))
	}
	for i := range ids {
		if products[i].ID != ids[i] {
			t.Errorf("products[%d] = %s, want %s", i, products[i].ID.Hex(), ids[i].Hex())
		}
	}
}

func TestIntegrationMongo_UnknownAndInvalidIDs(t *testing.T) {
	ctx, store := newTestMongo(t)
	unknown := primitive.NewObjectID().Hex()

	if _, err := store.GetProduct(ctx, unknown); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("GetProduct: expected ErrProductNotFound, got %v", err)
	}
	if _, err := store.UpdateProduct(ctx, unknown, testutil.NewTestProduct(t, "x", 1)); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("UpdateProduct: expected ErrProductNotFound, got %v", err)
	}
	if _, err := store.GetProduct(ctx, "nope"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("GetProduct: expected ErrInvalidID, got %v", err)
	}
}
