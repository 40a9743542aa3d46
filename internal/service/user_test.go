package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/microshop/microshop/internal/cache"
	"github.com/microshop/microshop/internal/metrics"
	"github.com/microshop/microshop/internal/testutil"
)

func newUserTestEnv(t *testing.T) (context.Context, *UserService, *testutil.UserStore) {
	t.Helper()
	store := testutil.NewUserStore()
	return context.Background(), NewUserService(store, nil, nil, nil), store
}

func TestUserService_CreateThenGet(t *testing.T) {
	ctx, svc, _ := newUserTestEnv(t)

	created, err := svc.Create(ctx, UserInput{
		Name:  testutil.StringPtr("Ada"),
		Email: testutil.StringPtr("ada@example.com"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}

	got, err := svc.Get(ctx, strconv.FormatInt(created.ID, 10))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if *got != *created {
		t.Errorf("Get = %+v, want %+v", got, created)
	}
}

func TestUserService_CreateValidationErrors(t *testing.T) {
	ctx, svc, store := newUserTestEnv(t)

	tests := []struct {
		name        string
		input       UserInput
		wantMessage string
	}{
		{"empty", UserInput{}, "name & email required"},
		{"missing_email", UserInput{Name: testutil.StringPtr("Ada")}, "email required"},
		{"missing_name", UserInput{Email: testutil.StringPtr("ada@example.com")}, "name required"},
		{"blank_name", UserInput{Name: testutil.StringPtr(""), Email: testutil.StringPtr("a@b")}, "name required"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.Create(ctx, test.input)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if err.Error() != test.wantMessage {
				t.Errorf("message = %q, want %q", err.Error(), test.wantMessage)
			}
		})
	}

	if store.Len() != 0 {
		t.Errorf("expected no users stored, got %d", store.Len())
	}
}

func TestUserService_UnknownIDs(t *testing.T) {
	ctx, svc, _ := newUserTestEnv(t)
	input := UserInput{Name: testutil.StringPtr("Ada"), Email: testutil.StringPtr("ada@example.com")}

	if _, err := svc.Get(ctx, "999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "999", input); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Delete(ctx, "999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestUserService_InvalidID(t *testing.T) {
	ctx, svc, _ := newUserTestEnv(t)

	for _, id := range []string{"abc", "0", "-3", "1.5"} {
		t.Run(id, func(t *testing.T) {
			if _, err := svc.Get(ctx, id); !errors.Is(err, ErrInvalidID) {
				t.Errorf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}

func TestUserService_UpdateValidationLeavesRecordUnchanged(t *testing.T) {
	ctx, svc, _ := newUserTestEnv(t)

	created, err := svc.Create(ctx, UserInput{Name: testutil.StringPtr("Ada"), Email: testutil.StringPtr("ada@example.com")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	id := strconv.FormatInt(created.ID, 10)

	_, err = svc.Update(ctx, id, UserInput{Name: testutil.StringPtr("Grace")})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Ada" || got.Email != "ada@example.com" {
		t.Errorf("record changed after failed update: %+v", got)
	}
}

func TestUserService_UpdateReplacesFields(t *testing.T) {
	ctx, svc, _ := newUserTestEnv(t)

	created, _ := svc.Create(ctx, UserInput{Name: testutil.StringPtr("Ada"), Email: testutil.StringPtr("ada@example.com")})
	id := strconv.FormatInt(created.ID, 10)

	updated, err := svc.Update(ctx, id, UserInput{Name: testutil.StringPtr("Grace"), Email: testutil.StringPtr("grace@example.com")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "Grace" || updated.Email != "grace@example.com" {
		t.Errorf("unexpected update result: %+v", updated)
	}
}

func TestUserService_DeleteTwice(t *testing.T) {
	ctx, svc, _ := newUserTestEnv(t)

	created, _ := svc.Create(ctx, UserInput{Name: testutil.StringPtr("Ada"), Email: testutil.StringPtr("ada@example.com")})
	id := strconv.FormatInt(created.ID, 10)

	deleted, err := svc.Delete(ctx, id)
	if err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if *deleted != *created {
		t.Errorf("deleted = %+v, want %+v", deleted, created)
	}

	if _, err := svc.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestUserService_ListAscendingUnderConcurrentWrites(t *testing.T) {
	ctx, svc, _ := newUserTestEnv(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("user-%d", i)
			_, _ = svc.Create(ctx, UserInput{Name: &name, Email: testutil.StringPtr(name + "@example.com")})
		}(i)
	}
	wg.Wait()

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 50 {
		t.Fatalf("expected 50 users, got %d", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].ID >= users[i].ID {
			t.Fatalf("users not in ascending order at %d: %d >= %d", i, users[i-1].ID, users[i].ID)
		}
	}
}

func TestUserService_ListEmpty(t *testing.T) {
	ctx, svc, _ := newUserTestEnv(t)

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", users)
	}
}

func TestUserService_StoreUnavailable(t *testing.T) {
	ctx, svc, store := newUserTestEnv(t)
	store.FailWith(errConnRefused)

	_, err := svc.List(ctx)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, errConnRefused) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}

	_, err = svc.Create(ctx, UserInput{Name: testutil.StringPtr("Ada"), Email: testutil.StringPtr("a@b")})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Create: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestUserService_CacheReadThroughAndInvalidation(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewUserStore()
	entities := newFakeCache()
	recorder := metrics.NewInMemory()
	svc := NewUserService(store, entities, recorder, nil)

	created, _ := svc.Create(ctx, UserInput{Name: testutil.StringPtr("Ada"), Email: testutil.StringPtr("ada@example.com")})
	id := strconv.FormatInt(created.ID, 10)
	key := cache.Key("user", id)

	if _, err := svc.Get(ctx, id); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !entities.has(key) {
		t.Fatal("expected user to be cached after first Get")
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("cached Get failed: %v", err)
	}
	if *got != *created {
		t.Errorf("cached Get = %+v, want %+v", got, created)
	}

	snap := recorder.Snapshot()
	if snap.CacheMisses["user"] != 1 || snap.CacheHits["user"] != 1 {
		t.Errorf("unexpected cache counters: hits=%d misses=%d", snap.CacheHits["user"], snap.CacheMisses["user"])
	}

	if _, err := svc.Update(ctx, id, UserInput{Name: testutil.StringPtr("Grace"), Email: testutil.StringPtr("g@example.com")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if entities.has(key) {
		t.Error("expected cache entry to be invalidated on update")
	}

	got, _ = svc.Get(ctx, id)
	if got.Name != "Grace" {
		t.Errorf("expected fresh read after update, got %+v", got)
	}

	if _, err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if entities.has(key) {
		t.Error("expected cache entry to be invalidated on delete")
	}
	if _, err := svc.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUserService_CacheFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewUserStore()
	entities := newFakeCache()
	svc := NewUserService(store, entities, nil, nil)

	created, _ := svc.Create(ctx, UserInput{Name: testutil.StringPtr("Ada"), Email: testutil.StringPtr("ada@example.com")})
	entities.err = errors.New("redis: connection pool timeout")

	got, err := svc.Get(ctx, strconv.FormatInt(created.ID, 10))
	if err != nil {
		t.Fatalf("expected store fallback, got %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("unexpected user %+v", got)
	}
}

func TestUserService_Metrics(t *testing.T) {
	ctx := context.Background()
	recorder := metrics.NewInMemory()
	svc := NewUserService(testutil.NewUserStore(), nil, recorder, nil)

	created, _ := svc.Create(ctx, UserInput{Name: testutil.StringPtr("Ada"), Email: testutil.StringPtr("a@b")})
	id := strconv.FormatInt(created.ID, 10)
	_, _ = svc.Update(ctx, id, UserInput{Name: testutil.StringPtr("Ada"), Email: testutil.StringPtr("a@c")})
	_, _ = svc.Delete(ctx, id)
	_, _ = svc.Delete(ctx, id)

	snap := recorder.Snapshot()
	if snap.ResourcesCreated["user"] != 1 || snap.ResourcesUpdated["user"] != 1 || snap.ResourcesDeleted["user"] != 1 {
		t.Errorf("unexpected counters: %+v", snap)
	}
}

func TestUserService_GetRacingUpdateDoesNotCacheStaleRecord(t *testing.T) {
	ctx := context.Background()
	store := newPausingUserStore()
	entities := newFakeCache()
	svc := NewUserService(store, entities, nil, nil)

	created, err := store.CreateUser(ctx, testutil.NewTestUser(t, "old"))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	id := strconv.FormatInt(created.ID, 10)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, id)
		done <- err
	}()

	<-store.read
	if _, err := svc.Update(ctx, id, UserInput{Name: testutil.StringPtr("new"), Email: testutil.StringPtr("new@example.com")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("racing Get failed: %v", err)
	}

	if entities.has(cache.Key("user", id)) {
		t.Error("expected the read that started before the update not to fill the cache")
	}
	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "new" {
		t.Errorf("Get after update returned name %q, want %q", got.Name, "new")
	}
}
