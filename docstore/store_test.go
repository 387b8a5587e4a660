package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fruit struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, "test"), mr
}

func TestSaveAndFindOneByID(t *testing.T) {
	store, _ := newTestStore(t)
	col := store.Collection("fruits")
	ctx := context.Background()

	if err := col.Save(ctx, "f1", fruit{ID: "f1", Name: "apple", Count: 3}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var got fruit
	found, err := col.FindOne(ctx, Filter{"_id": "f1"}, &got)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if !found || got.Name != "apple" || got.Count != 3 {
		t.Fatalf("unexpected result: found=%v doc=%+v", found, got)
	}
}

func TestFindOneByIDWithoutIDField(t *testing.T) {
	store, _ := newTestStore(t)
	col := store.Collection("counters")
	ctx := context.Background()

	// The id is the storage key; the document body carries no _id field.
	type counter struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	}

	if err := col.Save(ctx, "c1", counter{Label: "hits", Count: 2}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var got counter
	found, err := col.FindOne(ctx, Filter{"_id": "c1"}, &got)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if !found || got.Count != 2 {
		t.Fatalf("id lookup must not require an _id body field: found=%v doc=%+v", found, got)
	}

	// Remaining filter fields still apply on the direct-key path.
	found, err = col.FindOne(ctx, Filter{"_id": "c1", "label": "misses"}, nil)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if found {
		t.Fatal("expected non-id field mismatch to reject the document")
	}
}

func TestFindOneByField(t *testing.T) {
	store, _ := newTestStore(t)
	col := store.Collection("fruits")
	ctx := context.Background()

	_ = col.Save(ctx, "f1", fruit{ID: "f1", Name: "apple"})
	_ = col.Save(ctx, "f2", fruit{ID: "f2", Name: "pear"})

	var got fruit
	found, err := col.FindOne(ctx, Filter{"name": "pear"}, &got)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if !found || got.ID != "f2" {
		t.Fatalf("unexpected result: found=%v doc=%+v", found, got)
	}

	found, err = col.FindOne(ctx, Filter{"name": "mango"}, nil)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if found {
		t.Fatal("expected no match")
	}
}

func TestFindOneNumericFilter(t *testing.T) {
	store, _ := newTestStore(t)
	col := store.Collection("fruits")
	ctx := context.Background()

	_ = col.Save(ctx, "f1", fruit{ID: "f1", Name: "apple", Count: 7})

	// ints in the filter must compare equal to JSON-decoded numbers
	var got fruit
	found, err := col.FindOne(ctx, Filter{"count": 7}, &got)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if !found {
		t.Fatal("numeric equality filter missed")
	}
}

func TestFindMany(t *testing.T) {
	store, _ := newTestStore(t)
	col := store.Collection("fruits")
	ctx := context.Background()

	_ = col.Save(ctx, "f1", fruit{ID: "f1", Name: "apple", Count: 1})
	_ = col.Save(ctx, "f2", fruit{ID: "f2", Name: "apple", Count: 2})
	_ = col.Save(ctx, "f3", fruit{ID: "f3", Name: "pear", Count: 3})

	var apples []fruit
	if err := col.FindMany(ctx, Filter{"name": "apple"}, &apples); err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if len(apples) != 2 {
		t.Fatalf("expected 2 apples, got %d", len(apples))
	}
	// sorted id order
	if apples[0].ID != "f1" || apples[1].ID != "f2" {
		t.Fatalf("unexpected order: %+v", apples)
	}

	var none []fruit
	if err := col.FindMany(ctx, Filter{"name": "mango"}, &none); err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %d", len(none))
	}
}

func TestSaveReplaces(t *testing.T) {
	store, _ := newTestStore(t)
	col := store.Collection("fruits")
	ctx := context.Background()

	_ = col.Save(ctx, "f1", fruit{ID: "f1", Name: "apple"})
	_ = col.Save(ctx, "f1", fruit{ID: "f1", Name: "pear"})

	var got fruit
	found, err := col.FindOne(ctx, Filter{"_id": "f1"}, &got)
	if err != nil || !found {
		t.Fatalf("FindOne failed: found=%v err=%v", found, err)
	}
	if got.Name != "pear" {
		t.Fatalf("expected replacement, got %+v", got)
	}

	var all []fruit
	if err := col.FindMany(ctx, Filter{}, &all); err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single document after replace, got %d", len(all))
	}
}

func TestUpdateOne(t *testing.T) {
	store, _ := newTestStore(t)
	col := store.Collection("fruits")
	ctx := context.Background()

	_ = col.Save(ctx, "f1", fruit{ID: "f1", Name: "apple", Count: 1})

	updated, err := col.UpdateOne(ctx, Filter{"_id": "f1"}, Filter{"count": 9})
	if err != nil {
		t.Fatalf("UpdateOne failed: %v", err)
	}
	if !updated {
		t.Fatal("expected update")
	}

	var got fruit
	_, _ = col.FindOne(ctx, Filter{"_id": "f1"}, &got)
	if got.Count != 9 || got.Name != "apple" {
		t.Fatalf("patch must overwrite only named fields: %+v", got)
	}

	updated, err = col.UpdateOne(ctx, Filter{"_id": "missing"}, Filter{"count": 1})
	if err != nil {
		t.Fatalf("UpdateOne failed: %v", err)
	}
	if updated {
		t.Fatal("expected no update for missing document")
	}
}

func TestDeleteOneAndMany(t *testing.T) {
	store, _ := newTestStore(t)
	col := store.Collection("fruits")
	ctx := context.Background()

	_ = col.Save(ctx, "f1", fruit{ID: "f1", Name: "apple"})
	_ = col.Save(ctx, "f2", fruit{ID: "f2", Name: "apple"})
	_ = col.Save(ctx, "f3", fruit{ID: "f3", Name: "pear"})

	var deleted fruit
	ok, err := col.DeleteOne(ctx, Filter{"_id": "f3"}, &deleted)
	if err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}
	if !ok || deleted.Name != "pear" {
		t.Fatalf("unexpected delete result: ok=%v doc=%+v", ok, deleted)
	}

	removed, err := col.DeleteMany(ctx, Filter{"name": "apple"})
	if err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	var all []fruit
	if err := col.FindMany(ctx, Filter{}, &all); err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty collection, got %d", len(all))
	}
}

func TestUnavailableStore(t *testing.T) {
	store, mr := newTestStore(t)
	col := store.Collection("fruits")
	ctx := context.Background()

	_ = col.Save(ctx, "f1", fruit{ID: "f1", Name: "apple"})
	mr.Close()

	if err := col.Save(ctx, "f2", fruit{ID: "f2"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from Save, got %v", err)
	}
	if _, err := col.FindOne(ctx, Filter{"_id": "f1"}, nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from FindOne, got %v", err)
	}
}
