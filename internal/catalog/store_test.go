package catalog

import (
	"context"
	"errors"
	"testing"

	"challan-service/internal/apperr"
	"challan-service/internal/model"
	"challan-service/internal/refcode"
	"challan-service/internal/testutil"
)

func TestSyncNamesCreatesAndDeduplicates(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))

	res, err := store.SyncNames(db, []string{"Steel Rod", "steel-rod", "Copper Wire"})
	if err != nil {
		t.Fatalf("SyncNames: %v", err)
	}
	if len(res.Created) != 2 {
		t.Fatalf("expected 2 created, got %d", len(res.Created))
	}
	if len(res.Duplicates) != 1 || res.Duplicates[0] != "steel-rod" {
		t.Fatalf("expected [steel-rod] duplicates, got %v", res.Duplicates)
	}

	// First-seen display casing wins.
	if res.Created[0].ItemName != "Steel Rod" || res.Created[1].ItemName != "Copper Wire" {
		t.Fatalf("unexpected created names: %q, %q", res.Created[0].ItemName, res.Created[1].ItemName)
	}

	// Every created row carries a code derived from its generated id.
	for _, it := range res.Created {
		if it.StandardItemID == "" {
			t.Fatalf("row %d committed without a code", it.ID)
		}
		id, err := refcode.Parse(refcode.CatalogPrefix, it.StandardItemID)
		if err != nil {
			t.Fatalf("Parse(%q): %v", it.StandardItemID, err)
		}
		if id != it.ID {
			t.Errorf("code %q decodes to %d, want %d", it.StandardItemID, id, it.ID)
		}
	}

	var count int64
	if err := db.Model(&model.CatalogItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 catalog rows, got %d", count)
	}
}

func TestSyncNamesIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))

	names := []string{"Gasket", "Flange", "Bolt"}
	if _, err := store.SyncNames(db, names); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	res, err := store.SyncNames(db, names)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if len(res.Created) != 0 {
		t.Fatalf("second sync created %d rows, want 0", len(res.Created))
	}
	if len(res.Duplicates) != len(names) {
		t.Fatalf("second sync reported %d duplicates, want %d", len(res.Duplicates), len(names))
	}
}

func TestSyncNamesEmptyKeyIsLegal(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))

	res, err := store.SyncNames(db, []string{" - ", "_"})
	if err != nil {
		t.Fatalf("SyncNames: %v", err)
	}
	// Both names normalize to the empty key; one row, one duplicate.
	if len(res.Created) != 1 || len(res.Duplicates) != 1 {
		t.Fatalf("created=%d duplicates=%d, want 1/1", len(res.Created), len(res.Duplicates))
	}
	if res.Created[0].SearchText != "" {
		t.Fatalf("expected empty search key, got %q", res.Created[0].SearchText)
	}
}

func TestCreateConflictOnSameKey(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))
	ctx := context.Background()

	first, err := store.Create(ctx, "Gasket")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.StandardItemID != refcode.CatalogItem(first.ID) {
		t.Fatalf("unexpected code %q", first.StandardItemID)
	}

	// The second writer goes straight to the unique index and must observe
	// a conflict, not a crash, and must not commit a second row.
	_, err = store.Create(ctx, "GAS-KET")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	var count int64
	if err := db.Model(&model.CatalogItem{}).Where("search_text = ?", "gasket").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one gasket row, got %d", count)
	}
}

func TestUpdateRenamesAndDetectsConflicts(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))
	ctx := context.Background()

	rod, err := store.Create(ctx, "Steel Rod")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, "Copper Wire"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Self-rename that keeps the key is allowed.
	got, err := store.Update(ctx, rod.StandardItemID, "STEEL ROD")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ItemName != "STEEL ROD" || got.SearchText != "steelrod" {
		t.Fatalf("unexpected row after rename: %+v", got)
	}

	// Renaming onto another active row's key is a conflict.
	if _, err := store.Update(ctx, rod.StandardItemID, "copper-wire"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if _, err := store.Update(ctx, "STDIT-999999", "anything"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteFreesSearchKey(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))
	ctx := context.Background()

	item, err := store.Create(ctx, "Valve Seat")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, item.StandardItemID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, item.StandardItemID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	// Uniqueness holds over active rows only; the key is reusable now.
	again, err := store.Create(ctx, "Valve Seat")
	if err != nil {
		t.Fatalf("Create after delete: %v", err)
	}
	if again.ID == item.ID {
		t.Fatalf("expected a fresh row, got the tombstoned one")
	}
}

func TestListFiltersAndSearches(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))
	ctx := context.Background()

	for _, name := range []string{"Steel Rod", "Steel Plate", "Copper Wire"} {
		if _, err := store.Create(ctx, name); err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
	}

	items, total, err := store.List(ctx, "steel", 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 steel rows, got total=%d len=%d", total, len(items))
	}
	// Ordered by display name.
	if items[0].ItemName != "Steel Plate" || items[1].ItemName != "Steel Rod" {
		t.Fatalf("unexpected order: %q, %q", items[0].ItemName, items[1].ItemName)
	}
}
