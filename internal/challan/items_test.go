package challan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"challan-service/internal/apperr"
	"challan-service/internal/catalog"
	"challan-service/internal/model"
	"challan-service/internal/party"
	"challan-service/internal/refcode"
	"challan-service/internal/testutil"
)

func validItemInput(name string) ItemInput {
	return ItemInput{
		ItemName:          name,
		ItemDescription:   "machined component",
		UOM:               "nos",
		Quantity:          10,
		WeightPerUnit:     1.5,
		TotalWeight:       15,
		SquareFeetPerUnit: 0,
		TotalSquareFeet:   0,
		RatePerEach:       120,
		Remarks:           "none",
		ProjectName:       "Plant 2",
		ProjectIncharge:   "Supervisor",
		Notes:             "handle with care",
	}
}

// setupItems seeds a party and a draft challan and returns the stores.
func setupItems(t *testing.T) (*gorm.DB, *ItemStore, *model.DraftChallan, string) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	parties := party.NewDirectory(db)
	cat := catalog.NewStore(db, log)
	challans := NewStore(db, parties, log)
	items := NewItemStore(db, cat, parties, log)

	p := testutil.SeedParty(t, db, "SUP-1234-001")
	row, err := challans.Create(context.Background(), testActor, validCreateInput(p.PartyID))
	if err != nil {
		t.Fatalf("create challan: %v", err)
	}
	return db, items, row, p.PartyID
}

func TestCreateItemsAssignsDistinctCodesAndSyncsCatalog(t *testing.T) {
	db, items, challanRow, partyID := setupItems(t)
	ctx := context.Background()

	bolt := validItemInput("Bolt")
	bolt.Quantity = 10
	boltUpper := validItemInput("BOLT")
	boltUpper.Quantity = 5

	rows, err := items.CreateItems(ctx, testActor, challanRow.DraftID, partyID, []ItemInput{bolt, boltUpper})
	if err != nil {
		t.Fatalf("CreateItems: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 items, got %d", len(rows))
	}
	if rows[0].ItemID == rows[1].ItemID {
		t.Fatalf("expected distinct codes, both %q", rows[0].ItemID)
	}
	for _, r := range rows {
		id, err := refcode.Parse(refcode.ItemPrefix, r.ItemID)
		if err != nil {
			t.Fatalf("Parse(%q): %v", r.ItemID, err)
		}
		if id != r.ID {
			t.Errorf("code %q decodes to %d, want %d", r.ItemID, id, r.ID)
		}
		if r.DraftID != challanRow.DraftID {
			t.Errorf("item parented to %q, want %q", r.DraftID, challanRow.DraftID)
		}
	}

	// Both spellings normalize to one catalog entry.
	var catRows []model.CatalogItem
	if err := db.Where("search_text = ? AND deleted = ?", "bolt", false).
		Find(&catRows).Error; err != nil {
		t.Fatalf("fetch catalog: %v", err)
	}
	if len(catRows) != 1 {
		t.Fatalf("expected exactly one Bolt catalog row, got %d", len(catRows))
	}
	if catRows[0].ItemName != "Bolt" {
		t.Fatalf("first-seen casing should win, got %q", catRows[0].ItemName)
	}
}

func TestCreateItemsInvalidItemCommitsNothing(t *testing.T) {
	db, items, challanRow, partyID := setupItems(t)
	ctx := context.Background()

	bad := validItemInput("Gasket")
	bad.Quantity = 0 // invalid

	_, err := items.CreateItems(ctx, testActor, challanRow.DraftID, partyID,
		[]ItemInput{validItemInput("Flange"), bad})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "items[1]") {
		t.Fatalf("error should name the offending item: %v", err)
	}

	var itemCount, catCount int64
	if err := db.Model(&model.DraftChallanItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if err := db.Model(&model.CatalogItem{}).Count(&catCount).Error; err != nil {
		t.Fatalf("count catalog: %v", err)
	}
	if itemCount != 0 || catCount != 0 {
		t.Fatalf("expected zero committed rows, got items=%d catalog=%d", itemCount, catCount)
	}
}

func TestCreateItemsUnknownChallanFails(t *testing.T) {
	_, items, _, partyID := setupItems(t)

	_, err := items.CreateItems(context.Background(), testActor, "DC-999999", partyID,
		[]ItemInput{validItemInput("Bolt")})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateItemsUnknownPartyFails(t *testing.T) {
	db, items, challanRow, _ := setupItems(t)

	_, err := items.CreateItems(context.Background(), testActor, challanRow.DraftID, "SUP-NOPE",
		[]ItemInput{validItemInput("Bolt")})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	var count int64
	if err := db.Model(&model.DraftChallanItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero committed rows, got %d", count)
	}
}

func TestUpdateItemsUnknownCodeAbortsBatch(t *testing.T) {
	db, items, challanRow, partyID := setupItems(t)
	ctx := context.Background()

	rows, err := items.CreateItems(ctx, testActor, challanRow.DraftID, partyID,
		[]ItemInput{validItemInput("Bolt"), validItemInput("Washer")})
	if err != nil {
		t.Fatalf("CreateItems: %v", err)
	}

	qty := 99.0
	_, err = items.UpdateItems(ctx, testActor, []ItemUpdate{
		{ItemID: rows[0].ItemID, Quantity: &qty},
		{ItemID: "DCITEM999999", Quantity: &qty},
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "DCITEM999999") {
		t.Fatalf("error should name the missing code: %v", err)
	}

	// Nothing in the batch may be applied, including the valid first entry.
	var stored model.DraftChallanItem
	if err := db.First(&stored, rows[0].ID).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if stored.Quantity != rows[0].Quantity {
		t.Fatalf("partial update leaked: quantity %v", stored.Quantity)
	}
}

func TestUpdateItemsRenameResyncsCatalog(t *testing.T) {
	db, items, challanRow, partyID := setupItems(t)
	ctx := context.Background()

	rows, err := items.CreateItems(ctx, testActor, challanRow.DraftID, partyID,
		[]ItemInput{validItemInput("Bolt")})
	if err != nil {
		t.Fatalf("CreateItems: %v", err)
	}

	name := "Hex Bolt"
	updated, err := items.UpdateItems(ctx, testActor, []ItemUpdate{
		{ItemID: rows[0].ItemID, ItemName: &name},
	})
	if err != nil {
		t.Fatalf("UpdateItems: %v", err)
	}
	if updated[0].ItemName != name {
		t.Fatalf("rename not applied: %q", updated[0].ItemName)
	}

	var count int64
	if err := db.Model(&model.CatalogItem{}).
		Where("search_text = ? AND deleted = ?", "hexbolt", false).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("renamed item not synced to catalog, count=%d", count)
	}
}

func TestItemsNeverCommittedWithoutCode(t *testing.T) {
	db, items, challanRow, partyID := setupItems(t)
	ctx := context.Background()

	if _, err := items.CreateItems(ctx, testActor, challanRow.DraftID, partyID,
		[]ItemInput{validItemInput("Bolt"), validItemInput("Nut"), validItemInput("Washer")}); err != nil {
		t.Fatalf("CreateItems: %v", err)
	}

	var count int64
	if err := db.Model(&model.DraftChallanItem{}).Where("item_id = ''").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("%d committed rows without a code", count)
	}
}

func TestGetItemAndList(t *testing.T) {
	_, items, challanRow, partyID := setupItems(t)
	ctx := context.Background()

	rows, err := items.CreateItems(ctx, testActor, challanRow.DraftID, partyID,
		[]ItemInput{validItemInput("Bolt")})
	if err != nil {
		t.Fatalf("CreateItems: %v", err)
	}

	got, err := items.GetItem(ctx, rows[0].ItemID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.ItemName != "Bolt" {
		t.Fatalf("unexpected item: %+v", got)
	}

	if _, err := items.GetItem(ctx, "DCITEM999999"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	listed, err := items.ListItems(ctx, challanRow.DraftID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 item, got %d", len(listed))
	}
}
