// Package testutil provides the in-memory database and fixtures shared by
// store tests.
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"challan-service/internal/model"
)

// DB opens a fresh in-memory sqlite database with the full schema migrated.
// Error translation is enabled to match the production handle, so unique
// violations surface as gorm.ErrDuplicatedKey in tests too.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.CatalogItem{},
		&model.DraftChallan{},
		&model.DraftChallanItem{},
		&model.Party{},
	); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// Logger returns a no-op logger for store construction in tests.
func Logger(tb testing.TB) *zap.Logger {
	tb.Helper()
	return zap.NewNop()
}

// SeedParty inserts a party directory row.
func SeedParty(tb testing.TB, db *gorm.DB, partyID string) *model.Party {
	tb.Helper()
	p := &model.Party{
		PartyID:      partyID,
		PartyName:    "Acme Forgings",
		AddressLine1: "Plot 12, Industrial Estate",
		AddressLine2: "Phase II",
		City:         "Coimbatore",
		State:        "Tamil Nadu",
		StateCode:    33,
		PinCode:      641021,
		GSTINNumber:  "33AAACA1111A1Z5",
		Email:        "dispatch@acme.example",
		Phone:        "9876543210",
		CreatedBy:    "seed",
		UpdatedBy:    "seed",
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed party: %v", err)
	}
	return p
}
