// Package party exposes read access to the party directory. Party records
// are owned by an external system; this service only looks them up to take
// snapshots and to validate references.
package party

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"challan-service/internal/apperr"
	"challan-service/internal/model"
)

// Directory resolves party references.
type Directory struct {
	db *gorm.DB
}

// NewDirectory returns a party directory bound to the given database handle.
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// Lookup fetches one party by its external party id.
func (d *Directory) Lookup(ctx context.Context, partyID string) (*model.Party, error) {
	return d.LookupIn(d.db.WithContext(ctx), partyID)
}

// LookupIn fetches one party using the caller's transaction. Writers that
// snapshot a party mid-transaction must use this form so the read shares the
// transaction's connection.
func (d *Directory) LookupIn(tx *gorm.DB, partyID string) (*model.Party, error) {
	var p model.Party
	err := tx.Where("party_id = ?", partyID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("party %s not found", partyID)
	}
	if err != nil {
		return nil, apperr.Transaction("fetch party", err)
	}
	return &p, nil
}

// Exists reports whether a party id resolves, using the caller's transaction.
func (d *Directory) Exists(tx *gorm.DB, partyID string) (bool, error) {
	var count int64
	if err := tx.Model(&model.Party{}).Where("party_id = ?", partyID).
		Count(&count).Error; err != nil {
		return false, apperr.Transaction("check party reference", err)
	}
	return count > 0, nil
}
