// Package refcode implements the two-phase reference-code protocol: a row is
// inserted with an empty placeholder code, the generated primary key is
// zero-padded into a prefixed human-readable code, and the same row is
// patched in place. All three steps must run inside one transaction so no
// committed row is ever visible without its code.
package refcode

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"challan-service/internal/apperr"
)

const padWidth = 6

// Code prefixes, persisted verbatim. The hyphen/no-hyphen convention per
// entity is fixed and load-bearing for existing data.
const (
	CatalogPrefix = "STDIT-"
	ChallanPrefix = "DC-"
	ItemPrefix    = "DCITEM"
)

// Format builds a reference code from a prefix and a generated primary key.
func Format(prefix string, id uint) string {
	return fmt.Sprintf("%s%0*d", prefix, padWidth, id)
}

// CatalogItem formats a catalog entry code, e.g. "STDIT-000042".
func CatalogItem(id uint) string { return Format(CatalogPrefix, id) }

// Challan formats a draft challan code, e.g. "DC-000042".
func Challan(id uint) string { return Format(ChallanPrefix, id) }

// ChallanItem formats a challan line-item code, e.g. "DCITEM000042".
func ChallanItem(id uint) string { return Format(ItemPrefix, id) }

// Parse decodes the generated primary key back out of a reference code.
func Parse(prefix, code string) (uint, error) {
	rest, ok := strings.CutPrefix(code, prefix)
	if !ok || len(rest) < padWidth {
		return 0, fmt.Errorf("malformed reference code %q for prefix %q", code, prefix)
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed reference code %q: %w", code, err)
	}
	return uint(id), nil
}

// Assign patches the freshly inserted row's code column inside the caller's
// transaction. row must carry its generated primary key. A failure here must
// roll back the insert it follows, so callers only invoke Assign from within
// the transaction that created the row.
func Assign(tx *gorm.DB, row any, column, code string) error {
	res := tx.Model(row).Update(column, code)
	if res.Error != nil {
		return apperr.Transaction("assign reference code", res.Error)
	}
	if res.RowsAffected != 1 {
		return apperr.Transaction("assign reference code",
			fmt.Errorf("expected 1 row, updated %d", res.RowsAffected))
	}
	return nil
}
