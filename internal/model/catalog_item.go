package model

import "time"

// CatalogItem is one entry in the deduplicated master list of known item
// names. SearchText is the normalized form of ItemName and is unique among
// active rows; the partial index lets a soft-deleted name be re-created.
// StandardItemID is derived from the generated ID after insert and never
// changes once assigned.
type CatalogItem struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	StandardItemID string    `json:"standardItemId" gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_catalog_items_code,where:standard_item_id <> ''"`
	ItemName       string    `json:"itemName" gorm:"type:varchar(255);not null"`
	SearchText     string    `json:"searchText" gorm:"type:varchar(255);not null;uniqueIndex:idx_catalog_items_search_text,where:deleted = false"`
	Deleted        bool      `json:"-" gorm:"not null;default:false;index"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
