package model

import "time"

// DraftChallanItem is one line of a draft challan. ItemID ("DCITEMNNNNNN") is
// derived from the generated ID after insert. Totals are supplied by the
// caller and stored as-is; this layer never recomputes them.
type DraftChallanItem struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	ItemID            string    `json:"itemId" gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_draft_challan_items_code,where:item_id <> ''"`
	DraftID           string    `json:"draftId" gorm:"type:varchar(100);not null;index"`
	PartyID           string    `json:"partyId" gorm:"type:varchar(100);not null"`
	ItemName          string    `json:"itemName" gorm:"type:varchar(255);not null"`
	ItemDescription   string    `json:"itemDescription" gorm:"type:text;not null"`
	UOM               string    `json:"uom" gorm:"type:varchar(50);not null"`
	Quantity          float64   `json:"quantity" gorm:"not null"`
	WeightPerUnit     float64   `json:"weightPerUnit" gorm:"not null"`
	TotalWeight       float64   `json:"totalWeight" gorm:"not null"`
	SquareFeetPerUnit float64   `json:"squareFeetPerUnit" gorm:"not null"`
	TotalSquareFeet   float64   `json:"totalSquareFeet" gorm:"not null"`
	RatePerEach       float64   `json:"ratePerEach" gorm:"not null"`
	Remarks           string    `json:"remarks" gorm:"type:text"`
	ProjectName       string    `json:"projectName" gorm:"type:varchar(255)"`
	ProjectIncharge   string    `json:"projectIncharge" gorm:"type:varchar(255)"`
	Notes             string    `json:"notes" gorm:"type:text"`
	CreatedBy         string    `json:"createdBy" gorm:"type:varchar(100)"`
	UpdatedBy         string    `json:"updatedBy" gorm:"type:varchar(100)"`
	Deleted           bool      `json:"-" gorm:"not null;default:false;index"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
