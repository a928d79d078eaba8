package model

import (
	"time"

	"gorm.io/datatypes"
)

// ChallanStatus is the lifecycle state of a draft delivery challan.
type ChallanStatus string

const (
	StatusDraft   ChallanStatus = "DRAFT"
	StatusOpened  ChallanStatus = "OPENED"
	StatusPartial ChallanStatus = "PARTIAL"
	StatusClosed  ChallanStatus = "CLOSED"
	StatusDeleted ChallanStatus = "DELETED"
)

// PartySnapshot is the denormalized copy of a party's address and contact
// fields captured at challan write time. It is refreshed on every update.
type PartySnapshot struct {
	PartyID      string `json:"partyId"`
	PartyName    string `json:"partyName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	StateCode    int    `json:"stateCode"`
	PinCode      int    `json:"pinCode"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	GSTINNumber  string `json:"gstinNumber"`
}

// DraftChallan is an in-progress delivery challan header. DraftID ("DC-NNNNNN")
// is derived from the generated ID after insert; child items reference the
// challan by DraftID, not by the surrogate key.
type DraftChallan struct {
	ID                      uint                              `json:"id" gorm:"primarykey"`
	DraftID                 string                            `json:"draftId" gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_draft_challans_code,where:draft_id <> ''"`
	PartyID                 string                            `json:"partyId" gorm:"type:varchar(100);not null;index"`
	UserID                  string                            `json:"userId" gorm:"type:varchar(100);not null;index"`
	Status                  ChallanStatus                     `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ChallanType             string                            `json:"dcType" gorm:"type:varchar(20);not null"`
	ChallanDate             time.Time                         `json:"dcDate" gorm:"not null"`
	VehicleNo               string                            `json:"vehicleNo" gorm:"type:varchar(50)"`
	Process                 string                            `json:"process" gorm:"type:varchar(50)"`
	TotalDispatchedQuantity float64                           `json:"totalDispatchedQuantity"`
	TotalRate               float64                           `json:"totalRate"`
	ShowWeight              bool                              `json:"showWeight" gorm:"not null;default:false"`
	ShowSquareFeet          bool                              `json:"showSquareFeet" gorm:"not null;default:false"`
	Notes                   string                            `json:"notes" gorm:"type:text"`
	IsAdmin                 bool                              `json:"isAdmin" gorm:"not null;default:false"`
	PartySnapshot           datatypes.JSONType[PartySnapshot] `json:"partySnapshot"`
	CreatedBy               string                            `json:"createdBy" gorm:"type:varchar(100)"`
	UpdatedBy               string                            `json:"updatedBy" gorm:"type:varchar(100)"`
	Deleted                 bool                              `json:"-" gorm:"not null;default:false;index"`
	CreatedAt               time.Time                         `json:"createdAt"`
	UpdatedAt               time.Time                         `json:"updatedAt"`
}
