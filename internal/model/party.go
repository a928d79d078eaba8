package model

import "time"

// Party is a business partner record in the party directory. This service
// only reads parties; their lifecycle is owned elsewhere.
type Party struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	PartyID      string    `json:"partyId" gorm:"type:varchar(100);not null;uniqueIndex"`
	PartyName    string    `json:"partyName" gorm:"type:varchar(255);not null"`
	AddressLine1 string    `json:"addressLine1" gorm:"type:varchar(255)"`
	AddressLine2 string    `json:"addressLine2" gorm:"type:varchar(255)"`
	City         string    `json:"city" gorm:"type:varchar(255)"`
	State        string    `json:"state" gorm:"type:varchar(255)"`
	StateCode    int       `json:"stateCode"`
	PinCode      int       `json:"pinCode"`
	GSTINNumber  string    `json:"gstinNumber" gorm:"type:varchar(255)"`
	Email        string    `json:"email" gorm:"type:varchar(255)"`
	Phone        string    `json:"phone" gorm:"type:varchar(50)"`
	CreatedBy    string    `json:"createdBy" gorm:"type:varchar(50)"`
	UpdatedBy    string    `json:"updatedBy" gorm:"type:varchar(50)"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Snapshot copies the denormalized subset of party fields embedded into a
// draft challan.
func (p *Party) Snapshot() PartySnapshot {
	return PartySnapshot{
		PartyID:      p.PartyID,
		PartyName:    p.PartyName,
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		State:        p.State,
		StateCode:    p.StateCode,
		PinCode:      p.PinCode,
		Phone:        p.Phone,
		Email:        p.Email,
		GSTINNumber:  p.GSTINNumber,
	}
}
