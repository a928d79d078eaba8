// Package challan implements the draft challan lifecycle and the batched
// line-item write path. All multi-row writes run inside a single gorm
// transaction; nothing here takes in-process locks.
package challan

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"challan-service/internal/apperr"
	"challan-service/internal/model"
	"challan-service/internal/party"
	"challan-service/internal/refcode"
)

// Actor identifies the authenticated user performing a write.
type Actor struct {
	UserID  string
	Name    string
	IsAdmin bool
}

// Store owns the draft challan lifecycle: create, read, update and soft
// delete, including the denormalized party snapshot.
type Store struct {
	db      *gorm.DB
	parties *party.Directory
	log     *zap.Logger
}

// NewStore returns a challan store bound to the given database handle.
func NewStore(db *gorm.DB, parties *party.Directory, log *zap.Logger) *Store {
	return &Store{db: db, parties: parties, log: log}
}

// CreateInput carries the caller-supplied fields of a new draft challan.
type CreateInput struct {
	PartyID                 string    `json:"partyId" validate:"required"`
	ChallanType             string    `json:"dcType" validate:"required,oneof=SPM VALVE QC"`
	ChallanDate             time.Time `json:"dcDate" validate:"required"`
	VehicleNo               string    `json:"vehicleNo"`
	Process                 string    `json:"process"`
	TotalDispatchedQuantity float64   `json:"totalDispatchedQuantity"`
	TotalRate               float64   `json:"totalRate"`
	ShowWeight              bool      `json:"showWeight"`
	ShowSquareFeet          bool      `json:"showSquareFeet"`
	Notes                   string    `json:"notes"`
}

// UpdateInput carries a partial challan update. Nil fields are left as-is.
type UpdateInput struct {
	PartyID                 *string    `json:"partyId"`
	ChallanType             *string    `json:"dcType"`
	ChallanDate             *time.Time `json:"dcDate"`
	VehicleNo               *string    `json:"vehicleNo"`
	Process                 *string    `json:"process"`
	TotalDispatchedQuantity *float64   `json:"totalDispatchedQuantity"`
	TotalRate               *float64   `json:"totalRate"`
	ShowWeight              *bool      `json:"showWeight"`
	ShowSquareFeet          *bool      `json:"showSquareFeet"`
	Notes                   *string    `json:"notes"`
	Status                  *string    `json:"status"`
}

// Detail is a challan header together with its active line items.
type Detail struct {
	model.DraftChallan
	Items []model.DraftChallanItem `json:"draftDcItems"`
}

// Create snapshots the referenced party and inserts the challan with its
// reference code in one transaction. A failure assigning the code rolls the
// insert back; no committed challan ever lacks a code.
func (s *Store) Create(ctx context.Context, actor Actor, in CreateInput) (*model.DraftChallan, error) {
	p, err := s.parties.Lookup(ctx, in.PartyID)
	if err != nil {
		return nil, err
	}

	row := model.DraftChallan{
		PartyID:                 in.PartyID,
		UserID:                  actor.UserID,
		Status:                  model.StatusDraft,
		ChallanType:             in.ChallanType,
		ChallanDate:             in.ChallanDate,
		VehicleNo:               in.VehicleNo,
		Process:                 in.Process,
		TotalDispatchedQuantity: in.TotalDispatchedQuantity,
		TotalRate:               in.TotalRate,
		ShowWeight:              in.ShowWeight,
		ShowSquareFeet:          in.ShowSquareFeet,
		Notes:                   in.Notes,
		IsAdmin:                 actor.IsAdmin,
		PartySnapshot:           datatypes.NewJSONType(p.Snapshot()),
		CreatedBy:               actor.Name,
		UpdatedBy:               actor.Name,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return apperr.Transaction("insert draft challan", err)
		}
		row.DraftID = refcode.Challan(row.ID)
		return refcode.Assign(tx, &row, "draft_id", row.DraftID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("draft challan created",
		zap.String("draft_id", row.DraftID),
		zap.String("party_id", row.PartyID),
		zap.String("user_id", actor.UserID))
	return &row, nil
}

// Get fetches one of the owner's active draft challans by code, with its
// active line items.
func (s *Store) Get(ctx context.Context, ownerID, code string) (*Detail, error) {
	var row model.DraftChallan
	err := s.db.WithContext(ctx).
		Where("draft_id = ? AND user_id = ? AND status = ? AND deleted = ?",
			code, ownerID, model.StatusDraft, false).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("draft challan %s not found", code)
	}
	if err != nil {
		return nil, apperr.Transaction("fetch draft challan", err)
	}

	var items []model.DraftChallanItem
	if err := s.db.WithContext(ctx).
		Where("draft_id = ? AND deleted = ?", code, false).
		Order("id ASC").Find(&items).Error; err != nil {
		return nil, apperr.Transaction("fetch challan items", err)
	}
	return &Detail{DraftChallan: row, Items: items}, nil
}

// List returns the owner's active draft challans, newest first.
func (s *Store) List(ctx context.Context, ownerID string, page, limit int) ([]model.DraftChallan, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	q := s.db.WithContext(ctx).Model(&model.DraftChallan{}).
		Where("user_id = ? AND status = ? AND deleted = ?", ownerID, model.StatusDraft, false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Transaction("count draft challans", err)
	}

	var rows []model.DraftChallan
	if err := q.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Transaction("list draft challans", err)
	}
	for _, r := range rows {
		if r.DraftID == "" {
			return nil, 0, apperr.Integrity("challan row %d committed without a reference code", r.ID)
		}
	}
	return rows, total, nil
}

// Update applies a partial update to one of the owner's draft challans and
// unconditionally refreshes the party snapshot from the directory.
func (s *Store) Update(ctx context.Context, actor Actor, code string, in UpdateInput) (*model.DraftChallan, error) {
	var row model.DraftChallan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("draft_id = ? AND user_id = ? AND status = ? AND deleted = ?",
			code, actor.UserID, model.StatusDraft, false).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("draft challan %s not found", code)
			}
			return apperr.Transaction("fetch draft challan", err)
		}

		if in.PartyID != nil {
			row.PartyID = *in.PartyID
		}
		p, err := s.parties.LookupIn(tx, row.PartyID)
		if err != nil {
			return err
		}
		row.PartySnapshot = datatypes.NewJSONType(p.Snapshot())

		if in.ChallanType != nil {
			row.ChallanType = *in.ChallanType
		}
		if in.ChallanDate != nil {
			row.ChallanDate = *in.ChallanDate
		}
		if in.VehicleNo != nil {
			row.VehicleNo = *in.VehicleNo
		}
		if in.Process != nil {
			row.Process = *in.Process
		}
		if in.TotalDispatchedQuantity != nil {
			row.TotalDispatchedQuantity = *in.TotalDispatchedQuantity
		}
		if in.TotalRate != nil {
			row.TotalRate = *in.TotalRate
		}
		if in.ShowWeight != nil {
			row.ShowWeight = *in.ShowWeight
		}
		if in.ShowSquareFeet != nil {
			row.ShowSquareFeet = *in.ShowSquareFeet
		}
		if in.Notes != nil {
			row.Notes = *in.Notes
		}
		if in.Status != nil {
			next := model.ChallanStatus(*in.Status)
			switch next {
			case model.StatusDraft, model.StatusOpened, model.StatusPartial,
				model.StatusClosed, model.StatusDeleted:
				row.Status = next
			default:
				return apperr.Validation("unknown challan status %q", *in.Status)
			}
		}
		row.UpdatedBy = actor.Name

		if err := tx.Save(&row).Error; err != nil {
			return apperr.Transaction("update draft challan", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete tombstones one of the owner's draft challans and all of its line
// items. Items go first, in one batch update; the challan's status moves to
// DELETED alongside the tombstone flag. Documents are never physically
// removed.
func (s *Store) Delete(ctx context.Context, actor Actor, code string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.DraftChallan
		if err := tx.Where("draft_id = ? AND user_id = ? AND status = ? AND deleted = ?",
			code, actor.UserID, model.StatusDraft, false).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("draft challan %s not found", code)
			}
			return apperr.Transaction("fetch draft challan", err)
		}

		if err := tx.Model(&model.DraftChallanItem{}).
			Where("draft_id = ? AND deleted = ?", code, false).
			Updates(map[string]any{"deleted": true, "updated_by": actor.Name}).Error; err != nil {
			return apperr.Transaction("delete challan items", err)
		}
		if err := tx.Model(&row).
			Updates(map[string]any{
				"deleted":    true,
				"status":     model.StatusDeleted,
				"updated_by": actor.Name,
			}).Error; err != nil {
			return apperr.Transaction("delete draft challan", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("draft challan deleted",
		zap.String("draft_id", code),
		zap.String("user_id", actor.UserID))
	return nil
}
