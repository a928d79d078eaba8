package challan

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"challan-service/internal/apperr"
	"challan-service/internal/catalog"
	"challan-service/internal/model"
	"challan-service/internal/party"
	"challan-service/internal/refcode"
)

// ItemStore owns the batched line-item write path. Every batch is
// all-or-nothing: line-item rows, their reference codes and the catalog sync
// commit together or not at all.
type ItemStore struct {
	db      *gorm.DB
	catalog *catalog.Store
	parties *party.Directory
	log     *zap.Logger
}

// NewItemStore returns a line-item store bound to the given database handle.
func NewItemStore(db *gorm.DB, cat *catalog.Store, parties *party.Directory, log *zap.Logger) *ItemStore {
	return &ItemStore{db: db, catalog: cat, parties: parties, log: log}
}

// ItemInput carries one caller-supplied line item. Totals pass through
// unmodified; this layer does not recompute them.
type ItemInput struct {
	ItemName          string  `json:"itemName"`
	ItemDescription   string  `json:"itemDescription"`
	UOM               string  `json:"uom"`
	Quantity          float64 `json:"quantity"`
	WeightPerUnit     float64 `json:"weightPerUnit"`
	TotalWeight       float64 `json:"totalWeight"`
	SquareFeetPerUnit float64 `json:"squareFeetPerUnit"`
	TotalSquareFeet   float64 `json:"totalSquareFeet"`
	RatePerEach       float64 `json:"ratePerEach"`
	Remarks           string  `json:"remarks"`
	ProjectName       string  `json:"projectName"`
	ProjectIncharge   string  `json:"projectIncharge"`
	Notes             string  `json:"notes"`
}

func (in ItemInput) validate(i int) error {
	switch {
	case in.ItemName == "":
		return apperr.Validation("items[%d]: itemName is required", i)
	case in.ItemDescription == "":
		return apperr.Validation("items[%d]: itemDescription is required", i)
	case in.UOM == "":
		return apperr.Validation("items[%d]: uom is required", i)
	case in.Quantity <= 0:
		return apperr.Validation("items[%d]: quantity must be positive", i)
	case in.RatePerEach <= 0:
		return apperr.Validation("items[%d]: ratePerEach must be positive", i)
	case in.WeightPerUnit < 0, in.TotalWeight < 0:
		return apperr.Validation("items[%d]: weights must be non-negative", i)
	case in.SquareFeetPerUnit < 0, in.TotalSquareFeet < 0:
		return apperr.Validation("items[%d]: square feet must be non-negative", i)
	}
	return nil
}

// ItemUpdate carries a partial update addressed by line-item reference code.
// Nil fields are left as-is.
type ItemUpdate struct {
	ItemID            string   `json:"itemId"`
	ItemName          *string  `json:"itemName"`
	ItemDescription   *string  `json:"itemDescription"`
	UOM               *string  `json:"uom"`
	Quantity          *float64 `json:"quantity"`
	WeightPerUnit     *float64 `json:"weightPerUnit"`
	TotalWeight       *float64 `json:"totalWeight"`
	SquareFeetPerUnit *float64 `json:"squareFeetPerUnit"`
	TotalSquareFeet   *float64 `json:"totalSquareFeet"`
	RatePerEach       *float64 `json:"ratePerEach"`
	Remarks           *string  `json:"remarks"`
	ProjectName       *string  `json:"projectName"`
	ProjectIncharge   *string  `json:"projectIncharge"`
	Notes             *string  `json:"notes"`
}

// CreateItems writes a batch of line items under one draft challan. The whole
// batch is validated before anything is written; then every row is inserted
// and code-assigned, and finally the item names are synced to the catalog,
// all inside a single transaction.
func (s *ItemStore) CreateItems(ctx context.Context, actor Actor, draftCode, partyID string, inputs []ItemInput) ([]model.DraftChallanItem, error) {
	if draftCode == "" {
		return nil, apperr.Validation("draftId is required")
	}
	if partyID == "" {
		return nil, apperr.Validation("partyId is required")
	}
	if len(inputs) == 0 {
		return nil, apperr.Validation("at least one item must be provided")
	}
	for i, in := range inputs {
		if err := in.validate(i); err != nil {
			return nil, err
		}
	}

	created := make([]model.DraftChallanItem, 0, len(inputs))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.DraftChallan
		if err := tx.Where("draft_id = ? AND deleted = ?", draftCode, false).
			First(&doc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("draft challan %s not found", draftCode)
			}
			return apperr.Transaction("fetch draft challan", err)
		}
		if ok, err := s.parties.Exists(tx, partyID); err != nil {
			return err
		} else if !ok {
			return apperr.NotFound("party %s not found", partyID)
		}

		names := make([]string, 0, len(inputs))
		for _, in := range inputs {
			row := model.DraftChallanItem{
				DraftID:           draftCode,
				PartyID:           partyID,
				ItemName:          in.ItemName,
				ItemDescription:   in.ItemDescription,
				UOM:               in.UOM,
				Quantity:          in.Quantity,
				WeightPerUnit:     in.WeightPerUnit,
				TotalWeight:       in.TotalWeight,
				SquareFeetPerUnit: in.SquareFeetPerUnit,
				TotalSquareFeet:   in.TotalSquareFeet,
				RatePerEach:       in.RatePerEach,
				Remarks:           in.Remarks,
				ProjectName:       in.ProjectName,
				ProjectIncharge:   in.ProjectIncharge,
				Notes:             in.Notes,
				CreatedBy:         actor.Name,
				UpdatedBy:         actor.Name,
			}
			if err := tx.Create(&row).Error; err != nil {
				return apperr.Transaction("insert challan item", err)
			}
			row.ItemID = refcode.ChallanItem(row.ID)
			if err := refcode.Assign(tx, &row, "item_id", row.ItemID); err != nil {
				return err
			}
			created = append(created, row)
			names = append(names, in.ItemName)
		}

		// Catalog sync is sequenced after all item rows, inside the same
		// transaction, so items and new catalog entries commit atomically.
		if _, err := s.catalog.SyncNames(tx, names); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("challan items created",
		zap.String("draft_id", draftCode),
		zap.Int("count", len(created)))
	return created, nil
}

// UpdateItems applies a batch of partial updates addressed by item code. Any
// unknown code aborts the whole batch; renamed items are re-synced to the
// catalog within the same transaction.
func (s *ItemStore) UpdateItems(ctx context.Context, actor Actor, updates []ItemUpdate) ([]model.DraftChallanItem, error) {
	if len(updates) == 0 {
		return nil, apperr.Validation("at least one item must be provided")
	}
	for i, u := range updates {
		if u.ItemID == "" {
			return nil, apperr.Validation("items[%d]: itemId is required", i)
		}
	}

	out := make([]model.DraftChallanItem, 0, len(updates))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var renamed []string
		for _, u := range updates {
			var row model.DraftChallanItem
			if err := tx.Where("item_id = ? AND deleted = ?", u.ItemID, false).
				First(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("challan item %s not found", u.ItemID)
				}
				return apperr.Transaction("fetch challan item", err)
			}

			if u.ItemName != nil && *u.ItemName != row.ItemName {
				row.ItemName = *u.ItemName
				renamed = append(renamed, *u.ItemName)
			}
			if u.ItemDescription != nil {
				row.ItemDescription = *u.ItemDescription
			}
			if u.UOM != nil {
				row.UOM = *u.UOM
			}
			if u.Quantity != nil {
				row.Quantity = *u.Quantity
			}
			if u.WeightPerUnit != nil {
				row.WeightPerUnit = *u.WeightPerUnit
			}
			if u.TotalWeight != nil {
				row.TotalWeight = *u.TotalWeight
			}
			if u.SquareFeetPerUnit != nil {
				row.SquareFeetPerUnit = *u.SquareFeetPerUnit
			}
			if u.TotalSquareFeet != nil {
				row.TotalSquareFeet = *u.TotalSquareFeet
			}
			if u.RatePerEach != nil {
				row.RatePerEach = *u.RatePerEach
			}
			if u.Remarks != nil {
				row.Remarks = *u.Remarks
			}
			if u.ProjectName != nil {
				row.ProjectName = *u.ProjectName
			}
			if u.ProjectIncharge != nil {
				row.ProjectIncharge = *u.ProjectIncharge
			}
			if u.Notes != nil {
				row.Notes = *u.Notes
			}
			row.UpdatedBy = actor.Name

			if err := tx.Save(&row).Error; err != nil {
				return apperr.Transaction("update challan item", err)
			}
			out = append(out, row)
		}

		if len(renamed) > 0 {
			if _, err := s.catalog.SyncNames(tx, renamed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("challan items updated", zap.Int("count", len(out)))
	return out, nil
}

// GetItem fetches one active line item by its reference code.
func (s *ItemStore) GetItem(ctx context.Context, code string) (*model.DraftChallanItem, error) {
	var row model.DraftChallanItem
	err := s.db.WithContext(ctx).
		Where("item_id = ? AND deleted = ?", code, false).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("challan item %s not found", code)
	}
	if err != nil {
		return nil, apperr.Transaction("fetch challan item", err)
	}
	return &row, nil
}

// ListItems returns all active line items, optionally scoped to one challan.
func (s *ItemStore) ListItems(ctx context.Context, draftCode string) ([]model.DraftChallanItem, error) {
	q := s.db.WithContext(ctx).Where("deleted = ?", false)
	if draftCode != "" {
		q = q.Where("draft_id = ?", draftCode)
	}
	var rows []model.DraftChallanItem
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Transaction("list challan items", err)
	}
	for _, r := range rows {
		if r.ItemID == "" {
			return nil, apperr.Integrity("challan item row %d committed without a reference code", r.ID)
		}
	}
	return rows, nil
}
