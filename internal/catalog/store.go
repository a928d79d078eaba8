package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"challan-service/internal/apperr"
	"challan-service/internal/model"
	"challan-service/internal/refcode"
	"challan-service/prometheus"
)

// Store owns reads and writes of the catalog master table. Concurrency
// correctness rests on the partial unique index over SearchText: the store
// never locks in-process, it treats insert-time unique violations as benign
// duplicates and resolves them against the winning row.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStore returns a catalog store bound to the given database handle.
func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// SyncResult reports the outcome of a SyncNames call. Duplicates holds the
// display names that already had an active catalog row (or collapsed onto an
// earlier name in the same batch).
type SyncResult struct {
	Created    []model.CatalogItem `json:"created"`
	Duplicates []string            `json:"duplicates"`
}

// SyncNames ensures every name in the batch exists in the catalog exactly
// once. It runs inside the caller's transaction so catalog rows become
// visible atomically with whatever write produced the names. Existing rows
// are never mutated by this path.
func (s *Store) SyncNames(tx *gorm.DB, names []string) (*SyncResult, error) {
	defer prometheus.TrackDBOperation("catalog_sync")(time.Now())
	res := &SyncResult{}

	// Dedupe the batch by normalized key; first-seen display casing wins.
	keys := make([]string, 0, len(names))
	byKey := make(map[string]string, len(names))
	for _, name := range names {
		k := Normalize(name)
		if _, seen := byKey[k]; seen {
			res.Duplicates = append(res.Duplicates, name)
			continue
		}
		byKey[k] = name
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return res, nil
	}

	// One read for the whole batch.
	var existing []model.CatalogItem
	if err := tx.Where("search_text IN ? AND deleted = ?", keys, false).
		Find(&existing).Error; err != nil {
		return nil, apperr.Transaction("fetch existing catalog entries", err)
	}
	existingKeys := make(map[string]bool, len(existing))
	for _, it := range existing {
		existingKeys[it.SearchText] = true
	}

	for _, k := range keys {
		name := byKey[k]
		if existingKeys[k] {
			res.Duplicates = append(res.Duplicates, name)
			continue
		}
		item, created, err := s.insertOne(tx, name, k)
		if err != nil {
			return nil, err
		}
		if !created {
			// A concurrent writer got there first between our read and
			// insert; the name is a duplicate now, not an error.
			res.Duplicates = append(res.Duplicates, name)
			continue
		}
		res.Created = append(res.Created, *item)
	}

	prometheus.RecordCatalogSync(len(res.Created), len(res.Duplicates))
	s.log.Info("catalog sync completed",
		zap.Int("created", len(res.Created)),
		zap.Int("duplicates", len(res.Duplicates)))
	return res, nil
}

// insertOne inserts a catalog row and assigns its code inside a savepoint so
// a unique violation does not poison the enclosing transaction. When the
// insert loses a concurrent race it returns the winning row with created ==
// false.
func (s *Store) insertOne(tx *gorm.DB, name, key string) (*model.CatalogItem, bool, error) {
	item := model.CatalogItem{ItemName: name, SearchText: key}
	err := tx.Transaction(func(inner *gorm.DB) error {
		if err := inner.Create(&item).Error; err != nil {
			return err
		}
		item.StandardItemID = refcode.CatalogItem(item.ID)
		return refcode.Assign(inner, &item, "standard_item_id", item.StandardItemID)
	})
	if err == nil {
		return &item, true, nil
	}
	if !apperr.IsUniqueViolation(err) {
		if errors.Is(err, apperr.ErrTransaction) {
			return nil, false, err
		}
		return nil, false, apperr.Transaction("insert catalog entry", err)
	}

	// Lost the insert race. Under read committed the winner's committed row
	// is visible to a fresh statement; surface a retryable conflict if it
	// somehow is not.
	var winner model.CatalogItem
	if ferr := tx.Where("search_text = ? AND deleted = ?", key, false).
		First(&winner).Error; ferr != nil {
		return nil, false, apperr.Conflict("catalog entry %q was created concurrently, retry the sync", name)
	}
	s.log.Warn("lost catalog insert race, resolved to existing row",
		zap.String("item_name", name),
		zap.String("standard_item_id", winner.StandardItemID))
	return &winner, false, nil
}

// Create inserts a single catalog entry and assigns its code in one
// transaction. Returns a conflict error when an active row already owns the
// normalized key.
func (s *Store) Create(ctx context.Context, name string) (*model.CatalogItem, error) {
	var item *model.CatalogItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, created, err := s.insertOne(tx, name, Normalize(name))
		if err != nil {
			return err
		}
		if !created {
			return apperr.Conflict("item %q already exists as %s", name, row.StandardItemID)
		}
		item = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update rewrites the display name (and therefore the search key) of the row
// identified by code. Returns a conflict error when the target key already
// belongs to a different active row.
func (s *Store) Update(ctx context.Context, code, name string) (*model.CatalogItem, error) {
	key := Normalize(name)
	var item model.CatalogItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("standard_item_id = ? AND deleted = ?", code, false).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("catalog item %s not found", code)
			}
			return apperr.Transaction("fetch catalog item", err)
		}

		var others int64
		if err := tx.Model(&model.CatalogItem{}).
			Where("search_text = ? AND deleted = ? AND id <> ?", key, false, item.ID).
			Count(&others).Error; err != nil {
			return apperr.Transaction("check catalog key ownership", err)
		}
		if others > 0 {
			return apperr.Conflict("item %q already exists", name)
		}

		item.ItemName = name
		item.SearchText = key
		if err := tx.Model(&item).
			Updates(map[string]any{"item_name": name, "search_text": key}).Error; err != nil {
			if apperr.IsUniqueViolation(err) {
				return apperr.Conflict("item %q already exists", name)
			}
			return apperr.Transaction("update catalog item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Get fetches one active catalog entry by its reference code.
func (s *Store) Get(ctx context.Context, code string) (*model.CatalogItem, error) {
	var item model.CatalogItem
	err := s.db.WithContext(ctx).
		Where("standard_item_id = ? AND deleted = ?", code, false).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("catalog item %s not found", code)
	}
	if err != nil {
		return nil, apperr.Transaction("fetch catalog item", err)
	}
	return &item, nil
}

// List returns active catalog entries ordered by display name, optionally
// filtered by a substring match on the normalized search key.
func (s *Store) List(ctx context.Context, search string, page, limit int) ([]model.CatalogItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := s.db.WithContext(ctx).Model(&model.CatalogItem{}).Where("deleted = ?", false)
	if key := Normalize(search); len(key) >= 2 {
		q = q.Where("search_text LIKE ?", "%"+key+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Transaction("count catalog items", err)
	}

	var items []model.CatalogItem
	if err := q.Order("item_name ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&items).Error; err != nil {
		return nil, 0, apperr.Transaction("list catalog items", err)
	}
	for _, it := range items {
		if it.StandardItemID == "" {
			return nil, 0, apperr.Integrity("catalog row %d committed without a reference code", it.ID)
		}
	}
	return items, total, nil
}

// Delete tombstones one catalog entry. The partial unique index frees its
// search key for future inserts.
func (s *Store) Delete(ctx context.Context, code string) error {
	res := s.db.WithContext(ctx).Model(&model.CatalogItem{}).
		Where("standard_item_id = ? AND deleted = ?", code, false).
		Update("deleted", true)
	if res.Error != nil {
		return apperr.Transaction("delete catalog item", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("catalog item %s not found", code)
	}
	return nil
}
