package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"challan-service/internal/challan"
	"challan-service/pkg/logger"
	"challan-service/prometheus"
)

// CreateItemsRequest defines the structure for the batch line-item create request
type CreateItemsRequest struct {
	DraftID string              `json:"draftId" validate:"required"`
	PartyID string              `json:"partyId" validate:"required"`
	Items   []challan.ItemInput `json:"items" validate:"required,min=1"`
}

// UpdateItemsRequest defines the structure for the batch line-item update request
type UpdateItemsRequest struct {
	Items []challan.ItemUpdate `json:"items" validate:"required,min=1"`
}

// ChallanItemHandler serves the draft challan line-item endpoints.
type ChallanItemHandler struct {
	store *challan.ItemStore
}

// NewChallanItemHandler returns a handler bound to the given item store.
func NewChallanItemHandler(store *challan.ItemStore) *ChallanItemHandler {
	return &ChallanItemHandler{store: store}
}

// List handles retrieving line items, optionally scoped to one challan
func (h *ChallanItemHandler) List(c echo.Context) error {
	rows, err := h.store.ListItems(c.Request().Context(), c.QueryParam("draftId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(rows),
		"data":  rows,
	})
}

// Get handles retrieving a single line item by its reference code
func (h *ChallanItemHandler) Get(c echo.Context) error {
	row, err := h.store.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

// CreateBatch handles creating a batch of line items under one challan.
// The batch and its catalog sync commit atomically or not at all.
func (h *ChallanItemHandler) CreateBatch(c echo.Context) error {
	log := logger.FromContext(c)
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID is required"})
	}

	var req CreateItemsRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rows, err := h.store.CreateItems(c.Request().Context(), actor, req.DraftID, req.PartyID, req.Items)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordItemBatch(len(rows))
	log.Info("Challan items created",
		zap.String("draft_id", req.DraftID),
		zap.Int("count", len(rows)))
	return c.JSON(http.StatusCreated, echo.Map{"items": rows})
}

// UpdateBatch handles updating a batch of line items by reference code.
// Any unknown code aborts the whole batch.
func (h *ChallanItemHandler) UpdateBatch(c echo.Context) error {
	log := logger.FromContext(c)
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID is required"})
	}

	var req UpdateItemsRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rows, err := h.store.UpdateItems(c.Request().Context(), actor, req.Items)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordItemBatch(len(rows))
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}
