package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"challan-service/internal/catalog"
	"challan-service/pkg/logger"
	"challan-service/prometheus"
)

// CatalogItemRequest defines the structure for catalog item creation/update requests
type CatalogItemRequest struct {
	ItemName string `json:"itemName" validate:"required"`
}

// CatalogHandler serves the catalog item endpoints.
type CatalogHandler struct {
	store *catalog.Store
}

// NewCatalogHandler returns a handler bound to the given catalog store.
func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// List handles retrieving catalog items with optional search
func (h *CatalogHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	search := c.QueryParam("search")

	items, total, err := h.store.List(c.Request().Context(), search, page, limit)
	if err != nil {
		return writeError(c, err)
	}

	log.Info("Catalog items retrieved", zap.Int("count", len(items)), zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"data":  items,
	})
}

// Get handles retrieving a single catalog item by its reference code
func (h *CatalogHandler) Get(c echo.Context) error {
	code := c.Param("id")

	item, err := h.store.Get(c.Request().Context(), code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles creating a new catalog item
func (h *CatalogHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req CatalogItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.store.Create(c.Request().Context(), req.ItemName)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordCatalogOperation("create")
	log.Info("Catalog item created",
		zap.String("standard_item_id", item.StandardItemID),
		zap.String("item_name", item.ItemName))
	return c.JSON(http.StatusCreated, item)
}

// Update handles renaming an existing catalog item
func (h *CatalogHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	code := c.Param("id")

	var req CatalogItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.store.Update(c.Request().Context(), code, req.ItemName)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordCatalogOperation("update")
	log.Info("Catalog item updated",
		zap.String("standard_item_id", item.StandardItemID),
		zap.String("item_name", item.ItemName))
	return c.JSON(http.StatusOK, item)
}

// Delete handles soft-deleting a catalog item
func (h *CatalogHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	code := c.Param("id")

	if err := h.store.Delete(c.Request().Context(), code); err != nil {
		return writeError(c, err)
	}

	prometheus.RecordCatalogOperation("delete")
	log.Info("Catalog item deleted", zap.String("standard_item_id", code))
	return c.JSON(http.StatusOK, echo.Map{"message": "Item deleted successfully"})
}
