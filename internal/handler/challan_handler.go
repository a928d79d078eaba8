package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"challan-service/internal/challan"
	"challan-service/internal/middleware"
	"challan-service/pkg/logger"
	"challan-service/prometheus"
)

// ChallanHandler serves the draft challan endpoints.
type ChallanHandler struct {
	store *challan.Store
}

// NewChallanHandler returns a handler bound to the given challan store.
func NewChallanHandler(store *challan.Store) *ChallanHandler {
	return &ChallanHandler{store: store}
}

func actorFrom(c echo.Context) (challan.Actor, bool) {
	userID, name, isAdmin, ok := middleware.UserFromContext(c)
	return challan.Actor{UserID: userID, Name: name, IsAdmin: isAdmin}, ok
}

// List handles retrieving the caller's draft challans, paginated
func (h *ChallanHandler) List(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID is required"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	rows, total, err := h.store.List(c.Request().Context(), actor.UserID, page, limit)
	if err != nil {
		return writeError(c, err)
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"meta": echo.Map{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": totalPages,
		},
		"data": rows,
	})
}

// Get handles retrieving one draft challan with its line items
func (h *ChallanHandler) Get(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID is required"})
	}

	detail, err := h.store.Get(c.Request().Context(), actor.UserID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Create handles creating a new draft challan
func (h *ChallanHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID is required"})
	}

	var req challan.CreateInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	row, err := h.store.Create(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordChallanOperation("create")
	return c.JSON(http.StatusCreated, row)
}

// Update handles updating a draft challan; the party snapshot is refreshed
// on every update
func (h *ChallanHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID is required"})
	}

	var req challan.UpdateInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	row, err := h.store.Update(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordChallanOperation("update")
	return c.JSON(http.StatusOK, row)
}

// Delete handles soft-deleting a draft challan and its line items
func (h *ChallanHandler) Delete(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID is required"})
	}

	if err := h.store.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	prometheus.RecordChallanOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Draft challan deleted"})
}
