package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"challan-service/internal/apperr"
	"challan-service/pkg/logger"
)

// writeError maps a store error onto the HTTP surface. Validation and
// missing references surface before any mutation; conflicts mean the
// enclosing transaction already rolled back.
func writeError(c echo.Context, err error) error {
	log := logger.FromContext(c)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrIntegrity):
		log.Error("data integrity violation", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal data inconsistency"})
	default:
		log.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
