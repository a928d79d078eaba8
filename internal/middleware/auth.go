package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"challan-service/pkg/jwtutil"
	"challan-service/pkg/logger"
)

// AuthMiddleware validates the JWT token and attaches the authenticated
// user's identity to the request context
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}
		if claims.UserID == "" {
			log.Warn("JWT token does not contain user_id")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user_id is required in the token"})
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("is_admin", claims.IsAdmin())

		return next(c)
	}
}

// UserFromContext retrieves the authenticated user's identity from the
// context. ok is false when the auth middleware did not run.
func UserFromContext(c echo.Context) (userID, name string, isAdmin bool, ok bool) {
	userID, ok = c.Get("user_id").(string)
	if !ok || userID == "" {
		return "", "", false, false
	}
	name, _ = c.Get("user_name").(string)
	isAdmin, _ = c.Get("is_admin").(bool)
	return userID, name, isAdmin, true
}
