package middleware

import (
	"net/http"
	"strings"

	"analytics-service/internal/authz"
	"analytics-service/pkg/jwtutil"
	"analytics-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and stores the user identity and
// role in the request context.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

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

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		return next(c)
	}
}

// RequireFeature gates a route group on the role-to-permission policy table.
// Must run after AuthMiddleware.
func RequireFeature(feature string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			role, ok := RoleFromContext(c)
			if !ok {
				log.Warn("Missing role in request context")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			if !authz.Allows(role, feature) {
				log.Warn("Feature not permitted for role",
					zap.String("role", role),
					zap.String("feature", feature))
				return c.JSON(http.StatusForbidden, echo.Map{"error": "feature not permitted for role"})
			}

			return next(c)
		}
	}
}

// RoleFromContext retrieves the authenticated role from the context
func RoleFromContext(c echo.Context) (string, bool) {
	role, ok := c.Get("role").(string)
	return role, ok
}
