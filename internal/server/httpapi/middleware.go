package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skorolevs/clipvault/internal/server/auth"
	"github.com/skorolevs/clipvault/internal/server/models"
)

const identityContextKey = "identity"

// requireAuth resolves the caller's identity from the Authorization header.
// The validated session token is the only identity channel; handlers behind
// this middleware read the identity from the request context and nowhere
// else.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)

		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		identity, err := auth.Validate(strings.TrimPrefix(header, prefix), s.jwtSecret)
		if err != nil {
			return s.httpError(c, err)
		}

		c.Set(identityContextKey, identity)
		return next(c)
	}
}

// identityFrom returns the identity stored by requireAuth, or nil when the
// route was not authenticated.
func identityFrom(c echo.Context) *models.Identity {
	identity, _ := c.Get(identityContextKey).(*models.Identity)
	return identity
}
