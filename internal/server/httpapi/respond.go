package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skorolevs/clipvault/internal/common"
)

// httpError translates a service error into an echo HTTPError carrying a
// short caller-facing message. Internal detail stays in the server log;
// credential-verification failures collapse into one generic message so the
// response never reveals whether the email exists.
func (s *Server) httpError(c echo.Context, err error) *echo.HTTPError {
	switch {
	case errors.Is(err, common.ErrMissingField):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNoSuchUser), errors.Is(err, common.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
	case errors.Is(err, common.ErrTokenExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	case errors.Is(err, common.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrVideoUploadFailed):
		return echo.NewHTTPError(http.StatusBadGateway, "video upload failed")
	case errors.Is(err, common.ErrThumbnailUploadFailed):
		return echo.NewHTTPError(http.StatusBadGateway, "thumbnail upload failed")
	case errors.Is(err, common.ErrPersistFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save video")
	default:
		s.logger.Error(c.Request().Context(), "unexpected error", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
