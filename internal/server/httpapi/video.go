package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skorolevs/clipvault/internal/server/models"
	"github.com/skorolevs/clipvault/internal/server/services"
)

// readFormFile reads a multipart file field fully into memory. A missing
// field returns empty bytes; the service reports it as a missing-field
// validation error before any upload is attempted.
func readFormFile(c echo.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", field, err)
	}

	return data, fh.Filename, nil
}

func (s *Server) handleUploadVideo(c echo.Context) error {
	req := &services.UploadRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}

	var err error
	if req.Video, req.VideoFileName, err = readFormFile(c, "video"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable video file")
	}
	if req.Thumbnail, req.ThumbnailFileName, err = readFormFile(c, "thumbnail"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable thumbnail file")
	}

	if raw := c.FormValue("quality"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "quality must be an integer")
		}
		req.Quality = &q
	}

	video, err := s.videos.Upload(c.Request().Context(), identityFrom(c), req)
	if err != nil {
		return s.httpError(c, err)
	}

	return c.JSON(http.StatusCreated, video)
}

func (s *Server) handleGetVideo(c echo.Context) error {
	video, err := s.videos.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.httpError(c, err)
	}
	return c.JSON(http.StatusOK, video)
}

func (s *Server) handleListVideos(c echo.Context) error {
	videos, err := s.videos.List(c.Request().Context())
	if err != nil {
		return s.httpError(c, err)
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	return c.JSON(http.StatusOK, videos)
}

func (s *Server) handleDeleteVideo(c echo.Context) error {
	err := s.videos.Delete(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return s.httpError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
