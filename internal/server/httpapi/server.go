// Package httpapi exposes the service over HTTP: route registration, the
// bearer-token identity middleware, and the mapping from service errors to
// HTTP status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/skorolevs/clipvault/internal/logging"
	"github.com/skorolevs/clipvault/internal/server/models"
	"github.com/skorolevs/clipvault/internal/server/services"
)

// UserProvider is the slice of the user service the API needs.
type UserProvider interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// VideoProvider is the slice of the video service the API needs.
type VideoProvider interface {
	Upload(ctx context.Context, identity *models.Identity, req *services.UploadRequest) (*models.Video, error)
	Get(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context) ([]*models.Video, error)
	Delete(ctx context.Context, identity *models.Identity, id string) error
}

const shutdownTimeout = 10 * time.Second

// Server is the public HTTP API for the service.
type Server struct {
	address   string
	logger    logging.Logger
	users     UserProvider
	videos    VideoProvider
	jwtSecret []byte
}

// NewServer constructs the HTTP server.
func NewServer(address string, l logging.Logger, users UserProvider, videos VideoProvider, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     users,
		videos:    videos,
		jwtSecret: []byte(secretKey),
	}
}

// routes wires middleware and endpoints onto the echo instance.
func (s *Server) routes(e *echo.Echo) {
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.GET("/videos", s.handleListVideos)
	api.GET("/videos/:id", s.handleGetVideo)

	// Secured routes (require a validated session token)
	secured := api.Group("", s.requireAuth)
	secured.POST("/videos", s.handleUploadVideo)
	secured.DELETE("/videos/:id", s.handleDeleteVideo)
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s.routes(e)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
