package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CredentialsRequest is the body for register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the issued session token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := s.users.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.httpError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    user,
	})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.httpError(c, err)
	}

	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token})
}
