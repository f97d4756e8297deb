// Package handlers contains the handlers for the API
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lmtuitions/sessionmanagerapi/internal/service"
	"github.com/lmtuitions/sessionmanagerapi/pkg/utils/response"
)

// UsernameCookieName is the fixed key under which a client's claimed
// username is remembered between visits.
const UsernameCookieName = "sm_username"

// UserHandler is the handler for the user registry API
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new handler for the user registry API
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Setup runs the register-or-resume flow for a claimed username and
// remembers it in a cookie on success
func (h *UserHandler) Setup(c echo.Context) error {
	username := c.FormValue("username")
	if username == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`username` is required")
	}

	result, err := h.users.Setup(username)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUsername) {
			return response.ErrorResponse(c, http.StatusBadRequest, "InputException",
				"Username must be 3-20 characters and contain only letters, numbers, and underscores.")
		}
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException",
			"Failed to create account. Please try again.")
	}

	// remember the username client-side
	c.SetCookie(&http.Cookie{
		Name:     UsernameCookieName,
		Value:    result.Username,
		Path:     "/",
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	return response.SuccessResponse(c, result)
}

// Exists reports whether a username is registered
func (h *UserHandler) Exists(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`username` is required")
	}

	return response.SuccessResponse(c, map[string]bool{
		"exists": h.users.Exists(username),
	})
}

// Logout clears the remembered username. No server-side effect: stored
// sessions are untouched.
func (h *UserHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     UsernameCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	return response.SuccessResponse(c, true)
}
