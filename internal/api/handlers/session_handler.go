// Package handlers contains the handlers for the API
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lmtuitions/sessionmanagerapi/internal/models"
	"github.com/lmtuitions/sessionmanagerapi/internal/service"
	"github.com/lmtuitions/sessionmanagerapi/internal/validate"
	"github.com/lmtuitions/sessionmanagerapi/pkg/utils/response"
)

// CurrentSessionData is the response data for the current-session endpoints
type CurrentSessionData struct {
	Session      *models.SessionCookieModel `json:"session"`
	IsOwnSession bool                       `json:"is_own_session"`
}

// DashboardData is the response data for the dashboard endpoint. RefreshSeconds
// tells clients the polling cadence configured on the server.
type DashboardData struct {
	service.DashboardView
	RefreshSeconds int `json:"refresh_seconds"`
}

// SessionHandler is the handler for the session cookie API
type SessionHandler struct {
	users           *service.UserService
	sessions        *service.SessionService
	refreshInterval time.Duration
}

// NewSessionHandler creates a new handler for the session cookie API
func NewSessionHandler(users *service.UserService, sessions *service.SessionService, refreshInterval time.Duration) *SessionHandler {
	return &SessionHandler{users: users, sessions: sessions, refreshInterval: refreshInterval}
}

// actingUsername extracts the claimed username from the request: form value,
// then query param, then the remembered-username cookie.
func actingUsername(c echo.Context) string {
	if username := c.FormValue("username"); username != "" {
		return username
	}
	if username := c.QueryParam("username"); username != "" {
		return username
	}
	if cookie, err := c.Cookie(UsernameCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Upload validates and stores an uploaded cookie file, then returns the
// freshly resolved current session
func (h *SessionHandler) Upload(c echo.Context) error {
	username := actingUsername(c)
	if username == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`username` is required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`file` is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", "Failed to read file")
	}
	defer src.Close()

	_, err = h.sessions.Upload(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, src, username)
	if err != nil {
		var rejection *validate.RejectionError
		if errors.As(err, &rejection) {
			return response.ErrorResponse(c, http.StatusBadRequest, "InputException", rejection.Message)
		}
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException",
			"Failed to upload cookie file. Please try again.")
	}

	return h.currentSessionResponse(c, username)
}

// Current sweeps expired rows and returns the resolved current session
func (h *SessionHandler) Current(c echo.Context) error {
	return h.currentSessionResponse(c, actingUsername(c))
}

func (h *SessionHandler) currentSessionResponse(c echo.Context, username string) error {
	record, err := h.sessions.ResolveCurrent()
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}

	return response.SuccessResponse(c, CurrentSessionData{
		Session:      record,
		IsOwnSession: record != nil && username != "" && record.UploadedBy == username,
	})
}

// Download streams the current session's cookie payload verbatim as a JSON
// attachment
func (h *SessionHandler) Download(c echo.Context) error {
	record, err := h.sessions.ResolveCurrent()
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
	if record == nil {
		return response.ErrorResponse(c, http.StatusNotFound, "InputException", "No active session")
	}

	fileName := record.FileName
	if fileName == "" {
		fileName = "session_cookies.json"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Blob(http.StatusOK, "application/json", record.CookieData)
}

// Delete ends a session. The ownership gate runs before the store delete:
// only the uploader may remove the record.
func (h *SessionHandler) Delete(c echo.Context) error {
	username := actingUsername(c)
	if username == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`username` is required")
	}

	id := c.Param("id")
	if id == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`id` is required")
	}

	if err := h.sessions.Delete(id, username); err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			return response.ErrorResponse(c, http.StatusForbidden, "AuthorizationException",
				"Only the uploader can end this session")
		case errors.Is(err, service.ErrSessionNotFound):
			return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Session not found")
		default:
			return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
		}
	}

	return response.SuccessResponse(c, true)
}

// Dashboard returns a one-shot dashboard view for the acting username: the
// controller verifies the username against the registry, sweeps, resolves
// and reports whether the current session is the caller's own.
func (h *SessionHandler) Dashboard(c echo.Context) error {
	ctrl := service.NewDashboardController(h.users, h.sessions, actingUsername(c), 0)
	ctrl.Start()
	defer ctrl.Stop()

	return response.SuccessResponse(c, DashboardData{
		DashboardView:  ctrl.View(),
		RefreshSeconds: int(h.refreshInterval.Seconds()),
	})
}
