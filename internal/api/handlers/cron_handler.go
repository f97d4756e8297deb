// Package handlers contains the handlers for the API
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lmtuitions/sessionmanagerapi/internal/service"
	"github.com/lmtuitions/sessionmanagerapi/pkg/utils/response"
)

// SweepResponseData is the response data for the manual sweep endpoint
type SweepResponseData struct {
	Removed int64 `json:"removed"`
}

// CronHandler triggers scheduled jobs on demand
type CronHandler struct {
	sessions *service.SessionService
}

// NewCronHandler creates a new handler for manual job triggers
func NewCronHandler(sessions *service.SessionService) *CronHandler {
	return &CronHandler{sessions: sessions}
}

// Sweep removes session cookies past the retention threshold
func (h *CronHandler) Sweep(c echo.Context) error {
	removed, err := h.sessions.Sweep()
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
	return response.SuccessResponse(c, SweepResponseData{Removed: removed})
}
