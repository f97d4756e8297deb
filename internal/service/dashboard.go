// Package service contains the service layer for the Session Manager API
package service

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/lmtuitions/sessionmanagerapi/internal/models"
	"github.com/lmtuitions/sessionmanagerapi/pkg/utils/zaplogger"
)

// ErrUnauthenticated is returned for dashboard actions before a username is set up
var ErrUnauthenticated = errors.New("no user is set up")

// DashboardState is the state of one client's dashboard view
type DashboardState string

const (
	StateUnauthenticated DashboardState = "unauthenticated"
	StateResolving       DashboardState = "resolving"
	StateNoActiveSession DashboardState = "no_active_session"
	StateActiveSession   DashboardState = "active_session"
)

// DashboardView is a snapshot of the controller state for presentation.
// IsOwnSession gates the delete control.
type DashboardView struct {
	State        DashboardState             `json:"state"`
	Username     string                     `json:"username,omitempty"`
	Session      *models.SessionCookieModel `json:"session,omitempty"`
	IsOwnSession bool                       `json:"is_own_session"`
}

// DashboardController runs one client's view of the shared session: it
// verifies the remembered username against the registry, re-derives the
// current session on demand and on a fixed interval, and gates destructive
// actions on ownership. There is no push channel; every client converges by
// polling the same deterministic resolution.
type DashboardController struct {
	users    *UserService
	sessions *SessionService
	interval time.Duration

	mu       sync.Mutex
	username string
	state    DashboardState
	session  *models.SessionCookieModel
	stopCh   chan struct{}
}

// NewDashboardController creates a controller for a remembered username.
// interval is the auto-refresh cadence; zero disables the background ticker
// for one-shot use.
func NewDashboardController(users *UserService, sessions *SessionService, username string, interval time.Duration) *DashboardController {
	return &DashboardController{
		users:    users,
		sessions: sessions,
		username: username,
		interval: interval,
		state:    StateUnauthenticated,
	}
}

// Start verifies the remembered username, resolves the current session once
// and, when an interval is configured, begins auto-refreshing until Stop.
// An unknown username is forgotten and the controller stays unauthenticated.
func (dc *DashboardController) Start() {
	dc.mu.Lock()
	username := dc.username
	dc.mu.Unlock()

	if username == "" || !dc.users.Exists(username) {
		dc.mu.Lock()
		dc.username = ""
		dc.state = StateUnauthenticated
		dc.session = nil
		dc.mu.Unlock()
		return
	}

	dc.mu.Lock()
	dc.state = StateResolving
	dc.mu.Unlock()
	dc.resolve()

	if dc.interval <= 0 {
		return
	}
	dc.mu.Lock()
	if dc.stopCh == nil {
		dc.stopCh = make(chan struct{})
		go dc.refreshLoop(dc.stopCh)
	}
	dc.mu.Unlock()
}

// Stop halts the auto-refresh ticker. Idempotent; must be called when the
// dashboard view is torn down so no background work leaks.
func (dc *DashboardController) Stop() {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if dc.stopCh != nil {
		close(dc.stopCh)
		dc.stopCh = nil
	}
}

func (dc *DashboardController) refreshLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(dc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			dc.resolve()
		case <-stop:
			return
		}
	}
}

// Refresh re-resolves the current session on demand
func (dc *DashboardController) Refresh() {
	dc.mu.Lock()
	authenticated := dc.state != StateUnauthenticated
	if authenticated {
		dc.state = StateResolving
	}
	dc.mu.Unlock()

	if authenticated {
		dc.resolve()
	}
}

// Upload validates and stores a new cookie file for the current user, then
// re-resolves. The freshly inserted record wins resolution by timestamp even
// though older rows stay active.
func (dc *DashboardController) Upload(fileName, contentType string, size int64, r io.Reader) (*models.SessionCookieModel, error) {
	dc.mu.Lock()
	username := dc.username
	authenticated := dc.state != StateUnauthenticated
	dc.mu.Unlock()

	if !authenticated {
		return nil, ErrUnauthenticated
	}

	record, err := dc.sessions.Upload(fileName, contentType, size, r, username)
	if err != nil {
		return nil, err
	}
	dc.resolve()
	return record, nil
}

// Delete ends a session owned by the current user, then re-resolves
func (dc *DashboardController) Delete(id string) error {
	dc.mu.Lock()
	username := dc.username
	authenticated := dc.state != StateUnauthenticated
	dc.mu.Unlock()

	if !authenticated {
		return ErrUnauthenticated
	}

	if err := dc.sessions.Delete(id, username); err != nil {
		return err
	}
	dc.resolve()
	return nil
}

// Logout forgets the remembered username and stops the ticker. No server-side
// effect: the stored sessions are untouched.
func (dc *DashboardController) Logout() {
	dc.Stop()
	dc.mu.Lock()
	dc.username = ""
	dc.state = StateUnauthenticated
	dc.session = nil
	dc.mu.Unlock()
}

// View returns a snapshot of the controller state
func (dc *DashboardController) View() DashboardView {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return DashboardView{
		State:        dc.state,
		Username:     dc.username,
		Session:      dc.session,
		IsOwnSession: dc.session != nil && dc.session.UploadedBy == dc.username,
	}
}

// resolve sweeps and re-derives the current session. Any error degrades the
// view to "no active session" for this cycle; the next tick self-corrects.
func (dc *DashboardController) resolve() {
	record, err := dc.sessions.ResolveCurrent()

	dc.mu.Lock()
	defer dc.mu.Unlock()
	if dc.state == StateUnauthenticated {
		// logged out while the resolve was in flight
		return
	}
	if err != nil {
		zaplogger.Error("failed to resolve current session", zaplogger.Fields{
			"error": err.Error(),
		})
		dc.state = StateNoActiveSession
		dc.session = nil
		return
	}
	if record == nil {
		dc.state = StateNoActiveSession
		dc.session = nil
		return
	}
	dc.state = StateActiveSession
	dc.session = record
}
