// Package service contains the service layer for the Session Manager API
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lmtuitions/sessionmanagerapi/internal/models"
	"github.com/lmtuitions/sessionmanagerapi/internal/validate"
	"github.com/lmtuitions/sessionmanagerapi/pkg/utils/zaplogger"
	"gorm.io/gorm"
)

// ErrInvalidUsername is returned by Setup for usernames outside the 3-20
// character [A-Za-z0-9_] rule.
var ErrInvalidUsername = errors.New("username must be 3-20 characters and contain only letters, numbers and underscores")

// UserStore is the registry persistence needed by the user service
type UserStore interface {
	GetByUsername(username string) (*models.UserModel, error)
	Create(user *models.UserModel) error
}

// UserService is the user registry: register-or-resume over claimed usernames
type UserService struct {
	store UserStore
}

// NewUserService creates a new service for the user registry
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// Exists reports whether a username is registered, by exact match. A lookup
// error reads as absent at this boundary; it is logged and the caller's next
// cycle retries.
func (s *UserService) Exists(username string) bool {
	user, err := s.store.GetByUsername(username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zaplogger.Warn("user lookup failed", zaplogger.Fields{
				"username": username,
				"error":    err.Error(),
			})
		}
		return false
	}
	return user != nil
}

// Register inserts a new user row. Duplicates and backend errors both report
// failure; the unique index guarantees no partial record.
func (s *UserService) Register(username string) error {
	if err := s.store.Create(&models.UserModel{Username: username}); err != nil {
		return fmt.Errorf("failed to register user %s: %v", username, err)
	}
	return nil
}

// SetupResult reports the outcome of the register-or-resume flow
type SetupResult struct {
	Username string `json:"username"`
	Created  bool   `json:"created"`
}

// Setup runs the register-or-resume flow: an existing username is treated as
// owned by the caller (claiming the name, no credential), a new one is
// registered. Registration failure surfaces and does not proceed.
func (s *UserService) Setup(username string) (*SetupResult, error) {
	trimmed := strings.TrimSpace(username)
	if !validate.Username(trimmed) {
		return nil, ErrInvalidUsername
	}

	if s.Exists(trimmed) {
		return &SetupResult{Username: trimmed, Created: false}, nil
	}

	if err := s.Register(trimmed); err != nil {
		return nil, err
	}
	return &SetupResult{Username: trimmed, Created: true}, nil
}
