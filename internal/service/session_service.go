// Package service contains the service layer for the Session Manager API
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lmtuitions/sessionmanagerapi/internal/models"
	"github.com/lmtuitions/sessionmanagerapi/internal/validate"
	"github.com/lmtuitions/sessionmanagerapi/pkg/utils/zaplogger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrNotOwner is returned when a delete is attempted by anyone other
	// than the uploader of the record.
	ErrNotOwner = errors.New("only the uploader can end this session")

	// ErrSessionNotFound is returned when the target record does not exist.
	ErrSessionNotFound = errors.New("session not found")
)

const (
	currentSessionCacheKey = "sessionmanagerapi:current_session"
	currentSessionCacheTTL = 30 * time.Second
	redisTimeout           = 3 * time.Second
)

// SessionStore is the session cookie persistence needed by the session service
type SessionStore interface {
	Create(cookieData json.RawMessage, uploadedBy, fileName string) (*models.SessionCookieModel, error)
	GetByID(id string) (*models.SessionCookieModel, error)
	GetActiveLatest() (*models.SessionCookieModel, error)
	DeleteByID(id string) (int64, error)
	DeleteExpired(olderThan time.Time) (int64, error)
}

// SessionService mediates upload, delete, sweep and current-session resolution
type SessionService struct {
	store       SessionStore
	redisClient *redis.Client
	retention   time.Duration
}

// NewSessionService creates a new service for the session cookie API.
// redisClient may be nil; the resolved-session cache is then skipped.
func NewSessionService(store SessionStore, redisClient *redis.Client, retention time.Duration) *SessionService {
	return &SessionService{
		store:       store,
		redisClient: redisClient,
		retention:   retention,
	}
}

// Upload validates an uploaded file and stores it as the newest active
// session cookie. The stored payload is the validated bytes, verbatim.
func (s *SessionService) Upload(fileName, contentType string, size int64, r io.Reader, username string) (*models.SessionCookieModel, error) {
	cookieData, err := validate.CookieFile(fileName, contentType, size, r)
	if err != nil {
		return nil, err
	}

	record, err := s.store.Create(cookieData, username, fileName)
	if err != nil {
		return nil, err
	}
	s.invalidateCache()
	return record, nil
}

// Delete removes a session cookie after the ownership check: the acting
// username must equal the record's uploaded_by. The store delete itself is
// unconditional, so the gate lives here.
func (s *SessionService) Delete(id, username string) error {
	record, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to load session %s: %v", id, err)
	}

	if record.UploadedBy != username {
		return ErrNotOwner
	}

	rowsAffected, err := s.store.DeleteByID(id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}
	s.invalidateCache()
	return nil
}

// Sweep removes session cookies older than the retention threshold. Safe to
// call with no eligible rows.
func (s *SessionService) Sweep() (int64, error) {
	cutoff := time.Now().Add(-s.retention)
	removed, err := s.store.DeleteExpired(cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.invalidateCache()
	}
	return removed, nil
}

// ResolveCurrent sweeps expired rows and then resolves the current session:
// the active record with the largest uploaded_at, or nil when none exists.
// A sweep failure does not block resolution.
func (s *SessionService) ResolveCurrent() (*models.SessionCookieModel, error) {
	if _, err := s.Sweep(); err != nil {
		zaplogger.Warn("session sweep failed", zaplogger.Fields{
			"error": err.Error(),
		})
	}

	if record := s.cachedCurrent(); record != nil {
		return record, nil
	}

	record, err := s.store.GetActiveLatest()
	if err != nil {
		return nil, err
	}
	if record != nil {
		s.cacheCurrent(record)
	}
	return record, nil
}

// cachedCurrent returns the cached resolved session, or nil on miss or any
// cache error. The cache is best-effort only.
func (s *SessionService) cachedCurrent() *models.SessionCookieModel {
	if s.redisClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	payload, err := s.redisClient.Get(ctx, currentSessionCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var record models.SessionCookieModel
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil
	}
	return &record
}

func (s *SessionService) cacheCurrent(record *models.SessionCookieModel) {
	if s.redisClient == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.redisClient.Set(ctx, currentSessionCacheKey, payload, currentSessionCacheTTL).Err(); err != nil {
		zaplogger.Warn("failed to cache current session", zaplogger.Fields{
			"error": err.Error(),
		})
	}
}

func (s *SessionService) invalidateCache() {
	if s.redisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.redisClient.Del(ctx, currentSessionCacheKey).Err(); err != nil {
		zaplogger.Warn("failed to invalidate current session cache", zaplogger.Fields{
			"error": err.Error(),
		})
	}
}
