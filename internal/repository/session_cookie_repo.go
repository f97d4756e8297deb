// Package repository contains the repository layer for the Session Manager API
package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lmtuitions/sessionmanagerapi/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionCookieRepository is the database repository for uploaded session cookies
type SessionCookieRepository struct {
	DB *gorm.DB
}

// NewSessionCookieRepository creates a new session cookie repository
func NewSessionCookieRepository(db *gorm.DB) *SessionCookieRepository {
	return &SessionCookieRepository{DB: db}
}

// Create inserts a new session cookie row, active by default. The upload
// timestamp is assigned here, not by the client. Sibling rows are left
// untouched; resolution picks the newest active row.
func (r *SessionCookieRepository) Create(cookieData json.RawMessage, uploadedBy, fileName string) (*models.SessionCookieModel, error) {
	record := &models.SessionCookieModel{
		ID:         uuid.NewString(),
		CookieData: datatypes.JSON(cookieData),
		FileName:   fileName,
		UploadedBy: uploadedBy,
		IsActive:   true,
	}
	if err := r.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to insert session cookie into %s: %v", models.SessionCookiesTableName, err)
	}
	return record, nil
}

// GetByID gets a session cookie by its identifier
func (r *SessionCookieRepository) GetByID(id string) (*models.SessionCookieModel, error) {
	var record models.SessionCookieModel
	err := r.DB.Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetActiveLatest resolves the current session: the active row with the
// largest uploaded_at, ties broken by id so the result is deterministic.
// Returns (nil, nil) when no active row exists.
func (r *SessionCookieRepository) GetActiveLatest() (*models.SessionCookieModel, error) {
	var records []models.SessionCookieModel
	err := r.DB.Where("is_active = ?", true).
		Order("uploaded_at DESC, id DESC").
		Limit(1).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current session: %v", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// DeleteByID removes the row with the given identifier unconditionally.
// Ownership is checked by the caller, not here.
func (r *SessionCookieRepository) DeleteByID(id string) (int64, error) {
	result := r.DB.Where("id = ?", id).Delete(&models.SessionCookieModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete session cookie %s: %v", id, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteExpired removes all rows uploaded before the cutoff. Idempotent and
// safe to call with no eligible rows.
func (r *SessionCookieRepository) DeleteExpired(olderThan time.Time) (int64, error) {
	result := r.DB.Where("uploaded_at < ?", olderThan).Delete(&models.SessionCookieModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired session cookies: %v", result.Error)
	}
	return result.RowsAffected, nil
}
