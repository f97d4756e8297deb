// Package models contains the models for the Session Manager API
package models

import (
	"time"

	"gorm.io/datatypes"
)

const SessionCookiesTableName = "session_cookies"

// SessionCookieModel represents one uploaded cookie bundle. CookieData is an
// opaque JSON payload preserved byte-for-byte through store and download.
// UploadedAt is assigned at insert, never by the client. Inserting a new row
// does not deactivate siblings; the newest active row wins at resolution.
type SessionCookieModel struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	CookieData datatypes.JSON `gorm:"type:jsonb" json:"cookie_data"`
	FileName   string         `json:"file_name"`
	UploadedBy string         `gorm:"index" json:"uploaded_by"`
	UploadedAt time.Time      `gorm:"autoCreateTime;index" json:"uploaded_at"`
	IsActive   bool           `gorm:"index;default:true" json:"is_active"`
}

// TableName specifies the table name for the SessionCookie model
func (SessionCookieModel) TableName() string {
	return SessionCookiesTableName
}
