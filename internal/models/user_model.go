// Package models contains the models for the Session Manager API
package models

import "time"

const UsersTableName = "users"

// UserModel represents a registered user. Usernames are self-asserted
// claims, unique and case-sensitive; rows are never updated or deleted.
type UserModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:20" json:"username"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the User model
func (UserModel) TableName() string {
	return UsersTableName
}
