// Package repository contains the repository layer for the Session Manager API
package repository

import (
	"fmt"

	"github.com/lmtuitions/sessionmanagerapi/internal/models"
	"gorm.io/gorm"
)

// UserRepository is the database repository for registered users
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// GetByUsername gets a user by exact username match
func (r *UserRepository) GetByUsername(username string) (*models.UserModel, error) {
	var user models.UserModel
	err := r.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. The unique index on username rejects duplicates,
// leaving no partial record behind.
func (r *UserRepository) Create(user *models.UserModel) error {
	if err := r.DB.Create(user).Error; err != nil {
		return fmt.Errorf("failed to insert user into %s: %v", models.UsersTableName, err)
	}
	return nil
}
