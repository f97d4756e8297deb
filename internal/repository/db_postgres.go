// Package repository contains the repository layer for the Session Manager API
package repository

import (
	"fmt"

	"github.com/lmtuitions/sessionmanagerapi/internal/config"
	"github.com/lmtuitions/sessionmanagerapi/internal/models"
	"github.com/lmtuitions/sessionmanagerapi/pkg/utils/zaplogger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectPostgres connects to a Postgres database and returns a GORM database object
func ConnectPostgres(cfg *config.Config) (*gorm.DB, error) {
	// Set up GORM logger
	var logLevel logger.LogLevel
	switch cfg.PostgresLogLevel {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	default:
		logLevel = logger.Error
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	// Open database connection
	postgresDSN := fmt.Sprintf("%s search_path=%s,public", cfg.PostgresDsn, cfg.PostgresSchema)
	db, err := gorm.Open(postgres.Open(postgresDSN), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %v", err)
	}
	zaplogger.Info("  * connected")

	// Create the schema if it doesn't exist
	createSchemaSql := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", cfg.PostgresSchema)
	if err := db.Exec(createSchemaSql).Error; err != nil {
		return nil, fmt.Errorf("failed to create schema %s: %v", cfg.PostgresSchema, err)
	}

	// AutoMigrate will create tables and add/modify columns
	if err := autoMigrate(db, cfg.PostgresSchema); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %v", err)
	}

	return db, nil
}

func autoMigrate(db *gorm.DB, schema string) error {
	tables := []struct {
		name  string
		model interface{}
	}{
		{models.UsersTableName, &models.UserModel{}},
		{models.SessionCookiesTableName, &models.SessionCookieModel{}},
	}

	zaplogger.Info("  * migrating tables")
	for _, table := range tables {
		err := db.Table(schema + "." + table.name).AutoMigrate(table.model)
		if err != nil {
			return fmt.Errorf("failed to auto migrate table: %s, err:%v", table.name, err)
		}
		zaplogger.Info("    - \"" + schema + "." + table.name + "\"")
	}

	return nil
}
