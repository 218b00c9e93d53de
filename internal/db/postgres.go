/**
 * @description
 * PostgreSQL connection manager using GORM.
 * Handles connection pooling and initialization.
 *
 * @dependencies
 * - gorm.io/gorm: ORM library
 * - gorm.io/driver/postgres: Postgres driver
 */

package db

import (
	"time"

	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// ConnectPostgres initializes the PostgreSQL connection
func ConnectPostgres(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DB.URL,
		PreferSimpleProtocol: true, // disable prepared statements to avoid stmtcache collisions behind poolers
	}), &gorm.Config{
		Logger:  gormLogger.Default.LogMode(LogLevel(cfg.Server.Env)),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	// Get generic database object to set connection pool params
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("✅ Connected to PostgreSQL")

	if cfg.DB.AutoMigrate {
		if err := Migrate(db, cfg.Server.Env != "production"); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// LogLevel maps the deployment environment to a GORM log level
func LogLevel(env string) gormLogger.LogLevel {
	switch env {
	case "development":
		return gormLogger.Info
	case "staging":
		return gormLogger.Warn
	case "test":
		return gormLogger.Silent
	default:
		return gormLogger.Error
	}
}
