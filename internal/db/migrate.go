package db

import (
	"fmt"

	"github.com/storefront-auctions/backend/internal/logger"
	"github.com/storefront-auctions/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the auction tables. The catalog tables belong to
// the retail database and are only created when withCatalog is set, which is
// meant for local development and tests.
func Migrate(db *gorm.DB, withCatalog bool) error {
	tables := []interface{}{
		&models.Listing{},
		&models.Threshold{},
		&models.Bid{},
	}
	if withCatalog {
		tables = append([]interface{}{&models.Product{}, &models.Customer{}}, tables...)
	}

	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("failed to migrate auction schema: %w", err)
	}

	logger.Info("✅ Auction schema migrated (%d tables)", len(tables))
	return nil
}
