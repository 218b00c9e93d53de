/**
 * @description
 * Service for auction listings.
 * Creates and removes listings together with their bid thresholds, and
 * serves the listing set from a Redis cache with Postgres as the fallback.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/redis/go-redis/v9
 * - github.com/shopspring/decimal
 * - backend/internal/models
 */

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/logger"
	"github.com/storefront-auctions/backend/internal/models"
	"gorm.io/gorm"
)

const (
	CacheKeyListings = "auction:listings"
	ListingsCacheTTL = time.Minute
)

type ListingService struct {
	DB    *gorm.DB
	Redis *redis.Client // optional
	Now   func() time.Time

	cfg config.AuctionConfig
}

func NewListingService(db *gorm.DB, rdb *redis.Client, cfg config.AuctionConfig) *ListingService {
	return &ListingService{
		DB:    db,
		Redis: rdb,
		Now:   func() time.Time { return time.Now().UTC() },
		cfg:   cfg,
	}
}

// CreateListingParams holds the input of CreateListing. Nil fields take
// their defaults.
type CreateListingParams struct {
	ProductID       int
	ExpireDate      *time.Time
	InitialBidPrice *decimal.Decimal
}

// CreateListing puts a commercialized product up for auction and returns the
// whole listing set, latest expiry first.
func (s *ListingService) CreateListing(ctx context.Context, p CreateListingParams) ([]models.Listing, error) {
	now := s.Now()

	var (
		listings []models.Listing
		created  models.Listing
	)
	err := runInTransaction(s.DB.WithContext(ctx), s.cfg.MaxTxRetries, func(tx *gorm.DB) error {
		listings = nil

		var product models.Product
		if err := tx.Where("product_id = ?", p.ProductID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("product %d not found", p.ProductID)
			}
			return fmt.Errorf("failed to load product %d: %w", p.ProductID, err)
		}

		if !product.Commercialized() {
			return validationError("product %d is not commercialized", p.ProductID)
		}

		var existing int64
		if err := tx.Model(&models.Listing{}).Where("product_id = ?", p.ProductID).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check listing for product %d: %w", p.ProductID, err)
		}
		if existing > 0 {
			return validationError("product %d is already listed", p.ProductID)
		}

		expireDate := now.Add(s.cfg.DefaultDuration)
		if p.ExpireDate != nil {
			expireDate = p.ExpireDate.UTC()
			if !expireDate.After(now) {
				return validationError("expire date %s must be in the future", expireDate.Format(time.RFC3339))
			}
		}

		initialBidPrice := DefaultInitialBidPrice(product.ListPrice, product.MakeFlag)
		if p.InitialBidPrice != nil {
			initialBidPrice = p.InitialBidPrice.Round(monetaryPrecision)
		}
		if initialBidPrice.LessThan(s.cfg.MinBid) {
			return validationError("initial bid price %s is below the minimum bid of %s", initialBidPrice.String(), s.cfg.MinBid.String())
		}

		listing := models.Listing{
			ProductID:       p.ProductID,
			InitialBidPrice: initialBidPrice,
			ExpireDate:      expireDate,
			Status:          models.ListingStatusActive,
			CreatedAt:       now,
		}
		if err := tx.Create(&listing).Error; err != nil {
			if isUniqueViolation(err) {
				return validationError("product %d is already listed", p.ProductID)
			}
			return fmt.Errorf("failed to create listing: %w", err)
		}

		threshold := models.Threshold{
			ProductID: p.ProductID,
			ListPrice: product.ListPrice,
			MakeFlag:  product.MakeFlag,
			MinBid:    s.cfg.MinBid,
			MaxBid:    initialBidPrice,
		}
		if err := tx.Create(&threshold).Error; err != nil {
			if isUniqueViolation(err) {
				return validationError("product %d is already listed", p.ProductID)
			}
			return fmt.Errorf("failed to create bid threshold: %w", err)
		}

		created = listing
		return tx.Order("expire_date DESC").Order("auction_id DESC").Find(&listings).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("ListingService: product %d listed as auction %d until %s",
		created.ProductID, created.AuctionID, created.ExpireDate.Format(time.RFC3339))
	// A snapshot written here could overwrite a newer one from a concurrent
	// creator, so drop the key and let the next read refill it.
	invalidateListingCache(ctx, s.Redis)
	return listings, nil
}

// RemoveListing withdraws a product that is still in auction. The listing and
// its threshold are deleted; the product's active bids are cancelled.
func (s *ListingService) RemoveListing(ctx context.Context, productID int) error {
	now := s.Now()

	var cancelled int64
	err := runInTransaction(s.DB.WithContext(ctx), s.cfg.MaxTxRetries, func(tx *gorm.DB) error {
		var listing models.Listing
		err := tx.Where("product_id = ? AND expire_date > ?", productID, now).First(&listing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError("product %d has no active listing", productID)
			}
			return fmt.Errorf("failed to load listing for product %d: %w", productID, err)
		}

		if err := tx.Delete(&listing).Error; err != nil {
			return fmt.Errorf("failed to delete listing %d: %w", listing.AuctionID, err)
		}

		result := tx.Model(&models.Bid{}).
			Where("product_id = ? AND status = ?", productID, models.BidStatusActive).
			Update("status", models.BidStatusCancelled)
		if result.Error != nil {
			return fmt.Errorf("failed to cancel bids for product %d: %w", productID, result.Error)
		}
		cancelled = result.RowsAffected

		if err := tx.Where("product_id = ?", productID).Delete(&models.Threshold{}).Error; err != nil {
			return fmt.Errorf("failed to delete bid threshold for product %d: %w", productID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("ListingService: product %d removed from auction, %d bid(s) cancelled", productID, cancelled)
	invalidateListingCache(ctx, s.Redis)
	return nil
}

// ListListings returns the listing set, preferring Cache -> DB
func (s *ListingService) ListListings(ctx context.Context) ([]models.Listing, error) {
	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, CacheKeyListings).Result()
		if err == nil {
			var listings []models.Listing
			if err := json.Unmarshal([]byte(val), &listings); err == nil {
				return listings, nil
			}
			// If unmarshal fails, fall through to DB
		} else if !errors.Is(err, redis.Nil) {
			logger.Warn("ListingService: listing cache read failed: %v", err)
		}
	}

	listings := make([]models.Listing, 0)
	if err := s.DB.WithContext(ctx).Order("expire_date DESC").Order("auction_id DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	s.cacheListings(ctx, listings)
	return listings, nil
}

func (s *ListingService) cacheListings(ctx context.Context, listings []models.Listing) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(listings)
	if err != nil {
		logger.Error("ListingService: failed to marshal listings for cache: %v", err)
		return
	}
	if err := s.Redis.Set(ctx, CacheKeyListings, data, ListingsCacheTTL).Err(); err != nil {
		logger.Warn("ListingService: failed to set listings cache: %v", err)
	}
}

func invalidateListingCache(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, CacheKeyListings).Err(); err != nil {
		logger.Warn("failed to invalidate listings cache: %v", err)
	}
}
