/**
 * @description
 * Bid acceptance engine and bid history queries.
 * Validates a bid against the product's threshold and running price, appends
 * it to the ledger, and keeps a single active bid per product.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 * - github.com/google/uuid
 * - backend/internal/models
 */

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/logger"
	"github.com/storefront-auctions/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BidService struct {
	DB         *gorm.DB
	Publishers []BidEventPublisher
	Now        func() time.Time

	cfg config.AuctionConfig
}

func NewBidService(db *gorm.DB, cfg config.AuctionConfig, publishers ...BidEventPublisher) *BidService {
	return &BidService{
		DB:         db,
		Publishers: publishers,
		Now:        func() time.Time { return time.Now().UTC() },
		cfg:        cfg,
	}
}

// PlaceBidParams holds the input of PlaceBid. A nil BidAmount bids the
// product's minimum increment.
type PlaceBidParams struct {
	ProductID  int
	CustomerID int
	BidAmount  *decimal.Decimal
}

// PlaceBidResult is the accepted bid plus the full ledger, newest first
type PlaceBidResult struct {
	Bid  models.Bid   `json:"bid"`
	Bids []models.Bid `json:"bids"`
}

// PlaceBid records a bid increment on a listed product. The threshold row is
// locked for the duration of the transaction so concurrent bids on the same
// product see each other's running price.
func (s *BidService) PlaceBid(ctx context.Context, p PlaceBidParams) (*PlaceBidResult, error) {
	now := s.Now()

	var (
		result PlaceBidResult
		event  models.BidEvent
	)
	err := runInTransaction(s.DB.WithContext(ctx), s.cfg.MaxTxRetries, func(tx *gorm.DB) error {
		result = PlaceBidResult{}

		var threshold models.Threshold
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", p.ProductID).
			First(&threshold).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("product %d has no bid threshold", p.ProductID)
			}
			return fmt.Errorf("failed to load bid threshold for product %d: %w", p.ProductID, err)
		}

		var listing models.Listing
		if err := tx.Where("product_id = ?", p.ProductID).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("product %d is not listed", p.ProductID)
			}
			return fmt.Errorf("failed to load listing for product %d: %w", p.ProductID, err)
		}

		previousPrice, err := currentPrice(tx, threshold)
		if err != nil {
			return err
		}

		amount := threshold.MinBid
		if p.BidAmount != nil {
			amount = p.BidAmount.Round(monetaryPrecision)
		}
		if err := CheckBidAmount(amount, threshold.MinBid, threshold.MaxBid); err != nil {
			return err
		}

		bid := models.Bid{
			ProductID:    p.ProductID,
			CustomerID:   p.CustomerID,
			BidAmount:    amount,
			CurrentPrice: NextCurrentPrice(previousPrice, amount),
			BidTime:      now,
			ExpireDate:   listing.ExpireDate,
			Status:       models.BidStatusActive,
		}
		if err := tx.Create(&bid).Error; err != nil {
			return fmt.Errorf("failed to insert bid: %w", err)
		}

		if err := demoteSupersededBids(tx, bid); err != nil {
			return err
		}

		if err := tx.Order("bid_time DESC").Order("bid_id DESC").Find(&result.Bids).Error; err != nil {
			return fmt.Errorf("failed to load bid ledger: %w", err)
		}
		result.Bid = bid

		event = models.BidEvent{
			EventID:       uuid.New(),
			AuctionID:     listing.AuctionID,
			BidID:         bid.BidID,
			ProductID:     bid.ProductID,
			CustomerID:    bid.CustomerID,
			BidAmount:     bid.BidAmount,
			CurrentPrice:  bid.CurrentPrice,
			PreviousPrice: previousPrice,
			BidTime:       bid.BidTime,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("BidService: bid %d accepted on product %d (amount %s, price %s)",
		result.Bid.BidID, result.Bid.ProductID, result.Bid.BidAmount.String(), result.Bid.CurrentPrice.String())
	s.publish(ctx, event)
	return &result, nil
}

// currentPrice is the running price of the latest bid, or the list price
// snapshot when nobody has bid yet.
func currentPrice(tx *gorm.DB, threshold models.Threshold) (decimal.Decimal, error) {
	var latest models.Bid
	result := tx.Where("product_id = ?", threshold.ProductID).
		Order("bid_time DESC").
		Order("bid_id DESC").
		Limit(1).
		Find(&latest)
	if result.Error != nil {
		return decimal.Zero, fmt.Errorf("failed to load latest bid for product %d: %w", threshold.ProductID, result.Error)
	}
	if result.RowsAffected == 0 {
		return threshold.ListPrice, nil
	}
	return latest.CurrentPrice, nil
}

// demoteSupersededBids leaves bid as the product's only active bid
func demoteSupersededBids(tx *gorm.DB, bid models.Bid) error {
	err := tx.Model(&models.Bid{}).
		Where("product_id = ? AND status = ? AND bid_id <> ?", bid.ProductID, models.BidStatusActive, bid.BidID).
		Update("status", models.BidStatusInactive).Error
	if err != nil {
		return fmt.Errorf("failed to demote earlier bids for product %d: %w", bid.ProductID, err)
	}
	return nil
}

func (s *BidService) publish(ctx context.Context, event models.BidEvent) {
	for _, p := range s.Publishers {
		if p == nil {
			continue
		}
		if err := p.PublishBidAccepted(ctx, event); err != nil {
			logger.Error("BidService: failed to publish bid %d: %v", event.BidID, err)
		}
	}
}

// HistoryParams filters a customer's bids by time window
type HistoryParams struct {
	CustomerID int
	Start      time.Time
	End        time.Time
	ActiveOnly bool
}

// QueryHistory returns a customer's bids placed within [Start, End], newest
// first. Read-only.
func (s *BidService) QueryHistory(ctx context.Context, p HistoryParams) ([]models.Bid, error) {
	if p.End.Before(p.Start) {
		return nil, validationError("end time %s is before start time %s",
			p.End.Format(time.RFC3339), p.Start.Format(time.RFC3339))
	}

	query := s.DB.WithContext(ctx).
		Where("customer_id = ?", p.CustomerID).
		Where("bid_time >= ? AND bid_time <= ?", p.Start.UTC(), p.End.UTC())
	if p.ActiveOnly {
		query = query.Where("status = ?", models.BidStatusActive)
	}

	bids := make([]models.Bid, 0)
	if err := query.Order("bid_time DESC").Order("bid_id DESC").Find(&bids).Error; err != nil {
		return nil, fmt.Errorf("failed to query bid history for customer %d: %w", p.CustomerID, err)
	}
	return bids, nil
}
