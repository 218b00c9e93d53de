/**
 * @description
 * Status reconciler for ended auctions.
 * A stateless sweep, triggered from outside (job endpoint, worker ticker or
 * the one-shot reconcile command), that moves listings and bids into their
 * terminal statuses once listings have expired.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/redis/go-redis/v9
 * - backend/internal/models
 */

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront-auctions/backend/internal/logger"
	"github.com/storefront-auctions/backend/internal/models"
	"gorm.io/gorm"
)

// maxBidAmountOfProduct matches bids whose amount is the largest amount ever
// bid on their product. It correlates on the outer auction_bids row.
const maxBidAmountOfProduct = "bid_amount = (SELECT MAX(mb.bid_amount) FROM auction_bids mb WHERE mb.product_id = auction_bids.product_id)"

type Reconciler struct {
	DB    *gorm.DB
	Redis *redis.Client // optional, listing cache is dropped when statuses change
	Now   func() time.Time

	// ExpireActiveListings makes the expiry step look for "Active" listings.
	// Off by default: the legacy sweep looks for "In Auction", which listing
	// creation never writes, so unbid listings are never expired.
	ExpireActiveListings bool
}

func NewReconciler(db *gorm.DB, rdb *redis.Client, expireActiveListings bool) *Reconciler {
	return &Reconciler{
		DB:                   db,
		Redis:                rdb,
		Now:                  func() time.Time { return time.Now().UTC() },
		ExpireActiveListings: expireActiveListings,
	}
}

// ReconcileReport counts the rows each step moved
type ReconcileReport struct {
	ListingsSold    int64 `json:"listings_sold"`
	ListingsExpired int64 `json:"listings_expired"`
	BidsExpired     int64 `json:"bids_expired"`
	BidsWon         int64 `json:"bids_won"`
}

// Changed reports whether the sweep touched any row
func (r ReconcileReport) Changed() bool {
	return r.ListingsSold+r.ListingsExpired+r.BidsExpired+r.BidsWon > 0
}

// ReconcileStatuses runs the four status transitions in order. Sold must be
// set before bids can be Won, and Expired before bids can expire. Every step
// only matches rows still in their previous status, so repeating the sweep is
// a no-op.
func (r *Reconciler) ReconcileStatuses(ctx context.Context) (ReconcileReport, error) {
	now := r.Now()

	var report ReconcileReport
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		report = ReconcileReport{}

		// 1. Expired listings whose active bid carries the top amount are sold
		topActiveBids := tx.Model(&models.Bid{}).
			Select("product_id").
			Where("status = ?", models.BidStatusActive).
			Where(maxBidAmountOfProduct)
		res := tx.Model(&models.Listing{}).
			Where("status = ? AND expire_date < ?", models.ListingStatusActive, now).
			Where("product_id IN (?)", topActiveBids).
			Update("status", models.ListingStatusSold)
		if res.Error != nil {
			return fmt.Errorf("failed to mark sold listings: %w", res.Error)
		}
		report.ListingsSold = res.RowsAffected

		// 2. Expired listings nobody bid on
		expiringStatus := models.ListingStatusInAuction
		if r.ExpireActiveListings {
			expiringStatus = models.ListingStatusActive
		}
		anyBid := tx.Model(&models.Bid{}).
			Select("1").
			Where("auction_bids.product_id = auction_listings.product_id")
		res = tx.Model(&models.Listing{}).
			Where("status = ? AND expire_date < ?", expiringStatus, now).
			Where("NOT EXISTS (?)", anyBid).
			Update("status", models.ListingStatusExpired)
		if res.Error != nil {
			return fmt.Errorf("failed to mark expired listings: %w", res.Error)
		}
		report.ListingsExpired = res.RowsAffected

		// 3. Active bids on expired listings
		expiredListings := tx.Model(&models.Listing{}).
			Select("product_id").
			Where("status = ?", models.ListingStatusExpired)
		res = tx.Model(&models.Bid{}).
			Where("status = ?", models.BidStatusActive).
			Where("product_id IN (?)", expiredListings).
			Update("status", models.BidStatusExpired)
		if res.Error != nil {
			return fmt.Errorf("failed to expire bids: %w", res.Error)
		}
		report.BidsExpired = res.RowsAffected

		// 4. Top active bids on sold listings win
		soldListings := tx.Model(&models.Listing{}).
			Select("product_id").
			Where("status = ?", models.ListingStatusSold)
		res = tx.Model(&models.Bid{}).
			Where("status = ?", models.BidStatusActive).
			Where(maxBidAmountOfProduct).
			Where("product_id IN (?)", soldListings).
			Update("status", models.BidStatusWon)
		if res.Error != nil {
			return fmt.Errorf("failed to mark winning bids: %w", res.Error)
		}
		report.BidsWon = res.RowsAffected

		return nil
	})
	if err != nil {
		return ReconcileReport{}, err
	}

	if report.Changed() {
		logger.Info("Reconciler: %d sold, %d expired listing(s); %d won, %d expired bid(s)",
			report.ListingsSold, report.ListingsExpired, report.BidsWon, report.BidsExpired)
		invalidateListingCache(ctx, r.Redis)
	}
	return report, nil
}
