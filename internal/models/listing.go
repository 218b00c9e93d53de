/**
 * @description
 * Auction listing and threshold models.
 * Maps to the 'auction_listings' and 'auction_thresholds' tables in PostgreSQL.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 */

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingStatus defines the state of an auction listing.
// A cancelled listing is deleted rather than flagged.
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "Active"
	ListingStatusSold    ListingStatus = "Sold"
	ListingStatusExpired ListingStatus = "Expired"

	// ListingStatusInAuction is the status the legacy expiry sweep looks for.
	// No code path writes it; see Reconciler.
	ListingStatusInAuction ListingStatus = "In Auction"
)

// Listing is an auction entry for one product
type Listing struct {
	AuctionID       uint64          `gorm:"column:auction_id;primaryKey;autoIncrement" json:"auction_id"`
	ProductID       int             `gorm:"column:product_id;not null;uniqueIndex:idx_auction_listings_product" json:"product_id"`
	InitialBidPrice decimal.Decimal `gorm:"column:initial_bid_price;type:decimal(19,4);not null" json:"initial_bid_price"`
	ExpireDate      time.Time       `gorm:"column:expire_date;not null;index:idx_auction_listings_expire" json:"expire_date"`
	Status          ListingStatus   `gorm:"column:status;type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName overrides the table name used by Listing to `auction_listings`
func (Listing) TableName() string {
	return "auction_listings"
}

// Threshold holds the bid bounds of a listed product plus the pricing
// snapshot taken when it was listed. MinBid <= MaxBid.
type Threshold struct {
	ProductID int             `gorm:"column:product_id;primaryKey;autoIncrement:false" json:"product_id"`
	ListPrice decimal.Decimal `gorm:"column:list_price;type:decimal(19,4);not null" json:"list_price"`
	MakeFlag  bool            `gorm:"column:make_flag;not null" json:"make_flag"`
	MinBid    decimal.Decimal `gorm:"column:min_bid;type:decimal(19,4);not null" json:"min_bid"`
	MaxBid    decimal.Decimal `gorm:"column:max_bid;type:decimal(19,4);not null" json:"max_bid"`
}

// TableName overrides the table name used by Threshold to `auction_thresholds`
func (Threshold) TableName() string {
	return "auction_thresholds"
}
