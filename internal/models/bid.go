/**
 * @description
 * Bid ledger model and the event published when a bid is accepted.
 * Maps to the 'auction_bids' table in PostgreSQL.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 * - github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidStatus defines the state of a bid in the ledger
type BidStatus string

const (
	BidStatusActive    BidStatus = "Active"
	BidStatusInactive  BidStatus = "Inactive"
	BidStatusCancelled BidStatus = "Cancelled"
	BidStatusExpired   BidStatus = "Expired"
	BidStatusWon       BidStatus = "Won"
)

// Bid is one accepted bid. Rows are append-only; only Status changes.
type Bid struct {
	BidID        uint64          `gorm:"column:bid_id;primaryKey;autoIncrement" json:"bid_id"`
	ProductID    int             `gorm:"column:product_id;not null;index:idx_auction_bids_product_status" json:"product_id"`
	CustomerID   int             `gorm:"column:customer_id;not null;index:idx_auction_bids_customer_time" json:"customer_id"`
	BidAmount    decimal.Decimal `gorm:"column:bid_amount;type:decimal(19,4);not null" json:"bid_amount"`
	CurrentPrice decimal.Decimal `gorm:"column:current_price;type:decimal(19,4);not null" json:"current_price"`
	BidTime      time.Time       `gorm:"column:bid_time;not null;index:idx_auction_bids_customer_time" json:"bid_time"`
	ExpireDate   time.Time       `gorm:"column:expire_date;not null" json:"expire_date"`
	Status       BidStatus       `gorm:"column:status;type:varchar(20);not null;default:'Active';index:idx_auction_bids_product_status" json:"status"`
}

// TableName overrides the table name used by Bid to `auction_bids`
func (Bid) TableName() string {
	return "auction_bids"
}

// BidEvent is published after a bid commits. It is sent to:
// 1. Redis Pub/Sub (live SSE stream)
// 2. NATS (downstream consumers)
type BidEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	AuctionID     uint64          `json:"auction_id"`
	BidID         uint64          `json:"bid_id"`
	ProductID     int             `json:"product_id"`
	CustomerID    int             `json:"customer_id"`
	BidAmount     decimal.Decimal `json:"bid_amount"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	BidTime       time.Time       `json:"bid_time"`
}
