package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/storefront-auctions/backend/internal/models"
)

const (
	// BidEventChannel is the Redis pub/sub channel feeding the SSE stream
	BidEventChannel = "auction:bid_events"
	// BidEventSubjectPrefix prefixes the per-product NATS subject, e.g. auction.bids.42
	BidEventSubjectPrefix = "auction.bids"
)

// BidEventPublisher fans an accepted bid out to downstream consumers
type BidEventPublisher interface {
	PublishBidAccepted(ctx context.Context, event models.BidEvent) error
}

// RedisBidPublisher publishes bid events on BidEventChannel
type RedisBidPublisher struct {
	Redis *redis.Client
}

func NewRedisBidPublisher(rdb *redis.Client) *RedisBidPublisher {
	return &RedisBidPublisher{Redis: rdb}
}

func (p *RedisBidPublisher) PublishBidAccepted(ctx context.Context, event models.BidEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal bid event: %w", err)
	}
	return p.Redis.Publish(ctx, BidEventChannel, data).Err()
}

// NATSBidPublisher publishes bid events on auction.bids.<product_id>
type NATSBidPublisher struct {
	Conn *nats.Conn
}

func NewNATSBidPublisher(conn *nats.Conn) *NATSBidPublisher {
	return &NATSBidPublisher{Conn: conn}
}

func (p *NATSBidPublisher) PublishBidAccepted(_ context.Context, event models.BidEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal bid event: %w", err)
	}
	if err := p.Conn.Publish(BidEventSubject(event.ProductID), data); err != nil {
		return fmt.Errorf("failed to publish bid event to NATS: %w", err)
	}
	return nil
}

// BidEventSubject is the NATS subject for a product's bids
func BidEventSubject(productID int) string {
	return fmt.Sprintf("%s.%d", BidEventSubjectPrefix, productID)
}
