package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront-auctions/backend/internal/logger"
)

// BidStreamHub multiplexes the Redis bid event channel to many SSE clients
// without spawning a Redis subscription per HTTP request.
type BidStreamHub struct {
	redis       *redis.Client
	channelName string

	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
	ready       chan struct{}
	readyOnce   sync.Once
}

func NewBidStreamHub(rdb *redis.Client, channel string) *BidStreamHub {
	return &BidStreamHub{
		redis:       rdb,
		channelName: channel,
		subscribers: make(map[chan []byte]struct{}),
		ready:       make(chan struct{}),
	}
}

// Run relays messages until ctx is cancelled, resubscribing when the Redis
// connection drops.
func (h *BidStreamHub) Run(ctx context.Context) {
	for {
		pubsub := h.redis.Subscribe(ctx, h.channelName)
		if _, err := pubsub.Receive(ctx); err != nil {
			_ = pubsub.Close()
			if ctx.Err() != nil {
				return
			}
			logger.Warn("BidStreamHub: subscribe to %s failed: %v", h.channelName, err)
		} else {
			h.readyOnce.Do(func() { close(h.ready) })
			h.relay(ctx, pubsub.Channel(redis.WithChannelSize(1024)))
			_ = pubsub.Close()
		}

		// Avoid tight loop if Redis connection drops
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// Ready is closed once the first subscription is confirmed by Redis
func (h *BidStreamHub) Ready() <-chan struct{} {
	return h.ready
}

func (h *BidStreamHub) relay(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *BidStreamHub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub <- payload:
		default:
			// Subscriber is too slow; drop its oldest message to keep the hub responsive
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- payload:
			default:
			}
		}
	}
}

// Subscribe registers a new listener and returns a channel plus cleanup function.
func (h *BidStreamHub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 64)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, unsubscribe
}

// SubscriberCount reports the number of connected listeners
func (h *BidStreamHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
