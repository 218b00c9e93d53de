/**
 * @description
 * NATS connection manager.
 * The connection is optional: an empty NATS_URL yields a nil connection and
 * bid events are then only fanned out over Redis.
 *
 * @dependencies
 * - github.com/nats-io/nats.go
 */

package db

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/logger"
)

// ConnectNATS initializes the NATS connection, or returns nil when disabled
func ConnectNATS(cfg *config.Config) (*nats.Conn, error) {
	if cfg.NATS.URL == "" {
		logger.Info("NATS_URL is empty, NATS bid publisher disabled")
		return nil, nil
	}

	conn, err := nats.Connect(cfg.NATS.URL,
		nats.Name("auction-backend"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("✅ Connected to NATS")
	return conn, nil
}
