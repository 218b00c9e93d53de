/**
 * @description
 * Worker Service Entry Point.
 * Responsible for background tasks:
 * 1. Reconciling auction statuses on a fixed interval.
 * 2. Tailing accepted-bid events from NATS for the operations log.
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/services
 */

package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/db"
	"github.com/storefront-auctions/backend/internal/logger"
	"github.com/storefront-auctions/backend/internal/models"
	"github.com/storefront-auctions/backend/internal/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger.Info("🔥 Starting Auction Worker...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 2. Connect DBs
	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("Postgres connection failed: %v", err)
	}

	// Sweeps do not need Redis, the listing cache just expires on its own
	redisClient := db.ConnectOptionalRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	natsConn, err := db.ConnectNATS(cfg)
	if err != nil {
		logger.Error("NATS unavailable, bid events will not be tailed: %v", err)
	}

	// 3. Initialize Services
	reconciler := services.NewReconciler(pgDB, redisClient, cfg.Jobs.ExpireActiveListings)

	// 4. Context cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// 5. Bid event tail
	if natsConn != nil {
		g.Go(func() error {
			sub, err := natsConn.Subscribe(services.BidEventSubjectPrefix+".>", logBidEvent)
			if err != nil {
				logger.Error("Failed to subscribe to bid events: %v", err)
				return nil
			}
			<-gctx.Done()
			_ = sub.Unsubscribe()
			return natsConn.Drain()
		})
	}

	// 6. Reconcile Loop
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Jobs.ReconcileInterval)
		defer ticker.Stop()

		// Initial sweep
		reconcile(gctx, reconciler)

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				reconcile(gctx, reconciler)
			}
		}
	})

	// 7. Graceful Shutdown
	<-gctx.Done()
	logger.Info("Shutting down worker...")
	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error: %v", err)
	}
	logger.Info("Worker exited.")
}

func reconcile(ctx context.Context, r *services.Reconciler) {
	report, err := r.ReconcileStatuses(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("Reconcile sweep failed: %v", err)
		}
		return
	}
	if !report.Changed() {
		logger.Info("Reconcile sweep: nothing to do")
	}
}

func logBidEvent(msg *nats.Msg) {
	var event models.BidEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Warn("Ignoring malformed bid event on %s: %v", msg.Subject, err)
		return
	}
	logger.Info("Bid %d on product %d by customer %d: %s -> %s",
		event.BidID, event.ProductID, event.CustomerID, event.PreviousPrice, event.CurrentPrice)
}
