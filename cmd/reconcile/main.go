package main

import (
	"context"
	"log"

	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/db"
	"github.com/storefront-auctions/backend/internal/services"
)

// One-shot status sweep, for cron or manual runs
func main() {
	log.Println("🚀 Starting manual auction status reconcile...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	// The sweep does not need Redis, the listing cache just expires on its own
	redisClient := db.ConnectOptionalRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	reconciler := services.NewReconciler(pgDB, redisClient, cfg.Jobs.ExpireActiveListings)
	report, err := reconciler.ReconcileStatuses(context.Background())
	if err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}

	log.Printf("✅ Listings sold: %d, expired: %d", report.ListingsSold, report.ListingsExpired)
	log.Printf("✅ Bids won: %d, expired: %d", report.BidsWon, report.BidsExpired)
}
