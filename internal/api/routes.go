/**
 * @description
 * API Route definitions.
 * Wires the auction services and sets up the router groups.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/api/middleware
 * - backend/internal/services
 */

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/storefront-auctions/backend/internal/api/handlers"
	"github.com/storefront-auctions/backend/internal/api/middleware"
	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/services"
	"gorm.io/gorm"
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Listings   *services.ListingService
	Bids       *services.BidService
	Reconciler *services.Reconciler
	Hub        *services.BidStreamHub // nil without Redis
}

// NewServices builds the auction services. Redis and NATS are optional:
// without Redis there is no listing cache and no SSE stream, without NATS
// bid events only go to Redis.
func NewServices(db *gorm.DB, rdb *redis.Client, nc *nats.Conn, cfg *config.Config) Services {
	var publishers []services.BidEventPublisher
	if rdb != nil {
		publishers = append(publishers, services.NewRedisBidPublisher(rdb))
	}
	if nc != nil {
		publishers = append(publishers, services.NewNATSBidPublisher(nc))
	}

	svc := Services{
		Listings:   services.NewListingService(db, rdb, cfg.Auction),
		Bids:       services.NewBidService(db, cfg.Auction, publishers...),
		Reconciler: services.NewReconciler(db, rdb, cfg.Jobs.ExpireActiveListings),
	}
	if rdb != nil {
		svc.Hub = services.NewBidStreamHub(rdb, services.BidEventChannel)
	}
	return svc
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc Services, cfg *config.Config) {
	listingHandler := handlers.NewListingHandler(svc.Listings)
	bidHandler := handlers.NewBidHandler(svc.Bids, svc.Hub)
	reconcileHandler := handlers.NewReconcileHandler(svc.Reconciler)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Listings
	listings := v1.Group("/listings")
	listings.Get("", listingHandler.GetListings)
	listings.Post("", listingHandler.CreateListing)
	listings.Delete("/:product_id", listingHandler.RemoveListing)
	listings.Post("/:product_id/bids", bidHandler.PlaceBid)

	// Bids
	v1.Get("/customers/:customer_id/bids", bidHandler.GetCustomerBids)
	v1.Get("/bids/stream", bidHandler.StreamBids)

	// Jobs (external scheduler)
	jobs := v1.Group("/jobs", middleware.JobSecret(cfg.Jobs.ReconcileSecret))
	jobs.Post("/reconcile", reconcileHandler.RunReconcile)
}
