/**
 * @description
 * Listing API Handlers.
 * Lists, creates and withdraws auction listings.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/shopspring/decimal
 * - backend/internal/services
 */

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/storefront-auctions/backend/internal/services"
)

type ListingHandler struct {
	Service *services.ListingService
}

func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{Service: service}
}

// CreateListingRequest is the body of POST /listings. Omitted fields take
// the service defaults.
type CreateListingRequest struct {
	ProductID       int              `json:"product_id"`
	ExpireDate      *time.Time       `json:"expire_date"`
	InitialBidPrice *decimal.Decimal `json:"initial_bid_price"`
}

// GetListings returns every listing, latest expiry first
// GET /api/v1/listings
func (h *ListingHandler) GetListings(c *fiber.Ctx) error {
	listings, err := h.Service.ListListings(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch listings")
	}
	return c.JSON(listings)
}

// CreateListing puts a product up for auction
// POST /api/v1/listings
func (h *ListingHandler) CreateListing(c *fiber.Ctx) error {
	var req CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ProductID <= 0 {
		return badRequest(c, "product_id is required")
	}

	listings, err := h.Service.CreateListing(c.UserContext(), services.CreateListingParams{
		ProductID:       req.ProductID,
		ExpireDate:      req.ExpireDate,
		InitialBidPrice: req.InitialBidPrice,
	})
	if err != nil {
		return respondError(c, err, "Failed to create listing")
	}
	return c.Status(fiber.StatusCreated).JSON(listings)
}

// RemoveListing withdraws a running listing and cancels its active bid
// DELETE /api/v1/listings/:product_id
func (h *ListingHandler) RemoveListing(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("product_id")
	if err != nil || productID <= 0 {
		return badRequest(c, "Invalid product id")
	}

	if err := h.Service.RemoveListing(c.UserContext(), productID); err != nil {
		return respondError(c, err, "Failed to remove listing")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
