/**
 * @description
 * Bid API Handlers.
 * Accepts bids on listed products, serves customer bid history and streams
 * accepted bids to clients over SSE.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/shopspring/decimal
 * - backend/internal/services
 */

package handlers

import (
	"bufio"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/storefront-auctions/backend/internal/services"
)

const streamKeepAlive = 15 * time.Second

type BidHandler struct {
	Service *services.BidService
	Hub     *services.BidStreamHub // nil disables the stream endpoint
}

func NewBidHandler(service *services.BidService, hub *services.BidStreamHub) *BidHandler {
	return &BidHandler{Service: service, Hub: hub}
}

// PlaceBidRequest is the body of POST /listings/:product_id/bids.
// A missing bid_amount bids the minimum increment.
type PlaceBidRequest struct {
	CustomerID int              `json:"customer_id"`
	BidAmount  *decimal.Decimal `json:"bid_amount"`
}

// PlaceBid records a bid and returns it with the bid ledger
// POST /api/v1/listings/:product_id/bids
func (h *BidHandler) PlaceBid(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("product_id")
	if err != nil || productID <= 0 {
		return badRequest(c, "Invalid product id")
	}

	var req PlaceBidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.CustomerID <= 0 {
		return badRequest(c, "customer_id is required")
	}

	result, err := h.Service.PlaceBid(c.UserContext(), services.PlaceBidParams{
		ProductID:  productID,
		CustomerID: req.CustomerID,
		BidAmount:  req.BidAmount,
	})
	if err != nil {
		return respondError(c, err, "Failed to place bid")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetCustomerBids returns a customer's bids inside [start, end]
// GET /api/v1/customers/:customer_id/bids?start=&end=&active=
func (h *BidHandler) GetCustomerBids(c *fiber.Ctx) error {
	customerID, err := c.ParamsInt("customer_id")
	if err != nil || customerID <= 0 {
		return badRequest(c, "Invalid customer id")
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		return badRequest(c, "start must be an RFC3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		return badRequest(c, "end must be an RFC3339 timestamp")
	}

	activeOnly := true
	if raw := c.Query("active"); raw != "" {
		activeOnly, err = strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "active must be a boolean")
		}
	}

	bids, err := h.Service.QueryHistory(c.UserContext(), services.HistoryParams{
		CustomerID: customerID,
		Start:      start.UTC(),
		End:        end.UTC(),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return respondError(c, err, "Failed to fetch bid history")
	}
	return c.JSON(bids)
}

// StreamBids streams accepted bids over SSE
// GET /api/v1/bids/stream
func (h *BidHandler) StreamBids(c *fiber.Ctx) error {
	if h.Hub == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Bid stream unavailable",
		})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	requestDone := c.Context().Done()
	events, unsubscribe := h.Hub.Subscribe()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		// Flush headers so clients see the stream open before the first bid
		fmt.Fprint(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case <-requestDone:
				return
			case <-keepAlive.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			case payload, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: bid\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
