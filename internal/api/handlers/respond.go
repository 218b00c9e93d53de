package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/storefront-auctions/backend/internal/logger"
	"github.com/storefront-auctions/backend/internal/services"
)

// respondError maps service errors onto HTTP statuses. Business errors keep
// their message, severity and state; anything else is logged and hidden
// behind the fallback message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var auctionErr *services.AuctionError
	if errors.As(err, &auctionErr) {
		status := fiber.StatusBadRequest
		if errors.Is(err, services.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error":    auctionErr.Message,
			"severity": auctionErr.Severity,
			"state":    auctionErr.State,
		})
	}

	logger.Error("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
