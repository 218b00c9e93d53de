package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/storefront-auctions/backend/internal/services"
)

type ReconcileHandler struct {
	Reconciler *services.Reconciler
}

func NewReconcileHandler(reconciler *services.Reconciler) *ReconcileHandler {
	return &ReconcileHandler{Reconciler: reconciler}
}

// RunReconcile runs one status sweep and reports how many rows moved
// POST /api/v1/jobs/reconcile
func (h *ReconcileHandler) RunReconcile(c *fiber.Ctx) error {
	report, err := h.Reconciler.ReconcileStatuses(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to reconcile auction statuses")
	}
	return c.JSON(report)
}
