package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/team0101/shoes-shop/internal/logging"
	"github.com/team0101/shoes-shop/internal/models"
	"github.com/team0101/shoes-shop/internal/purchase"
	"github.com/team0101/shoes-shop/internal/service"
	"github.com/team0101/shoes-shop/internal/transport"
)

type PurchaseHandler struct {
	Svc *service.PurchaseService
}

// statusError maps service and engine rejections onto HTTP codes. The core
// only hands back typed errors; what the customer sees is decided here.
func statusError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, purchase.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, purchase.ErrIneligibleForReturn):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *PurchaseHandler) CreatePurchase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.create")

	var req transport.CreatePurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	items, err := h.Svc.CreatePurchase(ctx, req, time.Now())
	if err != nil {
		l.Warn("create_purchase_failed", "error", err)
		return statusError(err)
	}

	resp := transport.CreatePurchaseResponse{OrderTag: items[0].OrderTag}
	for _, it := range items {
		resp.ItemIDs = append(resp.ItemIDs, it.ID)
	}

	l.Info("create_purchase_success", "order_tag", resp.OrderTag, "items", len(items))
	return c.JSON(http.StatusCreated, resp)
}

func (h *PurchaseHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.get_orders")

	customerID := uint(parseIntDefault(c.QueryParam("customer_id"), 0))
	branchID := uint(parseIntDefault(c.QueryParam("branch_id"), 0))
	if customerID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id required")
	}

	orders, err := h.Svc.GroupOrders(ctx, customerID, branchID)
	if err != nil {
		l.Error("get_orders_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}

	return c.JSON(http.StatusOK, map[string]any{"orders": orders, "total": len(orders)})
}

func (h *PurchaseHandler) ChangeItemStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.change_status")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req transport.StatusChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	target, err := models.ParseItemStatus(req.TargetStatus)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	now := time.Now()
	next, err := h.Svc.RequestItemStatusChange(ctx, id, target, now)
	if err != nil {
		l.Warn("change_status_rejected", "itemID", id, "target", target.String(), "error", err)
		return statusError(err)
	}

	l.Info("change_status_success", "itemID", id, "status", next.String())
	return c.JSON(http.StatusOK, transport.StatusChangeResponse{
		ID:        id,
		Status:    next.String(),
		ChangedAt: now,
	})
}

// RequestReturn is the customer-facing shortcut for picked_up ->
// return_requested, the one edge with the 30-day guard.
func (h *PurchaseHandler) RequestReturn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.request_return")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	now := time.Now()
	next, err := h.Svc.RequestItemStatusChange(ctx, id, models.StatusReturnRequested, now)
	if err != nil {
		l.Warn("request_return_rejected", "itemID", id, "error", err)
		return statusError(err)
	}

	l.Info("request_return_success", "itemID", id)
	return c.JSON(http.StatusOK, transport.StatusChangeResponse{
		ID:        id,
		Status:    next.String(),
		ChangedAt: now,
	})
}

func (h *PurchaseHandler) RecordPickup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.record_pickup")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	pickup, err := h.Svc.RecordPickup(ctx, id, time.Now())
	if err != nil {
		l.Warn("record_pickup_rejected", "itemID", id, "error", err)
		return statusError(err)
	}

	l.Info("record_pickup_success", "itemID", id, "pickupID", pickup.ID)
	return c.JSON(http.StatusCreated, pickup)
}

func (h *PurchaseHandler) ApproveReturn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.approve_return")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req transport.ApproveReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	refund, err := h.Svc.ApproveReturn(ctx, id, req.EmployeeID, req.Reason, time.Now())
	if err != nil {
		l.Warn("approve_return_rejected", "itemID", id, "error", err)
		return statusError(err)
	}

	l.Info("approve_return_success", "itemID", id, "refundID", refund.ID)
	return c.JSON(http.StatusCreated, refund)
}

// StalePickups lists picked-up items whose return window already closed.
// Read only: the UI uses it to hide the return action.
func (h *PurchaseHandler) StalePickups(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.stale_pickups")

	customerID := uint(parseIntDefault(c.QueryParam("customer_id"), 0))
	if customerID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id required")
	}

	items, err := h.Svc.StalePickups(ctx, customerID, time.Now())
	if err != nil {
		l.Error("stale_pickups_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list items")
	}

	return c.JSON(http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *PurchaseHandler) ListRefunds(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.list_refunds")

	customerID := uint(parseIntDefault(c.QueryParam("customer_id"), 0))

	refunds, err := h.Svc.ListRefunds(ctx, customerID)
	if err != nil {
		l.Error("list_refunds_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list refunds")
	}

	return c.JSON(http.StatusOK, map[string]any{"refunds": refunds, "total": len(refunds)})
}
