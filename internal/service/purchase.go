package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team0101/shoes-shop/internal/models"
	"github.com/team0101/shoes-shop/internal/purchase"
	"github.com/team0101/shoes-shop/internal/repo"
	"github.com/team0101/shoes-shop/internal/transport"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

// Publisher is the slice of the kafka producer the service needs. Tests
// plug in a recorder instead of a broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

type PurchaseService struct {
	Repo     *repo.GormRepo
	Engine   purchase.Engine
	Producer Publisher
}

func (s *PurchaseService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	// Best effort: a broker outage must not fail the purchase flow.
	_ = s.Producer.PublishEvent(pctx, "purchase_events", key, event)
}

// CreatePurchase stores one purchase_item row per line, all sharing a fresh
// transaction number so later queries can group them back into one order.
func (s *PurchaseService) CreatePurchase(ctx context.Context, req transport.CreatePurchaseRequest, now time.Time) ([]models.PurchaseItem, error) {
	if req.CustomerID == 0 {
		return nil, fmt.Errorf("%w: customer_id required", ErrValidation)
	}
	if req.BranchID == 0 {
		return nil, fmt.Errorf("%w: branch_id required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	tag := "TXN-" + uuid.NewString()

	var items []models.PurchaseItem
	for i := range req.Items {
		if req.Items[i].ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if req.Items[i].Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if req.Items[i].UnitPrice < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}

		items = append(items, models.PurchaseItem{
			ProductID:   req.Items[i].ProductID,
			CustomerID:  req.CustomerID,
			BranchID:    req.BranchID,
			Quantity:    req.Items[i].Quantity,
			UnitPrice:   req.Items[i].UnitPrice,
			Status:      models.StatusPreparing,
			OrderTag:    tag,
			PurchasedAt: now,
		})
	}

	created, err := s.Repo.CreateItems(ctx, items)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, tag, map[string]any{
		"type":       "purchase_created",
		"order_tag":  tag,
		"customerID": req.CustomerID,
		"branchID":   req.BranchID,
		"items":      len(created),
	})

	return created, nil
}

// GroupOrders returns the customer's purchase history folded into logical
// orders, most recent first. Rows with a transaction number group by it;
// legacy rows fall back to the minute bucket.
func (s *PurchaseService) GroupOrders(ctx context.Context, customerID, branchID uint) ([]purchase.LogicalOrder, error) {
	items, err := s.Repo.ListItems(ctx, repo.ItemFilter{CustomerID: customerID, BranchID: branchID})
	if err != nil {
		return nil, err
	}

	keyFn := func(it models.PurchaseItem) (string, bool) {
		if key, ok := purchase.OrderTagKey(it); ok {
			return "tag/" + key, true
		}
		return purchase.MinuteBucketKey(it)
	}

	return purchase.GroupByKey(items, keyFn), nil
}

// RequestItemStatusChange runs the engine over the stored item and persists
// the decision. The write is guarded on the status the decision was computed
// against, so a concurrent transition surfaces as ErrConflict instead of a
// lost update.
func (s *PurchaseService) RequestItemStatusChange(ctx context.Context, itemID uint, target models.ItemStatus, now time.Time) (models.ItemStatus, error) {
	item, err := s.Repo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: purchase item %d", ErrNotFound, itemID)
		}
		return 0, err
	}

	next, err := s.Engine.RequestTransition(*item, target, now)
	if err != nil {
		return item.Status, err
	}

	var pickedUpAt *time.Time
	if next == models.StatusPickedUp {
		pickedUpAt = &now
	}

	if err := s.Repo.UpdateItemStatus(ctx, itemID, item.Status, next, pickedUpAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item.Status, fmt.Errorf("%w: item %d changed concurrently", ErrConflict, itemID)
		}
		return item.Status, err
	}

	s.publish(ctx, fmt.Sprint(itemID), map[string]any{
		"type":   "item_status_changed",
		"itemID": itemID,
		"from":   item.Status.String(),
		"to":     next.String(),
	})

	return next, nil
}

// RecordPickup marks the item as physically received and keeps the pickup
// ledger row the branch staff sign off on.
func (s *PurchaseService) RecordPickup(ctx context.Context, itemID uint, now time.Time) (*models.Pickup, error) {
	item, err := s.Repo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase item %d", ErrNotFound, itemID)
		}
		return nil, err
	}

	if _, err := s.RequestItemStatusChange(ctx, itemID, models.StatusPickedUp, now); err != nil {
		return nil, err
	}

	return s.Repo.CreatePickup(ctx, &models.Pickup{
		PurchaseItemID: itemID,
		CustomerID:     item.CustomerID,
		CreatedAt:      now,
	})
}

// ApproveReturn moves a requested return into processing and opens the
// refund record the staff works against.
func (s *PurchaseService) ApproveReturn(ctx context.Context, itemID, employeeID uint, reason string, now time.Time) (*models.Refund, error) {
	item, err := s.Repo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase item %d", ErrNotFound, itemID)
		}
		return nil, err
	}

	if _, err := s.RequestItemStatusChange(ctx, itemID, models.StatusReturnProcessing, now); err != nil {
		return nil, err
	}

	return s.Repo.CreateRefund(ctx, &models.Refund{
		PurchaseItemID: itemID,
		CustomerID:     item.CustomerID,
		EmployeeID:     employeeID,
		Reason:         reason,
		CreatedAt:      now,
	})
}

// StalePickups lists the customer's picked-up items whose return window has
// closed, so the UI can stop offering the return action. Nothing is written.
func (s *PurchaseService) StalePickups(ctx context.Context, customerID uint, now time.Time) ([]models.PurchaseItem, error) {
	status := models.StatusPickedUp
	items, err := s.Repo.ListItems(ctx, repo.ItemFilter{CustomerID: customerID, Status: &status})
	if err != nil {
		return nil, err
	}
	return s.Engine.ExpirePickups(items, now), nil
}

func (s *PurchaseService) ListRefunds(ctx context.Context, customerID uint) ([]models.Refund, error) {
	return s.Repo.ListRefunds(ctx, customerID)
}
