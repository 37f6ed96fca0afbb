package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/team0101/shoes-shop/internal/models"
)

// ItemFilter narrows ListItems. Zero fields are ignored.
type ItemFilter struct {
	CustomerID uint
	BranchID   uint
	OrderTag   string
	Status     *models.ItemStatus
}

func (r *GormRepo) GetItem(ctx context.Context, id uint) (*models.PurchaseItem, error) {
	var item models.PurchaseItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListItems(ctx context.Context, f ItemFilter) ([]models.PurchaseItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.PurchaseItem{})
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.BranchID != 0 {
		q = q.Where("branch_id = ?", f.BranchID)
	}
	if f.OrderTag != "" {
		q = q.Where("order_tag = ?", f.OrderTag)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var items []models.PurchaseItem
	if err := q.Order("purchased_at DESC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateItems(ctx context.Context, items []models.PurchaseItem) ([]models.PurchaseItem, error) {
	if err := r.DB.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItemStatus persists a new status only when the row still carries the
// status the decision was computed against. Zero rows affected means a
// concurrent writer got there first.
func (r *GormRepo) UpdateItemStatus(ctx context.Context, id uint, from, to models.ItemStatus, pickedUpAt *time.Time) error {
	updates := map[string]any{"status": to}
	if pickedUpAt != nil {
		updates["picked_up_at"] = *pickedUpAt
	}

	res := r.DB.WithContext(ctx).
		Model(&models.PurchaseItem{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CreatePickup(ctx context.Context, pickup *models.Pickup) (*models.Pickup, error) {
	if err := r.DB.WithContext(ctx).Create(pickup).Error; err != nil {
		return nil, err
	}
	return pickup, nil
}

func (r *GormRepo) CreateRefund(ctx context.Context, refund *models.Refund) (*models.Refund, error) {
	if err := r.DB.WithContext(ctx).Create(refund).Error; err != nil {
		return nil, err
	}
	return refund, nil
}

func (r *GormRepo) ListRefunds(ctx context.Context, customerID uint) ([]models.Refund, error) {
	q := r.DB.WithContext(ctx).Model(&models.Refund{})
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}

	var refunds []models.Refund
	if err := q.Order("created_at DESC, id ASC").Find(&refunds).Error; err != nil {
		return nil, err
	}
	return refunds, nil
}
