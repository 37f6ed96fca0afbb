package purchase

import (
	"fmt"
	"sort"
	"time"

	"github.com/team0101/shoes-shop/internal/models"
)

// LogicalOrder is a derived view over PurchaseItem rows sharing a grouping
// key. It is recomputed on every query and never persisted.
type LogicalOrder struct {
	Key         string                `json:"key"`
	Items       []models.PurchaseItem `json:"items"`
	ItemCount   int                   `json:"item_count"`
	TotalAmount int64                 `json:"total_amount"`
	OrderedAt   time.Time             `json:"ordered_at"`
}

// KeyFunc computes the grouping key of an item. ok=false means the item has
// no key under this scheme and stands alone as a singleton order.
type KeyFunc func(models.PurchaseItem) (key string, ok bool)

// MinuteBucketKey groups items purchased by the same customer at the same
// branch within the same minute. Timestamps are truncated to the start of
// their minute, never rounded.
func MinuteBucketKey(it models.PurchaseItem) (string, bool) {
	bucket := it.PurchasedAt.Truncate(time.Minute).Unix()
	return fmt.Sprintf("%d/%d/%d", it.CustomerID, it.BranchID, bucket), true
}

// OrderTagKey groups items by their explicit transaction number. Untagged
// items form singleton orders.
func OrderTagKey(it models.PurchaseItem) (string, bool) {
	if it.OrderTag == "" {
		return "", false
	}
	return it.OrderTag, true
}

// GroupByKey partitions items into logical orders under keyFn. Orders come
// back most recent first (earliest member timestamp descending, ties broken
// by ascending first item id); members are sorted by id ascending. The input
// slice is not modified.
func GroupByKey(items []models.PurchaseItem, keyFn KeyFunc) []LogicalOrder {
	byKey := make(map[string]int)
	orders := make([]LogicalOrder, 0, len(items))

	for _, it := range items {
		key, ok := keyFn(it)
		if !ok {
			// Keyless items stand alone under a synthetic key.
			key = fmt.Sprintf("item/%d", it.ID)
			orders = append(orders, LogicalOrder{Key: key, Items: []models.PurchaseItem{it}})
			continue
		}
		idx, seen := byKey[key]
		if !seen {
			byKey[key] = len(orders)
			orders = append(orders, LogicalOrder{Key: key})
			idx = len(orders) - 1
		}
		orders[idx].Items = append(orders[idx].Items, it)
	}

	for i := range orders {
		o := &orders[i]
		sort.Slice(o.Items, func(a, b int) bool { return o.Items[a].ID < o.Items[b].ID })
		o.ItemCount = len(o.Items)
		o.TotalAmount = 0
		o.OrderedAt = o.Items[0].PurchasedAt
		for _, it := range o.Items {
			o.TotalAmount += it.UnitPrice * int64(it.Quantity)
			if it.PurchasedAt.Before(o.OrderedAt) {
				o.OrderedAt = it.PurchasedAt
			}
		}
	}

	sort.Slice(orders, func(a, b int) bool {
		if !orders[a].OrderedAt.Equal(orders[b].OrderedAt) {
			return orders[a].OrderedAt.After(orders[b].OrderedAt)
		}
		return orders[a].Items[0].ID < orders[b].Items[0].ID
	})

	return orders
}
