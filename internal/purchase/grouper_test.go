package purchase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/team0101/shoes-shop/internal/models"
)

func item(id, customer, branch uint, price int64, qty uint, at time.Time, tag string) models.PurchaseItem {
	return models.PurchaseItem{
		ID:          id,
		CustomerID:  customer,
		BranchID:    branch,
		Quantity:    qty,
		UnitPrice:   price,
		PurchasedAt: at,
		OrderTag:    tag,
	}
}

func TestMinuteBucketGroupsSameMinute(t *testing.T) {
	base := time.Date(2025, 3, 14, 12, 0, 10, 0, time.UTC)

	items := []models.PurchaseItem{
		item(1, 1, 2, 50000, 2, base, ""),
		item(2, 1, 2, 30000, 1, base.Add(20*time.Second), ""),
		item(3, 1, 2, 20000, 3, base.Add(45*time.Second), ""),
	}

	orders := GroupByKey(items, MinuteBucketKey)
	require.Len(t, orders, 1)
	require.Equal(t, 3, orders[0].ItemCount)
	require.Equal(t, int64(50000*2+30000*1+20000*3), orders[0].TotalAmount)
	require.Equal(t, base, orders[0].OrderedAt)
}

func TestMinuteBucketSplitsAcrossBoundary(t *testing.T) {
	// 12:00:59 and 12:01:00 are one second apart but different orders.
	a := time.Date(2025, 3, 14, 12, 0, 59, 0, time.UTC)
	b := time.Date(2025, 3, 14, 12, 1, 0, 0, time.UTC)

	orders := GroupByKey([]models.PurchaseItem{
		item(1, 1, 2, 1000, 1, a, ""),
		item(2, 1, 2, 1000, 1, b, ""),
	}, MinuteBucketKey)

	require.Len(t, orders, 2)
}

func TestMinuteBucketSplitsByCustomerAndBranch(t *testing.T) {
	at := time.Date(2025, 3, 14, 12, 0, 30, 0, time.UTC)

	orders := GroupByKey([]models.PurchaseItem{
		item(1, 1, 2, 1000, 1, at, ""),
		item(2, 1, 3, 1000, 1, at, ""), // other branch
		item(3, 9, 2, 1000, 1, at, ""), // other customer
	}, MinuteBucketKey)

	require.Len(t, orders, 3)
}

func TestOrderTagGrouping(t *testing.T) {
	at := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	orders := GroupByKey([]models.PurchaseItem{
		item(1, 1, 2, 1000, 1, at, "TXN-a"),
		item(2, 1, 2, 2000, 1, at.Add(time.Hour), "TXN-a"), // tag wins over time
		item(3, 1, 2, 3000, 1, at, "TXN-b"),
	}, OrderTagKey)

	require.Len(t, orders, 2)

	var tagA *LogicalOrder
	for i := range orders {
		if orders[i].Key == "TXN-a" {
			tagA = &orders[i]
		}
	}
	require.NotNil(t, tagA)
	require.Equal(t, 2, tagA.ItemCount)
	require.Equal(t, int64(3000), tagA.TotalAmount)
	require.Equal(t, at, tagA.OrderedAt)
}

func TestOrderTagUntaggedStandAlone(t *testing.T) {
	at := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	orders := GroupByKey([]models.PurchaseItem{
		item(1, 1, 2, 1000, 1, at, ""),
		item(2, 1, 2, 1000, 1, at, ""),
	}, OrderTagKey)

	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, 1, o.ItemCount)
	}
}

func TestGroupByKeyEmptyInput(t *testing.T) {
	orders := GroupByKey(nil, MinuteBucketKey)
	require.Empty(t, orders)
}

func TestGroupByKeyOrdering(t *testing.T) {
	old := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)

	orders := GroupByKey([]models.PurchaseItem{
		item(1, 1, 2, 1000, 1, old, ""),
		item(2, 1, 2, 1000, 1, recent, ""),
	}, MinuteBucketKey)

	require.Len(t, orders, 2)
	// Most recent order first.
	require.Equal(t, recent, orders[0].OrderedAt)
	require.Equal(t, old, orders[1].OrderedAt)
}

func TestGroupByKeyMembersSortedByID(t *testing.T) {
	at := time.Date(2025, 3, 14, 12, 0, 30, 0, time.UTC)

	orders := GroupByKey([]models.PurchaseItem{
		item(5, 1, 2, 1000, 1, at.Add(5*time.Second), ""),
		item(2, 1, 2, 1000, 1, at.Add(10*time.Second), ""),
		item(9, 1, 2, 1000, 1, at, ""),
	}, MinuteBucketKey)

	require.Len(t, orders, 1)
	require.Equal(t, uint(2), orders[0].Items[0].ID)
	require.Equal(t, uint(5), orders[0].Items[1].ID)
	require.Equal(t, uint(9), orders[0].Items[2].ID)
	// Earliest member timestamp, not the first member's.
	require.Equal(t, at, orders[0].OrderedAt)
}

func TestGroupByKeyIdempotent(t *testing.T) {
	at := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	items := []models.PurchaseItem{
		item(3, 1, 2, 1000, 2, at, "TXN-x"),
		item(1, 1, 2, 2000, 1, at.Add(30*time.Second), "TXN-x"),
		item(2, 4, 2, 500, 1, at, ""),
	}

	first := GroupByKey(items, OrderTagKey)
	second := GroupByKey(items, OrderTagKey)
	require.Equal(t, first, second)
}
