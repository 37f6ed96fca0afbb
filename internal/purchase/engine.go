package purchase

import (
	"fmt"
	"time"

	"github.com/team0101/shoes-shop/internal/models"
)

// Engine decides whether a status transition is legal. It is a pure
// evaluator: it never reads or writes storage, and the caller persists the
// returned status itself.
type Engine struct {
	// Window overrides ReturnWindow when positive. Tests use this.
	Window time.Duration
}

func (e Engine) window() time.Duration {
	if e.Window > 0 {
		return e.Window
	}
	return ReturnWindow
}

// RequestTransition validates current -> target for the given item and
// returns the status to persist. Only the immediate successor is legal;
// picked_up -> return_requested is additionally gated by the return window.
func (e Engine) RequestTransition(item models.PurchaseItem, target models.ItemStatus, now time.Time) (models.ItemStatus, error) {
	next, ok := statusSuccessor[item.Status]
	if !ok || next != target {
		return item.Status, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, item.Status, target)
	}

	if item.Status == models.StatusPickedUp && target == models.StatusReturnRequested {
		if !e.ReturnEligible(item, now) {
			return item.Status, fmt.Errorf("%w: item %d picked up more than %s ago",
				ErrIneligibleForReturn, item.ID, e.window())
		}
	}

	return target, nil
}

// ReturnEligible reports whether a return request would still be accepted
// for the item. Items that are not picked up yet are never eligible. The
// clock starts at the pickup time, falling back to the purchase time for
// rows recorded before pickups were tracked.
func (e Engine) ReturnEligible(item models.PurchaseItem, now time.Time) bool {
	if item.Status != models.StatusPickedUp {
		return false
	}
	start := item.PurchasedAt
	if item.PickedUpAt != nil {
		start = *item.PickedUpAt
	}
	return now.Sub(start) <= e.window()
}

// ExpirePickups returns the picked-up items whose return window has lapsed.
// It never mutates: the window only gates new return requests, so a stale
// item keeps its picked_up status and callers simply stop offering the
// return action for it.
func (e Engine) ExpirePickups(items []models.PurchaseItem, now time.Time) []models.PurchaseItem {
	var stale []models.PurchaseItem
	for _, it := range items {
		if it.Status == models.StatusPickedUp && !e.ReturnEligible(it, now) {
			stale = append(stale, it)
		}
	}
	return stale
}
