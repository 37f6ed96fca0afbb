package purchase

import (
	"errors"
	"time"

	"github.com/team0101/shoes-shop/internal/models"
)

// ReturnWindow is how long after pickup a customer may still open a return.
const ReturnWindow = 30 * 24 * time.Hour

var (
	// ErrInvalidTransition means the requested target is not the immediate
	// successor of the item's current status.
	ErrInvalidTransition = errors.New("purchase: invalid status transition")
	// ErrIneligibleForReturn means the return window has closed for the item.
	ErrIneligibleForReturn = errors.New("purchase: return window closed")
)

// statusSuccessor is the full transition table. A status missing from the
// map (return_complete) is terminal.
var statusSuccessor = map[models.ItemStatus]models.ItemStatus{
	models.StatusPreparing:        models.StatusReady,
	models.StatusReady:            models.StatusPickedUp,
	models.StatusPickedUp:         models.StatusReturnRequested,
	models.StatusReturnRequested:  models.StatusReturnProcessing,
	models.StatusReturnProcessing: models.StatusReturnComplete,
}

// NextStatus returns the immediate successor of s, or false when s is
// terminal or undefined.
func NextStatus(s models.ItemStatus) (models.ItemStatus, bool) {
	next, ok := statusSuccessor[s]
	return next, ok
}

// CanTransition reports whether current -> target is an edge of the
// transition table. It does not apply the return-window guard.
func CanTransition(current, target models.ItemStatus) bool {
	next, ok := statusSuccessor[current]
	return ok && next == target
}
