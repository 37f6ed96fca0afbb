package models

import "fmt"

// ItemStatus is the lifecycle state of a PurchaseItem. The numeric values
// are stored in the status column and follow the normal progression order,
// so they must not be reordered.
type ItemStatus int

const (
	StatusPreparing ItemStatus = iota
	StatusReady
	StatusPickedUp
	StatusReturnRequested
	StatusReturnProcessing
	StatusReturnComplete
)

var statusNames = map[ItemStatus]string{
	StatusPreparing:        "preparing",
	StatusReady:            "ready",
	StatusPickedUp:         "picked_up",
	StatusReturnRequested:  "return_requested",
	StatusReturnProcessing: "return_processing",
	StatusReturnComplete:   "return_complete",
}

func (s ItemStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ItemStatus(%d)", int(s))
}

func (s ItemStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseItemStatus maps the wire name of a status back to its enum value.
func ParseItemStatus(name string) (ItemStatus, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown item status %q", name)
}
