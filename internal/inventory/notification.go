// internal/inventory/notification.go
package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Source tags identify which module produced a status change.
const (
	SourceInventory = "inventory"
	SourceExpirer   = "expirer"
	SourceLeads     = "leads"
)

// StatusChangeNotification describes one status transition. It is a plain
// value, fully populated at construction and never mutated; delivery to
// downstream consumers is someone else's job.
type StatusChangeNotification struct {
	ID         uuid.UUID  `json:"id"`
	VehicleID  uuid.UUID  `json:"vehicle_id"`
	OldStatus  Status     `json:"old_status"`
	NewStatus  Status     `json:"new_status"`
	VendorID   *uuid.UUID `json:"vendor_id,omitempty"`
	VendorName string     `json:"vendor_name,omitempty"`
	Source     string     `json:"source"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewStatusChangeNotification builds a timestamped notification record.
func NewStatusChangeNotification(vehicleID uuid.UUID, oldStatus, newStatus Status, source string, vendorID *uuid.UUID, vendorName string) StatusChangeNotification {
	var vid *uuid.UUID
	if vendorID != nil {
		v := *vendorID
		vid = &v
	}
	return StatusChangeNotification{
		ID:         uuid.New(),
		VehicleID:  vehicleID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		VendorID:   vid,
		VendorName: vendorName,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
}
