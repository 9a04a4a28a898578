// internal/inventory/legacy.go
package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// LegacyStatus is the 3-state projection consumed by modules that predate
// the negotiating state.
type LegacyStatus string

const (
	LegacyAvailable LegacyStatus = "available"
	LegacyReserved  LegacyStatus = "reserved"
	LegacySold      LegacyStatus = "sold"
)

// LegacyView is the read-only projection of a vehicle for older consumers.
// The mapping is lossy and one-directional: negotiating collapses into
// reserved, with IsNegotiating carrying the distinction for consumers that
// learn to look. The canonical record stays the single source of truth.
type LegacyView struct {
	ID               uuid.UUID    `json:"id"`
	Status           LegacyStatus `json:"status"`
	IsNegotiating    bool         `json:"is_negotiating"`
	AssignedVendorID *uuid.UUID   `json:"assigned_vendor_id,omitempty"`
	Value            int64        `json:"value"`
	ReservedAt       *time.Time   `json:"reserved_at,omitempty"`
}

// ToLegacyView projects a canonical vehicle onto the 3-state model.
func ToLegacyView(v Vehicle) LegacyView {
	view := LegacyView{
		ID:    v.id,
		Value: v.value,
	}
	switch v.status {
	case StatusAvailable:
		view.Status = LegacyAvailable
	case StatusReserved:
		view.Status = LegacyReserved
	case StatusNegotiating:
		view.Status = LegacyReserved
		view.IsNegotiating = true
	case StatusSold:
		view.Status = LegacySold
	}
	if v.owner != nil {
		vid := v.owner.VendorID
		view.AssignedVendorID = &vid
		at := v.owner.ReservedAt
		view.ReservedAt = &at
	}
	return view
}

// FilterByLegacyStatus selects the vehicles an older consumer would see
// under the given 3-state status. "reserved" matches both canonical reserved
// and negotiating so that legacy counts never diverge from canonical ones.
func FilterByLegacyStatus(vehicles []Vehicle, status LegacyStatus) []Vehicle {
	out := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		switch status {
		case LegacyReserved:
			if v.status == StatusReserved || v.status == StatusNegotiating {
				out = append(out, v)
			}
		default:
			if LegacyStatus(v.status) == status {
				out = append(out, v)
			}
		}
	}
	return out
}

// statusPriority is the display order of the canonical states.
var statusPriority = map[Status]int{
	StatusAvailable:   1,
	StatusReserved:    2,
	StatusNegotiating: 3,
	StatusSold:        4,
}

// SortForDisplay returns a copy sorted by status priority, then listing value
// descending, then id. The id tie-break makes the order total, so repeated
// renders of the same inventory never reshuffle equal-value vehicles.
func SortForDisplay(vehicles []Vehicle) []Vehicle {
	out := make([]Vehicle, len(vehicles))
	copy(out, vehicles)
	sort.Slice(out, func(i, j int) bool {
		pi, pj := statusPriority[out[i].status], statusPriority[out[j].status]
		if pi != pj {
			return pi < pj
		}
		if out[i].value != out[j].value {
			return out[i].value > out[j].value
		}
		return out[i].id.String() < out[j].id.String()
	})
	return out
}
