// internal/inventory/domain.go
package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Status is the canonical lifecycle state of a vehicle.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusReserved    Status = "reserved"
	StatusNegotiating Status = "negotiating"
	StatusSold        Status = "sold"
)

// ParseStatus validates a raw status string coming from the outside.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	switch s {
	case StatusAvailable, StatusReserved, StatusNegotiating, StatusSold:
		return s, nil
	}
	return "", &ValidationError{Field: "status", Message: "unknown status: " + raw}
}

// AllowedTransitions is the canonical transition table. sold is terminal.
var AllowedTransitions = map[Status][]Status{
	StatusAvailable:   {StatusReserved},
	StatusReserved:    {StatusNegotiating, StatusAvailable},
	StatusNegotiating: {StatusSold, StatusAvailable},
	StatusSold:        {},
}

// CanTransition reports whether from -> to is a legal status transition.
func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Ownership records the exclusive claim a vendor holds on a vehicle while it
// is reserved or negotiating. It never exists in any other state.
type Ownership struct {
	VendorID             uuid.UUID
	ReservedAt           time.Time
	NegotiationStartedAt *time.Time
}

// Sale records the terminal sale data. Immutable once written.
type Sale struct {
	VendorID uuid.UUID
	SoldAt   time.Time
	Value    int64
}

// Vehicle is the canonical inventory record. Its fields are unexported so the
// illegal combinations (an owner on an available vehicle, sale data before the
// sale) cannot be constructed; the only mutations are the transition methods,
// which return a fresh value and leave the receiver untouched.
type Vehicle struct {
	id        uuid.UUID
	status    Status
	owner     *Ownership
	sale      *Sale
	makeName  string
	model     string
	year      int
	value     int64
	createdAt time.Time
}

// NewVehicle creates a vehicle in the available state, with no owner.
func NewVehicle(makeName, model string, year int, value int64, now time.Time) (Vehicle, error) {
	if value <= 0 {
		return Vehicle{}, &ValidationError{Field: "value", Message: "listing value must be positive"}
	}
	return Vehicle{
		id:        uuid.New(),
		status:    StatusAvailable,
		makeName:  makeName,
		model:     model,
		year:      year,
		value:     value,
		createdAt: now,
	}, nil
}

// ID returns the vehicle identifier.
func (v Vehicle) ID() uuid.UUID { return v.id }

// Status returns the canonical status.
func (v Vehicle) Status() Status { return v.status }

// Value returns the listing price.
func (v Vehicle) Value() int64 { return v.value }

// Owner returns the vendor currently holding the vehicle, if any.
func (v Vehicle) Owner() (uuid.UUID, bool) {
	if v.owner == nil {
		return uuid.Nil, false
	}
	return v.owner.VendorID, true
}

// OwnedBy reports whether vendorID holds the current claim on the vehicle.
func (v Vehicle) OwnedBy(vendorID uuid.UUID) bool {
	return v.owner != nil && v.owner.VendorID == vendorID
}

// SaleRecord returns the terminal sale data for a sold vehicle.
func (v Vehicle) SaleRecord() (Sale, bool) {
	if v.sale == nil {
		return Sale{}, false
	}
	return *v.sale, true
}

// Reserve claims an available vehicle for vendorID.
func (v Vehicle) Reserve(vendorID uuid.UUID, now time.Time) (Vehicle, StatusChangeNotification, error) {
	if err := ValidateOperation(v, ActionReserve, vendorID); err != nil {
		return Vehicle{}, StatusChangeNotification{}, err
	}
	next := v
	next.status = StatusReserved
	next.owner = &Ownership{VendorID: vendorID, ReservedAt: now}
	n := NewStatusChangeNotification(v.id, v.status, next.status, SourceInventory, &vendorID, "")
	return next, n, nil
}

// Negotiate moves a reserved vehicle into active negotiation. Owner only.
func (v Vehicle) Negotiate(vendorID uuid.UUID, now time.Time) (Vehicle, StatusChangeNotification, error) {
	if err := ValidateOperation(v, ActionNegotiate, vendorID); err != nil {
		return Vehicle{}, StatusChangeNotification{}, err
	}
	if !CanTransition(v.status, StatusNegotiating) {
		return Vehicle{}, StatusChangeNotification{}, &StateTransitionError{
			VehicleID: v.id, From: v.status, Operation: ActionNegotiate, Reason: ReasonInvalidState,
		}
	}
	next := v
	next.status = StatusNegotiating
	started := now
	owner := *v.owner
	owner.NegotiationStartedAt = &started
	next.owner = &owner
	n := NewStatusChangeNotification(v.id, v.status, next.status, SourceInventory, &vendorID, "")
	return next, n, nil
}

// FinalizeSale closes a negotiation as a completed sale. Owner only. The
// resulting record is terminal: no further transition succeeds.
func (v Vehicle) FinalizeSale(vendorID uuid.UUID, saleValue int64, now time.Time) (Vehicle, StatusChangeNotification, error) {
	if saleValue <= 0 {
		return Vehicle{}, StatusChangeNotification{}, &ValidationError{Field: "sale_value", Message: "sale value must be positive"}
	}
	if err := ValidateOperation(v, ActionFinalizeSale, vendorID); err != nil {
		return Vehicle{}, StatusChangeNotification{}, err
	}
	next := v
	next.status = StatusSold
	next.owner = nil
	next.sale = &Sale{VendorID: vendorID, SoldAt: now, Value: saleValue}
	n := NewStatusChangeNotification(v.id, v.status, next.status, SourceInventory, &vendorID, "")
	return next, n, nil
}

// Release returns a reserved or negotiating vehicle to the floor, clearing
// the claim and both claim timestamps. Owner only.
func (v Vehicle) Release(vendorID uuid.UUID) (Vehicle, StatusChangeNotification, error) {
	if err := ValidateOperation(v, ActionRelease, vendorID); err != nil {
		return Vehicle{}, StatusChangeNotification{}, err
	}
	next := v
	next.status = StatusAvailable
	next.owner = nil
	n := NewStatusChangeNotification(v.id, v.status, next.status, SourceInventory, &vendorID, "")
	return next, n, nil
}

// IsExpired reports whether the current claim on the vehicle is older than
// maxDays. The clock restarts when negotiation begins. Vehicles without a
// claim never expire.
func IsExpired(v Vehicle, now time.Time, maxDays int) bool {
	if v.owner == nil {
		return false
	}
	since := v.owner.ReservedAt
	if v.owner.NegotiationStartedAt != nil {
		since = *v.owner.NegotiationStartedAt
	}
	return now.Sub(since) > time.Duration(maxDays)*24*time.Hour
}
