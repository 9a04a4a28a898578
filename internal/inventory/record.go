// internal/inventory/record.go
package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Record is the flat wire/storage shape of a vehicle. It can represent
// combinations a Vehicle cannot, so it only enters the domain through
// VehicleFromRecord, which rejects the illegal ones.
type Record struct {
	ID                   uuid.UUID  `json:"id"`
	Status               Status     `json:"status"`
	Make                 string     `json:"make"`
	Model                string     `json:"model"`
	Year                 int        `json:"year"`
	Value                int64      `json:"value"`
	AssignedVendorID     *uuid.UUID `json:"assigned_vendor_id,omitempty"`
	ReservedAt           *time.Time `json:"reserved_at,omitempty"`
	NegotiationStartedAt *time.Time `json:"negotiation_started_at,omitempty"`
	SoldVendorID         *uuid.UUID `json:"sold_vendor_id,omitempty"`
	SoldAt               *time.Time `json:"sold_at,omitempty"`
	SaleValue            *int64     `json:"sale_value,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Record flattens the vehicle for storage and serialization.
func (v Vehicle) Record() Record {
	r := Record{
		ID:        v.id,
		Status:    v.status,
		Make:      v.makeName,
		Model:     v.model,
		Year:      v.year,
		Value:     v.value,
		CreatedAt: v.createdAt,
	}
	if v.owner != nil {
		vid := v.owner.VendorID
		at := v.owner.ReservedAt
		r.AssignedVendorID = &vid
		r.ReservedAt = &at
		r.NegotiationStartedAt = v.owner.NegotiationStartedAt
	}
	if v.sale != nil {
		sv := v.sale.VendorID
		sa := v.sale.SoldAt
		val := v.sale.Value
		r.SoldVendorID = &sv
		r.SoldAt = &sa
		r.SaleValue = &val
	}
	return r
}

// VehicleFromRecord rebuilds a domain vehicle from its stored shape,
// rejecting any field combination the status does not admit.
func VehicleFromRecord(r Record) (Vehicle, error) {
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return Vehicle{}, err
	}

	v := Vehicle{
		id:        r.ID,
		status:    r.Status,
		makeName:  r.Make,
		model:     r.Model,
		year:      r.Year,
		value:     r.Value,
		createdAt: r.CreatedAt,
	}

	switch r.Status {
	case StatusAvailable:
		if r.AssignedVendorID != nil {
			return Vehicle{}, &ValidationError{Field: "assigned_vendor_id", Message: "available vehicle cannot have an assigned vendor"}
		}
	case StatusReserved, StatusNegotiating:
		if r.AssignedVendorID == nil || r.ReservedAt == nil {
			return Vehicle{}, &ValidationError{Field: "assigned_vendor_id", Message: "claimed vehicle must record its vendor and reservation time"}
		}
		v.owner = &Ownership{
			VendorID:             *r.AssignedVendorID,
			ReservedAt:           *r.ReservedAt,
			NegotiationStartedAt: r.NegotiationStartedAt,
		}
		if r.Status == StatusNegotiating && r.NegotiationStartedAt == nil {
			return Vehicle{}, &ValidationError{Field: "negotiation_started_at", Message: "negotiating vehicle must record when negotiation began"}
		}
	case StatusSold:
		if r.AssignedVendorID != nil {
			return Vehicle{}, &ValidationError{Field: "assigned_vendor_id", Message: "sold vehicle cannot keep an active claim"}
		}
		if r.SoldVendorID == nil || r.SoldAt == nil || r.SaleValue == nil {
			return Vehicle{}, &ValidationError{Field: "sold_vendor_id", Message: "sold vehicle must record vendor, time and value of the sale"}
		}
		v.sale = &Sale{VendorID: *r.SoldVendorID, SoldAt: *r.SoldAt, Value: *r.SaleValue}
	}

	return v, nil
}
