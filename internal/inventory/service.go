// internal/inventory/service.go
package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence collaborator. CompareAndSetStatus must be atomic:
// the write succeeds only if the stored status still equals expected,
// otherwise it fails with ErrConcurrencyConflict and leaves the row
// untouched. That guard is what keeps two vendors from reserving the same
// vehicle out of independent sessions.
type Store interface {
	LoadVehicle(ctx context.Context, id uuid.UUID) (Vehicle, error)
	InsertVehicle(ctx context.Context, v Vehicle) error
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected Status, next Vehicle) error
}

// Service defines the interface for the inventory service.
type Service interface {
	AddVehicle(ctx context.Context, make, model string, year int, value int64) (*Record, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*Record, error)
	ListVehicles(ctx context.Context) ([]Record, error)
	ListForDisplay(ctx context.Context) ([]Record, error)
	LegacyList(ctx context.Context, status LegacyStatus) ([]LegacyView, error)
	Stats(ctx context.Context) (Stats, error)
	ActionsFor(ctx context.Context, vehicleID, vendorID uuid.UUID) ([]Action, error)

	Reserve(ctx context.Context, vehicleID, vendorID uuid.UUID) (*Record, error)
	Negotiate(ctx context.Context, vehicleID, vendorID uuid.UUID) (*Record, error)
	FinalizeSale(ctx context.Context, vehicleID, vendorID uuid.UUID, saleValue int64) (*Record, error)
	Release(ctx context.Context, vehicleID, vendorID uuid.UUID) (*Record, error)

	ReleaseExpired(ctx context.Context, maxDays int) (int, error)
}
