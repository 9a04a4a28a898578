// internal/gamification/service.go
package gamification

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrVendorNotFound is returned when the vendor id does not exist.
	ErrVendorNotFound = errors.New("vendor not found")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// Service defines the interface for the gamification service.
type Service interface {
	RegisterVendor(ctx context.Context, name string, level Level, monthlyTarget int64) (*Vendor, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*Vendor, error)
	CreditSale(ctx context.Context, vendorID uuid.UUID, saleValue int64) (*Vendor, error)
	CreditLead(ctx context.Context, vendorID uuid.UUID) (*Vendor, error)
	Ranking(ctx context.Context) ([]RankingEntry, error)
	ApplyMonthlyRollover(ctx context.Context) ([]RankingEntry, error)
}
