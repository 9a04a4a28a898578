// internal/leads/service.go
package leads

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrLeadNotFound is returned when the referenced lead does not exist.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrLeadConflict is returned when another vendor won a guarded update.
	ErrLeadConflict = errors.New("lead was claimed or closed by another vendor")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited is returned when lead intake exceeds the configured rate.
	ErrRateLimited = errors.New("lead intake rate limit exceeded")
)

// Service defines the interface for the lead pipeline service.
type Service interface {
	CreateLead(ctx context.Context, phone, name string, vehicleID *uuid.UUID) (*Lead, error)
	GetLead(ctx context.Context, id uuid.UUID) (*Lead, error)
	ListOpen(ctx context.Context) ([]Lead, error)
	ClaimLead(ctx context.Context, leadID, vendorID uuid.UUID) (*Lead, error)
	ConvertLead(ctx context.Context, leadID, vendorID uuid.UUID) (*Lead, error)
	LoseLead(ctx context.Context, leadID, vendorID uuid.UUID) (*Lead, error)
}
