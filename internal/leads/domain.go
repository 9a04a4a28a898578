// internal/leads/domain.go
package leads

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the pipeline stage of a WhatsApp lead.
type LeadStatus string

const (
	LeadNovo          LeadStatus = "novo"
	LeadEmAtendimento LeadStatus = "em_atendimento"
	LeadConvertido    LeadStatus = "convertido"
	LeadPerdido       LeadStatus = "perdido"
)

// allowedTransitions mirrors the vehicle lifecycle shape: a lead is claimed
// exclusively by one vendor and then closed one way or the other.
var allowedTransitions = map[LeadStatus][]LeadStatus{
	LeadNovo:          {LeadEmAtendimento, LeadPerdido},
	LeadEmAtendimento: {LeadConvertido, LeadPerdido},
	LeadConvertido:    {},
	LeadPerdido:       {},
}

// CanTransition reports whether from -> to is a legal pipeline transition.
func CanTransition(from, to LeadStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Lead represents one inbound WhatsApp contact. Message transport is handled
// upstream; only the pipeline state lives here.
type Lead struct {
	ID               uuid.UUID  `json:"id"`
	Phone            string     `json:"phone"`
	Name             string     `json:"name"`
	VehicleID        *uuid.UUID `json:"vehicle_id,omitempty"`
	Status           LeadStatus `json:"status"`
	AssignedVendorID *uuid.UUID `json:"assigned_vendor_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ContactedAt      *time.Time `json:"contacted_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
}
