// internal/inventory/permissions.go
package inventory

import "github.com/google/uuid"

// Action is something a vendor may do to a vehicle.
type Action string

const (
	ActionReserve        Action = "reserve"
	ActionNegotiate      Action = "negotiate"
	ActionEdit           Action = "edit"
	ActionToggleShowcase Action = "toggleShowcase"
	ActionRelease        Action = "release"
	ActionMarkSold       Action = "markSold"
	ActionFinalizeSale   Action = "finalizeSale"
)

// ActionSet is the set of actions permitted for one vendor on one vehicle.
type ActionSet map[Action]bool

// Has reports whether the set permits op.
func (s ActionSet) Has(op Action) bool { return s[op] }

// Slice returns the permitted actions in stable declaration order, for
// serialization to UI consumers.
func (s ActionSet) Slice() []Action {
	order := []Action{
		ActionReserve, ActionNegotiate, ActionEdit, ActionToggleShowcase,
		ActionRelease, ActionMarkSold, ActionFinalizeSale,
	}
	out := make([]Action, 0, len(s))
	for _, a := range order {
		if s[a] {
			out = append(out, a)
		}
	}
	return out
}

// AvailableActions computes the permitted actions for vendorID as a function
// of the vehicle's status and ownership. An available vehicle has no owner,
// so every vendor sees the same set; once claimed, only the owner retains any
// action; sold is terminal for everyone.
func AvailableActions(v Vehicle, vendorID uuid.UUID) ActionSet {
	switch v.Status() {
	case StatusAvailable:
		return ActionSet{
			ActionReserve:        true,
			ActionNegotiate:      true,
			ActionEdit:           true,
			ActionToggleShowcase: true,
		}
	case StatusReserved:
		if !v.OwnedBy(vendorID) {
			return ActionSet{}
		}
		return ActionSet{
			ActionNegotiate: true,
			ActionRelease:   true,
			ActionMarkSold:  true,
		}
	case StatusNegotiating:
		if !v.OwnedBy(vendorID) {
			return ActionSet{}
		}
		return ActionSet{
			ActionFinalizeSale: true,
			ActionRelease:      true,
			ActionMarkSold:     true,
		}
	case StatusSold:
		return ActionSet{}
	}
	return ActionSet{}
}

// ValidateOperation re-derives the action set and rejects op if absent, with
// a discriminated reason. Every mutating path goes through here; anything not
// explicitly permitted is denied.
func ValidateOperation(v Vehicle, op Action, vendorID uuid.UUID) error {
	if AvailableActions(v, vendorID).Has(op) {
		return nil
	}

	reason := ReasonInvalidState
	switch {
	case op == ActionReserve && (v.Status() == StatusReserved || v.Status() == StatusNegotiating):
		// Someone already holds the claim.
		reason = ReasonAlreadyAssigned
	case v.Status() != StatusSold && v.hasOwner() && !v.OwnedBy(vendorID):
		reason = ReasonNotOwner
	}

	return &StateTransitionError{
		VehicleID: v.ID(),
		From:      v.Status(),
		Operation: op,
		Reason:    reason,
	}
}

func (v Vehicle) hasOwner() bool { return v.owner != nil }
