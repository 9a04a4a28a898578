// internal/inventory/permissions_test.go
package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableActionsPerStateAndOwnership(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	available := newTestVehicle(t)
	reserved, _, err := available.Reserve(owner, time.Now())
	require.NoError(t, err)
	negotiating, _, err := reserved.Negotiate(owner, time.Now())
	require.NoError(t, err)
	sold, _, err := negotiating.FinalizeSale(owner, 1000, time.Now())
	require.NoError(t, err)

	cases := []struct {
		name     string
		vehicle  Vehicle
		vendor   uuid.UUID
		expected []Action
	}{
		{"available, any vendor", available, other,
			[]Action{ActionReserve, ActionNegotiate, ActionEdit, ActionToggleShowcase}},
		{"reserved, non-owner", reserved, other, nil},
		{"reserved, owner", reserved, owner,
			[]Action{ActionNegotiate, ActionRelease, ActionMarkSold}},
		{"negotiating, non-owner", negotiating, other, nil},
		{"negotiating, owner", negotiating, owner,
			[]Action{ActionRelease, ActionMarkSold, ActionFinalizeSale}},
		{"sold, owner", sold, owner, nil},
		{"sold, non-owner", sold, other, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := AvailableActions(tc.vehicle, tc.vendor)
			assert.ElementsMatch(t, tc.expected, set.Slice())
		})
	}
}

func TestValidateOperationFailsClosed(t *testing.T) {
	owner := uuid.New()
	v := newTestVehicle(t)
	reserved, _, err := v.Reserve(owner, time.Now())
	require.NoError(t, err)

	// an action that is not in any set for this state
	err = ValidateOperation(reserved, ActionEdit, owner)
	te, ok := AsTransitionError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonInvalidState, te.Reason)
	assert.Equal(t, reserved.ID(), te.VehicleID)
	assert.Equal(t, StatusReserved, te.From)
}

func TestActionSetSliceIsStable(t *testing.T) {
	v := newTestVehicle(t)
	first := AvailableActions(v, uuid.New()).Slice()
	second := AvailableActions(v, uuid.New()).Slice()
	assert.Equal(t, first, second)
}
