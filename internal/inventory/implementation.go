// internal/inventory/implementation.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"autogestor/pkg/changelog"
)

// ChangeRecorder persists notification records to the status-change log.
type ChangeRecorder interface {
	Append(ctx context.Context, entry changelog.Entry) error
}

// ScoreKeeper credits gamification points for completed transitions.
type ScoreKeeper interface {
	CreditSale(ctx context.Context, vendorID uuid.UUID, saleValue int64) error
}

// VendorDirectory checks vendor registration with the gamification service.
type VendorDirectory interface {
	VendorExists(ctx context.Context, vendorID uuid.UUID) (bool, error)
}

// service implements the Service interface.
type service struct {
	store   Store
	changes ChangeRecorder
	scores  ScoreKeeper
	vendors VendorDirectory
	log     zerolog.Logger
	now     func() time.Time
}

// NewService creates a new inventory service instance.
func NewService(store Store, changes ChangeRecorder, scores ScoreKeeper, vendors VendorDirectory, log zerolog.Logger) Service {
	return &service{
		store:   store,
		changes: changes,
		scores:  scores,
		vendors: vendors,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// AddVehicle registers a new vehicle on the floor, in the available state.
func (s *service) AddVehicle(ctx context.Context, make, model string, year int, value int64) (*Record, error) {
	v, err := NewVehicle(make, model, year, value, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertVehicle(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to insert vehicle: %w", err)
	}
	r := v.Record()
	return &r, nil
}

// GetVehicle retrieves one vehicle by id.
func (s *service) GetVehicle(ctx context.Context, id uuid.UUID) (*Record, error) {
	v, err := s.store.LoadVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	r := v.Record()
	return &r, nil
}

// ListVehicles returns the full inventory in storage order.
func (s *service) ListVehicles(ctx context.Context) ([]Record, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	return records(vehicles), nil
}

// ListForDisplay returns the inventory in dashboard order.
func (s *service) ListForDisplay(ctx context.Context) ([]Record, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	return records(SortForDisplay(vehicles)), nil
}

// LegacyList returns the 3-state projection, optionally filtered.
func (s *service) LegacyList(ctx context.Context, status LegacyStatus) ([]LegacyView, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	if status != "" {
		vehicles = FilterByLegacyStatus(vehicles, status)
	}
	views := make([]LegacyView, 0, len(vehicles))
	for _, v := range SortForDisplay(vehicles) {
		views = append(views, ToLegacyView(v))
	}
	return views, nil
}

// Stats computes the reconciled dashboard counters.
func (s *service) Stats(ctx context.Context) (Stats, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return Stats{}, err
	}
	return CalculateStats(vehicles), nil
}

// ActionsFor returns the permitted actions for a vendor on a vehicle.
func (s *service) ActionsFor(ctx context.Context, vehicleID, vendorID uuid.UUID) ([]Action, error) {
	v, err := s.store.LoadVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return AvailableActions(v, vendorID).Slice(), nil
}

// Reserve claims an available vehicle for a vendor. The vendor is checked
// against the directory here, at claim time; later transitions only accept
// the vendor already on the claim.
func (s *service) Reserve(ctx context.Context, vehicleID, vendorID uuid.UUID) (*Record, error) {
	if err := s.checkVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	return s.transition(ctx, vehicleID, "reserve", func(v Vehicle) (Vehicle, StatusChangeNotification, error) {
		return v.Reserve(vendorID, s.now())
	})
}

func (s *service) checkVendor(ctx context.Context, vendorID uuid.UUID) error {
	if s.vendors == nil {
		return nil
	}
	ok, err := s.vendors.VendorExists(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("failed to verify vendor: %w", err)
	}
	if !ok {
		return ErrVendorNotFound
	}
	return nil
}

// Negotiate moves the vendor's reserved vehicle into negotiation.
func (s *service) Negotiate(ctx context.Context, vehicleID, vendorID uuid.UUID) (*Record, error) {
	return s.transition(ctx, vehicleID, "negotiate", func(v Vehicle) (Vehicle, StatusChangeNotification, error) {
		return v.Negotiate(vendorID, s.now())
	})
}

// FinalizeSale closes the vendor's negotiation as a sale and credits points.
func (s *service) FinalizeSale(ctx context.Context, vehicleID, vendorID uuid.UUID, saleValue int64) (*Record, error) {
	rec, err := s.transition(ctx, vehicleID, "finalizeSale", func(v Vehicle) (Vehicle, StatusChangeNotification, error) {
		return v.FinalizeSale(vendorID, saleValue, s.now())
	})
	if err != nil {
		return nil, err
	}
	if s.scores != nil {
		// Point crediting is additive and retried out of band; a failure here
		// must not undo a completed sale.
		if err := s.scores.CreditSale(ctx, vendorID, saleValue); err != nil {
			s.log.Error().Err(err).
				Str("vehicle_id", vehicleID.String()).
				Str("vendor_id", vendorID.String()).
				Msg("failed to credit sale points")
		}
	}
	return rec, nil
}

// Release returns the vendor's claimed vehicle to the floor.
func (s *service) Release(ctx context.Context, vehicleID, vendorID uuid.UUID) (*Record, error) {
	return s.transition(ctx, vehicleID, "release", func(v Vehicle) (Vehicle, StatusChangeNotification, error) {
		return v.Release(vendorID)
	})
}

// ReleaseExpired releases every claim older than maxDays, on behalf of its
// owner, and reports how many were released. Conflicts are skipped: whoever
// changed the row got there first.
func (s *service) ReleaseExpired(ctx context.Context, maxDays int) (int, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	released := 0
	for _, v := range vehicles {
		if !IsExpired(v, now, maxDays) {
			continue
		}
		owner, _ := v.Owner()
		next, _, err := v.Release(owner)
		if err != nil {
			continue
		}
		n := NewStatusChangeNotification(v.ID(), v.Status(), StatusAvailable, SourceExpirer, &owner, "")
		if err := s.commit(ctx, v.Status(), next, n, "release"); err != nil {
			if errors.Is(err, ErrConcurrencyConflict) {
				continue
			}
			return released, err
		}
		s.log.Info().
			Str("vehicle_id", v.ID().String()).
			Str("vendor_id", owner.String()).
			Msg("released expired claim")
		released++
	}
	return released, nil
}

// transition runs one load / validate / compare-and-set cycle. The pure step
// computes the next record and its notification; nothing is persisted unless
// the guarded write succeeds, so a rejected operation leaves no trace.
func (s *service) transition(ctx context.Context, vehicleID uuid.UUID, op string, apply func(Vehicle) (Vehicle, StatusChangeNotification, error)) (*Record, error) {
	v, err := s.store.LoadVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	next, n, err := apply(v)
	if err != nil {
		if te, ok := AsTransitionError(err); ok {
			transitionRejectionsTotal.WithLabelValues(string(te.Reason)).Inc()
		}
		return nil, err
	}

	if err := s.commit(ctx, v.Status(), next, n, op); err != nil {
		return nil, err
	}

	r := next.Record()
	return &r, nil
}

func (s *service) commit(ctx context.Context, expected Status, next Vehicle, n StatusChangeNotification, op string) error {
	if err := s.store.CompareAndSetStatus(ctx, next.ID(), expected, next); err != nil {
		if errors.Is(err, ErrConcurrencyConflict) {
			casConflictsTotal.Inc()
		}
		return err
	}
	transitionsTotal.WithLabelValues(op).Inc()

	if s.changes != nil {
		entry := changelog.Entry{
			VehicleID: n.VehicleID,
			OldStatus: string(n.OldStatus),
			NewStatus: string(n.NewStatus),
			VendorID:  n.VendorID,
			Source:    n.Source,
			CreatedAt: n.OccurredAt,
		}
		// The transition already happened; a log write failure is an audit
		// gap, not a reason to report the operation as failed.
		if err := s.changes.Append(ctx, entry); err != nil {
			s.log.Error().Err(err).
				Str("vehicle_id", n.VehicleID.String()).
				Msg("failed to append status change")
		}
	}
	return nil
}

func records(vehicles []Vehicle) []Record {
	out := make([]Record, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, v.Record())
	}
	return out
}
