// internal/inventory/store_postgres.go
package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PostgresStore persists vehicles in a single table. The status column is
// the guard for every mutating write.
type PostgresStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewPostgresStore creates a vehicle store backed by db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:     db,
		tracer: otel.Tracer("autogestor/inventory"),
	}
}

const vehicleColumns = `id, status, make, model, year, value, assigned_vendor_id,
	reserved_at, negotiation_started_at, sold_vendor_id, sold_at, sale_value, created_at`

// LoadVehicle retrieves one vehicle by id.
func (s *PostgresStore) LoadVehicle(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	ctx, span := s.tracer.Start(ctx, "store.load_vehicle",
		trace.WithAttributes(attribute.String("vehicle.id", id.String())),
	)
	defer span.End()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE id = $1
	`, id)

	v, err := scanVehicle(row)
	if err == sql.ErrNoRows {
		return Vehicle{}, ErrVehicleNotFound
	}
	if err != nil {
		return Vehicle{}, fmt.Errorf("load vehicle: %w", err)
	}
	return v, nil
}

// InsertVehicle stores a newly registered vehicle.
func (s *PostgresStore) InsertVehicle(ctx context.Context, v Vehicle) error {
	ctx, span := s.tracer.Start(ctx, "store.insert_vehicle",
		trace.WithAttributes(attribute.String("vehicle.id", v.ID().String())),
	)
	defer span.End()

	r := v.Record()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.ID, r.Status, r.Make, r.Model, r.Year, r.Value, r.AssignedVendorID,
		r.ReservedAt, r.NegotiationStartedAt, r.SoldVendorID, r.SoldAt, r.SaleValue, r.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("vehicle %s already exists", r.ID)
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// ListVehicles returns all vehicles.
func (s *PostgresStore) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	ctx, span := s.tracer.Start(ctx, "store.list_vehicles")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}

	span.SetAttributes(attribute.Int("vehicles.loaded", len(vehicles)))
	return vehicles, nil
}

// CompareAndSetStatus writes the next vehicle state, guarded on the stored
// status still being expected. Zero rows affected means either the guard
// failed or the row is gone; a follow-up read distinguishes the two.
func (s *PostgresStore) CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected Status, next Vehicle) error {
	ctx, span := s.tracer.Start(ctx, "store.cas_status",
		trace.WithAttributes(
			attribute.String("vehicle.id", id.String()),
			attribute.String("status.expected", string(expected)),
			attribute.String("status.next", string(next.Status())),
		),
	)
	defer span.End()

	r := next.Record()
	res, err := s.db.ExecContext(ctx, `
		UPDATE vehicles
		SET status = $1,
		    assigned_vendor_id = $2,
		    reserved_at = $3,
		    negotiation_started_at = $4,
		    sold_vendor_id = $5,
		    sold_at = $6,
		    sale_value = $7
		WHERE id = $8 AND status = $9
	`, r.Status, r.AssignedVendorID, r.ReservedAt, r.NegotiationStartedAt,
		r.SoldVendorID, r.SoldAt, r.SaleValue, id, expected)
	if err != nil {
		return fmt.Errorf("compare-and-set status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("compare-and-set status: %w", err)
	}
	if affected == 0 {
		span.SetAttributes(attribute.Bool("conflict.detected", true))
		var current string
		err := s.db.QueryRowContext(ctx, `SELECT status FROM vehicles WHERE id = $1`, id).Scan(&current)
		if err == sql.ErrNoRows {
			return ErrVehicleNotFound
		}
		if err != nil {
			return fmt.Errorf("compare-and-set status: %w", err)
		}
		return ErrConcurrencyConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (Vehicle, error) {
	var r Record
	var status string
	err := row.Scan(
		&r.ID,
		&status,
		&r.Make,
		&r.Model,
		&r.Year,
		&r.Value,
		&r.AssignedVendorID,
		&r.ReservedAt,
		&r.NegotiationStartedAt,
		&r.SoldVendorID,
		&r.SoldAt,
		&r.SaleValue,
		&r.CreatedAt,
	)
	if err != nil {
		return Vehicle{}, err
	}
	r.Status = Status(status)
	return VehicleFromRecord(r)
}
