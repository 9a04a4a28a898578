package changelog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrSequenceConflict = errors.New("sequence conflict: concurrent append on the same vehicle")
	ErrNoHistory        = errors.New("no history for vehicle")
)

// Entry is one immutable line of a vehicle's status history.
type Entry struct {
	ID        int64      `json:"id"`
	VehicleID uuid.UUID  `json:"vehicle_id"`
	Seq       int        `json:"seq"`
	OldStatus string     `json:"old_status"`
	NewStatus string     `json:"new_status"`
	VendorID  *uuid.UUID `json:"vendor_id,omitempty"`
	Source    string     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
}

// Log is an append-only status-change log. Entries for one vehicle form a
// gapless sequence; the unique (vehicle_id, seq) index makes concurrent
// appends for the same vehicle lose deterministically.
type Log struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewLog creates a status-change log backed by db.
func NewLog(db *sql.DB) *Log {
	return &Log{
		db:     db,
		tracer: otel.Tracer("autogestor/changelog"),
	}
}

// Append writes one entry at the next sequence number for its vehicle.
func (l *Log) Append(ctx context.Context, entry Entry) error {
	ctx, span := l.tracer.Start(ctx, "changelog.append",
		trace.WithAttributes(
			attribute.String("vehicle.id", entry.VehicleID.String()),
			attribute.String("status.old", entry.OldStatus),
			attribute.String("status.new", entry.NewStatus),
		),
	)
	defer span.End()

	tx, err := l.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0)
		FROM status_changes
		WHERE vehicle_id = $1
	`, entry.VehicleID).Scan(&seq)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("query current sequence: %w", err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO status_changes (vehicle_id, seq, old_status, new_status, vendor_id, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.VehicleID, seq+1, entry.OldStatus, entry.NewStatus, entry.VendorID, entry.Source, createdAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			span.SetAttributes(attribute.Bool("conflict.detected", true))
			return ErrSequenceConflict
		}
		return fmt.Errorf("insert status change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// History returns a vehicle's status changes in sequence order.
func (l *Log) History(ctx context.Context, vehicleID uuid.UUID) ([]Entry, error) {
	ctx, span := l.tracer.Start(ctx, "changelog.history",
		trace.WithAttributes(attribute.String("vehicle.id", vehicleID.String())),
	)
	defer span.End()

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, vehicle_id, seq, old_status, new_status, vendor_id, source, created_at
		FROM status_changes
		WHERE vehicle_id = $1
		ORDER BY seq ASC
	`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries.loaded", len(entries)))
	return entries, nil
}

// Latest returns the most recent change for a vehicle.
func (l *Log) Latest(ctx context.Context, vehicleID uuid.UUID) (*Entry, error) {
	ctx, span := l.tracer.Start(ctx, "changelog.latest",
		trace.WithAttributes(attribute.String("vehicle.id", vehicleID.String())),
	)
	defer span.End()

	row := l.db.QueryRowContext(ctx, `
		SELECT id, vehicle_id, seq, old_status, new_status, vendor_id, source, created_at
		FROM status_changes
		WHERE vehicle_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`, vehicleID)

	var e Entry
	err := row.Scan(&e.ID, &e.VehicleID, &e.Seq, &e.OldStatus, &e.NewStatus, &e.VendorID, &e.Source, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("query latest change: %w", err)
	}
	return &e, nil
}

// Stream returns changes across all vehicles after cursor id, oldest first,
// for downstream consumers that poll the log.
func (l *Log) Stream(ctx context.Context, fromID int64, batchSize int) ([]Entry, error) {
	ctx, span := l.tracer.Start(ctx, "changelog.stream",
		trace.WithAttributes(
			attribute.Int64("from.id", fromID),
			attribute.Int("batch.size", batchSize),
		),
	)
	defer span.End()

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, vehicle_id, seq, old_status, new_status, vendor_id, source, created_at
		FROM status_changes
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2
	`, fromID, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query stream: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries.loaded", len(entries)))
	return entries, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.VehicleID, &e.Seq, &e.OldStatus, &e.NewStatus, &e.VendorID, &e.Source, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
