// internal/gamification/implementation.go
package gamification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// service implements the Service interface.
type service struct {
	db  *sql.DB
	cfg Config
	log zerolog.Logger
	now func() time.Time
}

// NewService creates a new gamification service instance.
func NewService(db *sql.DB, cfg Config, log zerolog.Logger) Service {
	return &service{
		db:  db,
		cfg: cfg,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// RegisterVendor enrolls a new salesperson, starting at zero points.
func (s *service) RegisterVendor(ctx context.Context, name string, level Level, monthlyTarget int64) (*Vendor, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: vendor name is required", ErrInvalidInput)
	}
	if _, ok := s.cfg.LevelMultipliers[level]; !ok {
		return nil, fmt.Errorf("%w: unknown level %q", ErrInvalidInput, level)
	}

	now := s.now()
	v := &Vendor{
		ID:            uuid.New(),
		Name:          name,
		Level:         level,
		MonthlyTarget: monthlyTarget,
		Status:        VendorAtivo,
		HiredAt:       now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vendors (id, name, level, points, monthly_revenue, monthly_target, status, hired_at, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, $4, $5, $6, $7, $8)
	`, v.ID, v.Name, v.Level, v.MonthlyTarget, v.Status, v.HiredAt, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert vendor: %w", err)
	}
	return v, nil
}

// GetVendor retrieves one vendor by id.
func (s *service) GetVendor(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	return s.loadVendor(ctx, id)
}

// CreditSale adds the configured sale points (scaled by level) to the
// vendor's cumulative score and the sale value to the monthly revenue.
func (s *service) CreditSale(ctx context.Context, vendorID uuid.UUID, saleValue int64) (*Vendor, error) {
	if saleValue <= 0 {
		return nil, fmt.Errorf("%w: sale value must be positive", ErrInvalidInput)
	}
	v, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	points := s.cfg.SalePoints(v.Level)
	if err := s.credit(ctx, vendorID, points, saleValue); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("vendor_id", vendorID.String()).
		Int("points", points).
		Int64("sale_value", saleValue).
		Msg("credited sale")
	return s.loadVendor(ctx, vendorID)
}

// CreditLead adds the configured lead-conversion points to the vendor.
func (s *service) CreditLead(ctx context.Context, vendorID uuid.UUID) (*Vendor, error) {
	v, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	points := s.cfg.LeadPoints(v.Level)
	if err := s.credit(ctx, vendorID, points, 0); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("vendor_id", vendorID.String()).
		Int("points", points).
		Msg("credited lead conversion")
	return s.loadVendor(ctx, vendorID)
}

// Ranking computes the current leaderboard snapshot.
func (s *service) Ranking(ctx context.Context) ([]RankingEntry, error) {
	vendors, err := s.listVendors(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeVendorRanking(vendors, s.cfg), nil
}

// ApplyMonthlyRollover credits podium and target bonuses for the closing
// period, resets monthly revenue, and returns the leaderboard the bonuses
// were based on. The scheduler that decides when a period ends lives
// elsewhere; this only applies the configured amounts.
func (s *service) ApplyMonthlyRollover(ctx context.Context) ([]RankingEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The snapshot is taken under FOR UPDATE row locks, and the reset
	// subtracts the snapshotted amount rather than zeroing. A credit racing
	// the rollover either lands before the locks (and is swept) or after
	// the commit (and survives into the new period); it is never erased.
	vendors, err := s.lockVendors(ctx, tx)
	if err != nil {
		return nil, err
	}
	ranking := ComputeVendorRanking(vendors, s.cfg)

	for _, entry := range ranking {
		bonus := entry.RolloverBonus
		if entry.MetaAtingida {
			bonus += s.cfg.TargetBonusPoints(entry.Vendor.Level)
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE vendors
			SET points = points + $1, monthly_revenue = monthly_revenue - $2, updated_at = $3
			WHERE id = $4
		`, bonus, entry.Vendor.MonthlyRevenue, s.now(), entry.Vendor.ID)
		if err != nil {
			return nil, fmt.Errorf("apply rollover for vendor %s: %w", entry.Vendor.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rollover: %w", err)
	}
	s.log.Info().Int("vendors", len(ranking)).Msg("applied monthly rollover")
	return ranking, nil
}

// credit is additive, so concurrent credits never lose updates.
func (s *service) credit(ctx context.Context, vendorID uuid.UUID, points int, revenue int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vendors
		SET points = points + $1, monthly_revenue = monthly_revenue + $2, updated_at = $3
		WHERE id = $4
	`, points, revenue, s.now(), vendorID)
	if err != nil {
		return fmt.Errorf("credit vendor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit vendor: %w", err)
	}
	if affected == 0 {
		return ErrVendorNotFound
	}
	return nil
}

func (s *service) loadVendor(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	v := &Vendor{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, level, points, monthly_revenue, monthly_target, status, hired_at, created_at, updated_at
		FROM vendors
		WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.Level, &v.Points, &v.MonthlyRevenue, &v.MonthlyTarget, &v.Status, &v.HiredAt, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrVendorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load vendor: %w", err)
	}
	return v, nil
}

const listVendorsQuery = `
	SELECT id, name, level, points, monthly_revenue, monthly_target, status, hired_at, created_at, updated_at
	FROM vendors
	WHERE status != $1
`

func (s *service) listVendors(ctx context.Context) ([]Vendor, error) {
	rows, err := s.db.QueryContext(ctx, listVendorsQuery, VendorInativo)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return scanVendors(rows)
}

// lockVendors reads the active vendors inside tx with their rows locked
// until the transaction ends.
func (s *service) lockVendors(ctx context.Context, tx *sql.Tx) ([]Vendor, error) {
	rows, err := tx.QueryContext(ctx, listVendorsQuery+` FOR UPDATE`, VendorInativo)
	if err != nil {
		return nil, fmt.Errorf("lock vendors: %w", err)
	}
	return scanVendors(rows)
}

func scanVendors(rows *sql.Rows) ([]Vendor, error) {
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		err := rows.Scan(&v.ID, &v.Name, &v.Level, &v.Points, &v.MonthlyRevenue, &v.MonthlyTarget, &v.Status, &v.HiredAt, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendors: %w", err)
	}
	return vendors, nil
}
