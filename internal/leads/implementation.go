// internal/leads/implementation.go
package leads

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ScoreKeeper credits gamification points for converted leads.
type ScoreKeeper interface {
	CreditLead(ctx context.Context, vendorID uuid.UUID) error
}

// service implements the Service interface.
type service struct {
	db     *sql.DB
	scores ScoreKeeper
	log    zerolog.Logger
	intake *rate.Limiter
	now    func() time.Time
}

// NewService creates a new lead pipeline service instance. Intake is
// rate-limited: the WhatsApp webhook upstream retries aggressively.
func NewService(db *sql.DB, scores ScoreKeeper, log zerolog.Logger) Service {
	return &service{
		db:     db,
		scores: scores,
		log:    log,
		intake: rate.NewLimiter(rate.Every(time.Second), 30),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateLead records a new inbound lead in the novo stage.
func (s *service) CreateLead(ctx context.Context, phone, name string, vehicleID *uuid.UUID) (*Lead, error) {
	if !s.intake.Allow() {
		return nil, ErrRateLimited
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: lead phone is required", ErrInvalidInput)
	}

	lead := &Lead{
		ID:        uuid.New(),
		Phone:     phone,
		Name:      name,
		VehicleID: vehicleID,
		Status:    LeadNovo,
		CreatedAt: s.now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, phone, name, vehicle_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, lead.ID, lead.Phone, lead.Name, lead.VehicleID, lead.Status, lead.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

// GetLead retrieves one lead by id.
func (s *service) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	return s.loadLead(ctx, id)
}

// ListOpen returns leads still in play, oldest first.
func (s *service) ListOpen(ctx context.Context) ([]Lead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, phone, name, vehicle_id, status, assigned_vendor_id, created_at, contacted_at, closed_at
		FROM leads
		WHERE status IN ($1, $2)
		ORDER BY created_at ASC
	`, LeadNovo, LeadEmAtendimento)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		err := rows.Scan(&l.ID, &l.Phone, &l.Name, &l.VehicleID, &l.Status, &l.AssignedVendorID, &l.CreatedAt, &l.ContactedAt, &l.ClosedAt)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// ClaimLead assigns a novo lead exclusively to vendorID. The guarded update
// makes concurrent claims lose cleanly instead of double-assigning.
func (s *service) ClaimLead(ctx context.Context, leadID, vendorID uuid.UUID) (*Lead, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE leads
		SET status = $1, assigned_vendor_id = $2, contacted_at = $3
		WHERE id = $4 AND status = $5
	`, LeadEmAtendimento, vendorID, now, leadID, LeadNovo)
	if err != nil {
		return nil, fmt.Errorf("claim lead: %w", err)
	}
	if err := s.checkAffected(ctx, res, leadID); err != nil {
		return nil, err
	}
	return s.loadLead(ctx, leadID)
}

// ConvertLead closes the vendor's claimed lead as converted and credits the
// conversion points.
func (s *service) ConvertLead(ctx context.Context, leadID, vendorID uuid.UUID) (*Lead, error) {
	lead, err := s.close(ctx, leadID, vendorID, LeadConvertido)
	if err != nil {
		return nil, err
	}
	if s.scores != nil {
		if err := s.scores.CreditLead(ctx, vendorID); err != nil {
			s.log.Error().Err(err).
				Str("lead_id", leadID.String()).
				Str("vendor_id", vendorID.String()).
				Msg("failed to credit lead conversion")
		}
	}
	return lead, nil
}

// LoseLead closes the vendor's claimed lead as lost.
func (s *service) LoseLead(ctx context.Context, leadID, vendorID uuid.UUID) (*Lead, error) {
	return s.close(ctx, leadID, vendorID, LeadPerdido)
}

func (s *service) close(ctx context.Context, leadID, vendorID uuid.UUID, to LeadStatus) (*Lead, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE leads
		SET status = $1, closed_at = $2
		WHERE id = $3 AND status = $4 AND assigned_vendor_id = $5
	`, to, s.now(), leadID, LeadEmAtendimento, vendorID)
	if err != nil {
		return nil, fmt.Errorf("close lead: %w", err)
	}
	if err := s.checkAffected(ctx, res, leadID); err != nil {
		return nil, err
	}
	return s.loadLead(ctx, leadID)
}

// checkAffected distinguishes a missing row from a lost race or an ownership
// mismatch after a guarded write touched nothing.
func (s *service) checkAffected(ctx context.Context, res sql.Result, leadID uuid.UUID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check update: %w", err)
	}
	if affected != 0 {
		return nil
	}
	if _, err := s.loadLead(ctx, leadID); err != nil {
		return err
	}
	return ErrLeadConflict
}

func (s *service) loadLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	l := &Lead{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, phone, name, vehicle_id, status, assigned_vendor_id, created_at, contacted_at, closed_at
		FROM leads
		WHERE id = $1
	`, id).Scan(&l.ID, &l.Phone, &l.Name, &l.VehicleID, &l.Status, &l.AssignedVendorID, &l.CreatedAt, &l.ContactedAt, &l.ClosedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load lead: %w", err)
	}
	return l, nil
}
