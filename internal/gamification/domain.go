// internal/gamification/domain.go
package gamification

import (
	"time"

	"github.com/google/uuid"
)

// Level is a vendor's progression tier. The wire values match what the
// dealership's dashboards already display.
type Level string

const (
	LevelIniciante     Level = "iniciante"
	LevelIntermediario Level = "intermediario"
	LevelAvancado      Level = "avancado"
	LevelExpert        Level = "expert"
)

// Levels lists the tiers in ascending order.
var Levels = []Level{LevelIniciante, LevelIntermediario, LevelAvancado, LevelExpert}

// VendorStatus is a vendor's employment status.
type VendorStatus string

const (
	VendorAtivo    VendorStatus = "ativo"
	VendorFerias   VendorStatus = "ferias"
	VendorSuspenso VendorStatus = "suspenso"
	VendorInativo  VendorStatus = "inativo"
)

// Vendor represents a salesperson in the gamification program.
type Vendor struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	Level          Level        `json:"level"`
	Points         int          `json:"points"`
	MonthlyRevenue int64        `json:"monthly_revenue"`
	MonthlyTarget  int64        `json:"monthly_target"`
	Status         VendorStatus `json:"status"`
	HiredAt        time.Time    `json:"hired_at"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// RankingEntry is one row of the monthly leaderboard, snapshotted at query
// time. MetaAtingida is evaluated when the ranking is computed, not tracked
// continuously.
type RankingEntry struct {
	Position      int    `json:"position"`
	Vendor        Vendor `json:"vendor"`
	MetaProgress  int    `json:"meta_progress"`
	MetaAtingida  bool   `json:"meta_atingida"`
	RolloverBonus int    `json:"rollover_bonus"`
}
