// internal/gamification/scoring.go
package gamification

import (
	"math"
	"sort"
)

// SalePoints is the score credited for one completed sale at the given level.
func (c Config) SalePoints(level Level) int {
	return scaled(c.PointsPerSale, c.LevelMultipliers[level])
}

// LeadPoints is the score credited for one converted lead at the given level.
func (c Config) LeadPoints(level Level) int {
	return scaled(c.PointsPerLead, c.LevelMultipliers[level])
}

// TargetBonusPoints is the score credited when a vendor meets the monthly
// revenue target.
func (c Config) TargetBonusPoints(level Level) int {
	return scaled(c.TargetBonus, c.LevelMultipliers[level])
}

// RankingBonus is the rollover bonus for a leaderboard position (1-based).
// Positions beyond the configured podium earn nothing.
func (c Config) RankingBonus(position int) int {
	if position < 1 || position > len(c.RankingBonuses) {
		return 0
	}
	return c.RankingBonuses[position-1]
}

func scaled(base int, multiplier float64) int {
	if multiplier == 0 {
		return base
	}
	return int(math.Round(float64(base) * multiplier))
}

// MetaProgress is the percentage of the monthly target reached, capped at
// 100. A vendor without a target has no progress to report.
func MetaProgress(revenue, target int64) int {
	if target <= 0 {
		return 0
	}
	p := int(math.Round(float64(revenue) / float64(target) * 100))
	if p > 100 {
		return 100
	}
	return p
}

// MetaAtingida reports whether the monthly target has been met.
func MetaAtingida(revenue, target int64) bool {
	return target > 0 && revenue >= target
}

// ComputeVendorRanking orders vendors by cumulative points descending and
// annotates each with its position, meta snapshot and rollover bonus. The
// order is total: ties on points fall back to hiring date (earlier first),
// then id, so identical inputs always produce the identical leaderboard.
func ComputeVendorRanking(vendors []Vendor, cfg Config) []RankingEntry {
	ordered := make([]Vendor, len(vendors))
	copy(ordered, vendors)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Points != ordered[j].Points {
			return ordered[i].Points > ordered[j].Points
		}
		if !ordered[i].HiredAt.Equal(ordered[j].HiredAt) {
			return ordered[i].HiredAt.Before(ordered[j].HiredAt)
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	entries := make([]RankingEntry, 0, len(ordered))
	for i, v := range ordered {
		position := i + 1
		entries = append(entries, RankingEntry{
			Position:      position,
			Vendor:        v,
			MetaProgress:  MetaProgress(v.MonthlyRevenue, v.MonthlyTarget),
			MetaAtingida:  MetaAtingida(v.MonthlyRevenue, v.MonthlyTarget),
			RolloverBonus: cfg.RankingBonus(position),
		})
	}
	return entries
}
