// internal/gamification/scoring_test.go
package gamification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSalePointsScaleWithLevel(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.SalePoints(LevelIniciante))
	assert.Equal(t, 120, cfg.SalePoints(LevelIntermediario))
	assert.Equal(t, 150, cfg.SalePoints(LevelAvancado))
	assert.Equal(t, 200, cfg.SalePoints(LevelExpert))

	// higher levels never earn less for the same work
	prev := 0
	for _, level := range Levels {
		p := cfg.SalePoints(level)
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
}

func TestLeadAndTargetBonusPoints(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 25, cfg.LeadPoints(LevelIniciante))
	assert.Equal(t, 50, cfg.LeadPoints(LevelExpert))
	assert.Equal(t, 400, cfg.TargetBonusPoints(LevelExpert))
}

func TestRankingBonusPodiumOnly(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 300, cfg.RankingBonus(1))
	assert.Equal(t, 200, cfg.RankingBonus(2))
	assert.Equal(t, 100, cfg.RankingBonus(3))
	assert.Equal(t, 0, cfg.RankingBonus(4))
	assert.Equal(t, 0, cfg.RankingBonus(0))
}

func TestMetaProgress(t *testing.T) {
	assert.Equal(t, 0, MetaProgress(500, 0), "no target means no progress")
	assert.Equal(t, 50, MetaProgress(500, 1000))
	assert.Equal(t, 100, MetaProgress(1000, 1000))
	assert.Equal(t, 100, MetaProgress(2500, 1000), "capped at 100")
	assert.Equal(t, 33, MetaProgress(1000, 3000))

	assert.False(t, MetaAtingida(999, 1000))
	assert.True(t, MetaAtingida(1000, 1000))
	assert.False(t, MetaAtingida(1000, 0))
}

func testVendor(name string, points int, hiredAt time.Time) Vendor {
	return Vendor{
		ID:      uuid.New(),
		Name:    name,
		Level:   LevelIniciante,
		Points:  points,
		Status:  VendorAtivo,
		HiredAt: hiredAt,
	}
}

func TestComputeVendorRankingOrderAndBonuses(t *testing.T) {
	cfg := DefaultConfig()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	ana := testVendor("Ana", 900, base)
	bruno := testVendor("Bruno", 500, base.AddDate(0, 1, 0))
	carla := testVendor("Carla", 500, base)
	diego := testVendor("Diego", 100, base)

	ranking := ComputeVendorRanking([]Vendor{diego, bruno, ana, carla}, cfg)
	require.Len(t, ranking, 4)

	assert.Equal(t, "Ana", ranking[0].Vendor.Name)
	assert.Equal(t, 1, ranking[0].Position)
	assert.Equal(t, 300, ranking[0].RolloverBonus)

	// tie on points: earlier hire first
	assert.Equal(t, "Carla", ranking[1].Vendor.Name)
	assert.Equal(t, "Bruno", ranking[2].Vendor.Name)
	assert.Equal(t, 200, ranking[1].RolloverBonus)
	assert.Equal(t, 100, ranking[2].RolloverBonus)

	assert.Equal(t, "Diego", ranking[3].Vendor.Name)
	assert.Equal(t, 0, ranking[3].RolloverBonus)
}

func TestComputeVendorRankingMetaSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	v := testVendor("Ana", 10, time.Now())
	v.MonthlyRevenue = 80000
	v.MonthlyTarget = 100000

	ranking := ComputeVendorRanking([]Vendor{v}, cfg)
	require.Len(t, ranking, 1)
	assert.Equal(t, 80, ranking[0].MetaProgress)
	assert.False(t, ranking[0].MetaAtingida)
}

func TestComputeVendorRankingProperties(t *testing.T) {
	cfg := DefaultConfig()

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		vendors := make([]Vendor, 0, n)
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < n; i++ {
			v := testVendor("v", rapid.IntRange(0, 5).Draw(rt, "points"),
				base.AddDate(0, 0, rapid.IntRange(0, 3).Draw(rt, "hired")))
			vendors = append(vendors, v)
		}

		first := ComputeVendorRanking(vendors, cfg)
		second := ComputeVendorRanking(vendors, cfg)

		// idempotent: identical inputs, identical leaderboard
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Vendor.ID, second[i].Vendor.ID)
			assert.Equal(t, first[i].Position, second[i].Position)
		}

		// totally ordered: points never increase down the board, and
		// positions are the dense sequence 1..n
		for i := range first {
			assert.Equal(t, i+1, first[i].Position)
			if i > 0 {
				assert.GreaterOrEqual(t, first[i-1].Vendor.Points, first[i].Vendor.Points)
			}
		}
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := DefaultConfig()
	bad.LevelMultipliers[LevelExpert] = 0.5
	assert.Error(t, bad.Validate(), "expert multiplying less than lower levels")

	missing := DefaultConfig()
	delete(missing.LevelMultipliers, LevelAvancado)
	assert.Error(t, missing.Validate())

	negative := DefaultConfig()
	negative.PointsPerSale = -1
	assert.Error(t, negative.Validate())
}
