// internal/gamification/config.go
package gamification

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every scoring value as data. Nothing in the engine hardcodes
// a point amount; changing the program means editing the YAML, not the code.
type Config struct {
	PointsPerSale    int               `yaml:"points_per_sale"`
	PointsPerLead    int               `yaml:"points_per_lead"`
	TargetBonus      int               `yaml:"target_bonus"`
	LevelMultipliers map[Level]float64 `yaml:"level_multipliers"`
	RankingBonuses   []int             `yaml:"ranking_bonuses"`
}

// DefaultConfig returns the scoring values used when no file is provided.
func DefaultConfig() Config {
	return Config{
		PointsPerSale: 100,
		PointsPerLead: 25,
		TargetBonus:   200,
		LevelMultipliers: map[Level]float64{
			LevelIniciante:     1.0,
			LevelIntermediario: 1.2,
			LevelAvancado:      1.5,
			LevelExpert:        2.0,
		},
		RankingBonuses: []int{300, 200, 100},
	}
}

// LoadConfig reads scoring values from a YAML file, filling gaps from the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse scoring config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configs that would break the scoring invariants: every
// level needs a positive multiplier, and higher levels must not multiply
// less than lower ones.
func (c Config) Validate() error {
	if c.PointsPerSale < 0 || c.PointsPerLead < 0 || c.TargetBonus < 0 {
		return fmt.Errorf("scoring config: point values must not be negative")
	}
	prev := 0.0
	for _, level := range Levels {
		m, ok := c.LevelMultipliers[level]
		if !ok || m <= 0 {
			return fmt.Errorf("scoring config: missing or non-positive multiplier for level %s", level)
		}
		if m < prev {
			return fmt.Errorf("scoring config: multiplier for %s is lower than the level below it", level)
		}
		prev = m
	}
	for _, b := range c.RankingBonuses {
		if b < 0 {
			return fmt.Errorf("scoring config: ranking bonuses must not be negative")
		}
	}
	return nil
}
