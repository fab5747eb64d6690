package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/greensort/internal/sorting"
)

//go:embed defaults/sorting.yaml
var defaultSortingYAML []byte

// DefaultSortingConfig returns the hardcoded default configuration:
// the classic 60 second round over the eight game items.
func DefaultSortingConfig() SortingConfig {
	r := sorting.DefaultRules()
	return SortingConfig{
		Rules: RulesConfig{
			RoundSeconds:     r.RoundSeconds,
			TickInterval:     time.Second,
			BatchSize:        r.BatchSize,
			BaseReward:       r.BaseReward,
			StreakThreshold:  r.StreakThreshold,
			StreakBonus:      r.StreakBonus,
			TimeBonusDivisor: r.TimeBonusDivisor,
		},
		Items: itemConfigs(sorting.DefaultCatalog().Items()),
	}
}

func itemConfigs(items []sorting.WasteItem) []ItemConfig {
	out := make([]ItemConfig, len(items))
	for i, it := range items {
		out[i] = ItemConfig{
			Name:     it.Name,
			Category: it.Category.String(),
			Icon:     it.Icon,
			Tip:      it.Tip,
			Warning:  it.Warning,
			Points:   it.Points,
		}
	}
	return out
}
