// Package config provides YAML-based configuration loading for the
// sorting game: round rules, the item catalog, the lookup dictionary,
// badges, challenges and rewards.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/greensort/internal/points"
	"github.com/vovakirdan/greensort/internal/sorting"
)

// SortingConfig contains all configuration for the sorting game.
type SortingConfig struct {
	Rules      RulesConfig   `yaml:"rules"`
	Items      []ItemConfig  `yaml:"items"`      // Items drawn into round pools
	Dictionary []ItemConfig  `yaml:"dictionary"` // Items known to the lookup command
	Badges     []BadgeConfig     `yaml:"badges"`
	Challenges []ChallengeConfig `yaml:"challenges"`
	Rewards    []RewardConfig    `yaml:"rewards"`
}

// RulesConfig defines round timing and scoring.
type RulesConfig struct {
	RoundSeconds     int           `yaml:"round_seconds"`
	TickInterval     time.Duration `yaml:"tick_interval"`
	BatchSize        int           `yaml:"batch_size"`
	BaseReward       int           `yaml:"base_reward"`
	StreakThreshold  int           `yaml:"streak_threshold"`
	StreakBonus      int           `yaml:"streak_bonus"`
	TimeBonusDivisor int           `yaml:"time_bonus_divisor"`
}

// ItemConfig defines one waste item.
type ItemConfig struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"` // wet, dry, hazardous, e-waste
	Icon     string `yaml:"icon"`
	Tip      string `yaml:"tip"`
	Warning  string `yaml:"warning"`
	Points   int    `yaml:"points"`
}

// BadgeConfig defines a badge and its criterion ("points:1000", "streak:7", ...).
type BadgeConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Criteria    string `yaml:"criteria"`
}

// ChallengeConfig defines a challenge and how often it can be completed.
type ChallengeConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Points      int    `yaml:"points"`
	Frequency   string `yaml:"frequency"` // daily, weekly, monthly
}

// RewardConfig defines a reward in the catalog.
type RewardConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cost        int    `yaml:"cost"`
	Available   bool   `yaml:"available"`
}

// SortingRules converts the rules section to engine rules.
func (c SortingConfig) SortingRules() sorting.Rules {
	r := c.Rules
	return sorting.Rules{
		RoundSeconds:     r.RoundSeconds,
		TickInterval:     r.TickInterval,
		BatchSize:        r.BatchSize,
		BaseReward:       r.BaseReward,
		StreakThreshold:  r.StreakThreshold,
		StreakBonus:      r.StreakBonus,
		TimeBonusDivisor: r.TimeBonusDivisor,
	}
}

// Catalog builds the game catalog from the items section.
func (c SortingConfig) Catalog() (*sorting.Catalog, error) {
	return buildCatalog("items", c.Items)
}

// DictionaryCatalog builds the lookup catalog. An empty dictionary
// falls back to the game items.
func (c SortingConfig) DictionaryCatalog() (*sorting.Catalog, error) {
	if len(c.Dictionary) == 0 {
		return c.Catalog()
	}
	return buildCatalog("dictionary", c.Dictionary)
}

func buildCatalog(section string, items []ItemConfig) (*sorting.Catalog, error) {
	out := make([]sorting.WasteItem, 0, len(items))
	for _, ic := range items {
		it, err := ic.WasteItem()
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", section, err)
		}
		out = append(out, it)
	}
	cat, err := sorting.NewCatalog(out)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", section, err)
	}
	return cat, nil
}

// WasteItem converts an item entry, resolving its category.
func (ic ItemConfig) WasteItem() (sorting.WasteItem, error) {
	cat := sorting.ParseCategory(ic.Category)
	if !cat.Valid() {
		return sorting.WasteItem{}, fmt.Errorf("item %q: unknown category %q", ic.Name, ic.Category)
	}
	return sorting.WasteItem{
		Name:     ic.Name,
		Category: cat,
		Icon:     ic.Icon,
		Tip:      ic.Tip,
		Warning:  ic.Warning,
		Points:   ic.Points,
	}, nil
}

// BadgeDefinitions parses the badges section. An empty section yields
// the ledger's built-in badges.
func (c SortingConfig) BadgeDefinitions() ([]points.Badge, error) {
	if len(c.Badges) == 0 {
		return points.DefaultBadges(), nil
	}

	badges := make([]points.Badge, 0, len(c.Badges))
	for _, bc := range c.Badges {
		crit, err := points.ParseCriterion(bc.Criteria)
		if err != nil {
			return nil, fmt.Errorf("config: badge %q: %w", bc.ID, err)
		}
		badges = append(badges, points.Badge{
			ID:          bc.ID,
			Name:        bc.Name,
			Description: bc.Description,
			Criterion:   crit,
		})
	}
	return badges, nil
}

// ChallengeDefinitions parses the challenges section. An empty section
// yields the built-in challenges.
func (c SortingConfig) ChallengeDefinitions() ([]points.Challenge, error) {
	if len(c.Challenges) == 0 {
		return points.DefaultChallenges(), nil
	}

	seen := make(map[string]bool, len(c.Challenges))
	out := make([]points.Challenge, 0, len(c.Challenges))
	for _, cc := range c.Challenges {
		if cc.ID == "" || seen[cc.ID] {
			return nil, fmt.Errorf("config: challenge %q: missing or duplicate id", cc.ID)
		}
		seen[cc.ID] = true
		if cc.Points <= 0 {
			return nil, fmt.Errorf("config: challenge %q: points must be positive", cc.ID)
		}
		freq, err := points.ParseFrequency(cc.Frequency)
		if err != nil {
			return nil, fmt.Errorf("config: challenge %q: %w", cc.ID, err)
		}
		out = append(out, points.Challenge{
			ID:          cc.ID,
			Name:        cc.Name,
			Description: cc.Description,
			Points:      cc.Points,
			Frequency:   freq,
		})
	}
	return out, nil
}

// RewardDefinitions parses the rewards section. An empty section yields
// the built-in catalog.
func (c SortingConfig) RewardDefinitions() ([]points.Reward, error) {
	if len(c.Rewards) == 0 {
		return points.DefaultRewards(), nil
	}

	seen := make(map[string]bool, len(c.Rewards))
	out := make([]points.Reward, 0, len(c.Rewards))
	for _, rc := range c.Rewards {
		if rc.ID == "" || seen[rc.ID] {
			return nil, fmt.Errorf("config: reward %q: missing or duplicate id", rc.ID)
		}
		seen[rc.ID] = true
		if rc.Cost <= 0 {
			return nil, fmt.Errorf("config: reward %q: cost must be positive", rc.ID)
		}
		out = append(out, points.Reward{
			ID:          rc.ID,
			Name:        rc.Name,
			Description: rc.Description,
			Cost:        rc.Cost,
			Available:   rc.Available,
		})
	}
	return out, nil
}

// Validate checks rules, both catalogs and the ledger definitions.
func (c SortingConfig) Validate() error {
	if err := c.SortingRules().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Catalog(); err != nil {
		return err
	}
	if _, err := c.DictionaryCatalog(); err != nil {
		return err
	}
	if _, err := c.BadgeDefinitions(); err != nil {
		return err
	}
	if _, err := c.ChallengeDefinitions(); err != nil {
		return err
	}
	if _, err := c.RewardDefinitions(); err != nil {
		return err
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty resolves a preset name. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyPreset adjusts round length and batch size for a preset.
// Normal leaves the loaded config untouched.
func ApplyPreset(cfg *SortingConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Rules.RoundSeconds = 90
		cfg.Rules.BatchSize = 4
	case DifficultyHard:
		cfg.Rules.RoundSeconds = 45
		cfg.Rules.BatchSize = 8
	case DifficultyNormal:
	}
}
