package points

import (
	"context"
	"fmt"
	"strings"
)

// Reward is something players can spend Green Points on.
type Reward struct {
	ID          string
	Name        string
	Description string
	Cost        int
	Available   bool
}

// DefaultRewards returns the built-in reward catalog.
func DefaultRewards() []Reward {
	return []Reward{
		{ID: "water-bottle", Name: "Eco-friendly Water Bottle", Description: "Stainless steel insulated water bottle", Cost: 500, Available: true},
		{ID: "cloth-bags", Name: "Cloth Shopping Bag Set", Description: "Set of 3 reusable cloth bags", Cost: 300, Available: true},
		{ID: "compost-bin", Name: "Compost Bin", Description: "Home composting unit", Cost: 800},
		{ID: "plant-a-tree", Name: "Plant a Tree", Description: "A tree planted in your name", Cost: 1000, Available: true},
		{ID: "workshop-pass", Name: "Eco Workshop Pass", Description: "Free pass to a sustainability workshop", Cost: 400, Available: true},
		{ID: "solar-charger", Name: "Solar Charger", Description: "Portable solar phone charger", Cost: 1200},
	}
}

// Rewards returns the reward catalog.
func (l *Ledger) Rewards() []Reward {
	return l.rewards
}

// Redeem spends the reward's cost from player's balance and returns the
// new balance. Levels follow the balance, so spending can lower them;
// earned badges are kept.
func (l *Ledger) Redeem(ctx context.Context, player, id string) (Reward, int, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return Reward{}, 0, ErrNoPlayer
	}

	var (
		r     Reward
		found bool
	)
	for _, candidate := range l.rewards {
		if strings.EqualFold(candidate.ID, strings.TrimSpace(id)) {
			r, found = candidate, true
			break
		}
	}
	if !found {
		return Reward{}, 0, fmt.Errorf("%w: %q", ErrUnknownReward, id)
	}
	if !r.Available {
		return r, 0, fmt.Errorf("%w: %s", ErrRewardUnavailable, r.Name)
	}

	ok, err := l.repo.Spend(ctx, Activity{
		Player: player,
		Source: SourceRedemption,
		Points: -r.Cost,
		Note:   "redeemed reward: " + r.Name,
	})
	if err != nil {
		return r, 0, fmt.Errorf("points: redeem %s: %w", r.ID, err)
	}

	balance, err := l.repo.Balance(ctx, player)
	if err != nil {
		return r, 0, fmt.Errorf("points: balance %s: %w", player, err)
	}
	if !ok {
		return r, balance, fmt.Errorf("%w: %s costs %d, balance is %d", ErrInsufficientPoints, r.Name, r.Cost, balance)
	}

	l.logger.Info("reward redeemed", "player", player, "reward", r.ID, "cost", r.Cost, "balance", balance)
	return r, balance, nil
}
