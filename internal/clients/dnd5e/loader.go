package dnd5e

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
)

// LoadRaces fetches the given races concurrently, or every race the API
// lists when keys is empty. Results keep the order of keys.
func LoadRaces(ctx context.Context, c Client, keys ...string) ([]*rulebook.Race, error) {
	if c == nil {
		return nil, dnderr.InvalidArgument("client is required")
	}

	if len(keys) == 0 {
		listed, err := c.ListRaceKeys()
		if err != nil {
			return nil, err
		}
		keys = listed
	}

	races := make([]*rulebook.Race, len(keys))
	g, ctx := errgroup.WithContext(ctx)

	for i, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			race, err := c.GetRace(key)
			if err != nil {
				return err
			}
			races[i] = race
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Printf("[DND5E] Loaded %d races", len(races))
	return races, nil
}

// HitDieMismatch is a class whose API hit die differs from the rulebook
type HitDieMismatch struct {
	Class    rulebook.ClassKey
	Rulebook int
	API      int
}

// CheckHitDice compares every class hit die in rules with the API. Lookup
// failures are logged and skipped; mismatches are logged and returned in
// rulebook class order.
func CheckHitDice(ctx context.Context, c Client, rules *rulebook.Rules) ([]HitDieMismatch, error) {
	if c == nil {
		return nil, dnderr.InvalidArgument("client is required")
	}
	if rules == nil {
		return nil, dnderr.InvalidArgument("rules are required")
	}

	classes := rules.Classes()
	apiDice := make([]int, len(classes))
	g, ctx := errgroup.WithContext(ctx)

	for i, class := range classes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			hitDie, err := c.GetClassHitDie(string(class.Key))
			if err != nil {
				log.Printf("[DND5E] Could not check hit die for %s: %v", class.Key, err)
				return nil
			}
			apiDice[i] = hitDie
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var mismatches []HitDieMismatch
	for i, class := range classes {
		if apiDice[i] == 0 || apiDice[i] == class.HitDie {
			continue
		}
		log.Printf("[DND5E] Hit die mismatch for %s: rulebook d%d, api d%d", class.Key, class.HitDie, apiDice[i])
		mismatches = append(mismatches, HitDieMismatch{
			Class:    class.Key,
			Rulebook: class.HitDie,
			API:      apiDice[i],
		})
	}
	return mismatches, nil
}

// LoadRules returns base extended with every race the API lists, and
// cross-checks class hit dice against the API
func LoadRules(ctx context.Context, c Client, base *rulebook.Rules) (*rulebook.Rules, error) {
	if base == nil {
		base = rulebook.Standard()
	}

	races, err := LoadRaces(ctx, c)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to load races")
	}

	rules := base.WithRaces(races...)
	if _, err := CheckHitDice(ctx, c, rules); err != nil {
		return nil, dnderr.Wrap(err, "failed to check class hit dice")
	}
	return rules, nil
}
