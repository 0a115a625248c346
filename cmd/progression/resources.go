package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	progressionService "github.com/KirkDiggler/dnd-progression/internal/services/progression"
)

func newExpendCmd(a *app) *cobra.Command {
	var (
		slot     int
		pact     bool
		resource string
		amount   int
	)

	cmd := &cobra.Command{
		Use:   "expend <character-id>",
		Short: "Spend a spell slot or class resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			var err error
			switch {
			case resource != "":
				_, err = a.service.ExpendResource(ctx, &progressionService.ExpendResourceInput{
					CharacterID: args[0],
					Resource:    resource,
					Amount:      amount,
				})
			case slot > 0 || pact:
				_, err = a.service.ExpendSpellSlot(ctx, &progressionService.ExpendSpellSlotInput{
					CharacterID: args[0],
					SpellLevel:  slot,
					Pact:        pact,
				})
			default:
				return errors.New("one of --slot, --pact or --resource is required")
			}
			if err != nil {
				return fmt.Errorf("failed to expend: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Expended")
			return nil
		},
	}

	cmd.Flags().IntVar(&slot, "slot", 0, "Spell slot level to spend")
	cmd.Flags().BoolVar(&pact, "pact", false, "Spend a pact magic slot")
	cmd.Flags().StringVar(&resource, "resource", "", "Class resource to spend, e.g. rage or ki")
	cmd.Flags().IntVar(&amount, "amount", 1, "How much of the resource to spend")
	cmd.MarkFlagsMutuallyExclusive("slot", "resource")
	cmd.MarkFlagsMutuallyExclusive("pact", "resource")
	return cmd
}

func newDamageCmd(a *app) *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "damage <character-id>",
		Short: "Apply damage to a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			record, err := a.service.TakeDamage(ctx, &progressionService.TakeDamageInput{
				CharacterID: args[0],
				Amount:      amount,
			})
			if err != nil {
				return fmt.Errorf("failed to apply damage: %w", err)
			}

			hp := record.Resources.HitPoints
			fmt.Fprintf(cmd.OutOrStdout(), "HP: %d/%d\n", hp.Current, hp.Max)
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 0, "Damage to take (required)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newRestCmd(a *app) *cobra.Command {
	var (
		long    bool
		hitDice string
	)

	cmd := &cobra.Command{
		Use:   "rest <character-id>",
		Short: "Take a short or long rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			w := cmd.OutOrStdout()

			if long {
				if hitDice != "" {
					return errors.New("--hit-dice only applies to a short rest")
				}
				record, err := a.service.LongRest(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to rest: %w", err)
				}
				fmt.Fprintln(w, "Long rest complete")
				printRecord(w, record)
				return nil
			}

			spend, err := parseHitDice(hitDice)
			if err != nil {
				return err
			}

			out, err := a.service.ShortRest(ctx, &progressionService.ShortRestInput{
				CharacterID: args[0],
				HitDice:     spend,
			})
			if err != nil {
				return fmt.Errorf("failed to rest: %w", err)
			}

			fmt.Fprintf(w, "Short rest complete, healed %d", out.HitPointsRestored)
			if len(out.HitDieResults) > 0 {
				fmt.Fprintf(w, " (rolled %v)", out.HitDieResults)
			}
			fmt.Fprintln(w)
			printRecord(w, out.Record)
			return nil
		},
	}

	cmd.Flags().BoolVar(&long, "long", false, "Take a long rest")
	cmd.Flags().StringVar(&hitDice, "hit-dice", "", "Hit dice to spend on a short rest, e.g. d10=2")
	return cmd
}

func newValidateScoresCmd(_ *app) *cobra.Command {
	var method, scores string

	cmd := &cobra.Command{
		Use:   "validate-scores",
		Short: "Check an ability score allocation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			allocation, err := progression.ParseAllocationMethod(method)
			if err != nil {
				return err
			}
			parsed, err := parseScores(scores)
			if err != nil {
				return err
			}

			validation, err := progression.ValidateAbilityScores(allocation, parsed)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Valid %s allocation: %s\n", validation.Method, validation.Scores)
			if validation.Method == progression.MethodPointBuy {
				fmt.Fprintf(w, "Points spent: %d/%d\n", validation.PointsSpent, progression.PointBuyBudget)
			}
			for _, warning := range validation.Warnings {
				fmt.Fprintf(w, "Warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", string(progression.MethodStandardArray), "standard_array, point_buy or manual")
	cmd.Flags().StringVar(&scores, "scores", "", "Scores as str=15,dex=14,... (required)")
	_ = cmd.MarkFlagRequired("scores")
	return cmd
}

func newSlotsCmd(a *app) *cobra.Command {
	var classes string

	cmd := &cobra.Command{
		Use:   "slots [character-id]",
		Short: "Show spell slots for a character or a class mix",
		Long: `With a character ID, shows that character's slots and what is left.
With --classes, computes slots for a hypothetical mix such as wizard=5,warlock=2:eldritch-knight.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				ctx, cancel := a.context(cmd)
				defer cancel()

				out, err := a.service.SpellSlots(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Caster level: %d\n", out.Summary.CasterLevel)
				printSlots(w, out.Max, out.Remaining)
				if out.Pact.Max > 0 {
					fmt.Fprintf(w, "Pact slots (level %d): %d/%d\n", out.Pact.SlotLevel, out.Pact.Remaining(), out.Pact.Max)
				}
				return nil
			}

			levels, err := parseClassLevels(classes)
			if err != nil {
				return err
			}
			if len(levels) == 0 {
				return errors.New("a character ID or --classes is required")
			}

			summary, err := a.engine.ComputeProgression(levels)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "Total level: %d, caster level: %d\n", summary.TotalLevel, summary.CasterLevel)
			printSlots(w, progression.ComputeSpellSlots(summary.CasterLevel), nil)
			if pact := progression.ComputePactMagic(summary.PactLevel); pact.Slots > 0 {
				fmt.Fprintf(w, "Pact slots: %d at level %d\n", pact.Slots, pact.SlotLevel)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&classes, "classes", "", "Class levels as class=level[:subclass], comma separated")
	return cmd
}

// parseClassLevels reads "wizard=5,fighter=3:eldritch-knight"
func parseClassLevels(s string) ([]*progression.ClassLevel, error) {
	raw := map[string]string{}
	for _, part := range splitList(s) {
		class, rest, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("expected class=level, got %q", part)
		}
		raw[class] = rest
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*progression.ClassLevel, 0, len(names))
	for _, name := range names {
		key, ok := rulebook.ParseClassKey(name)
		if !ok {
			return nil, fmt.Errorf("unknown class %q", name)
		}
		levelPart, subclass, _ := strings.Cut(raw[name], ":")
		level, err := strconv.Atoi(strings.TrimSpace(levelPart))
		if err != nil {
			return nil, fmt.Errorf("level for %s must be a number, got %q", name, levelPart)
		}
		out = append(out, &progression.ClassLevel{
			Class:    key,
			Level:    level,
			Subclass: rulebook.NormalizeKey(subclass),
		})
	}
	return out, nil
}
