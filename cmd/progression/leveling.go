package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	progressionService "github.com/KirkDiggler/dnd-progression/internal/services/progression"
)

func newLevelUpCmd(a *app) *cobra.Command {
	var class string

	cmd := &cobra.Command{
		Use:   "level-up <character-id>",
		Short: "Gain a level in a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			out, err := a.service.LevelUp(ctx, &progressionService.LevelUpInput{
				CharacterID: args[0],
				Class:       class,
			})
			if err != nil {
				return fmt.Errorf("failed to level up: %w", err)
			}

			w := cmd.OutOrStdout()
			result := out.Result
			fmt.Fprintf(w, "Level %d reached (%s %d)\n", out.Record.Level(), result.Class, result.ClassLevel)
			fmt.Fprintf(w, "Hit die: %d, max HP +%d\n", result.HitDieResult, result.HitPointsGained)
			for _, feature := range result.Features {
				fmt.Fprintf(w, "  + %s", feature.Name)
				if feature.Description != "" {
					fmt.Fprintf(w, ": %s", feature.Description)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "Class to gain a level in (required)")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func newASICmd(a *app) *cobra.Command {
	var (
		level                      int
		increases, feat, abilityIn string
	)

	cmd := &cobra.Command{
		Use:   "asi <character-id>",
		Short: "Resolve a pending ability score improvement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			choice := &progression.ASIChoice{Feat: feat}
			if increases != "" {
				parsed, err := parseIncreases(increases)
				if err != nil {
					return err
				}
				choice.Increases = parsed
			}
			if abilityIn != "" {
				attr, ok := shared.ParseAttribute(abilityIn)
				if !ok {
					return fmt.Errorf("unknown ability %q", abilityIn)
				}
				choice.FeatAbility = attr
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			record, err := a.service.ResolveASI(ctx, &progressionService.ResolveASIInput{
				CharacterID: args[0],
				Level:       level,
				Choice:      choice,
			})
			if err != nil {
				return fmt.Errorf("failed to resolve ASI: %w", err)
			}

			printRecord(cmd.OutOrStdout(), record)
			return nil
		},
	}

	cmd.Flags().IntVar(&level, "level", 0, "Character level the improvement was gained at (required)")
	cmd.Flags().StringVar(&increases, "increase", "", "Ability increases as str=2 or str=1,dex=1")
	cmd.Flags().StringVar(&feat, "feat", "", "Feat to take instead of increases")
	cmd.Flags().StringVar(&abilityIn, "feat-ability", "", "Ability for a feat that offers a choice")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}

func newSubclassCmd(a *app) *cobra.Command {
	var class, subclass string

	cmd := &cobra.Command{
		Use:   "subclass <character-id>",
		Short: "Choose a subclass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			record, err := a.service.ResolveSubclass(ctx, &progressionService.ResolveSubclassInput{
				CharacterID: args[0],
				Class:       class,
				Subclass:    subclass,
			})
			if err != nil {
				return fmt.Errorf("failed to choose subclass: %w", err)
			}

			printRecord(cmd.OutOrStdout(), record)
			return nil
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "Class the subclass belongs to (required)")
	cmd.Flags().StringVar(&subclass, "subclass", "", "Subclass name (required)")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("subclass")
	return cmd
}

func newXPCmd(a *app) *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "xp <character-id>",
		Short: "Award experience points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			out, err := a.service.AwardExperience(ctx, &progressionService.AwardExperienceInput{
				CharacterID: args[0],
				Amount:      amount,
			})
			if err != nil {
				return fmt.Errorf("failed to award experience: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Experience: %d\n", out.Record.State.Experience)
			fmt.Fprintf(w, "Levels available: %d\n", out.LevelsAvailable)
			if out.NextLevelAt > 0 {
				fmt.Fprintf(w, "Next level at: %d\n", out.NextLevelAt)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 0, "Experience to add (required)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
