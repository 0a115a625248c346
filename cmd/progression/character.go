package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
	progressionService "github.com/KirkDiggler/dnd-progression/internal/services/progression"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		name, race, class, method, scores string
		proficiencies                     []string
		experience                        int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a level 1 character",
		RunE: func(cmd *cobra.Command, _ []string) error {
			allocation, err := progression.ParseAllocationMethod(method)
			if err != nil {
				return err
			}
			parsed, err := parseScores(scores)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			out, err := a.service.CreateCharacter(ctx, &progressionService.CreateCharacterInput{
				OwnerID:       a.ownerID,
				Name:          name,
				Race:          race,
				Class:         class,
				Method:        allocation,
				Scores:        parsed,
				Proficiencies: proficiencies,
				Experience:    experience,
			})
			if err != nil {
				return fmt.Errorf("failed to create character: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created character %s\n\n", out.Record.ID)
			printRecord(w, out.Record)
			for _, warning := range out.Warnings {
				fmt.Fprintf(w, "Warning: %s\n", warning)
			}
			for _, skipped := range out.SkippedBonuses {
				fmt.Fprintf(w, "Skipped race bonus: %s\n", skipped)
			}
			if !a.persistent {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: no Redis configured (REDIS_URL or REDIS_ADDR), this character is not saved after the command exits")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Character name (required)")
	cmd.Flags().StringVar(&race, "race", "", "Race (required)")
	cmd.Flags().StringVar(&class, "class", "", "Starting class (required)")
	cmd.Flags().StringVar(&method, "method", string(progression.MethodStandardArray), "standard_array, point_buy or manual")
	cmd.Flags().StringVar(&scores, "scores", "", "Base scores as str=15,dex=14,... (required)")
	cmd.Flags().StringSliceVar(&proficiencies, "proficiency", nil, "Starting proficiency, repeatable")
	cmd.Flags().IntVar(&experience, "xp", 0, "Starting experience")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("race")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("scores")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [character-id]",
		Short: "Show a character, or list the owner's characters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				record, err := a.service.GetCharacter(ctx, args[0])
				if err != nil {
					return err
				}
				printRecord(w, record)
				return nil
			}

			records, err := a.service.ListCharacters(ctx, a.ownerID)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(w, "No characters for %s\n", a.ownerID)
				return nil
			}
			for _, record := range records {
				fmt.Fprintf(w, "%s  %-20s level %d\n", record.ID, record.Name, record.Level())
			}
			return nil
		},
	}
}
