package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

func newSheetCmd(flags *rootFlags) *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Print a character's derived sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, openOptions{seedMemory: true}, func(ctx context.Context, app *App) error {
				sheet, err := app.Engine.SheetByID(ctx, id)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "Character\t%s (#%d)\n", sheet.Name, sheet.CharacterID)
				fmt.Fprintf(w, "Armor Class\t%d\n\n", sheet.ArmorClass)
				fmt.Fprintln(w, "ATTRIBUTE\tLIMIT\tHEADROOM")
				for _, a := range ruleset.Attributes() {
					fmt.Fprintf(w, "%s\t%d\t%d\n", a, sheet.Limits[a], sheet.Headroom[a])
				}
				fmt.Fprintln(w, "\nSKILL\tGOVERNED BY\tVALUE")
				for _, s := range character.SkillNames() {
					fmt.Fprintf(w, "%s\t%s\t%d\n", s, s.Governing().Short(), sheet.Skills[s])
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().Int64Var(&id, "character", 0, "character ID")
	_ = cmd.MarkFlagRequired("character")
	return cmd
}

func newCharactersCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List stored characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, openOptions{seedMemory: true}, func(ctx context.Context, app *App) error {
				chars, err := app.Store.ListCharacters(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tRACE\tCLASS\tPOINTS")
				for _, c := range chars {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", c.ID, c.DisplayName(), orDash(c.RaceID), orDash(c.ClassID), c.AttributePoints)
				}
				return w.Flush()
			})
		},
	}
}

func newSpendCmd(flags *rootFlags) *cobra.Command {
	var (
		id     int64
		attr   string
		points int
	)
	cmd := &cobra.Command{
		Use:   "spend",
		Short: "Spend unspent attribute points on one attribute",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ruleset.ParseAttribute(attr)
			if err != nil {
				return err
			}
			return flags.withApp(cmd, openOptions{seedMemory: true}, func(ctx context.Context, app *App) error {
				c, err := app.Store.LoadCharacter(ctx, id)
				if err != nil {
					return err
				}
				var race *ruleset.Race
				if c.RaceID != "" {
					if race, err = app.Store.LoadRace(ctx, c.RaceID); err != nil {
						return fmt.Errorf("loading race: %w", err)
					}
				}
				if err := character.SpendAttributePoints(c, race, a, points); err != nil {
					return err
				}
				if err := app.Store.UpdateCharacter(ctx, c); err != nil {
					return err
				}
				app.Logger.Info("attribute points spent",
					zap.Int64("character_id", c.ID),
					zap.String("attribute", string(a)),
					zap.Int("points", points),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %d (%d points left, limit %d)\n",
					c.DisplayName(), a, c.Attributes.Get(a), c.AttributePoints, c.Limit(race, a))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&id, "character", 0, "character ID")
	cmd.Flags().StringVar(&attr, "attribute", "", "attribute name or abbreviation")
	cmd.Flags().IntVar(&points, "points", 1, "points to spend")
	_ = cmd.MarkFlagRequired("character")
	_ = cmd.MarkFlagRequired("attribute")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
