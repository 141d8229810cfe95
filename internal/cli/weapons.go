package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRollDamageCmd(flags *rootFlags) *cobra.Command {
	var (
		weaponID     string
		modifier     int
		advantage    bool
		disadvantage bool
	)
	cmd := &cobra.Command{
		Use:   "roll-damage",
		Short: "Roll a weapon's damage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, openOptions{seedMemory: true}, func(ctx context.Context, app *App) error {
				w, err := app.Store.LoadWeapon(ctx, weaponID)
				if err != nil {
					return err
				}
				result := app.Engine.RollWeaponDamage(w, modifier, advantage, disadvantage)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", w.Name, result)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&weaponID, "weapon", "", "weapon ID")
	cmd.Flags().IntVar(&modifier, "modifier", 0, "flat damage modifier")
	cmd.Flags().BoolVar(&advantage, "advantage", false, "add a d6")
	cmd.Flags().BoolVar(&disadvantage, "disadvantage", false, "subtract a d6")
	_ = cmd.MarkFlagRequired("weapon")
	return cmd
}

func newRangeCmd(flags *rootFlags) *cobra.Command {
	var weaponID string
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Print a weapon's range in meters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, openOptions{seedMemory: true}, func(ctx context.Context, app *App) error {
				w, err := app.Store.LoadWeapon(ctx, weaponID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d %s = %d m\n",
					w.Name, w.Range, w.RangeUnit, app.Engine.ComputeWeaponRangeMeters(w))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&weaponID, "weapon", "", "weapon ID")
	_ = cmd.MarkFlagRequired("weapon")
	return cmd
}

func newRollCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "roll <expr>",
		Short: "Roll a dice expression such as 2d6+1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, openOptions{}, func(ctx context.Context, app *App) error {
				result, err := app.Roller.RollExpr(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.String())
				return nil
			})
		},
	}
}
