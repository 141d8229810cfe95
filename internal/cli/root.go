package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/l8nite/internal/config"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	seed       uint64
}

// NewRootCommand returns the l8nite command tree writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "l8nite",
		Short:         "l8nite character rules engine",
		Long:          `l8nite derives armor class, skill values, and attribute limits for stored characters and resolves weapon damage rolls.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to configuration file (defaults and L8NITE_* env when empty)")
	root.PersistentFlags().Uint64Var(&flags.seed, "seed", 0, "roll with a seeded source instead of the configured one")

	root.AddCommand(
		newSheetCmd(flags),
		newCharactersCmd(flags),
		newSpendCmd(flags),
		newRollDamageCmd(flags),
		newRangeCmd(flags),
		newRollCmd(flags),
		newCatalogCmd(flags),
		newImportCmd(flags),
	)
	return root
}

// loadConfig reads the configuration and applies the --seed override.
func (f *rootFlags) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Dice.Source = config.DiceSeeded
		cfg.Dice.Seed = f.seed
	}
	return cfg, nil
}

// withApp opens the App for cmd, runs fn, and closes the App.
func (f *rootFlags) withApp(cmd *cobra.Command, opts openOptions, fn func(ctx context.Context, app *App) error) error {
	cfg, err := f.loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := openApp(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}
