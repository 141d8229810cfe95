package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/importer"
)

func newCatalogCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the races, weapons, and armor in the content directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			races, err := ruleset.LoadRaces(cfg.Content.RacesDir)
			if err != nil {
				return err
			}
			reg, err := inventory.LoadRegistry(cfg.Content.WeaponsDir, cfg.Content.ArmorDir)
			if err != nil {
				return err
			}
			if err := reg.LoadCrafting(optionalDir(cfg.Content.AttachmentsDir), optionalDir(cfg.Content.EnchantmentsDir)); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RACE\tCODE\tSPEED\tTRAITS")
			for _, r := range races {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.ID, r.Code, r.Speed, strings.Join(r.Traits, ", "))
			}
			fmt.Fprintln(w, "\nWEAPON\tCLASS\tDAMAGE\tRANGE (m)\tCOST")
			for _, wp := range reg.AllWeapons() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
					wp.ID, wp.Class.DisplayName(), wp.DamageExpression(0).Raw, wp.RangeMeters(), wp.Cost)
			}
			fmt.Fprintln(w, "\nARMOR\tTYPE\tTIER\tBONUS\tCOST")
			for _, a := range reg.AllArmors() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", a.ID, a.Type, orDash(string(a.Tier)), a.Bonus, a.Cost)
			}
			if atts := reg.AllAttachments(); len(atts) > 0 {
				fmt.Fprintln(w, "\nATTACHMENT\tNAME\tCOST")
				for _, a := range atts {
					fmt.Fprintf(w, "%s\t%s\t%d\n", a.ID, a.Name, a.Cost)
				}
			}
			if enchs := reg.AllEnchantments(); len(enchs) > 0 {
				fmt.Fprintln(w, "\nENCHANTMENT\tTARGET\tCRAFT\tREQUIRES\tCOST")
				for _, e := range enchs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", e.ID, e.Target, e.CraftingSkill, e.SkillRequirement, e.Cost)
				}
			}
			return w.Flush()
		},
	}
}

// optionalDir returns dir, or "" when dir does not exist.
func optionalDir(dir string) string {
	if dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return dir
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import catalog and character content into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			src := importer.ConfigSource(cfg.Content)
			if dir != "" {
				src = importer.NewDirSource(dir)
			}
			ctx := cmd.Context()
			app, err := openApp(ctx, cfg, openOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			sum, err := importer.New(src, app.Store, app.Logger).Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d race(s), %d weapon(s), %d armor, %d character(s) (%d updated)\n",
				sum.Races, sum.Weapons, sum.Armors, sum.Characters, sum.Updated)
			for _, id := range sum.CharacterIDs {
				fmt.Fprintf(cmd.OutOrStdout(), "  character #%d\n", id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "content root with races/, weapons/, armor/, and characters/ (defaults to the configured directories)")
	return cmd
}
