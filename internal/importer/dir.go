package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/l8nite/internal/config"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

var _ Source = (*DirSource)(nil)

// DirSource implements Source over one YAML directory per record kind.
// CharactersDir is optional: empty or missing means no characters.
type DirSource struct {
	RacesDir      string
	WeaponsDir    string
	ArmorDir      string
	CharactersDir string
}

// NewDirSource constructs a DirSource for the content root layout:
//
//	root/
//	  races/       <- one YAML file per race
//	  weapons/     <- one YAML file per weapon
//	  armor/       <- one YAML file per armor piece
//	  characters/  <- optional; one YAML file per character
func NewDirSource(root string) *DirSource {
	return &DirSource{
		RacesDir:      filepath.Join(root, "races"),
		WeaponsDir:    filepath.Join(root, "weapons"),
		ArmorDir:      filepath.Join(root, "armor"),
		CharactersDir: filepath.Join(root, "characters"),
	}
}

// ConfigSource constructs a DirSource from the configured content directories.
func ConfigSource(cfg config.ContentConfig) *DirSource {
	return &DirSource{
		RacesDir:      cfg.RacesDir,
		WeaponsDir:    cfg.WeaponsDir,
		ArmorDir:      cfg.ArmorDir,
		CharactersDir: cfg.CharactersDir,
	}
}

// Load reads every catalog directory and the optional characters directory.
func (s *DirSource) Load() (*Bundle, error) {
	races, err := ruleset.LoadRaces(s.RacesDir)
	if err != nil {
		return nil, fmt.Errorf("loading races: %w", err)
	}
	weapons, err := inventory.LoadWeapons(s.WeaponsDir)
	if err != nil {
		return nil, fmt.Errorf("loading weapons: %w", err)
	}
	armors, err := inventory.LoadArmors(s.ArmorDir)
	if err != nil {
		return nil, fmt.Errorf("loading armor: %w", err)
	}
	var chars []*CharacterSpec
	if s.CharactersDir != "" {
		chars, err = LoadCharacterSpecs(s.CharactersDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading characters: %w", err)
		}
	}
	return &Bundle{Races: races, Weapons: weapons, Armors: armors, Characters: chars}, nil
}

// LoadCharacterSpecs parses every .yaml file in dir as a CharacterSpec, in file name order.
//
// Postcondition: a missing dir yields an error wrapping fs.ErrNotExist.
func LoadCharacterSpecs(dir string) ([]*CharacterSpec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var specs []*CharacterSpec
	for _, e := range entries {
		if e.IsDir() || !(strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var spec CharacterSpec
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("parsing character file %s: %w", path, err)
		}
		specs = append(specs, &spec)
	}
	return specs, nil
}
