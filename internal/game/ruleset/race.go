package ruleset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRace is returned when a race code is outside the closed race set.
var ErrInvalidRace = errors.New("invalid race")

// DefaultSpeed is the movement speed a race gets when none is configured.
const DefaultSpeed = 30

// LimitHeadroom is added to a race's base attribute value to get the
// advisory attribute limit.
const LimitHeadroom = 10

// RaceCode is the two-letter code of a playable race.
type RaceCode string

const (
	Human                  RaceCode = "HU"
	Orc                    RaceCode = "OR"
	Akuak                  RaceCode = "AK"
	ArtificialIntelligence RaceCode = "AI"
	Asheni                 RaceCode = "AS"
	Bahah                  RaceCode = "BA"
	Dwarf                  RaceCode = "DW"
	Goblin                 RaceCode = "GO"
	Troll                  RaceCode = "TR"
	Ixia                   RaceCode = "IX"
	Qitop                  RaceCode = "QI"
)

var raceNames = map[RaceCode]string{
	Human:                  "Human",
	Orc:                    "Orc",
	Akuak:                  "Akuak",
	ArtificialIntelligence: "Artificial Intelligence",
	Asheni:                 "Asheni",
	Bahah:                  "Bahah",
	Dwarf:                  "Dwarf",
	Goblin:                 "Goblin",
	Troll:                  "Troll",
	Ixia:                   "Ixia",
	Qitop:                  "Qitop",
}

// Valid reports whether c is one of the closed race codes.
func (c RaceCode) Valid() bool {
	_, ok := raceNames[c]
	return ok
}

// DisplayName returns the race name for c, or the raw code if unknown.
func (c RaceCode) DisplayName() string {
	if n, ok := raceNames[c]; ok {
		return n
	}
	return string(c)
}

// RaceCodes returns every race code.
func RaceCodes() []RaceCode {
	out := make([]RaceCode, 0, len(raceNames))
	for c := range raceNames {
		out = append(out, c)
	}
	return out
}

// Race is catalog data for a playable race. Base values are fixed at load time.
//
// Precondition: ID non-empty and Code valid after loading.
type Race struct {
	ID     string          `yaml:"id"`
	Code   RaceCode        `yaml:"code"`
	Speed  int             `yaml:"speed"`
	Base   AttributeScores `yaml:"base"`
	Traits []string        `yaml:"traits"`
}

// Name returns the display name of the race.
func (r *Race) Name() string {
	return r.Code.DisplayName()
}

// Limit returns the advisory ceiling for attribute a: base value + 10.
//
// Precondition: a.Valid().
func (r *Race) Limit(a Attribute) int {
	return r.Base.Get(a) + LimitHeadroom
}

// LimitFor returns the advisory limit for a when r may be nil. A character
// without a race has a base of 0 and therefore a limit of 10.
//
// Precondition: a.Valid().
func LimitFor(r *Race, a Attribute) int {
	if r == nil {
		if !a.Valid() {
			panic(fmt.Sprintf("ruleset: LimitFor called with invalid attribute %q", string(a)))
		}
		return LimitHeadroom
	}
	return r.Limit(a)
}

// Validate reports every violated Race invariant.
func (r *Race) Validate() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if !r.Code.Valid() {
		errs = append(errs, fmt.Errorf("%w: code %q", ErrInvalidRace, r.Code))
	}
	if r.Speed < 0 {
		errs = append(errs, errors.New("speed must be >= 0"))
	}
	if err := r.Base.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("base: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("race validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadRaces reads all .yaml files in dir, parses each as a Race, and validates it.
// Omitted speeds default to DefaultSpeed. Race codes must be unique.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed races (may be empty slice) or a non-nil error.
func LoadRaces(dir string) ([]*Race, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	races := make([]*Race, 0, len(files))
	seen := make(map[RaceCode]string, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		r := Race{Speed: DefaultSpeed}
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parsing race file %s: %w", path, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid race in %s: %w", path, err)
		}
		if prev, dup := seen[r.Code]; dup {
			return nil, fmt.Errorf("race code %s in %s already defined in %s", r.Code, path, prev)
		}
		seen[r.Code] = path
		races = append(races, &r)
	}
	return races, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
