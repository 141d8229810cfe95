package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadRaces_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dwarf.yaml"), `
id: dwarf
code: DW
speed: 25
base:
  hardiness: 3
  strength: 2
  logic: 1
traits:
  - "Darkvision out to sixty feet."
`)
	races, err := ruleset.LoadRaces(dir)
	require.NoError(t, err)
	require.Len(t, races, 1)
	r := races[0]
	assert.Equal(t, "dwarf", r.ID)
	assert.Equal(t, ruleset.Dwarf, r.Code)
	assert.Equal(t, "Dwarf", r.Name())
	assert.Equal(t, 25, r.Speed)
	assert.Equal(t, 3, r.Base.Hardiness)
	assert.Equal(t, 0, r.Base.Charisma)
	assert.Len(t, r.Traits, 1)
}

func TestLoadRaces_DefaultSpeed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "human.yml"), "id: human\ncode: HU\n")
	races, err := ruleset.LoadRaces(dir)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, ruleset.DefaultSpeed, races[0].Speed)
}

func TestLoadRaces_SkipsNonYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "not a race")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	races, err := ruleset.LoadRaces(dir)
	require.NoError(t, err)
	assert.Empty(t, races)
}

func TestLoadRaces_RejectsUnknownCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "elf.yaml"), "id: elf\ncode: EL\n")
	_, err := ruleset.LoadRaces(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ruleset.ErrInvalidRace)
}

func TestLoadRaces_RejectsNegativeBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "orc.yaml"), "id: orc\ncode: OR\nbase:\n  logic: -1\n")
	_, err := ruleset.LoadRaces(dir)
	assert.ErrorContains(t, err, "logic")
}

func TestLoadRaces_RejectsDuplicateCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "id: troll\ncode: TR\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "id: troll_alt\ncode: TR\n")
	_, err := ruleset.LoadRaces(dir)
	assert.ErrorContains(t, err, "already defined")
}

func TestLoadRaces_MissingDir(t *testing.T) {
	_, err := ruleset.LoadRaces(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadRaces_BadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), "id: [unterminated\n")
	_, err := ruleset.LoadRaces(dir)
	assert.ErrorContains(t, err, "parsing race file")
}
