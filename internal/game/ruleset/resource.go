package ruleset

import "fmt"

// SecondaryResource is a character's alternate resource pool.
type SecondaryResource string

const (
	Mana    SecondaryResource = "MA"
	Chi     SecondaryResource = "CH"
	Synergy SecondaryResource = "SY"
)

var resourceNames = map[SecondaryResource]string{
	Mana:    "Mana",
	Chi:     "Chi",
	Synergy: "Synergy",
}

// Valid reports whether r is one of Mana, Chi, or Synergy.
func (r SecondaryResource) Valid() bool {
	_, ok := resourceNames[r]
	return ok
}

// DisplayName returns the human-readable resource name, or the raw code if unknown.
func (r SecondaryResource) DisplayName() string {
	if n, ok := resourceNames[r]; ok {
		return n
	}
	return string(r)
}

// ParseSecondaryResource accepts a code ("CH") or display name ("Chi").
func ParseSecondaryResource(s string) (SecondaryResource, error) {
	for code, name := range resourceNames {
		if s == string(code) || s == name {
			return code, nil
		}
	}
	return "", fmt.Errorf("invalid secondary resource %q", s)
}
