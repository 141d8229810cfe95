package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDieType is returned when a die type is outside the fixed set.
var ErrInvalidDieType = errors.New("invalid die type")

// DieType names a damage die by its face count, e.g. "D8".
type DieType string

const (
	D4  DieType = "D4"
	D6  DieType = "D6"
	D8  DieType = "D8"
	D10 DieType = "D10"
	D12 DieType = "D12"
	D20 DieType = "D20"
)

// AdjustmentSides is the face count of the advantage/disadvantage die.
const AdjustmentSides = 6

var dieTypes = []DieType{D4, D6, D8, D10, D12, D20}

// DieTypes returns the closed set of die types in ascending order.
func DieTypes() []DieType {
	out := make([]DieType, len(dieTypes))
	copy(out, dieTypes)
	return out
}

// Valid reports whether d is one of the fixed die types.
func (d DieType) Valid() bool {
	for _, t := range dieTypes {
		if d == t {
			return true
		}
	}
	return false
}

// Faces returns the number of faces on d, parsed from its name ("D8" → 8).
//
// Precondition: d.Valid().
func (d DieType) Faces() int {
	if !d.Valid() {
		panic(fmt.Sprintf("dice: Faces called on invalid die type %q", string(d)))
	}
	n, _ := strconv.Atoi(string(d[1:]))
	return n
}

// ParseDieType parses a die type name case-insensitively.
//
// Postcondition: Returns a valid DieType or an error wrapping ErrInvalidDieType.
func ParseDieType(s string) (DieType, error) {
	d := DieType(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDieType, s)
	}
	return d, nil
}
