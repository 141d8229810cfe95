package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxCount is the largest die count Parse accepts.
const MaxCount = 100

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 0, Sides >= 2 after successful Parse or NewExpression.
type Expression struct {
	Raw      string // canonical or original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// NewExpression builds an Expression of count dice of the given die type plus
// modifier. A zero count is legal and rolls no dice.
//
// Precondition: d.Valid(); count >= 0.
// Postcondition: Raw is the canonical form, e.g. "2d6+1".
func NewExpression(count int, d DieType, modifier int) Expression {
	sides := d.Faces()
	return Expression{
		Raw:      fmt.Sprintf("%dd%d%+d", count, sides, modifier),
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
	}
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4D8-2".
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression with 1 <= Count <= MaxCount, or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	raw := expr
	s := strings.ToLower(strings.TrimSpace(expr))

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}

	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
		if n > MaxCount {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be <= %d", raw, MaxCount)
		}
		count = n
	}

	rest := s[dIdx+1:]
	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}
