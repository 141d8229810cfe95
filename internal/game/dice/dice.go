// Package dice provides the randomness abstraction, die types, and roll-result
// audit records used by the l8nite rules engine.
package dice

import (
	"fmt"
	"strings"
)

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier + sum(Adjustments).
type RollResult struct {
	Expression  string // expression rolled, e.g. "2d6+3"
	Dice        []int  // individual die results before modifier
	Modifier    int    // flat modifier (may be negative)
	Adjustments []int  // signed advantage/disadvantage draws, in roll order
}

// Total returns the sum of all die results, the modifier, and every adjustment.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier + sum(r.Adjustments).
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	for _, a := range r.Adjustments {
		total += a
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//	"2d6+1 → [4 5] +1 adj[-2 +6] = 14"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %v %+d", r.Expression, r.Dice, r.Modifier)
	if len(r.Adjustments) > 0 {
		parts := make([]string, len(r.Adjustments))
		for i, a := range r.Adjustments {
			parts[i] = fmt.Sprintf("%+d", a)
		}
		fmt.Fprintf(&b, " adj[%s]", strings.Join(parts, " "))
	}
	fmt.Fprintf(&b, " = %d", r.Total())
	return b.String()
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollDie returns a uniform value in [1, sides] drawn from src.
//
// Precondition: sides > 0; src must be non-nil.
func RollDie(src Source, sides int) int {
	return src.Intn(sides) + 1
}
