package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

// ErrAboveLimit is returned when a point allocation would push an attribute past its limit.
var ErrAboveLimit = errors.New("attribute above limit")

// ErrInsufficientPoints is returned when a character lacks the unspent points an allocation needs.
var ErrInsufficientPoints = errors.New("insufficient attribute points")

// Options describes a character to create.
type Options struct {
	FirstName   string
	LastName    string
	Alias       string
	Description string
	// Race may be nil for a character without a race.
	Race    *ruleset.Race
	ClassID string
	// Secondary defaults to Mana when empty.
	Secondary       ruleset.SecondaryResource
	AttributePoints int
	MaxHealth       int
	MaxSecondary    int
}

// Build constructs a new Character from opts. Attributes start at zero and
// are raised with SpendAttributePoints.
//
// Precondition: at least one of FirstName, LastName, or Alias is non-empty.
// Postcondition: Returns a Character that passes Validate, or a non-nil error.
func Build(opts Options) (*Character, error) {
	if opts.FirstName == "" && opts.LastName == "" && opts.Alias == "" {
		return nil, errors.New("character must have a name or an alias")
	}
	secondary := opts.Secondary
	if secondary == "" {
		secondary = ruleset.Mana
	}
	c := &Character{
		FirstName:       opts.FirstName,
		LastName:        opts.LastName,
		Alias:           opts.Alias,
		Description:     opts.Description,
		ClassID:         opts.ClassID,
		Secondary:       secondary,
		AttributePoints: opts.AttributePoints,
		MaxHealth:       opts.MaxHealth,
		MaxSecondary:    opts.MaxSecondary,
	}
	if opts.Race != nil {
		c.RaceID = opts.Race.ID
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// SpendAttributePoints moves n unspent points into attribute a.
//
// Precondition: race is the character's race or nil.
// Postcondition: On success a rises by n and AttributePoints falls by n.
// On error c is unchanged; ErrInsufficientPoints or ErrAboveLimit is wrapped
// when those limits are the cause.
func SpendAttributePoints(c *Character, race *ruleset.Race, a ruleset.Attribute, n int) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %q", ruleset.ErrInvalidAttribute, a)
	}
	if n <= 0 {
		return fmt.Errorf("points to spend must be > 0, got %d", n)
	}
	if n > c.AttributePoints {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientPoints, n, c.AttributePoints)
	}
	next := c.Attributes.Get(a) + n
	if limit := c.Limit(race, a); next > limit {
		return fmt.Errorf("%w: %s would be %d, limit %d", ErrAboveLimit, a, next, limit)
	}
	c.Attributes.Set(a, next)
	c.AttributePoints -= n
	return nil
}
