package dice

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Roller wraps a Source and logger to provide logged dice rolling.
// Every roll is logged at debug level with a roll ID, expression, dice values,
// modifier, adjustments, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the entropy source backing r.
func (r *Roller) Source() Source {
	return r.src
}

// Roll evaluates expr and logs the result.
func (r *Roller) Roll(expr Expression) RollResult {
	return r.Record(Roll(expr, r.src))
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or a parse error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	result, err := RollExpr(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	return r.Record(result), nil
}

// Record logs a result produced elsewhere against r's source and returns it
// unchanged.
func (r *Roller) Record(result RollResult, fields ...zap.Field) RollResult {
	fields = append(fields,
		zap.String("roll_id", uuid.NewString()),
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Ints("adjustments", result.Adjustments),
		zap.Int("total", result.Total()),
	)
	r.logger.Debug("dice roll", fields...)
	return result
}
