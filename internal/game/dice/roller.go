package dice

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Precondition: expr.Count >= 0 and expr.Sides >= 2; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and
// result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = RollDie(src, expr.Sides)
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}
}

// RollAdjusted rolls expr, then applies the disadvantage and advantage
// adjustments in that order. Each adjustment is an independent draw in
// [1, AdjustmentSides]; disadvantage is recorded negative, advantage positive.
// Setting both applies both draws.
//
// Postcondition: len(result.Adjustments) equals the number of flags set.
func RollAdjusted(expr Expression, src Source, advantage, disadvantage bool) RollResult {
	result := Roll(expr, src)
	if disadvantage {
		result.Adjustments = append(result.Adjustments, -RollDie(src, AdjustmentSides))
	}
	if advantage {
		result.Adjustments = append(result.Adjustments, RollDie(src, AdjustmentSides))
	}
	return result
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a RollResult or a parse error.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}
