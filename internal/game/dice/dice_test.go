package dice_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/l8nite/internal/game/dice"
)

// seqSource returns the scripted values in order, reduced modulo n.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)] % n
	s.i++
	return v
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{
		Expression: "2d6+3",
		Dice:       []int{4, 5},
		Modifier:   3,
	}
	assert.Equal(t, 12, r.Total(), "Total() must equal sum(Dice)+Modifier")
}

func TestRollResult_Total_WithAdjustments(t *testing.T) {
	r := dice.RollResult{
		Expression:  "2d6+1",
		Dice:        []int{4, 5},
		Modifier:    1,
		Adjustments: []int{-2, 6},
	}
	assert.Equal(t, 14, r.Total())
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{
		Expression: "2d6+3",
		Dice:       []int{4, 5},
		Modifier:   3,
	}
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())

	r.Adjustments = []int{-2, 6}
	assert.Equal(t, "2d6+3 → [4 5] +3 adj[-2 +6] = 16", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}, Modifier: 0}
	assert.Panics(t, func() { _ = r.String() })
}

func TestRollResult_Total_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dice_ := rapid.SliceOf(rapid.IntRange(1, 20)).Draw(rt, "dice")
		adj := rapid.SliceOfN(rapid.IntRange(-6, 6), 0, 2).Draw(rt, "adjustments")
		modifier := rapid.IntRange(-1000, 1000).Draw(rt, "modifier")

		r := dice.RollResult{Expression: "Nd6+M", Dice: dice_, Modifier: modifier, Adjustments: adj}

		expected := modifier
		for _, d := range dice_ {
			expected += d
		}
		for _, a := range adj {
			expected += a
		}
		assert.Equal(rt, expected, r.Total())
	})
}

func TestRollResult_String_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		expr := rapid.StringMatching(`[0-9]+d[0-9]+[+-][0-9]+`).Draw(rt, "expression")
		dice_ := rapid.SliceOfN(rapid.IntRange(1, 20), 1, 10).Draw(rt, "dice")
		modifier := rapid.IntRange(-100, 100).Draw(rt, "modifier")

		r := dice.RollResult{Expression: expr, Dice: dice_, Modifier: modifier}
		s := r.String()
		assert.True(rt, strings.Contains(s, expr))
		assert.Contains(rt, s, fmt.Sprintf("= %d", r.Total()))
	})
}

func TestDieType_Faces(t *testing.T) {
	cases := map[dice.DieType]int{
		dice.D4: 4, dice.D6: 6, dice.D8: 8, dice.D10: 10, dice.D12: 12, dice.D20: 20,
	}
	for d, want := range cases {
		assert.Equal(t, want, d.Faces(), "faces of %s", d)
	}
	assert.Len(t, dice.DieTypes(), 6)
}

func TestDieType_FacesPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { dice.DieType("D7").Faces() })
}

func TestParseDieType(t *testing.T) {
	d, err := dice.ParseDieType("d10")
	require.NoError(t, err)
	assert.Equal(t, dice.D10, d)

	for _, bad := range []string{"", "D7", "D100", "6", "DX"} {
		_, err := dice.ParseDieType(bad)
		assert.ErrorIs(t, err, dice.ErrInvalidDieType, "input %q", bad)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in    string
		count int
		sides int
		mod   int
	}{
		{"d20", 1, 20, 0},
		{"2d6", 2, 6, 0},
		{"2d6+3", 2, 6, 3},
		{"4D8-2", 4, 8, -2},
	}
	for _, tc := range cases {
		e, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.count, e.Count, tc.in)
		assert.Equal(t, tc.sides, e.Sides, tc.in)
		assert.Equal(t, tc.mod, e.Modifier, tc.in)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, bad := range []string{"", "20", "0d6", "xd6", "2d1", "2dx", "2d6+x"} {
		_, err := dice.Parse(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParse_CountLimit(t *testing.T) {
	e, err := dice.Parse(fmt.Sprintf("%dd6", dice.MaxCount))
	require.NoError(t, err)
	assert.Equal(t, dice.MaxCount, e.Count)

	for _, bad := range []string{"101d6", "2000000000d6+1"} {
		_, err := dice.Parse(bad)
		assert.ErrorContains(t, err, "must be <= 100", "input %q", bad)
	}

	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop())
	_, err = roller.RollExpr("2000000000d6")
	assert.Error(t, err)
}

func TestNewExpression_Canonical(t *testing.T) {
	e := dice.NewExpression(2, dice.D6, 1)
	assert.Equal(t, "2d6+1", e.Raw)
	e = dice.NewExpression(0, dice.D8, -3)
	assert.Equal(t, "0d8-3", e.Raw)
}

func TestRoll_ZeroCountRollsNothing(t *testing.T) {
	r := dice.Roll(dice.NewExpression(0, dice.D6, 4), dice.NewCryptoSource())
	assert.Empty(t, r.Dice)
	assert.Equal(t, 4, r.Total())
}

func TestRoll_Property_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 10).Draw(rt, "count")
		d := rapid.SampledFrom(dice.DieTypes()).Draw(rt, "die")
		r := dice.Roll(dice.NewExpression(count, d, 0), src)
		require.Len(rt, r.Dice, count)
		for _, v := range r.Dice {
			assert.GreaterOrEqual(rt, v, 1)
			assert.LessOrEqual(rt, v, d.Faces())
		}
	})
}

func TestRollAdjusted_OrderAndSigns(t *testing.T) {
	// dice draws 3,4 -> 4,5; disadvantage draw 1 -> 2; advantage draw 5 -> 6
	src := &seqSource{vals: []int{3, 4, 1, 5}}
	r := dice.RollAdjusted(dice.NewExpression(2, dice.D6, 1), src, true, true)
	assert.Equal(t, []int{4, 5}, r.Dice)
	assert.Equal(t, []int{-2, 6}, r.Adjustments)
	assert.Equal(t, 4+5+1-2+6, r.Total())
}

func TestRollAdjusted_NoFlagsNoAdjustments(t *testing.T) {
	r := dice.RollAdjusted(dice.NewExpression(1, dice.D4, 0), dice.NewCryptoSource(), false, false)
	assert.Empty(t, r.Adjustments)
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(20), b.Intn(20))
	}
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestSeededSource_ConcurrentUse(t *testing.T) {
	src := dice.NewSeededSource(7)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				v := src.Intn(12)
				if v < 0 || v >= 12 {
					t.Errorf("out of range: %d", v)
				}
			}
		}()
	}
	wg.Wait()
}

func TestRoller_LogsEveryRoll(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(&seqSource{vals: []int{2}}, zap.New(core))

	r, err := roller.RollExpr("2d6+1")
	require.NoError(t, err)
	assert.Equal(t, 7, r.Total())

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "2d6+1", fields["expression"])
	assert.EqualValues(t, 7, fields["total"])
	assert.NotEmpty(t, fields["roll_id"])
}

func TestRoller_RollExprParseError(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop())
	_, err := roller.RollExpr("bogus")
	assert.Error(t, err)
}
