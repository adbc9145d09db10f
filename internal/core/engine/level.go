package engine

import (
	"errors"
	"math"
	"math/bits"
)

const (
	BaseXPPerLevel   = 100
	LevelXPIncrement = 25
)

var ErrInvalidLevelCurve = errors.New("level curve needs a positive base and a positive increment")

// LevelCurve prices each level: advancing from level n to n+1 costs
// Base + (n-1)*Increment XP.
type LevelCurve struct {
	Base      int `json:"base"`
	Increment int `json:"increment"`
}

var DefaultLevelCurve = LevelCurve{Base: BaseXPPerLevel, Increment: LevelXPIncrement}

// NewLevelCurve builds a validated curve.
func NewLevelCurve(base, increment int) (LevelCurve, error) {
	c := LevelCurve{Base: base, Increment: increment}
	if err := c.Validate(); err != nil {
		return LevelCurve{}, err
	}
	return c, nil
}

func (c LevelCurve) Validate() error {
	if c.Base <= 0 || c.Increment <= 0 {
		return ErrInvalidLevelCurve
	}
	return nil
}

// XPForLevel is the cost of leaving level n. Levels below 1 are priced as 1.
// The result saturates at math.MaxInt.
func (c LevelCurve) XPForLevel(n int) int {
	if n < 1 {
		n = 1
	}
	hi, lo := bits.Mul64(uint64(n-1), uint64(c.Increment))
	sum, carry := bits.Add64(lo, uint64(c.Base), 0)
	if hi != 0 || carry != 0 || sum > math.MaxInt {
		return math.MaxInt
	}
	return int(sum)
}

// CumulativeXPForLevel is the total XP needed to reach level L from zero,
// that is the sum of XPForLevel(1..L-1). The result saturates at math.MaxInt.
func (c LevelCurve) CumulativeXPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	v, ok := c.cumulative(uint64(level - 1))
	if !ok {
		return math.MaxInt
	}
	return int(v)
}

// cumulative is steps*Base + Increment*steps*(steps-1)/2, reporting false
// when the exact value does not fit in an int.
func (c LevelCurve) cumulative(steps uint64) (uint64, bool) {
	if steps == 0 {
		return 0, true
	}
	var tri uint64
	var hi uint64
	if steps%2 == 0 {
		hi, tri = bits.Mul64(steps/2, steps-1)
	} else {
		hi, tri = bits.Mul64(steps, (steps-1)/2)
	}
	if hi != 0 {
		return 0, false
	}
	hi, inc := bits.Mul64(tri, uint64(c.Increment))
	if hi != 0 {
		return 0, false
	}
	hi, base := bits.Mul64(steps, uint64(c.Base))
	if hi != 0 {
		return 0, false
	}
	sum, carry := bits.Add64(inc, base, 0)
	if carry != 0 || sum > math.MaxInt {
		return 0, false
	}
	return sum, true
}

// LevelState is a total XP resolved on a curve.
type LevelState struct {
	Level              int     `json:"level"`
	TotalXP            int     `json:"total_xp"`
	XPGainedInLevel    int     `json:"xp_gained_in_level"`
	XPNeededForLevelUp int     `json:"xp_needed_for_level_up"`
	Progress           float64 `json:"progress"`
}

// State resolves totalXP into a level. Negative totals are treated as 0 and
// an invalid curve falls back to the default one.
func (c LevelCurve) State(totalXP int) LevelState {
	if c.Validate() != nil {
		c = DefaultLevelCurve
	}
	if totalXP < 0 {
		totalXP = 0
	}

	steps := c.stepsFor(uint64(totalXP))
	consumed, _ := c.cumulative(steps)
	level := int(steps) + 1
	remaining := totalXP - int(consumed)

	needed := c.XPForLevel(level)
	return LevelState{
		Level:              level,
		TotalXP:            totalXP,
		XPGainedInLevel:    remaining,
		XPNeededForLevelUp: needed,
		Progress:           clampPercent(100 * float64(remaining) / float64(needed)),
	}
}

// stepsFor returns the largest s with cumulative(s) <= xp. The quadratic
// root gives an estimate that is then corrected against the exact sums.
func (c LevelCurve) stepsFor(xp uint64) uint64 {
	b := float64(c.Base) - float64(c.Increment)/2
	i := float64(c.Increment)
	est := (-b + math.Sqrt(b*b+2*i*float64(xp))) / i

	var s uint64
	if est > 0 && !math.IsNaN(est) {
		s = uint64(est)
	}
	for s > 0 {
		if v, ok := c.cumulative(s); ok && v <= xp {
			break
		}
		s--
	}
	for {
		v, ok := c.cumulative(s + 1)
		if !ok || v > xp {
			return s
		}
		s++
	}
}

// ComputeLevelState resolves totalXP on the default curve.
func ComputeLevelState(totalXP int) LevelState {
	return DefaultLevelCurve.State(totalXP)
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Min(100, p)
}
