package engine

import (
	"errors"
	"fmt"
)

var ErrUnsortedTiers = errors.New("badge tiers must be sorted by strictly increasing level")

// BadgeTier is a milestone unlocked at a minimum level. Presentation (colors,
// icons) is left to the rendering layer.
type BadgeTier struct {
	Level int    `json:"level"`
	Stage string `json:"stage"`
	Label string `json:"label"`
}

var DefaultBadgeTiers = []BadgeTier{
	{Level: 5, Stage: "Bronze", Label: "Bronze Beginner"},
	{Level: 10, Stage: "Silver", Label: "Silver Strider"},
	{Level: 25, Stage: "Gold", Label: "Gold Trailblazer"},
	{Level: 50, Stage: "Diamond", Label: "Diamond Pathmaker"},
	{Level: 75, Stage: "Mythic", Label: "Mythic Navigator"},
	{Level: 100, Stage: "Legend", Label: "Legendary Explorer"},
	{Level: 150, Stage: "Celestial", Label: "Celestial Voyager"},
	{Level: 200, Stage: "Ascendant", Label: "Ascendant Wayfinder"},
}

// ValidateTiers reports ErrUnsortedTiers unless levels strictly increase.
func ValidateTiers(tiers []BadgeTier) error {
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Level <= tiers[i-1].Level {
			return fmt.Errorf("%w: %q (level %d) follows %q (level %d)",
				ErrUnsortedTiers, tiers[i].Stage, tiers[i].Level, tiers[i-1].Stage, tiers[i-1].Level)
		}
	}
	return nil
}

// BadgeProgress places a level between its current and next badge tier.
type BadgeProgress struct {
	Current        *BadgeTier `json:"current"`
	Next           *BadgeTier `json:"next"`
	ProgressToNext float64    `json:"progress_to_next"`
}

// ResolveBadges finds the highest tier reached at level and the one after it.
// Progress toward the next tier is measured in cumulative XP on curve, from
// the current tier's level (or level 1 with no tier yet) to the next tier's.
// It panics when tiers is not strictly increasing: a misordered table is a
// programming error that would otherwise silently misrank badges.
func ResolveBadges(level int, tiers []BadgeTier, curve LevelCurve) BadgeProgress {
	if err := ValidateTiers(tiers); err != nil {
		panic(err)
	}
	if curve.Validate() != nil {
		curve = DefaultLevelCurve
	}

	var res BadgeProgress
	for i := range tiers {
		if tiers[i].Level <= level {
			t := tiers[i]
			res.Current = &t
			continue
		}
		t := tiers[i]
		res.Next = &t
		break
	}

	if res.Next == nil {
		res.ProgressToNext = 100
		return res
	}

	fromLevel := 1
	if res.Current != nil {
		fromLevel = res.Current.Level
	}
	from := curve.CumulativeXPForLevel(fromLevel)
	to := curve.CumulativeXPForLevel(res.Next.Level)
	at := curve.CumulativeXPForLevel(level)
	if to <= from {
		return res
	}
	res.ProgressToNext = clampPercent(100 * float64(at-from) / float64(to-from))
	return res
}

type BadgeStatus struct {
	BadgeTier
	Achieved   bool `json:"achieved"`
	XPNeeded   int  `json:"xp_needed"`
	LevelsAway int  `json:"levels_away"`
}

// BadgeStatuses reports, for every tier, whether totalXP already reached it
// and how much XP and how many levels are still missing.
func BadgeStatuses(totalXP int, tiers []BadgeTier, curve LevelCurve) []BadgeStatus {
	if err := ValidateTiers(tiers); err != nil {
		panic(err)
	}
	if curve.Validate() != nil {
		curve = DefaultLevelCurve
	}

	state := curve.State(totalXP)
	statuses := make([]BadgeStatus, 0, len(tiers))
	for _, t := range tiers {
		st := BadgeStatus{BadgeTier: t, Achieved: state.Level >= t.Level}
		if !st.Achieved {
			st.XPNeeded = curve.CumulativeXPForLevel(t.Level) - state.TotalXP
			st.LevelsAway = t.Level - state.Level
		}
		statuses = append(statuses, st)
	}
	return statuses
}
