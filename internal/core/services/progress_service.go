package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/engine"
)

type ProgressService struct {
	activityRepo domain.ActivityRepository
	rules        engine.XPRules
	curve        engine.LevelCurve
	tiers        []engine.BadgeTier
}

// NewProgressService rejects an invalid curve or tier table up front, so the
// request path never reaches the engine's panic on a misordered table.
func NewProgressService(activityRepo domain.ActivityRepository, rules engine.XPRules, curve engine.LevelCurve, tiers []engine.BadgeTier) (*ProgressService, error) {
	if err := curve.Validate(); err != nil {
		return nil, fmt.Errorf("progress service: %w", err)
	}
	if err := engine.ValidateTiers(tiers); err != nil {
		return nil, fmt.Errorf("progress service: %w", err)
	}

	return &ProgressService{
		activityRepo: activityRepo,
		rules:        rules,
		curve:        curve,
		tiers:        append([]engine.BadgeTier(nil), tiers...),
	}, nil
}

type LevelSummary struct {
	Level  engine.LevelState    `json:"level"`
	Badges engine.BadgeProgress `json:"badges"`
}

type Profile struct {
	UserID         string                `json:"user_id"`
	AsOf           engine.DayKey         `json:"as_of"`
	Activity       domain.ActivityCounts `json:"activity"`
	ActivityStreak int                   `json:"activity_streak"`
	StreakBonus    int                   `json:"streak_bonus"`
	LevelSummary
	BadgeStatuses []engine.BadgeStatus `json:"badge_statuses"`
}

// LevelFor resolves an arbitrary XP total without touching storage.
func (s *ProgressService) LevelFor(totalXP int) LevelSummary {
	state := s.curve.State(totalXP)
	return LevelSummary{
		Level:  state,
		Badges: engine.ResolveBadges(state.Level, s.tiers, s.curve),
	}
}

// GetProfile builds the XP ledger of userID as of the given day. The streak
// bonus is reported next to the total, it does not count toward the level.
func (s *ProgressService) GetProfile(ctx context.Context, userID string, asOf time.Time) (*Profile, error) {
	if asOf.IsZero() {
		return nil, ErrMissingAsOf
	}

	counts, err := s.activityRepo.CountActivity(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := dayBounds(asOf)
	from = from.AddDate(0, 0, -(engine.StreakBonusLookbackDays - 1))

	days, err := s.activityRepo.ListCompletionDays(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	totalXP := s.rules.TotalXP(counts)
	streak := engine.ActivityStreak(days, asOf, engine.StreakBonusLookbackDays)

	return &Profile{
		UserID:         userID,
		AsOf:           engine.DayKeyOf(asOf),
		Activity:       counts,
		ActivityStreak: streak,
		StreakBonus:    s.rules.StreakBonus(streak),
		LevelSummary:   s.LevelFor(totalXP),
		BadgeStatuses:  engine.BadgeStatuses(totalXP, s.tiers, s.curve),
	}, nil
}
