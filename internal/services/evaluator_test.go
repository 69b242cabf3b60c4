// file: internal/services/evaluator_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"faildaily/internal/config"
	"faildaily/internal/models"
	"faildaily/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubActivity is a canned-answer ActivityRepository for evaluator tests.
type stubActivity struct {
	fails             int
	comments          int
	categories        int
	reactionsByType   map[models.ReactionType]int
	reactionsGiven    int
	positiveGiven     int
	firstReactions    int
	reactors          int
	reactorsExclSelf  int
	createdAt         time.Time
	activityOnDay     int
	failsOnMonthDay   int
	failsInWindows    int
	failsInHourWindow int
	hourWindowStart   int
	hourWindowEnd     int
	weekendFails      int
	gapsByMinDays     map[int]int
	streak            int
	activeMonths      int
	activeDays        int
	qualifyingByReact int
	qualifyingByCmts  int
	rank              int
	matching          int
	encouragement     int
	hasAvatar         bool
	hasFail           bool
	hasComment        bool
	hasReaction       bool

	err error
}

func (s *stubActivity) CountFails(ctx context.Context, userID int64) (int, error) {
	return s.fails, s.err
}

func (s *stubActivity) CountComments(ctx context.Context, userID int64) (int, error) {
	return s.comments, s.err
}

func (s *stubActivity) CountDistinctCategories(ctx context.Context, userID int64) (int, error) {
	return s.categories, s.err
}

func (s *stubActivity) CountReactionsReceived(ctx context.Context, userID int64, reactionType models.ReactionType) (int, error) {
	return s.reactionsByType[reactionType], s.err
}

func (s *stubActivity) CountReactionsGiven(ctx context.Context, userID int64, reactionTypes []models.ReactionType) (int, error) {
	if len(reactionTypes) > 0 {
		return s.positiveGiven, s.err
	}
	return s.reactionsGiven, s.err
}

func (s *stubActivity) CountFirstReactions(ctx context.Context, userID int64) (int, error) {
	return s.firstReactions, s.err
}

func (s *stubActivity) CountDistinctReactors(ctx context.Context, userID int64, excludeSelf bool) (int, error) {
	if excludeSelf {
		return s.reactorsExclSelf, s.err
	}
	return s.reactors, s.err
}

func (s *stubActivity) AccountCreatedAt(ctx context.Context, userID int64) (time.Time, error) {
	return s.createdAt, s.err
}

func (s *stubActivity) CountActivityOnMonthDay(ctx context.Context, userID int64, month time.Month, day int) (int, error) {
	return s.activityOnDay, s.err
}

func (s *stubActivity) CountFailsOnMonthDay(ctx context.Context, userID int64, month time.Month, day int) (int, error) {
	return s.failsOnMonthDay, s.err
}

func (s *stubActivity) CountFailsInCalendarWindows(ctx context.Context, userID int64, windows []repositories.MonthDayWindow) (int, error) {
	return s.failsInWindows, s.err
}

func (s *stubActivity) CountFailsInHourWindow(ctx context.Context, userID int64, startHour, endHour int) (int, error) {
	s.hourWindowStart = startHour
	s.hourWindowEnd = endHour
	return s.failsInHourWindow, s.err
}

func (s *stubActivity) CountFailsOnWeekends(ctx context.Context, userID int64) (int, error) {
	return s.weekendFails, s.err
}

func (s *stubActivity) CountPostGaps(ctx context.Context, userID int64, minGapDays int) (int, error) {
	return s.gapsByMinDays[minGapDays], s.err
}

func (s *stubActivity) LongestDailyStreak(ctx context.Context, userID int64) (int, error) {
	return s.streak, s.err
}

func (s *stubActivity) CountActiveMonths(ctx context.Context, userID int64) (int, error) {
	return s.activeMonths, s.err
}

func (s *stubActivity) CountActiveDays(ctx context.Context, userID int64) (int, error) {
	return s.activeDays, s.err
}

func (s *stubActivity) CountFailsWithMinReactions(ctx context.Context, userID int64, reactionType *models.ReactionType, perPostMin int) (int, error) {
	return s.qualifyingByReact, s.err
}

func (s *stubActivity) CountFailsWithMinComments(ctx context.Context, userID int64, perPostMin int) (int, error) {
	return s.qualifyingByCmts, s.err
}

func (s *stubActivity) RankByPoints(ctx context.Context, userID int64) (int, error) {
	return s.rank, s.err
}

func (s *stubActivity) CountFailsMatching(ctx context.Context, userID int64, keywords []string, category string) (int, error) {
	return s.matching, s.err
}

func (s *stubActivity) CountEncouragementComments(ctx context.Context, userID int64, keywords []string) (int, error) {
	return s.encouragement, s.err
}

func (s *stubActivity) HasAvatar(ctx context.Context, userID int64) (bool, error) {
	return s.hasAvatar, s.err
}

func (s *stubActivity) HasAnyFail(ctx context.Context, userID int64) (bool, error) {
	return s.hasFail, s.err
}

func (s *stubActivity) HasAnyComment(ctx context.Context, userID int64) (bool, error) {
	return s.hasComment, s.err
}

func (s *stubActivity) HasAnyReaction(ctx context.Context, userID int64) (bool, error) {
	return s.hasReaction, s.err
}

func newTestEvaluator(activity repositories.ActivityRepository) *Evaluator {
	return NewEvaluator(activity, NewBadgeThresholds(config.BadgeConfig{}), zap.NewNop())
}

func requirement(kind models.RequirementKind, threshold int) models.Requirement {
	return models.Requirement{Kind: kind, Threshold: threshold}
}

// ===============================
// DISPATCH BEHAVIOR
// ===============================

func TestEvaluateUnknownKindNotSatisfied(t *testing.T) {
	e := newTestEvaluator(&stubActivity{fails: 100})

	assert.False(t, e.Evaluate(context.Background(), 1, requirement("no_such_kind", 1)))
	// Threshold zero must not turn an unknown kind into an automatic pass.
	assert.False(t, e.Evaluate(context.Background(), 1, requirement("no_such_kind", 0)))
}

func TestEvaluateFetchErrorNotSatisfied(t *testing.T) {
	e := newTestEvaluator(&stubActivity{fails: 100, err: errors.New("connection reset")})

	assert.False(t, e.Evaluate(context.Background(), 1, requirement(models.KindFailCount, 1)))
}

func TestEvaluateAliasesMatchCanonicalKind(t *testing.T) {
	activity := &stubActivity{
		gapsByMinDays: map[int]int{7: 3},
		matching:      5,
		createdAt:     time.Now().AddDate(-1, 0, 0),
	}
	e := newTestEvaluator(activity)
	ctx := context.Background()

	aliases := map[models.RequirementKind]models.RequirementKind{
		models.KindComebackCount:   models.KindBounceBackCount,
		models.KindResilienceFails: models.KindResilienceCount,
		models.KindLoginDays:       models.KindAccountAge,
	}
	for alias, canonical := range aliases {
		got := e.Evaluate(ctx, 1, requirement(alias, 3))
		want := e.Evaluate(ctx, 1, requirement(canonical, 3))
		assert.Equal(t, want, got, "alias %s should match %s", alias, canonical)
		assert.True(t, got)
	}
}

func TestEvaluateMidnightWindowWrapsPastMidnight(t *testing.T) {
	activity := &stubActivity{failsInHourWindow: 1}
	e := newTestEvaluator(activity)

	assert.True(t, e.Evaluate(context.Background(), 1, requirement(models.KindMidnightFail, 1)))
	// The window opens at 23h and closes at 1h so fails at 23:30 and 00:30
	// count while one at 02:00 does not; the repository turns the inverted
	// bounds into a wrap over midnight.
	assert.Equal(t, 23, activity.hourWindowStart)
	assert.Equal(t, 1, activity.hourWindowEnd)
}

// ===============================
// THRESHOLD SEMANTICS
// ===============================

func TestEvaluateThresholdBoundary(t *testing.T) {
	e := newTestEvaluator(&stubActivity{fails: 10})
	ctx := context.Background()

	assert.True(t, e.Evaluate(ctx, 1, requirement(models.KindFailCount, 9)))
	assert.True(t, e.Evaluate(ctx, 1, requirement(models.KindFailCount, 10)))
	assert.False(t, e.Evaluate(ctx, 1, requirement(models.KindFailCount, 11)))
}

func TestEvaluateUserRankInvertedComparison(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		rank      int
		threshold int
		want      bool
	}{
		{"rank 1 in top 10", 1, 10, true},
		{"rank 10 exactly on boundary", 10, 10, true},
		{"rank 11 outside top 10", 11, 10, false},
		{"unranked user never qualifies", 0, 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEvaluator(&stubActivity{rank: tc.rank})
			assert.Equal(t, tc.want, e.Evaluate(ctx, 1, requirement(models.KindUserRank, tc.threshold)))
		})
	}
}

func TestEvaluateBetaParticipationCutoff(t *testing.T) {
	cutoff := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	before := newTestEvaluator(&stubActivity{createdAt: cutoff.Add(-time.Hour)})
	assert.True(t, before.Evaluate(ctx, 1, requirement(models.KindBetaParticipation, 1)))

	exactly := newTestEvaluator(&stubActivity{createdAt: cutoff})
	assert.False(t, exactly.Evaluate(ctx, 1, requirement(models.KindBetaParticipation, 1)))

	after := newTestEvaluator(&stubActivity{createdAt: cutoff.Add(time.Hour)})
	assert.False(t, after.Evaluate(ctx, 1, requirement(models.KindBetaParticipation, 1)))
}

func TestEvaluateAccountAge(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	activity := &stubActivity{createdAt: now.AddDate(0, 0, -30)}

	e := newTestEvaluator(activity)
	e.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, e.Evaluate(ctx, 1, requirement(models.KindAccountAge, 30)))
	assert.False(t, e.Evaluate(ctx, 1, requirement(models.KindAccountAge, 31)))
}

func TestEvaluateFeaturesUsed(t *testing.T) {
	ctx := context.Background()

	all := newTestEvaluator(&stubActivity{hasFail: true, hasComment: true, hasReaction: true, hasAvatar: true})
	assert.True(t, all.Evaluate(ctx, 1, requirement(models.KindFeaturesUsed, 4)))

	partial := newTestEvaluator(&stubActivity{hasFail: true, hasReaction: true})
	assert.True(t, partial.Evaluate(ctx, 1, requirement(models.KindFeaturesUsed, 2)))
	assert.False(t, partial.Evaluate(ctx, 1, requirement(models.KindFeaturesUsed, 3)))
}

func TestEvaluateCountriesCountAlwaysLocked(t *testing.T) {
	e := newTestEvaluator(&stubActivity{fails: 1000})

	assert.False(t, e.Evaluate(context.Background(), 1, requirement(models.KindCountriesCount, 1)))
	assert.False(t, e.Evaluate(context.Background(), 1, requirement(models.KindCountriesCount, 0)))
}

// ===============================
// CONFIGURED THRESHOLDS
// ===============================

func TestBadgeThresholdsDefaults(t *testing.T) {
	thresholds := NewBadgeThresholds(config.BadgeConfig{})

	assert.Equal(t, 25, thresholds.PopularDiscussionComments())
	assert.Equal(t, 5, thresholds.FunnyFailLaughs())
	assert.Equal(t, 20, thresholds.TrendReactions())
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), thresholds.BetaCutoff())
}

func TestBadgeThresholdsOverrides(t *testing.T) {
	cutoff := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)
	thresholds := NewBadgeThresholds(config.BadgeConfig{
		PopularDiscussionComments: 50,
		FunnyFailLaughs:           8,
		TrendReactions:            40,
		BetaCutoff:                cutoff,
	})

	assert.Equal(t, 50, thresholds.PopularDiscussionComments())
	assert.Equal(t, 8, thresholds.FunnyFailLaughs())
	assert.Equal(t, 40, thresholds.TrendReactions())
	assert.Equal(t, cutoff, thresholds.BetaCutoff())
}

func TestEvaluateEveryCatalogKindDispatches(t *testing.T) {
	// Every kind the catalog can carry must resolve to a predicate; only
	// genuinely unknown strings fall through to the warning path.
	activity := &stubActivity{
		reactionsByType: map[models.ReactionType]int{},
		gapsByMinDays:   map[int]int{},
		createdAt:       time.Now(),
	}
	e := newTestEvaluator(activity)

	kinds := []models.RequirementKind{
		models.KindFailCount, models.KindHelpfulComments, models.KindCategoriesUsed,
		models.KindCourageReactions, models.KindLaughReactions,
		models.KindEmpathyReactions, models.KindSupportReactions,
		models.KindReactionsGiven, models.KindPositiveReactionsGiven, models.KindFirstReaction,
		models.KindUniqueInteractions, models.KindInspiredUsers,
		models.KindAccountAge, models.KindLoginDays,
		models.KindBetaParticipation, models.KindAnniversaryParticipation,
		models.KindHolidayFails, models.KindMidnightFail,
		models.KindWeekendFails, models.KindNewYearFail,
		models.KindBounceBackCount, models.KindComebackCount,
		models.KindMajorComebacks, models.KindLongStreaks,
		models.KindActiveMonths, models.KindPositiveDays,
		models.KindPopularDiscussions, models.KindFunnyFails, models.KindTrendsCreated,
		models.KindUserRank,
		models.KindResilienceCount, models.KindResilienceFails,
		models.KindChallengesOvercome, models.KindAdviceGiven, models.KindFeaturesUsed,
		models.KindCountriesCount,
	}
	for _, kind := range kinds {
		resolved := kind
		if canonical, ok := requirementAliases[kind]; ok {
			resolved = canonical
		}
		_, known := e.predicates[resolved]
		require.True(t, known, "kind %s must have a predicate", kind)
	}
}
