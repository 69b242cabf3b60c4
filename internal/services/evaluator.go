// file: internal/services/evaluator.go
package services

import (
	"context"
	"time"

	"faildaily/internal/config"
	"faildaily/internal/models"
	"faildaily/internal/repositories"

	"go.uber.org/zap"
)

// ===============================
// TUNABLES
// ===============================

// Default per-post qualifying thresholds, used when configuration is absent.
const (
	defaultPopularDiscussionComments = 25
	defaultFunnyFailLaughs           = 5
	defaultTrendReactions            = 20
)

// Fixed evaluation constants. These are part of the badge semantics, not
// deployment configuration.
const (
	midnightWindowStartHour = 23
	midnightWindowEndHour   = 1

	bounceBackGapDays    = 7
	majorComebackGapDays = 30

	resilienceCategory = "resilience"
	challengeCategory  = "defi"
)

var (
	// Calendar windows counted by holiday_fails: the year-end stretch,
	// New Year's Day, and Halloween.
	holidayWindows = []repositories.MonthDayWindow{
		{StartMonth: time.December, StartDay: 24, EndMonth: time.December, EndDay: 31},
		{StartMonth: time.January, StartDay: 1, EndMonth: time.January, EndDay: 1},
		{StartMonth: time.October, StartDay: 31, EndMonth: time.October, EndDay: 31},
	}

	resilienceKeywords = []string{"remonte", "rebond", "retente", "persevere"}
	challengeKeywords  = []string{"defi", "challenge", "ose"}
	adviceKeywords     = []string{"conseil", "astuce", "essaie", "suggere"}
)

// requirementAliases maps alias kinds onto their canonical predicate so the
// behavior stays single-sourced. Aliases resolve before dispatch.
var requirementAliases = map[models.RequirementKind]models.RequirementKind{
	models.KindComebackCount:   models.KindBounceBackCount,
	models.KindResilienceFails: models.KindResilienceCount,
	models.KindLoginDays:       models.KindAccountAge,
}

// ===============================
// THRESHOLD PROVIDER
// ===============================

// BadgeThresholds supplies the externally configurable values consumed by
// the qualifying-post and calendar predicates.
type BadgeThresholds interface {
	PopularDiscussionComments() int
	FunnyFailLaughs() int
	TrendReactions() int
	BetaCutoff() time.Time
	AnniversaryDay() time.Time
}

// configThresholds adapts config.BadgeConfig, falling back to the stated
// defaults for any unset value.
type configThresholds struct {
	cfg config.BadgeConfig
}

// NewBadgeThresholds wraps a BadgeConfig as a BadgeThresholds provider.
func NewBadgeThresholds(cfg config.BadgeConfig) BadgeThresholds {
	return &configThresholds{cfg: cfg}
}

func (t *configThresholds) PopularDiscussionComments() int {
	if t.cfg.PopularDiscussionComments > 0 {
		return t.cfg.PopularDiscussionComments
	}
	return defaultPopularDiscussionComments
}

func (t *configThresholds) FunnyFailLaughs() int {
	if t.cfg.FunnyFailLaughs > 0 {
		return t.cfg.FunnyFailLaughs
	}
	return defaultFunnyFailLaughs
}

func (t *configThresholds) TrendReactions() int {
	if t.cfg.TrendReactions > 0 {
		return t.cfg.TrendReactions
	}
	return defaultTrendReactions
}

func (t *configThresholds) BetaCutoff() time.Time {
	if !t.cfg.BetaCutoff.IsZero() {
		return t.cfg.BetaCutoff
	}
	return time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
}

func (t *configThresholds) AnniversaryDay() time.Time {
	if !t.cfg.AnniversaryDay.IsZero() {
		return t.cfg.AnniversaryDay
	}
	return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
}

// ===============================
// EVALUATOR
// ===============================

// predicateFunc computes one fact about a user and compares it against the
// badge threshold.
type predicateFunc func(ctx context.Context, userID int64, threshold int) (bool, error)

// Evaluator decides whether a user satisfies a badge requirement. It is
// pure with respect to engine state: it only reads aggregate facts, and it
// fails closed — any fetch failure or unrecognized kind evaluates to
// "not satisfied" rather than an error.
type Evaluator struct {
	activity   repositories.ActivityRepository
	thresholds BadgeThresholds
	logger     *zap.Logger
	predicates map[models.RequirementKind]predicateFunc
	now        func() time.Time
}

// NewEvaluator creates a requirement evaluator with the full predicate table.
func NewEvaluator(activity repositories.ActivityRepository, thresholds BadgeThresholds, logger *zap.Logger) *Evaluator {
	e := &Evaluator{
		activity:   activity,
		thresholds: thresholds,
		logger:     logger,
		now:        time.Now,
	}
	e.predicates = map[models.RequirementKind]predicateFunc{
		models.KindFailCount:       e.failCount,
		models.KindHelpfulComments: e.helpfulComments,
		models.KindCategoriesUsed:  e.categoriesUsed,

		models.KindCourageReactions: e.reactionsReceived(models.ReactionCourage),
		models.KindLaughReactions:   e.reactionsReceived(models.ReactionLaugh),
		models.KindEmpathyReactions: e.reactionsReceived(models.ReactionEmpathy),
		models.KindSupportReactions: e.reactionsReceived(models.ReactionSupport),

		models.KindReactionsGiven:         e.reactionsGiven(nil),
		models.KindPositiveReactionsGiven: e.reactionsGiven(models.PositiveReactionTypes),
		models.KindFirstReaction:          e.firstReactions,

		models.KindUniqueInteractions: e.distinctReactors(false),
		models.KindInspiredUsers:      e.distinctReactors(true),

		models.KindAccountAge:               e.accountAge,
		models.KindBetaParticipation:        e.betaParticipation,
		models.KindAnniversaryParticipation: e.anniversaryParticipation,

		models.KindHolidayFails: e.holidayFails,
		models.KindMidnightFail: e.midnightFails,
		models.KindWeekendFails: e.weekendFails,
		models.KindNewYearFail:  e.newYearFails,

		models.KindBounceBackCount: e.postGaps(bounceBackGapDays),
		models.KindMajorComebacks:  e.postGaps(majorComebackGapDays),
		models.KindLongStreaks:     e.longStreaks,
		models.KindActiveMonths:    e.activeMonths,
		models.KindPositiveDays:    e.activeDays,

		models.KindPopularDiscussions: e.popularDiscussions,
		models.KindFunnyFails:         e.funnyFails,
		models.KindTrendsCreated:      e.trendsCreated,

		models.KindUserRank: e.userRank,

		models.KindResilienceCount:    e.contentMatch(resilienceKeywords, resilienceCategory),
		models.KindChallengesOvercome: e.contentMatch(challengeKeywords, challengeCategory),
		models.KindAdviceGiven:        e.adviceGiven,
		models.KindFeaturesUsed:       e.featuresUsed,

		models.KindCountriesCount: e.countriesCount,
	}
	return e
}

// Evaluate reports whether the user satisfies the requirement. It never
// returns an error: unknown kinds and fact-fetch failures both evaluate to
// false, with a log line for operator visibility. Unknown kinds are the
// forward-compatibility path for catalog entries shipped ahead of evaluator
// support.
func (e *Evaluator) Evaluate(ctx context.Context, userID int64, requirement models.Requirement) bool {
	kind := requirement.Kind
	if canonical, ok := requirementAliases[kind]; ok {
		kind = canonical
	}

	predicate, ok := e.predicates[kind]
	if !ok {
		e.logger.Warn("Unknown requirement kind, treating as not satisfied",
			zap.String("kind", string(requirement.Kind)),
			zap.Int64("user_id", userID),
		)
		return false
	}

	satisfied, err := predicate(ctx, userID, requirement.Threshold)
	if err != nil {
		e.logger.Warn("Requirement evaluation failed, treating as not satisfied",
			zap.String("kind", string(requirement.Kind)),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return false
	}
	return satisfied
}

// ===============================
// PREDICATES
// ===============================

func (e *Evaluator) failCount(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountFails(ctx, userID)
	return count >= threshold, err
}

func (e *Evaluator) helpfulComments(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountComments(ctx, userID)
	return count >= threshold, err
}

func (e *Evaluator) categoriesUsed(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountDistinctCategories(ctx, userID)
	return count >= threshold, err
}

func (e *Evaluator) reactionsReceived(reactionType models.ReactionType) predicateFunc {
	return func(ctx context.Context, userID int64, threshold int) (bool, error) {
		count, err := e.activity.CountReactionsReceived(ctx, userID, reactionType)
		return count >= threshold, err
	}
}

func (e *Evaluator) reactionsGiven(types []models.ReactionType) predicateFunc {
	return func(ctx context.Context, userID int64, threshold int) (bool, error) {
		count, err := e.activity.CountReactionsGiven(ctx, userID, types)
		return count >= threshold, err
	}
}

func (e *Evaluator) firstReactions(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountFirstReactions(ctx, userID)
	return count >= threshold, err
}

func (e *Evaluator) distinctReactors(excludeSelf bool) predicateFunc {
	return func(ctx context.Context, userID int64, threshold int) (bool, error) {
		count, err := e.activity.CountDistinctReactors(ctx, userID, excludeSelf)
		return count >= threshold, err
	}
}

func (e *Evaluator) accountAge(ctx context.Context, userID int64, threshold int) (bool, error) {
	createdAt, err := e.activity.AccountCreatedAt(ctx, userID)
	if err != nil {
		return false, err
	}
	days := int(e.now().Sub(createdAt).Hours() / 24)
	return days >= threshold, nil
}

// betaParticipation ignores the threshold: the requirement is a boolean on
// the account creation date.
func (e *Evaluator) betaParticipation(ctx context.Context, userID int64, _ int) (bool, error) {
	createdAt, err := e.activity.AccountCreatedAt(ctx, userID)
	if err != nil {
		return false, err
	}
	return createdAt.Before(e.thresholds.BetaCutoff()), nil
}

func (e *Evaluator) anniversaryParticipation(ctx context.Context, userID int64, threshold int) (bool, error) {
	day := e.thresholds.AnniversaryDay()
	count, err := e.activity.CountActivityOnMonthDay(ctx, userID, day.Month(), day.Day())
	return count >= threshold, err
}

func (e *Evaluator) holidayFails(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountFailsInCalendarWindows(ctx, userID, holidayWindows)
	return count >= threshold, err
}

func (e *Evaluator) midnightFails(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountFailsInHourWindow(ctx, userID, midnightWindowStartHour, midnightWindowEndHour)
	return count >= threshold, err
}

func (e *Evaluator) weekendFails(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountFailsOnWeekends(ctx, userID)
	return count >= threshold, err
}

func (e *Evaluator) newYearFails(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountFailsOnMonthDay(ctx, userID, time.January, 1)
	return count >= threshold, err
}

func (e *Evaluator) postGaps(minGapDays int) predicateFunc {
	return func(ctx context.Context, userID int64, threshold int) (bool, error) {
		count, err := e.activity.CountPostGaps(ctx, userID, minGapDays)
		return count >= threshold, err
	}
}

func (e *Evaluator) longStreaks(ctx context.Context, userID int64, threshold int) (bool, error) {
	streak, err := e.activity.LongestDailyStreak(ctx, userID)
	return streak >= threshold, err
}

func (e *Evaluator) activeMonths(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountActiveMonths(ctx, userID)
	return count >= threshold, err
}

func (e *Evaluator) activeDays(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountActiveDays(ctx, userID)
	return count >= threshold, err
}

func (e *Evaluator) popularDiscussions(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountFailsWithMinComments(ctx, userID, e.thresholds.PopularDiscussionComments())
	return count >= threshold, err
}

func (e *Evaluator) funnyFails(ctx context.Context, userID int64, threshold int) (bool, error) {
	laugh := models.ReactionLaugh
	count, err := e.activity.CountFailsWithMinReactions(ctx, userID, &laugh, e.thresholds.FunnyFailLaughs())
	return count >= threshold, err
}

func (e *Evaluator) trendsCreated(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountFailsWithMinReactions(ctx, userID, nil, e.thresholds.TrendReactions())
	return count >= threshold, err
}

// userRank is the sole inverted comparison: a lower rank number is better,
// and rank 0 means the user has no ranking row at all.
func (e *Evaluator) userRank(ctx context.Context, userID int64, threshold int) (bool, error) {
	rank, err := e.activity.RankByPoints(ctx, userID)
	if err != nil {
		return false, err
	}
	return rank >= 1 && rank <= threshold, nil
}

func (e *Evaluator) contentMatch(keywords []string, category string) predicateFunc {
	return func(ctx context.Context, userID int64, threshold int) (bool, error) {
		count, err := e.activity.CountFailsMatching(ctx, userID, keywords, category)
		return count >= threshold, err
	}
}

func (e *Evaluator) adviceGiven(ctx context.Context, userID int64, threshold int) (bool, error) {
	count, err := e.activity.CountEncouragementComments(ctx, userID, adviceKeywords)
	return count >= threshold, err
}

// featuresUsed counts distinct feature areas the user has touched: posting,
// commenting, reacting, and setting an avatar each contribute at most one.
func (e *Evaluator) featuresUsed(ctx context.Context, userID int64, threshold int) (bool, error) {
	checks := []func(context.Context, int64) (bool, error){
		e.activity.HasAnyFail,
		e.activity.HasAnyComment,
		e.activity.HasAnyReaction,
		e.activity.HasAvatar,
	}

	used := 0
	for _, check := range checks {
		ok, err := check(ctx, userID)
		if err != nil {
			return false, err
		}
		if ok {
			used++
		}
	}
	return used >= threshold, nil
}

// countriesCount has no backing data source (no geolocation is collected),
// so the badge stays permanently locked. Logged at debug, not warn: this is
// a known gap, not an unexpected catalog entry.
func (e *Evaluator) countriesCount(ctx context.Context, userID int64, _ int) (bool, error) {
	e.logger.Debug("countries_count requirement has no data source, treating as not satisfied",
		zap.Int64("user_id", userID),
	)
	return false, nil
}
