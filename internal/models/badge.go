package models

import "time"

// RequirementKind identifies the predicate used to decide whether a user
// qualifies for a badge. The set is closed but extensible: the catalog may
// reference kinds the evaluator does not support yet, and such badges simply
// stay locked until support ships.
type RequirementKind string

const (
	// Volume counters
	KindFailCount       RequirementKind = "fail_count"
	KindHelpfulComments RequirementKind = "helpful_comments"
	KindCategoriesUsed  RequirementKind = "categories_used"

	// Reactions received, per subtype
	KindCourageReactions RequirementKind = "courage_reactions"
	KindLaughReactions   RequirementKind = "laugh_reactions"
	KindEmpathyReactions RequirementKind = "empathy_reactions"
	KindSupportReactions RequirementKind = "support_reactions"

	// Reactions given
	KindReactionsGiven         RequirementKind = "reactions_given"
	KindPositiveReactionsGiven RequirementKind = "positive_reactions_given"
	KindFirstReaction          RequirementKind = "first_reaction"

	// Audience
	KindUniqueInteractions RequirementKind = "unique_interactions"
	KindInspiredUsers      RequirementKind = "inspired_users"

	// Account lifetime
	KindAccountAge               RequirementKind = "account_age"
	KindLoginDays                RequirementKind = "login_days" // alias of account_age
	KindBetaParticipation        RequirementKind = "beta_participation"
	KindAnniversaryParticipation RequirementKind = "anniversary_participation"

	// Calendar windows
	KindHolidayFails RequirementKind = "holiday_fails"
	KindMidnightFail RequirementKind = "midnight_fail"
	KindWeekendFails RequirementKind = "weekend_fails"
	KindNewYearFail  RequirementKind = "new_year_fail"

	// Cadence
	KindBounceBackCount RequirementKind = "bounce_back_count"
	KindComebackCount   RequirementKind = "comeback_count" // alias of bounce_back_count
	KindMajorComebacks  RequirementKind = "major_comebacks"
	KindLongStreaks     RequirementKind = "long_streaks"
	KindActiveMonths    RequirementKind = "active_months"
	KindPositiveDays    RequirementKind = "positive_days"

	// Qualifying-post counters (per-post threshold comes from configuration)
	KindPopularDiscussions RequirementKind = "popular_discussions"
	KindFunnyFails         RequirementKind = "funny_fails"
	KindTrendsCreated      RequirementKind = "trends_created"

	// Ranking (inverted comparison: lower rank number is better)
	KindUserRank RequirementKind = "user_rank"

	// Content heuristics
	KindResilienceCount    RequirementKind = "resilience_count"
	KindResilienceFails    RequirementKind = "resilience_fails" // alias of resilience_count
	KindChallengesOvercome RequirementKind = "challenges_overcome"
	KindAdviceGiven        RequirementKind = "advice_given"
	KindFeaturesUsed       RequirementKind = "features_used"

	// Recognized but unsupported: no geolocation data exists, always locked.
	KindCountriesCount RequirementKind = "countries_count"
)

// Requirement is the typed unlock condition attached to a badge definition.
type Requirement struct {
	Kind      RequirementKind `json:"kind" db:"requirement_kind"`
	Threshold int             `json:"threshold" db:"requirement_value"`
}

// BadgeRarity orders badges for display. Rarity never participates in
// unlock logic.
type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// SortWeight returns the display ordering weight for a rarity,
// common first, legendary last. Unknown rarities sort after legendary.
func (r BadgeRarity) SortWeight() int {
	switch r {
	case RarityCommon:
		return 0
	case RarityRare:
		return 1
	case RarityEpic:
		return 2
	case RarityLegendary:
		return 3
	}
	return 4
}

// BadgeDefinition is an immutable catalog entry describing an unlockable
// badge and the requirement to unlock it.
type BadgeDefinition struct {
	ID          int64       `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	Icon        string      `json:"icon" db:"icon"`
	Category    string      `json:"category" db:"category"`
	Rarity      BadgeRarity `json:"rarity" db:"rarity"`
	Requirement Requirement `json:"requirement"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// UserBadge is a grant: the record that a user unlocked a badge.
// GrantedAt is nullable for grandfathered rows imported before timestamps
// were recorded.
type UserBadge struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	BadgeID   int64      `json:"badge_id" db:"badge_id"`
	GrantedAt *time.Time `json:"granted_at,omitempty" db:"granted_at"`

	// Joined fields
	Badge *BadgeDefinition `json:"badge,omitempty" db:"-"`
}

// BadgeWithStatus decorates a catalog entry with the caller's unlock state.
type BadgeWithStatus struct {
	BadgeDefinition
	Unlocked  bool       `json:"unlocked"`
	GrantedAt *time.Time `json:"granted_at,omitempty"`
}
