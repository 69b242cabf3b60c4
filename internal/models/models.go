// file: internal/models/models.go
package models

import (
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// User represents a FailDaily account
type User struct {
	// Primary fields
	ID       int64  `json:"id" db:"id"`
	Email    string `json:"email" db:"email" validate:"required,email,max=320"`
	Username string `json:"username" db:"username" validate:"required,min=3,max=50"`

	// Authentication
	PasswordHash  string `json:"-" db:"password_hash"`
	EmailVerified bool   `json:"email_verified" db:"is_verified"`
	IsActive      bool   `json:"is_active" db:"is_active"`

	// Profile information
	DisplayName string  `json:"display_name" db:"display_name"`
	Bio         *string `json:"bio,omitempty" db:"bio" validate:"omitempty,max=1000"`
	AvatarURL   *string `json:"avatar_url,omitempty" db:"avatar_url"`

	// Gamification
	Points int `json:"points" db:"points"`

	// System fields
	Role string `json:"role" db:"role" validate:"required,oneof=user moderator admin"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	LastSeen  time.Time `json:"last_seen" db:"last_seen"`

	// Computed/joined fields (not in DB)
	BadgeCount    int `json:"badge_count,omitempty" db:"-"`
	FailsCount    int `json:"fails_count,omitempty" db:"-"`
	CommentsCount int `json:"comments_count,omitempty" db:"-"`
}

// Fail represents a shared failure story
type Fail struct {
	// Core fields
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id" validate:"required"`
	Title       string `json:"title" db:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" db:"description" validate:"required,min=10,max=10000"`
	Category    string `json:"category" db:"category" validate:"required,max=100"`

	// Media
	ImageURL *string `json:"image_url,omitempty" db:"image_url"`

	// Visibility
	IsAnonymous bool `json:"is_anonymous" db:"is_anonymous"`

	// Timestamps
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`

	// Computed fields (not in DB)
	Author         *User          `json:"author,omitempty" db:"-"`
	CommentsCount  int            `json:"comments_count,omitempty" db:"-"`
	ReactionCounts map[string]int `json:"reaction_counts,omitempty" db:"-"`
}

// Comment represents a comment on a fail
type Comment struct {
	ID     int64  `json:"id" db:"id"`
	FailID int64  `json:"fail_id" db:"fail_id" validate:"required"`
	UserID int64  `json:"user_id" db:"user_id" validate:"required"`
	Body   string `json:"body" db:"body" validate:"required,min=1,max=5000"`

	// Comments flagged as encouragement count toward the advice_given requirement.
	IsEncouragement bool `json:"is_encouragement" db:"is_encouragement"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`

	// Joined fields
	Author *User `json:"author,omitempty" db:"-"`
}

// ReactionType enumerates the reaction palette users can apply to a fail.
type ReactionType string

const (
	ReactionCourage ReactionType = "courage"
	ReactionLaugh   ReactionType = "laugh"
	ReactionEmpathy ReactionType = "empathy"
	ReactionSupport ReactionType = "support"
)

// PositiveReactionTypes is the subset of reactions counted as "positive"
// by the positive_reactions_given requirement (everything except laugh).
var PositiveReactionTypes = []ReactionType{ReactionCourage, ReactionSupport, ReactionEmpathy}

// IsValid reports whether t is one of the known reaction types.
func (t ReactionType) IsValid() bool {
	switch t {
	case ReactionCourage, ReactionLaugh, ReactionEmpathy, ReactionSupport:
		return true
	}
	return false
}

// Reaction represents a single user reaction on a fail
type Reaction struct {
	ID        int64        `json:"id" db:"id"`
	FailID    int64        `json:"fail_id" db:"fail_id" validate:"required"`
	UserID    int64        `json:"user_id" db:"user_id" validate:"required"`
	Type      ReactionType `json:"type" db:"reaction_type" validate:"required"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// Notification represents a user-facing notification row
type Notification struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id" validate:"required"`
	Type      string     `json:"type" db:"type" validate:"required,max=50"`
	Title     string     `json:"title" db:"title" validate:"required,max=255"`
	Body      string     `json:"body" db:"body"`
	IsRead    bool       `json:"is_read" db:"is_read"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
}
