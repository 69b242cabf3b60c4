package events

import (
	"time"

	"github.com/gofrs/uuid"
)

// Event types that feed or leave the badge unlock engine. The action events
// are published by the content handlers after their own transaction commits;
// the unlock engine subscribes to them and re-checks the acting user.
const (
	EventFailCreated    = "fail.created"
	EventCommentCreated = "comment.created"
	EventReactionAdded  = "reaction.added"
	EventBadgeUnlocked  = "badge.unlocked"
)

// GenerateEventID returns a unique event identifier.
func GenerateEventID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "evt_" + time.Now().Format("20060102150405.000000000")
	}
	return "evt_" + id.String()
}

// FailCreatedEvent is emitted when a user posts a new fail.
type FailCreatedEvent struct {
	BaseEvent
	FailID   int64  `json:"fail_id"`
	Category string `json:"category"`
}

// NewFailCreatedEvent creates a new FailCreatedEvent.
func NewFailCreatedEvent(userID, failID int64, category string) *FailCreatedEvent {
	return &FailCreatedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: EventFailCreated,
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		FailID:   failID,
		Category: category,
	}
}

// CommentCreatedEvent is emitted when a user comments on a fail.
type CommentCreatedEvent struct {
	BaseEvent
	CommentID int64 `json:"comment_id"`
	FailID    int64 `json:"fail_id"`
}

// NewCommentCreatedEvent creates a new CommentCreatedEvent.
func NewCommentCreatedEvent(userID, commentID, failID int64) *CommentCreatedEvent {
	return &CommentCreatedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: EventCommentCreated,
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		CommentID: commentID,
		FailID:    failID,
	}
}

// ReactionAddedEvent is emitted when a user reacts to a fail.
type ReactionAddedEvent struct {
	BaseEvent
	FailID       int64  `json:"fail_id"`
	ReactionType string `json:"reaction_type"`
}

// NewReactionAddedEvent creates a new ReactionAddedEvent.
func NewReactionAddedEvent(userID, failID int64, reactionType string) *ReactionAddedEvent {
	return &ReactionAddedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: EventReactionAdded,
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		FailID:       failID,
		ReactionType: reactionType,
	}
}

// BadgeUnlockedEvent is emitted once per newly granted badge.
type BadgeUnlockedEvent struct {
	BaseEvent
	BadgeID   int64  `json:"badge_id"`
	BadgeName string `json:"badge_name"`
}

// NewBadgeUnlockedEvent creates a new BadgeUnlockedEvent.
func NewBadgeUnlockedEvent(userID, badgeID int64, badgeName string) *BadgeUnlockedEvent {
	return &BadgeUnlockedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: EventBadgeUnlocked,
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		BadgeID:   badgeID,
		BadgeName: badgeName,
	}
}
