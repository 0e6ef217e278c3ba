package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID                      uuid.UUID            `json:"id" db:"id"`
	RecipientID             uuid.UUID            `json:"recipient_id" db:"recipient_id"`
	RecipientEmployeeNumber string               `json:"recipient_employee_number" db:"recipient_employee_number"`
	Type                    NotificationType     `json:"type" db:"type"`
	Title                   string               `json:"title" db:"title"`
	Message                 string               `json:"message" db:"message"`
	RelatedIdeaID           *uuid.UUID           `json:"related_idea_id,omitempty" db:"related_idea_id"`
	RelatedUserID           *uuid.UUID           `json:"related_user_id,omitempty" db:"related_user_id"`
	Metadata                json.RawMessage      `json:"metadata,omitempty" db:"metadata"`
	IsRead                  bool                 `json:"is_read" db:"is_read"`
	ReadAt                  *time.Time           `json:"read_at,omitempty" db:"read_at"`
	Priority                NotificationPriority `json:"priority" db:"priority"`
	CreatedAt               time.Time            `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifIdeaSubmitted       NotificationType = "idea_submitted"
	NotifIdeaUnderReview     NotificationType = "idea_under_review"
	NotifIdeaApproved        NotificationType = "idea_approved"
	NotifIdeaRejected        NotificationType = "idea_rejected"
	NotifIdeaImplementing    NotificationType = "idea_implementing"
	NotifIdeaImplemented     NotificationType = "idea_implemented"
	NotifIdeaUpdated         NotificationType = "idea_updated"
	NotifCreditPointsUpdated NotificationType = "credit_points_updated"
	NotifReviewAssigned      NotificationType = "review_assigned"
	NotifLeaderboardChange   NotificationType = "leaderboard_change"
	NotifMilestoneAchieved   NotificationType = "milestone_achieved"
	NotifDepartmentLeader    NotificationType = "department_leader"
	NotifWeeklySummary       NotificationType = "weekly_summary"
)

// StatusNotificationType maps a review status to its notification type.
func StatusNotificationType(s IdeaStatus) NotificationType {
	return NotificationType("idea_" + string(s))
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

type NotificationList struct {
	PaginatedResponse[Notification]
	UnreadCount int64 `json:"unread_count"`
}
