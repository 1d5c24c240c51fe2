package entities

import "time"

// ActionItem priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ActionItem status constants
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ActionItem is a task extracted from the meeting
type ActionItem struct {
	Description string     `json:"description" validate:"required"`
	Assignee    string     `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
}

// NewActionItem creates an action item with default priority and status
func NewActionItem(description string) ActionItem {
	return ActionItem{
		Description: description,
		Priority:    PriorityMedium,
		Status:      StatusPending,
	}
}

// NormalizePriority maps an arbitrary model-supplied priority onto the
// supported set, defaulting to medium.
func NormalizePriority(p string) string {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	default:
		return PriorityMedium
	}
}

// Decision records a decision made during the meeting
type Decision struct {
	Topic     string `json:"topic"`
	Decision  string `json:"decision"`
	Rationale string `json:"rationale,omitempty"`
	Impact    string `json:"impact,omitempty"`
}

// MeetingMinutes is the structured summary of one meeting. List fields are
// always non-nil; absent data is represented by an empty list.
type MeetingMinutes struct {
	MeetingID    string        `json:"meeting_id"`
	Date         time.Time     `json:"date"`
	Duration     time.Duration `json:"duration"`
	Participants []string      `json:"participants"`
	KeyPoints    []string      `json:"key_points"`
	ActionItems  []ActionItem  `json:"action_items"`
	Decisions    []Decision    `json:"decisions"`
	NextSteps    []string      `json:"next_steps"`
	Summary      string        `json:"summary"`
}

// NewMeetingMinutes creates minutes with all list fields initialized empty
func NewMeetingMinutes(meetingID string) *MeetingMinutes {
	return &MeetingMinutes{
		MeetingID:    meetingID,
		Participants: make([]string, 0),
		KeyPoints:    make([]string, 0),
		ActionItems:  make([]ActionItem, 0),
		Decisions:    make([]Decision, 0),
		NextSteps:    make([]string, 0),
	}
}
