package entities

import (
	"strings"
	"time"
)

// Reminder methods understood by the calendar service
const (
	ReminderMethodEmail = "email"
	ReminderMethodPopup = "popup"
)

// Reminder is a single notification rule for an event
type Reminder struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

// ReminderPolicy configures event notifications. The zero value means "use
// the calendar's defaults"; DefaultReminderPolicy returns the policy applied
// to extracted events.
type ReminderPolicy struct {
	UseDefault bool       `json:"useDefault"`
	Overrides  []Reminder `json:"overrides,omitempty"`
}

// DefaultReminderPolicy is one email reminder 24 hours before the event and
// one popup 30 minutes before.
func DefaultReminderPolicy() ReminderPolicy {
	return ReminderPolicy{
		UseDefault: false,
		Overrides: []Reminder{
			{Method: ReminderMethodEmail, Minutes: 24 * 60},
			{Method: ReminderMethodPopup, Minutes: 30},
		},
	}
}

// CalendarEvent is a validated, schedulable event extracted from a meeting
type CalendarEvent struct {
	Summary     string         `json:"summary" validate:"required"`
	Description string         `json:"description"`
	Start       time.Time      `json:"start_time" validate:"required"`
	End         time.Time      `json:"end_time" validate:"required,gtfield=Start"`
	Attendees   []string       `json:"attendees"`
	Location    string         `json:"location,omitempty"`
	Reminders   ReminderPolicy `json:"reminders"`
}

// ValidAttendees filters a raw attendee list down to plausible email
// addresses. Invalid entries are dropped, never an error.
func ValidAttendees(attendees []string) []string {
	valid := make([]string, 0, len(attendees))
	for _, a := range attendees {
		a = strings.TrimSpace(a)
		if a != "" && strings.Contains(a, "@") {
			valid = append(valid, a)
		}
	}
	return valid
}
