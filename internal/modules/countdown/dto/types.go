package dto

import "time"

type SetDeadlineInput struct {
	Value string `json:"value"`
}

type DeadlineOutput struct {
	Deadline time.Time `json:"deadline"`
	Display  string    `json:"deadline_display"`
}

// StatusOutput is the countdown snapshot. RemainingSeconds is -1 when no
// deadline is set; callers render a neutral placeholder for it.
type StatusOutput struct {
	HasDeadline      bool      `json:"has_deadline"`
	Deadline         time.Time `json:"deadline,omitempty"`
	DeadlineDisplay  string    `json:"deadline_display,omitempty"`
	RemainingSeconds int       `json:"remaining_seconds"`
	SpentSeconds     int       `json:"spent_seconds"`
	State            string    `json:"state"`
	LowTime          bool      `json:"low_time"`
	TimesUp          bool      `json:"times_up"`
}

type OptionOutput struct {
	Label string    `json:"label"`
	Kind  string    `json:"kind"`
	At    time.Time `json:"at"`
}
