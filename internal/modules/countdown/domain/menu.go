package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "tasktracker/internal/platform/errors"
)

const (
	SlotStep  = 15 * time.Minute
	SlotCount = 48
	// Horizon is how far ahead an absolute clock selection may resolve.
	Horizon = SlotCount * SlotStep

	DefaultGrace = time.Minute
	endOfDay     = "end of day"
)

type OptionKind string

const (
	OptionOffset   OptionKind = "offset"
	OptionEndOfDay OptionKind = "end_of_day"
	OptionClock    OptionKind = "clock"
)

type Option struct {
	Label  string
	Kind   OptionKind
	Offset time.Duration
	At     time.Time
}

var offsetOptions = []Option{
	{Label: "+5 min", Kind: OptionOffset, Offset: 5 * time.Minute},
	{Label: "+10 min", Kind: OptionOffset, Offset: 10 * time.Minute},
	{Label: "+15 min", Kind: OptionOffset, Offset: 15 * time.Minute},
	{Label: "+30 min", Kind: OptionOffset, Offset: 30 * time.Minute},
	{Label: "+45 min", Kind: OptionOffset, Offset: 45 * time.Minute},
	{Label: "+1 hour", Kind: OptionOffset, Offset: time.Hour},
	{Label: "+2 hours", Kind: OptionOffset, Offset: 2 * time.Hour},
	{Label: "+3 hours", Kind: OptionOffset, Offset: 3 * time.Hour},
	{Label: "+4 hours", Kind: OptionOffset, Offset: 4 * time.Hour},
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}) ?(am|pm)$`)

// Menu lists every selectable deadline at now: fixed offsets, end of day,
// then the next SlotCount quarter-hour clock times.
func Menu(now time.Time) []Option {
	out := make([]Option, 0, len(offsetOptions)+1+SlotCount)
	for _, opt := range offsetOptions {
		opt.At = now.Add(opt.Offset)
		out = append(out, opt)
	}
	out = append(out, Option{Label: endOfDay, Kind: OptionEndOfDay, At: nextMidnight(now)})

	slot := firstSlot(now)
	for i := 0; i < SlotCount; i++ {
		out = append(out, Option{Label: slot.Format("3:04 PM"), Kind: OptionClock, At: slot})
		slot = slot.Add(SlotStep)
	}
	return out
}

// ResolveDeadline turns a menu value into an absolute deadline.
//
// Clock values resolve to today; one more than grace in the past rolls to
// tomorrow, and anything that then lands beyond Horizon is a stale pick.
func ResolveDeadline(value string, now time.Time, grace time.Duration) (time.Time, error) {
	v := normalize(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty selection", apperrors.ErrInvalidDeadline)
	}
	if v == endOfDay {
		return nextMidnight(now), nil
	}
	if strings.HasPrefix(v, "+") {
		offset, ok := lookupOffset(v)
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %q is not a selectable offset", apperrors.ErrInvalidDeadline, value)
		}
		return now.Add(offset), nil
	}

	match := clockPattern.FindStringSubmatch(v)
	if match == nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a known selection", apperrors.ErrInvalidDeadline, value)
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour < 1 || hour > 12 || minute > 59 || minute%int(SlotStep/time.Minute) != 0 {
		return time.Time{}, fmt.Errorf("%w: %q is not a quarter-hour clock time", apperrors.ErrInvalidDeadline, value)
	}
	hour %= 12
	if match[3] == "pm" {
		hour += 12
	}

	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if candidate.Before(now.Add(-grace)) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	if candidate.After(now.Add(Horizon)) {
		return time.Time{}, fmt.Errorf("%w: %q has already passed", apperrors.ErrInvalidDeadline, value)
	}
	return candidate, nil
}

func lookupOffset(v string) (time.Duration, bool) {
	for _, opt := range offsetOptions {
		if normalize(opt.Label) == v {
			return opt.Offset, true
		}
	}
	parsed, err := time.ParseDuration(strings.TrimPrefix(v, "+"))
	if err != nil {
		return 0, false
	}
	for _, opt := range offsetOptions {
		if opt.Offset == parsed {
			return parsed, true
		}
	}
	return 0, false
}

func normalize(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

func firstSlot(now time.Time) time.Time {
	base := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	quarter := now.Minute()/15 + 1
	return base.Add(time.Duration(quarter) * SlotStep)
}

func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
