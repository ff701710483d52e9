package scheduler

import (
	"strconv"
	"strings"
	"time"

	"taskcadence/internal/model"
)

// IsDue decides whether a task is due at now given its last execution.
// hasLast is false when the task has never executed.
//
// A task that already executed on now's calendar date is never due again
// that day, regardless of cadence or period. Tasks with an unknown cadence
// fail closed.
func IsDue(task model.Task, last time.Time, hasLast bool, now time.Time) bool {
	period := task.Period
	if period <= 0 {
		period = 1
	}

	switch task.Cadence {
	case model.CadenceDaily:
		if !hasLast {
			return true
		}
		if sameCalendarDay(last, now) {
			return false
		}
		if period == 1 {
			// once per distinct calendar day
			return true
		}
		return wholeDaysBetween(last, now) >= period

	case model.CadenceWeekly:
		if now.Weekday() != task.DayOfWeek {
			return false
		}
		if !timeOfDayPassed(task.TimeOfDay, now) {
			return false
		}
		if !hasLast {
			return true
		}
		if sameCalendarDay(last, now) {
			return false
		}
		return wholeWeeksBetween(last, now) >= period

	case model.CadenceMonthly:
		if now.Day() != task.DayOfMonth {
			return false
		}
		if !timeOfDayPassed(task.TimeOfDay, now) {
			return false
		}
		if !hasLast {
			return true
		}
		if sameCalendarDay(last, now) {
			return false
		}
		return monthsBetween(last, now) >= period

	default:
		return false
	}
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// wholeDaysBetween is floor((now-last)/24h) for last <= now.
func wholeDaysBetween(last, now time.Time) int {
	if now.Before(last) {
		return 0
	}
	return int(now.Sub(last) / (24 * time.Hour))
}

// wholeWeeksBetween is floor((now-last)/7d) for last <= now.
func wholeWeeksBetween(last, now time.Time) int {
	if now.Before(last) {
		return 0
	}
	return int(now.Sub(last) / (7 * 24 * time.Hour))
}

// monthsBetween is the calendar month difference, ignoring days.
func monthsBetween(last, now time.Time) int {
	return (now.Year()-last.Year())*12 + int(now.Month()) - int(last.Month())
}

// timeOfDayPassed reports whether now's clock time has reached the
// scheduled "HH:MM". An empty or unparseable schedule counts as passed.
// Comparison is at minute granularity; seconds are ignored.
func timeOfDayPassed(scheduled string, now time.Time) bool {
	h, m, ok := parseHHMM(scheduled)
	if !ok {
		return true
	}
	if now.Hour() != h {
		return now.Hour() > h
	}
	return now.Minute() >= m
}

func parseHHMM(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
