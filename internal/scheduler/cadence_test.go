package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskcadence/internal/model"
)

// 2 March 2026 is a Monday.
var monday = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.Local)

func dailyTask(period int) model.Task {
	return model.Task{ID: "1", Subject: "daily", Cadence: model.CadenceDaily, Period: period}
}

func weeklyTask(day time.Weekday, period int, timeOfDay string) model.Task {
	return model.Task{ID: "2", Subject: "weekly", Cadence: model.CadenceWeekly, Period: period, DayOfWeek: day, TimeOfDay: timeOfDay}
}

func monthlyTask(day, period int, timeOfDay string) model.Task {
	return model.Task{ID: "3", Subject: "monthly", Cadence: model.CadenceMonthly, Period: period, DayOfMonth: day, TimeOfDay: timeOfDay}
}

func TestDailyNeverExecutedIsDue(t *testing.T) {
	assert.True(t, IsDue(dailyTask(1), time.Time{}, false, monday))
	assert.True(t, IsDue(dailyTask(5), time.Time{}, false, monday))
}

func TestSameDaySuppressionAllCadences(t *testing.T) {
	earlierToday := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 5, 0, 0, time.Local)

	tests := []struct {
		name string
		task model.Task
	}{
		{"daily period 1", dailyTask(1)},
		{"daily period 3", dailyTask(3)},
		{"weekly on matching day", weeklyTask(time.Monday, 1, "")},
		{"monthly on matching day", monthlyTask(monday.Day(), 1, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsDue(tt.task, earlierToday, true, monday))
		})
	}
}

func TestDailyPeriodOneDuePerDistinctDay(t *testing.T) {
	yesterday := monday.Add(-24 * time.Hour)
	assert.True(t, IsDue(dailyTask(1), yesterday, true, monday))

	// Even a late-night previous-day run makes the task due again today.
	lateYesterday := time.Date(2026, time.March, 1, 23, 59, 0, 0, time.Local)
	assert.True(t, IsDue(dailyTask(1), lateYesterday, true, monday))
}

func TestDailyPeriodThresholds(t *testing.T) {
	task := dailyTask(3)

	tests := []struct {
		name string
		last time.Time
		want bool
	}{
		{"1 day ago", monday.Add(-24 * time.Hour), false},
		{"2 days ago", monday.Add(-48 * time.Hour), false},
		{"just under 3 days", monday.Add(-72*time.Hour + time.Minute), false},
		{"exactly 3 days", monday.Add(-72 * time.Hour), true},
		{"4 days ago", monday.Add(-96 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(task, tt.last, true, monday))
		})
	}
}

func TestWeeklyRequiresMatchingWeekday(t *testing.T) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		want := d == time.Monday
		got := IsDue(weeklyTask(d, 1, ""), time.Time{}, false, monday)
		assert.Equal(t, want, got, "weekday %s", d)
	}
}

func TestWeeklyTimeOfDayGate(t *testing.T) {
	task := weeklyTask(time.Monday, 1, "10:30")

	before := time.Date(2026, time.March, 2, 10, 29, 59, 0, time.Local)
	atGate := time.Date(2026, time.March, 2, 10, 30, 0, 0, time.Local)
	after := time.Date(2026, time.March, 2, 11, 0, 0, 0, time.Local)

	assert.False(t, IsDue(task, time.Time{}, false, before))
	assert.True(t, IsDue(task, time.Time{}, false, atGate))
	assert.True(t, IsDue(task, time.Time{}, false, after))
}

func TestWeeklyPeriodThresholds(t *testing.T) {
	task := weeklyTask(time.Monday, 2, "")

	oneWeekAgo := monday.Add(-7 * 24 * time.Hour)
	twoWeeksAgo := monday.Add(-14 * 24 * time.Hour)
	threeWeeksAgo := monday.Add(-21 * 24 * time.Hour)

	assert.False(t, IsDue(task, oneWeekAgo, true, monday))
	assert.True(t, IsDue(task, twoWeeksAgo, true, monday))
	assert.True(t, IsDue(task, threeWeeksAgo, true, monday))
}

func TestWeeklyLastWeekPeriodOne(t *testing.T) {
	task := weeklyTask(time.Monday, 1, "")
	lastMonday := monday.Add(-7 * 24 * time.Hour)
	assert.True(t, IsDue(task, lastMonday, true, monday))
}

func TestMonthlyRequiresMatchingDayOfMonth(t *testing.T) {
	task := monthlyTask(8, 1, "")

	on8th := time.Date(2026, time.May, 8, 12, 0, 0, 0, time.Local)
	on9th := time.Date(2026, time.May, 9, 12, 0, 0, 0, time.Local)

	assert.True(t, IsDue(task, time.Time{}, false, on8th))
	assert.False(t, IsDue(task, time.Time{}, false, on9th))
}

func TestMonthlyPeriodThresholds(t *testing.T) {
	// Scenario D: last execution exactly one month back is not enough for
	// period 2; two months back is.
	task := monthlyTask(8, 2, "")
	now := time.Date(2026, time.May, 8, 12, 0, 0, 0, time.Local)

	oneMonthAgo := time.Date(2026, time.April, 8, 12, 0, 0, 0, time.Local)
	twoMonthsAgo := time.Date(2026, time.March, 8, 12, 0, 0, 0, time.Local)

	assert.False(t, IsDue(task, oneMonthAgo, true, now))
	assert.True(t, IsDue(task, twoMonthsAgo, true, now))
}

func TestMonthlyAcrossYearBoundary(t *testing.T) {
	task := monthlyTask(15, 1, "")
	now := time.Date(2026, time.January, 15, 9, 0, 0, 0, time.Local)
	lastDecember := time.Date(2025, time.December, 15, 9, 0, 0, 0, time.Local)

	assert.True(t, IsDue(task, lastDecember, true, now))
}

func TestMonthlyTimeOfDayGate(t *testing.T) {
	task := monthlyTask(2, 1, "18:00")

	beforeGate := time.Date(2026, time.March, 2, 17, 59, 0, 0, time.Local)
	afterGate := time.Date(2026, time.March, 2, 18, 0, 0, 0, time.Local)

	assert.False(t, IsDue(task, time.Time{}, false, beforeGate))
	assert.True(t, IsDue(task, time.Time{}, false, afterGate))
}

func TestUnknownCadenceFailsClosed(t *testing.T) {
	task := model.Task{ID: "9", Cadence: model.CadenceUnknown}
	assert.False(t, IsDue(task, time.Time{}, false, monday))
	assert.False(t, IsDue(task, monday.Add(-90*24*time.Hour), true, monday))
}

func TestZeroPeriodDefaultsToOne(t *testing.T) {
	task := dailyTask(0)
	yesterday := monday.Add(-24 * time.Hour)
	assert.True(t, IsDue(task, yesterday, true, monday))
}

func TestTimeOfDayPassed(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, time.March, 2, h, m, 30, 0, time.Local)
	}

	tests := []struct {
		name      string
		scheduled string
		now       time.Time
		want      bool
	}{
		{"empty schedule always passes", "", at(0, 0), true},
		{"before", "14:30", at(14, 29), false},
		{"exact minute", "14:30", at(14, 30), true},
		{"after within hour", "14:30", at(14, 45), true},
		{"later hour earlier minute", "14:30", at(15, 0), true},
		{"earlier hour later minute", "14:30", at(13, 59), false},
		{"unparseable schedule passes", "late", at(0, 0), true},
		{"out of range hour passes", "25:00", at(0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeOfDayPassed(tt.scheduled, tt.now))
		})
	}
}
