package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCadence(t *testing.T) {
	tests := []struct {
		raw  string
		want Cadence
	}{
		{"DAILY", CadenceDaily},
		{"daily", CadenceDaily},
		{" Weekly ", CadenceWeekly},
		{"MONTHLY", CadenceMonthly},
		// misspelled variants present in historical data
		{"WEEKLLY", CadenceWeekly},
		{"MOUNTHLY", CadenceMonthly},
		{"MONTLY", CadenceMonthly},
		{"", CadenceUnknown},
		{"FORTNIGHTLY", CadenceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCadence(tt.raw))
		})
	}
}

func TestCadenceString(t *testing.T) {
	assert.Equal(t, "daily", CadenceDaily.String())
	assert.Equal(t, "weekly", CadenceWeekly.String())
	assert.Equal(t, "monthly", CadenceMonthly.String())
	assert.Equal(t, "unknown", CadenceUnknown.String())
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("Monday")
	assert.True(t, ok)
	assert.Equal(t, time.Monday, d)

	d, ok = ParseWeekday("sunday")
	assert.True(t, ok)
	assert.Equal(t, time.Sunday, d)

	_, ok = ParseWeekday("Funday")
	assert.False(t, ok)
}
