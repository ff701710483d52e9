package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogTimestamp(t *testing.T) {
	got, err := ParseLogTimestamp("25/12/2025 08:30:15")
	require.NoError(t, err)

	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.December, got.Month())
	assert.Equal(t, 25, got.Day())
	assert.Equal(t, 8, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, 15, got.Second())
}

func TestParseLogTimestampTrimsWhitespace(t *testing.T) {
	got, err := ParseLogTimestamp("  01/02/2026 00:00:00 ")
	require.NoError(t, err)
	assert.Equal(t, time.February, got.Month())
	assert.Equal(t, 1, got.Day())
}

func TestParseLogTimestampMalformed(t *testing.T) {
	tests := []string{
		"",
		"not a date",
		"2025-12-25 08:30:15", // ISO order is not the log format
		"25/12/2025",          // missing clock
		"32/01/2026 10:00:00", // impossible day
	}
	for _, raw := range tests {
		_, err := ParseLogTimestamp(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestFormatLogTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2026, time.March, 9, 17, 45, 3, 0, time.Local)
	parsed, err := ParseLogTimestamp(FormatLogTimestamp(ts))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}
