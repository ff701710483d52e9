package scheduler

import (
	"strings"
	"time"
)

// The execution log stores timestamps as fixed-format local wall-clock text.
const logTimestampLayout = "02/01/2006 15:04:05"

// ParseLogTimestamp parses the execution log's "DD/MM/YYYY HH:MM:SS" format.
// Fields are read as local time; no zone conversion is applied.
func ParseLogTimestamp(text string) (time.Time, error) {
	return time.ParseInLocation(logTimestampLayout, strings.TrimSpace(text), time.Local)
}

// FormatLogTimestamp renders a timestamp in the execution log's format.
func FormatLogTimestamp(t time.Time) string {
	return t.Format(logTimestampLayout)
}
