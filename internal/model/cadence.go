package model

import "strings"

// Cadence is the closed set of repeat kinds a task definition can carry.
// Raw labels coming from upstream sources are normalized by ParseCadence;
// the rest of the system only ever sees these values.
type Cadence int

const (
	CadenceUnknown Cadence = iota
	CadenceDaily
	CadenceWeekly
	CadenceMonthly
)

func (c Cadence) String() string {
	switch c {
	case CadenceDaily:
		return "daily"
	case CadenceWeekly:
		return "weekly"
	case CadenceMonthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// ParseCadence normalizes a raw cadence label. The historical data contains
// a few misspelled variants ("WEEKLLY", "MOUNTHLY", "MONTLY"); they are
// accepted here so old rows keep scheduling.
func ParseCadence(raw string) Cadence {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DAILY":
		return CadenceDaily
	case "WEEKLY", "WEEKLLY":
		return CadenceWeekly
	case "MONTHLY", "MOUNTHLY", "MONTLY":
		return CadenceMonthly
	default:
		return CadenceUnknown
	}
}
