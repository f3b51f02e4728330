package analytics

import "time"

// Period selectors understood by ResolvePeriod.
const (
	PeriodAll         = "all"
	PeriodCustom      = "custom"
	PeriodToday       = "today"
	PeriodThisWeek    = "this_week"
	PeriodThisMonth   = "this_month"
	PeriodLastMonth   = "last_month"
	PeriodThisQuarter = "this_quarter"
	PeriodLastQuarter = "last_quarter"
	PeriodThisYear    = "this_year"
	PeriodLastYear    = "last_year"
)

// Period is a resolved date interval. A nil bound means the dimension is
// unbounded on that side; both nil means no date filtering at all.
type Period struct {
	Start *time.Time
	End   *time.Time
}

// ResolvePeriod turns a symbolic period selector, plus optional explicit
// start/end dates for the custom selector, into a concrete interval
// relative to now. Start bounds are normalized to 00:00:00.000 and end
// bounds to 23:59:59.999 of their day, so a same-day explicit range is
// inclusive. A moment exactly on a period boundary belongs to the
// current period. Unknown selectors resolve like "all".
func ResolvePeriod(selector, explicitStart, explicitEnd string, now time.Time) Period {
	switch selector {
	case PeriodCustom:
		var p Period
		if ts, ok := parseDate(explicitStart, now.Location()); ok {
			start := startOfDay(ts)
			p.Start = &start
		}
		if ts, ok := parseDate(explicitEnd, now.Location()); ok {
			end := endOfDay(ts)
			p.End = &end
		}
		return p
	case PeriodToday:
		return bounds(startOfDay(now), endOfDay(now))
	case PeriodThisWeek:
		// Week starts on day 0 (Sunday); no forward-looking days.
		start := startOfDay(now.AddDate(0, 0, -int(now.Weekday())))
		return bounds(start, endOfDay(now))
	case PeriodThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return bounds(start, endOfDay(now))
	case PeriodLastMonth:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start := firstOfMonth.AddDate(0, -1, 0)
		return bounds(start, endOfDay(firstOfMonth.AddDate(0, 0, -1)))
	case PeriodThisQuarter:
		return bounds(quarterStart(now), endOfDay(now))
	case PeriodLastQuarter:
		thisQ := quarterStart(now)
		return bounds(thisQ.AddDate(0, -3, 0), endOfDay(thisQ.AddDate(0, 0, -1)))
	case PeriodThisYear:
		return yearBounds(now.Year(), now.Location())
	case PeriodLastYear:
		return yearBounds(now.Year()-1, now.Location())
	default:
		// "all" and anything unrecognized: no date filtering.
		return Period{}
	}
}

// quarterStart returns the first day of the 3-month block containing t,
// aligned to month index / 3.
func quarterStart(t time.Time) time.Time {
	qm := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), qm, 1, 0, 0, 0, 0, t.Location())
}

func yearBounds(year int, loc *time.Location) Period {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return bounds(start, endOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, loc)))
}

func bounds(start, end time.Time) Period {
	return Period{Start: &start, End: &end}
}

// location is the zone the period bounds were resolved in. Record
// timestamps are parsed in the same zone so day edges line up.
func (p Period) location() *time.Location {
	if p.Start != nil {
		return p.Start.Location()
	}
	if p.End != nil {
		return p.End.Location()
	}
	return time.UTC
}
