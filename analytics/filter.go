package analytics

// FilterAll disables a filter dimension.
const FilterAll = "all"

// Criteria is one set of dashboard filters. Agent and City are exact
// matches; FilterAll (or empty) disables the dimension.
type Criteria struct {
	Agent  string
	City   string
	Period Period
}

// Filter returns the records matching every criteria dimension, in their
// original order. Records whose timestamp does not parse pass an active
// date window unconditionally: a record lacking a usable date must not be
// silently dropped from analytics just because a date filter is on.
func Filter(records []VisitRecord, crit Criteria) []VisitRecord {
	out := make([]VisitRecord, 0, len(records))
	for _, r := range records {
		if !matchesDimension(crit.Agent, r.Agent) {
			continue
		}
		if !matchesDimension(crit.City, r.City) {
			continue
		}
		if !matchesPeriod(r, crit.Period) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesDimension(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}

func matchesPeriod(r VisitRecord, p Period) bool {
	if p.Start == nil && p.End == nil {
		return true
	}
	ts, ok := r.Timestamp(p.location())
	if !ok {
		return true // fail-open: no usable date, no date predicate
	}
	if p.Start != nil && ts.Before(*p.Start) {
		return false
	}
	if p.End != nil && ts.After(*p.End) {
		return false
	}
	return true
}
