package analytics

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts covers the formats seen in CSV imports and the mobile form.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
}

// ParseDate parses a free-text date with the lenient layout set used
// across the engine. Zone-less layouts are interpreted in loc so that
// day-boundary math stays consistent with period bounds built in the
// same zone. ok is false when nothing matches.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	return parseDate(s, loc)
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseNumber coerces a free-text amount or quantity to a float.
// Missing or unparseable values become 0, never an error.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Field agents type French decimals and thousands separators.
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// StoreKey is the dedup identity of a store: its trimmed,
// case-insensitive name.
func StoreKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AgentDisplayName derives a short display name from an agent login,
// stripping any mail-domain suffix.
func AgentDisplayName(agent string) string {
	agent = strings.TrimSpace(agent)
	if at := strings.Index(agent, "@"); at >= 0 {
		return agent[:at]
	}
	return agent
}

// NormalizeAction maps the free-text action field onto the closed funnel
// enumeration. The field app historically submitted French verbs, so both
// vocabularies are accepted.
func NormalizeAction(action string) string {
	a := strings.ToLower(strings.TrimSpace(action))
	switch {
	case a == "":
		return ActionUnset
	case strings.Contains(a, "achat"), strings.Contains(a, "achet"),
		strings.Contains(a, "purchase"), strings.Contains(a, "buy"):
		return ActionPurchase
	case strings.Contains(a, "revisit"): // matches "revisite(r)" too
		return ActionRevisit
	case strings.Contains(a, "visit"):
		return ActionVisit
	default:
		return ActionUnset
	}
}

// NormalizeTier maps the free-text tier field onto the closed tier
// enumeration. Absent and unrecognized values both default to mid.
func NormalizeTier(tier string) string {
	t := strings.ToLower(strings.TrimSpace(tier))
	switch {
	case strings.Contains(t, "premium") && strings.Contains(t, "mid"):
		return TierPremiumMid
	case strings.Contains(t, "premium"):
		return TierPremium
	case strings.Contains(t, "econom"), strings.Contains(t, "économ"), t == "eco", t == "éco":
		return TierEconomy
	default:
		return TierMid
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
