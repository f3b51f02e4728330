package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAction(t *testing.T) {
	tests := map[string]string{
		"visiter":    ActionVisit,
		"Visite":     ActionVisit,
		"visit":      ActionVisit,
		"revisiter":  ActionRevisit,
		"REVISITE":   ActionRevisit,
		"acheter":    ActionPurchase,
		"Achat":      ActionPurchase,
		"purchase":   ActionPurchase,
		"  buy  ":    ActionPurchase,
		"":           ActionUnset,
		"telephoned": ActionUnset,
	}
	for input, expected := range tests {
		assert.Equal(t, expected, NormalizeAction(input), "input %q", input)
	}
}

func TestNormalizeTier(t *testing.T) {
	tests := map[string]string{
		"Premium":       TierPremium,
		"premium + mid": TierPremiumMid,
		"Premium+Mid":   TierPremiumMid,
		"Mid":           TierMid,
		"Économie":      TierEconomy,
		"economie":      TierEconomy,
		"economy":       TierEconomy,
		"":              TierMid,
		"gold":          TierMid, // unrecognized falls back to mid
	}
	for input, expected := range tests {
		assert.Equal(t, expected, NormalizeTier(input), "input %q", input)
	}
}

func TestParseNumber(t *testing.T) {
	tests := map[string]float64{
		"100":     100,
		"12,5":    12.5,
		"1 200":   1200,
		" 42.75 ": 42.75,
		"":        0,
		"abc":     0,
		"12abc":   0,
	}
	for input, expected := range tests {
		assert.Equal(t, expected, parseNumber(input), "input %q", input)
	}
}

func TestStoreKey(t *testing.T) {
	assert.Equal(t, StoreKey("Alpha Market"), StoreKey("  ALPHA MARKET "))
	assert.NotEqual(t, StoreKey("Alpha Market"), StoreKey("Alpha Markets"))
}

func TestAgentDisplayName(t *testing.T) {
	assert.Equal(t, "amine", AgentDisplayName("amine@fieldpulse.io"))
	assert.Equal(t, "sara", AgentDisplayName(" sara "))
}

func TestParseDateLayouts(t *testing.T) {
	for _, input := range []string{
		"2024-01-05",
		"2024-01-05T09:30:00Z",
		"2024-01-05 09:30:00",
		"05/01/2024",
	} {
		_, ok := parseDate(input, time.UTC)
		assert.True(t, ok, "input %q", input)
	}
	for _, input := range []string{"", "soon", "2024-13-45"} {
		_, ok := parseDate(input, time.UTC)
		assert.False(t, ok, "input %q", input)
	}
}

// Zone-less dates are interpreted in the caller's location, not UTC.
func TestParseDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	ts, ok := parseDate("2024-05-15", loc)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, loc), ts)

	// An explicit offset in the input wins over loc.
	ts, ok = parseDate("2024-05-15T12:00:00Z", loc)
	assert.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)))
}
