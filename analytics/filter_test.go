package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []VisitRecord {
	return []VisitRecord{
		{StoreName: "Alpha Market", Agent: "amine@fieldpulse.io", City: "Casablanca", VisitDate: "2024-01-05", Action: "acheter", Amount: "100"},
		{StoreName: "Beta Shop", Agent: "sara@fieldpulse.io", City: "Rabat", VisitDate: "2024-01-10", Action: "visiter"},
		{StoreName: "Gamma Store", Agent: "amine@fieldpulse.io", City: "Casablanca", VisitDate: "2024-02-01", Action: "revisiter"},
		{StoreName: "Delta Kiosk", Agent: "sara@fieldpulse.io", City: "Fes", VisitDate: "garbled", Action: "visiter"},
	}
}

func TestFilter(t *testing.T) {
	jan := ResolvePeriod(PeriodCustom, "2024-01-01", "2024-01-31", time.Now())

	tests := map[string]struct {
		crit      Criteria
		expStores []string
	}{
		"AllDimensionsOpen": {
			crit:      Criteria{Agent: FilterAll, City: FilterAll},
			expStores: []string{"Alpha Market", "Beta Shop", "Gamma Store", "Delta Kiosk"},
		},
		"AgentExactMatch": {
			crit:      Criteria{Agent: "amine@fieldpulse.io", City: FilterAll},
			expStores: []string{"Alpha Market", "Gamma Store"},
		},
		"CityExactMatch": {
			crit:      Criteria{Agent: FilterAll, City: "Rabat"},
			expStores: []string{"Beta Shop"},
		},
		"CityNobodyHas": {
			crit:      Criteria{Agent: FilterAll, City: "Tangier"},
			expStores: []string{},
		},
		"DateWindow": {
			crit: Criteria{Agent: FilterAll, City: FilterAll, Period: jan},
			// Delta Kiosk has no parseable date and passes the window anyway.
			expStores: []string{"Alpha Market", "Beta Shop", "Delta Kiosk"},
		},
		"AgentAndCityAndDate": {
			crit:      Criteria{Agent: "amine@fieldpulse.io", City: "Casablanca", Period: jan},
			expStores: []string{"Alpha Market"},
		},
		"EmptyStringBehavesLikeAll": {
			crit:      Criteria{},
			expStores: []string{"Alpha Market", "Beta Shop", "Gamma Store", "Delta Kiosk"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := Filter(sampleRecords(), tc.crit)
			stores := make([]string, 0, len(got))
			for _, r := range got {
				stores = append(stores, r.StoreName)
			}
			assert.Equal(t, tc.expStores, stores)
		})
	}
}

// An unparseable timestamp passes an active date window unconditionally.
// This fail-open behavior is a deliberate product policy, not an
// oversight: a record lacking a usable date must not silently vanish from
// analytics when a date filter is on.
func TestFilter_UnparseableDateFailsOpen(t *testing.T) {
	now := time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)
	records := []VisitRecord{
		{StoreName: "No Date Store", Agent: "sara@fieldpulse.io", City: "Fes", VisitDate: "??", Action: "visiter"},
		{StoreName: "Old Store", Agent: "sara@fieldpulse.io", City: "Fes", VisitDate: "2023-01-01", Action: "visiter"},
	}
	crit := Criteria{
		Agent:  FilterAll,
		City:   FilterAll,
		Period: ResolvePeriod(PeriodThisMonth, "", "", now),
	}

	got := Filter(records, crit)
	require.Len(t, got, 1)
	assert.Equal(t, "No Date Store", got[0].StoreName)
}

func TestFilter_TimestampFallsBackToCreatedDate(t *testing.T) {
	records := []VisitRecord{
		{StoreName: "Fallback Store", Agent: "a", City: "Fes", CreatedDate: "2024-01-15", Action: "visiter"},
	}
	jan := ResolvePeriod(PeriodCustom, "2024-01-01", "2024-01-31", time.Now())
	feb := ResolvePeriod(PeriodCustom, "2024-02-01", "2024-02-29", time.Now())

	assert.Len(t, Filter(records, Criteria{Period: jan}), 1)
	assert.Len(t, Filter(records, Criteria{Period: feb}), 0)
}

// Record timestamps are interpreted in the zone the period bounds were
// resolved in, so a late-evening visit stays inside its calendar day.
func TestFilter_DateWindowInNonUTCZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2024, time.May, 15, 10, 0, 0, 0, loc)
	records := []VisitRecord{
		{StoreName: "Evening Visit", Agent: "a", City: "Fes", VisitDate: "2024-05-14 22:00:00", Action: "visiter"},
	}
	day := ResolvePeriod(PeriodCustom, "2024-05-14", "2024-05-14", now)

	got := Filter(records, Criteria{Period: day})
	require.Len(t, got, 1)
	assert.Equal(t, "Evening Visit", got[0].StoreName)
}

// Tightening any single dimension never grows the result set.
func TestFilter_Monotonicity(t *testing.T) {
	records := sampleRecords()
	open := Criteria{Agent: FilterAll, City: FilterAll}
	base := len(Filter(records, open))

	tighter := []Criteria{
		{Agent: "amine@fieldpulse.io", City: FilterAll},
		{Agent: FilterAll, City: "Casablanca"},
		{Agent: FilterAll, City: FilterAll, Period: ResolvePeriod(PeriodCustom, "2024-01-01", "2024-01-31", time.Now())},
	}
	for _, crit := range tighter {
		assert.LessOrEqual(t, len(Filter(records, crit)), base)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	Filter(records, Criteria{Agent: "amine@fieldpulse.io"})
	assert.Equal(t, sampleRecords(), records)
}
