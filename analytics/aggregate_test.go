package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)

func TestAggregate_FunnelAndRevenue(t *testing.T) {
	records := []VisitRecord{
		{StoreName: "A", Agent: "x", Action: "acheter", Amount: "100", VisitDate: "2024-01-05"},
		{StoreName: "A", Agent: "x", Action: "visiter", VisitDate: "2024-01-10"},
		{StoreName: "B", Agent: "y", Action: "acheter", Amount: "50", VisitDate: "2024-02-01"},
	}

	report := Aggregate(records, testNow)

	assert.Equal(t, 3, report.TotalVisits)
	assert.Equal(t, 2, report.UniqueStoreCount)
	assert.Equal(t, 150.0, report.Revenue)
	assert.Equal(t, 2, report.PurchaseCount)
	assert.Equal(t, 1, report.VisitCount)
	assert.Equal(t, 0, report.RevisitCount)
	assert.Equal(t, []ClientRevenue{{Store: "A", Revenue: 100}, {Store: "B", Revenue: 50}}, report.TopClients)
}

func TestAggregate_EmptySetDegradesToZeroes(t *testing.T) {
	report := Aggregate(nil, testNow)

	assert.Equal(t, 0, report.TotalVisits)
	assert.Equal(t, 0, report.UniqueStoreCount)
	assert.Equal(t, 0.0, report.Revenue)
	assert.Empty(t, report.TopClients)
	assert.Empty(t, report.CityCounts)
	assert.Empty(t, report.AgentPerformance)
	assert.Empty(t, report.UpcomingAppointments)
	// Quality and tier maps keep their full key sets at zero so the
	// presentation layer can always render every row.
	assert.Equal(t, 0, report.QualityByUniqueStore["phone1"])
	assert.Equal(t, 0, report.TierDistribution[TierPremium])
}

func TestRun_CityFilterWithNoMatches(t *testing.T) {
	records := []VisitRecord{
		{StoreName: "A", Agent: "x", City: "Casablanca", Action: "acheter", Amount: "100", VisitDate: "2024-01-05"},
		{StoreName: "B", Agent: "y", City: "Rabat", Action: "acheter", Amount: "50", VisitDate: "2024-02-01"},
	}

	report := Run(records, FilterAll, "Tangier", PeriodAll, "", "", testNow)

	assert.Equal(t, 0, report.TotalVisits)
	assert.Equal(t, 0.0, report.Revenue)
	assert.Empty(t, report.TopClients)
}

func TestAggregate_StoreQualityCountedOncePerNormalizedKey(t *testing.T) {
	// Same store under different casing; each visit fills different
	// profile fields. Only the first occurrence counts.
	records := []VisitRecord{
		{StoreName: "Alpha Market", Agent: "x", Action: "visiter", Manager: "Karim"},
		{StoreName: "  alpha market ", Agent: "x", Action: "visiter", Phone1: "0600000000", Email: "alpha@shop.ma"},
	}

	report := Aggregate(records, testNow)

	assert.Equal(t, 1, report.UniqueStoreCount)
	assert.Equal(t, 1, report.QualityByUniqueStore["name"])
	assert.Equal(t, 1, report.QualityByUniqueStore["manager"])
	assert.Equal(t, 0, report.QualityByUniqueStore["phone1"], "second visit must not add profile counts")
	assert.Equal(t, 0, report.QualityByUniqueStore["email"])
}

func TestAggregate_TierUsesFirstSeenValuePerStore(t *testing.T) {
	records := []VisitRecord{
		{StoreName: "A", Agent: "x", Action: "visiter", Tier: "Premium"},
		{StoreName: "a", Agent: "x", Action: "visiter", Tier: "Économie"}, // same store, later tier ignored
		{StoreName: "B", Agent: "x", Action: "visiter", Tier: "Économie"},
		{StoreName: "C", Agent: "x", Action: "visiter", Tier: "Premium+Mid"},
		{StoreName: "D", Agent: "x", Action: "visiter"},          // absent tier defaults to mid
		{StoreName: "E", Agent: "x", Action: "visiter", Tier: "?"}, // unrecognized defaults to mid
	}

	report := Aggregate(records, testNow)

	assert.Equal(t, map[string]int{
		TierPremium:    1,
		TierPremiumMid: 1,
		TierMid:        2,
		TierEconomy:    1,
	}, report.TierDistribution)
}

func TestAggregate_QualityByVisitIsNotDeduplicated(t *testing.T) {
	records := []VisitRecord{
		{StoreName: "A", Agent: "x", Action: "visiter", PhotoURL: "p1.jpg", Note: "front shelf"},
		{StoreName: "A", Agent: "x", Action: "visiter", PhotoURL: "p2.jpg"},
	}

	report := Aggregate(records, testNow)

	assert.Equal(t, 2, report.QualityByVisit["photo"])
	assert.Equal(t, 1, report.QualityByVisit["note"])
	assert.Equal(t, 0, report.QualityByVisit["appointment"])
}

func TestAggregate_CompletenessBounds(t *testing.T) {
	records := sampleRecords()
	report := Aggregate(records, testNow)

	for field, count := range report.QualityByUniqueStore {
		assert.GreaterOrEqual(t, count, 0, field)
		assert.LessOrEqual(t, count, report.UniqueStoreCount, field)
	}
	for field, count := range report.QualityByVisit {
		assert.GreaterOrEqual(t, count, 0, field)
		assert.LessOrEqual(t, count, report.TotalVisits, field)
	}
	assert.LessOrEqual(t, report.UniqueStoreCount, report.TotalVisits)
}

func TestAggregate_CityCountsSortedDescendingStable(t *testing.T) {
	records := []VisitRecord{
		{StoreName: "A", Agent: "x", City: "Rabat", Action: "visiter"},
		{StoreName: "B", Agent: "x", City: "Casablanca", Action: "visiter"},
		{StoreName: "C", Agent: "x", City: "Casablanca", Action: "visiter"},
		{StoreName: "D", Agent: "x", City: "Fes", Action: "visiter"}, // ties with Rabat, Rabat seen first
	}

	report := Aggregate(records, testNow)

	assert.Equal(t, []CityCount{
		{City: "Casablanca", Visits: 2},
		{City: "Rabat", Visits: 1},
		{City: "Fes", Visits: 1},
	}, report.CityCounts)
}

func TestAggregate_TopClientsOrderedAndTruncated(t *testing.T) {
	var records []VisitRecord
	for i := 0; i < 25; i++ {
		records = append(records, VisitRecord{
			StoreName: fmt.Sprintf("Store %02d", i),
			Agent:     "x",
			Action:    "acheter",
			Amount:    fmt.Sprintf("%d", i*10),
		})
	}

	report := Aggregate(records, testNow)

	require.Len(t, report.TopClients, 20)
	assert.Equal(t, "Store 24", report.TopClients[0].Store)
	for i := 1; i < len(report.TopClients); i++ {
		assert.GreaterOrEqual(t, report.TopClients[i-1].Revenue, report.TopClients[i].Revenue)
	}
}

func TestAggregate_RevenueConservation(t *testing.T) {
	records := []VisitRecord{
		{StoreName: "A", Agent: "x", Action: "acheter", Amount: "100"},
		{StoreName: "B", Agent: "x", Action: "visiter", Amount: "9999"}, // not a purchase
		{StoreName: "C", Agent: "x", Action: "acheter", Amount: "not-a-number"},
		{StoreName: "D", Agent: "x", Action: "acheter"},
	}

	report := Aggregate(records, testNow)

	// Only purchase-action amounts accumulate; garbage coerces to 0.
	assert.Equal(t, 100.0, report.Revenue)
	assert.Equal(t, 3, report.PurchaseCount)
}

func TestAggregate_AgentPerformance(t *testing.T) {
	records := []VisitRecord{
		{StoreName: "A", Agent: "amine@fieldpulse.io", Action: "acheter", Amount: "50"},
		{StoreName: "B", Agent: "amine@fieldpulse.io", Action: "visiter"},
		{StoreName: "C", Agent: "sara@fieldpulse.io", Action: "acheter", Amount: "200"},
		{StoreName: "D", Agent: "amine@fieldpulse.io", Action: "visiter"},
	}

	report := Aggregate(records, testNow)

	require.Len(t, report.AgentPerformance, 2)
	top := report.AgentPerformance[0]
	assert.Equal(t, "sara@fieldpulse.io", top.Agent)
	assert.Equal(t, "sara", top.Name)
	assert.Equal(t, 200.0, top.Revenue)
	assert.Equal(t, 25.0, top.VisitShare)

	second := report.AgentPerformance[1]
	assert.Equal(t, "amine", second.Name)
	assert.Equal(t, 3, second.Visits)
	assert.Equal(t, 75.0, second.VisitShare)
}

func TestAggregate_UpcomingAppointments(t *testing.T) {
	records := []VisitRecord{
		{StoreName: "Past", Agent: "x", Action: "visiter", Appointment: "2024-05-14"},
		{StoreName: "Today", Agent: "x", Action: "visiter", Appointment: "2024-05-15"},
		{StoreName: "NextWeek", Agent: "x", Action: "visiter", Appointment: "2024-05-22"},
		{StoreName: "Tomorrow", Agent: "x", Action: "visiter", Appointment: "2024-05-16"},
		{StoreName: "Garbage", Agent: "x", Action: "visiter", Appointment: "whenever"},
	}

	report := Aggregate(records, testNow)

	require.Len(t, report.UpcomingAppointments, 3)
	assert.Equal(t, "Today", report.UpcomingAppointments[0].Store)
	assert.Equal(t, 0, report.UpcomingAppointments[0].DaysUntil)
	assert.Equal(t, "Tomorrow", report.UpcomingAppointments[1].Store)
	assert.Equal(t, 1, report.UpcomingAppointments[1].DaysUntil)
	assert.Equal(t, "NextWeek", report.UpcomingAppointments[2].Store)
	assert.Equal(t, 7, report.UpcomingAppointments[2].DaysUntil)

	today := startOfDay(testNow)
	for _, appt := range report.UpcomingAppointments {
		assert.False(t, appt.Date.Before(today), "no appointment may predate start-of-today")
	}
}

func TestAggregate_UpcomingAppointmentsTruncatedToTen(t *testing.T) {
	var records []VisitRecord
	for i := 0; i < 15; i++ {
		records = append(records, VisitRecord{
			StoreName:   fmt.Sprintf("S%d", i),
			Agent:       "x",
			Action:      "visiter",
			Appointment: testNow.AddDate(0, 0, i+1).Format("2006-01-02"),
		})
	}

	report := Aggregate(records, testNow)

	require.Len(t, report.UpcomingAppointments, 10)
	for i := 1; i < len(report.UpcomingAppointments); i++ {
		assert.False(t, report.UpcomingAppointments[i].Date.Before(report.UpcomingAppointments[i-1].Date))
	}
}

// Day arithmetic must hold in any deployment zone: a date-only
// appointment for today is 0 days away even when now is not UTC.
func TestAggregate_AppointmentDaysUntilInNonUTCZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2024, time.May, 15, 10, 30, 0, 0, loc)
	records := []VisitRecord{
		{StoreName: "Today", Agent: "x", Action: "visiter", Appointment: "2024-05-15"},
		{StoreName: "Yesterday", Agent: "x", Action: "visiter", Appointment: "2024-05-14"},
	}

	report := Aggregate(records, now)

	require.Len(t, report.UpcomingAppointments, 1)
	assert.Equal(t, "Today", report.UpcomingAppointments[0].Store)
	assert.Equal(t, 0, report.UpcomingAppointments[0].DaysUntil)
}

func TestAggregate_Deterministic(t *testing.T) {
	records := sampleRecords()
	first := Aggregate(records, testNow)
	second := Aggregate(records, testNow)
	assert.Equal(t, first, second)
}
