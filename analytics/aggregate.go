package analytics

import (
	"math"
	"sort"
	"strings"
	"time"
)

const (
	topClientLimit   = 20
	appointmentLimit = 10
)

// storeProfileFields enumerates the per-store completeness attributes and
// how to read each one. Quality is measured once per unique store, on the
// first visit encountered, so repeat visits don't double-count a profile.
var storeProfileFields = []struct {
	Key string
	Get func(VisitRecord) string
}{
	{"name", func(r VisitRecord) string { return r.StoreName }},
	{"manager", func(r VisitRecord) string { return r.Manager }},
	{"city", func(r VisitRecord) string { return r.City }},
	{"region", func(r VisitRecord) string { return r.Region }},
	{"address", func(r VisitRecord) string { return r.Address }},
	{"phone1", func(r VisitRecord) string { return r.Phone1 }},
	{"phone2", func(r VisitRecord) string { return r.Phone2 }},
	{"phone", func(r VisitRecord) string { return r.Phone }},
	{"tier", func(r VisitRecord) string { return r.Tier }},
	{"email", func(r VisitRecord) string { return r.Email }},
	{"gps", func(r VisitRecord) string { return r.GPS }},
}

// visitLevelFields are interaction-level attributes, counted per visit
// rather than per unique store.
var visitLevelFields = []struct {
	Key string
	Get func(VisitRecord) string
}{
	{"photo", func(r VisitRecord) string { return r.PhotoURL }},
	{"note", func(r VisitRecord) string { return r.Note }},
	{"appointment", func(r VisitRecord) string { return r.Appointment }},
}

type clientEntry struct {
	name    string
	revenue float64
}

type agentEntry struct {
	visits  int
	revenue float64
}

// Aggregate derives the full metrics report from an already-filtered
// record set in a single pass plus a few grouped reductions. It never
// mutates its input and is deterministic: identical inputs produce
// identical reports. now anchors the upcoming-appointment queue.
func Aggregate(records []VisitRecord, now time.Time) Report {
	report := Report{
		QualityByUniqueStore: make(map[string]int, len(storeProfileFields)),
		QualityByVisit:       make(map[string]int, len(visitLevelFields)),
		TierDistribution: map[string]int{
			TierPremium:    0,
			TierPremiumMid: 0,
			TierMid:        0,
			TierEconomy:    0,
		},
		CityCounts:           []CityCount{},
		TopClients:           []ClientRevenue{},
		AgentPerformance:     []AgentStats{},
		UpcomingAppointments: []Appointment{},
	}
	for _, f := range storeProfileFields {
		report.QualityByUniqueStore[f.Key] = 0
	}
	for _, f := range visitLevelFields {
		report.QualityByVisit[f.Key] = 0
	}

	today := startOfDay(now)

	storeSeen := make(map[string]bool)
	cityTotals := make(map[string]int)
	var cityOrder []string
	clients := make(map[string]*clientEntry)
	var clientOrder []string
	agents := make(map[string]*agentEntry)
	var agentOrder []string

	for _, r := range records {
		report.TotalVisits++

		// First occurrence of a store carries its profile quality and tier.
		key := StoreKey(r.StoreName)
		if !storeSeen[key] {
			storeSeen[key] = true
			for _, f := range storeProfileFields {
				if strings.TrimSpace(f.Get(r)) != "" {
					report.QualityByUniqueStore[f.Key]++
				}
			}
			report.TierDistribution[NormalizeTier(r.Tier)]++
		}

		for _, f := range visitLevelFields {
			if strings.TrimSpace(f.Get(r)) != "" {
				report.QualityByVisit[f.Key]++
			}
		}

		switch NormalizeAction(r.Action) {
		case ActionPurchase:
			report.PurchaseCount++
			amount := parseNumber(r.Amount)
			report.Revenue += amount
			report.TotalQuantity += parseNumber(r.Quantity)
			entry, ok := clients[key]
			if !ok {
				entry = &clientEntry{name: strings.TrimSpace(r.StoreName)}
				clients[key] = entry
				clientOrder = append(clientOrder, key)
			}
			entry.revenue += amount
		case ActionRevisit:
			report.RevisitCount++
		case ActionVisit:
			report.VisitCount++
		}

		if city := r.City; city != "" {
			if _, ok := cityTotals[city]; !ok {
				cityOrder = append(cityOrder, city)
			}
			cityTotals[city]++
		}

		entry, ok := agents[r.Agent]
		if !ok {
			entry = &agentEntry{}
			agents[r.Agent] = entry
			agentOrder = append(agentOrder, r.Agent)
		}
		entry.visits++
		if NormalizeAction(r.Action) == ActionPurchase {
			entry.revenue += parseNumber(r.Amount)
		}

		if appt, ok := parseDate(r.Appointment, now.Location()); ok && !startOfDay(appt).Before(today) {
			report.UpcomingAppointments = append(report.UpcomingAppointments, Appointment{
				Store:     strings.TrimSpace(r.StoreName),
				Agent:     AgentDisplayName(r.Agent),
				City:      r.City,
				Date:      appt,
				DaysUntil: int(math.Ceil(appt.Sub(today).Hours() / 24)),
			})
		}
	}

	report.UniqueStoreCount = len(storeSeen)

	for _, city := range cityOrder {
		report.CityCounts = append(report.CityCounts, CityCount{City: city, Visits: cityTotals[city]})
	}
	sort.SliceStable(report.CityCounts, func(i, j int) bool {
		return report.CityCounts[i].Visits > report.CityCounts[j].Visits
	})

	for _, key := range clientOrder {
		report.TopClients = append(report.TopClients, ClientRevenue{
			Store:   clients[key].name,
			Revenue: clients[key].revenue,
		})
	}
	sort.SliceStable(report.TopClients, func(i, j int) bool {
		return report.TopClients[i].Revenue > report.TopClients[j].Revenue
	})
	if len(report.TopClients) > topClientLimit {
		report.TopClients = report.TopClients[:topClientLimit]
	}

	for _, agent := range agentOrder {
		entry := agents[agent]
		var share float64
		if report.TotalVisits > 0 {
			share = float64(entry.visits) / float64(report.TotalVisits) * 100
		}
		report.AgentPerformance = append(report.AgentPerformance, AgentStats{
			Agent:      agent,
			Name:       AgentDisplayName(agent),
			Visits:     entry.visits,
			Revenue:    entry.revenue,
			VisitShare: share,
		})
	}
	sort.SliceStable(report.AgentPerformance, func(i, j int) bool {
		return report.AgentPerformance[i].Revenue > report.AgentPerformance[j].Revenue
	})

	sort.SliceStable(report.UpcomingAppointments, func(i, j int) bool {
		return report.UpcomingAppointments[i].Date.Before(report.UpcomingAppointments[j].Date)
	})
	if len(report.UpcomingAppointments) > appointmentLimit {
		report.UpcomingAppointments = report.UpcomingAppointments[:appointmentLimit]
	}

	return report
}

// Run is the whole pipeline: resolve the period, filter the raw records
// and aggregate the survivors. Callers re-run it whenever records or
// criteria change; there is no partial-result caching inside the engine.
func Run(records []VisitRecord, agent, city, selector, explicitStart, explicitEnd string, now time.Time) Report {
	crit := Criteria{
		Agent:  agent,
		City:   city,
		Period: ResolvePeriod(selector, explicitStart, explicitEnd, now),
	}
	return Aggregate(Filter(records, crit), now)
}
