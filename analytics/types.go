package analytics

import "time"

// Action is the funnel stage of a visit after normalization.
const (
	ActionVisit    = "visit"
	ActionRevisit  = "revisit"
	ActionPurchase = "purchase"
	ActionUnset    = "unset"
)

// Tier is a store's value classification after normalization.
const (
	TierPremium    = "premium"
	TierPremiumMid = "premium+mid"
	TierMid        = "mid"
	TierEconomy    = "economy"
)

// VisitRecord is one logged agent/store interaction as it comes out of
// storage. Dates, amounts and quantities are kept as raw text because the
// records arrive from CSV imports and an unvalidated mobile form; the
// engine coerces them and never rejects a record over a malformed field.
type VisitRecord struct {
	StoreName   string `json:"store_name"`
	Agent       string `json:"agent"`
	VisitDate   string `json:"visit_date"`
	CreatedDate string `json:"created_date"` // fallback when visit_date is empty
	Action      string `json:"action"`
	Amount      string `json:"amount"`
	Quantity    string `json:"quantity"`
	Manager     string `json:"manager"`
	City        string `json:"city"`
	Region      string `json:"region"`
	Address     string `json:"address"`
	Phone1      string `json:"phone1"`
	Phone2      string `json:"phone2"`
	Phone       string `json:"phone"`
	Tier        string `json:"tier"`
	Email       string `json:"email"`
	GPS         string `json:"gps"`
	PhotoURL    string `json:"photo_url"`
	Note        string `json:"note"`
	Appointment string `json:"appointment"`
}

// Timestamp returns the record's parsed timestamp in loc, preferring the
// visit date and falling back to the creation date. ok is false when
// neither field parses.
func (r VisitRecord) Timestamp(loc *time.Location) (time.Time, bool) {
	if ts, ok := parseDate(r.VisitDate, loc); ok {
		return ts, true
	}
	return parseDate(r.CreatedDate, loc)
}

// CityCount is the number of visits logged in one city.
type CityCount struct {
	City   string `json:"city"`
	Visits int    `json:"visits"`
}

// ClientRevenue is a store's cumulative purchase revenue.
type ClientRevenue struct {
	Store   string  `json:"store"`
	Revenue float64 `json:"revenue"`
}

// AgentStats is one agent's leaderboard row.
type AgentStats struct {
	Agent      string  `json:"agent"`
	Name       string  `json:"name"`
	Visits     int     `json:"visits"`
	Revenue    float64 `json:"revenue"`
	VisitShare float64 `json:"visitShare"` // percentage of total visits
}

// Appointment is one upcoming scheduled follow-up.
type Appointment struct {
	Store     string    `json:"store"`
	Agent     string    `json:"agent"`
	City      string    `json:"city"`
	Date      time.Time `json:"date"`
	DaysUntil int       `json:"daysUntil"`
}

// Report is the full set of derived dashboard metrics for one filtered
// record set. Quality entries are raw counts; turning them into
// percentages (and any rounding) is the caller's job.
type Report struct {
	TotalVisits      int     `json:"totalVisits"`
	UniqueStoreCount int     `json:"uniqueStoreCount"`
	Revenue          float64 `json:"revenue"`
	TotalQuantity    float64 `json:"totalQuantity"`
	PurchaseCount    int     `json:"purchaseCount"`
	RevisitCount     int     `json:"revisitCount"`
	VisitCount       int     `json:"visitCount"`

	QualityByUniqueStore map[string]int `json:"qualityByUniqueStore"`
	QualityByVisit       map[string]int `json:"qualityByVisit"`
	TierDistribution     map[string]int `json:"tierDistribution"`

	CityCounts           []CityCount     `json:"cityCounts"`
	TopClients           []ClientRevenue `json:"topClients"`
	AgentPerformance     []AgentStats    `json:"agentPerformance"`
	UpcomingAppointments []Appointment   `json:"upcomingAppointments"`
}
