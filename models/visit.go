package models

import (
	"time"

	"gorm.io/gorm"

	"fieldpulse/analytics"
)

// Visit is one logged agent/store interaction as stored. Date, amount and
// quantity columns are text on purpose: rows arrive from CSV imports and
// an offline-first mobile form that does not validate them, and the
// analytics engine is specified to coerce rather than reject. The raw
// value is kept so nothing is lost between import and aggregation.
type Visit struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	StoreName string `gorm:"not null;index" json:"store_name"`
	Agent     string `gorm:"index" json:"agent"` // login of the agent who visited
	VisitDate string `json:"visit_date"`
	Action    string `json:"action"` // free text, normalized by the engine
	Amount    string `json:"amount"`
	Quantity  string `json:"quantity"`

	// Store profile snapshot taken during the visit
	Manager string `json:"manager"`
	City    string `gorm:"index" json:"city"`
	Region  string `json:"region"`
	Address string `json:"address"`
	Phone1  string `json:"phone1"`
	Phone2  string `json:"phone2"`
	Phone   string `json:"phone"`
	Tier    string `json:"tier"`
	Email   string `json:"email"`
	GPS     string `json:"gps"`

	// Interaction-level attachments
	PhotoURL    string `json:"photo_url"`
	Note        string `gorm:"type:text" json:"note"`
	Appointment string `json:"appointment"`

	// Reminder bookkeeping for the appointment worker
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
}

// ToRecord converts a stored visit into the engine's record shape.
func (v Visit) ToRecord() analytics.VisitRecord {
	return analytics.VisitRecord{
		StoreName:   v.StoreName,
		Agent:       v.Agent,
		VisitDate:   v.VisitDate,
		CreatedDate: v.CreatedAt.Format(time.RFC3339),
		Action:      v.Action,
		Amount:      v.Amount,
		Quantity:    v.Quantity,
		Manager:     v.Manager,
		City:        v.City,
		Region:      v.Region,
		Address:     v.Address,
		Phone1:      v.Phone1,
		Phone2:      v.Phone2,
		Phone:       v.Phone,
		Tier:        v.Tier,
		Email:       v.Email,
		GPS:         v.GPS,
		PhotoURL:    v.PhotoURL,
		Note:        v.Note,
		Appointment: v.Appointment,
	}
}

// VisitRecords converts a stored slice for the engine, preserving order.
func VisitRecords(visits []Visit) []analytics.VisitRecord {
	records := make([]analytics.VisitRecord, 0, len(visits))
	for _, v := range visits {
		records = append(records, v.ToRecord())
	}
	return records
}
