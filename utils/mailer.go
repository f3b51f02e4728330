package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"fieldpulse/config"
)

// reminderTemplate is the appointment reminder email body.
var reminderTemplate = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Appointment reminder</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .store { font-size: 18px; font-weight: bold; color: #3498db; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Upcoming store appointment</h2>
    </div>

    <p>Hello {{.AgentName}},</p>
    <p>You have an appointment scheduled for <strong>{{.Date}}</strong> at:</p>
    <p class="store">{{.StoreName}}{{if .City}} — {{.City}}{{end}}</p>
    {{if .Address}}<p>{{.Address}}</p>{{end}}

    <div class="footer">
        <p>© {{.Year}} FieldPulse. This reminder was sent automatically.</p>
    </div>
</body>
</html>`))

// ReminderEmail carries the data rendered into the reminder template.
type ReminderEmail struct {
	AgentName string
	StoreName string
	City      string
	Address   string
	Date      string
	Year      int
}

// SendAppointmentReminder emails an agent about an upcoming appointment.
func SendAppointmentReminder(to string, data ReminderEmail) error {
	smtp := config.AppConfig.SMTP
	if smtp.Host == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	data.Year = time.Now().Year()
	var body bytes.Buffer
	if err := reminderTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render reminder email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtp.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Reminder: %s on %s", data.StoreName, data.Date))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	return nil
}
