package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/admitglobal/referral-backend/internal/infra/queue"
)

func NewEmailSender(host string, port int, user, password, from, alertTo string) *EmailSender {
	if from == "" {
		from = "no-reply@admitglobal.com"
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		AlertTo:  alertTo,
	}
}

var leadAlertTmpl = template.Must(template.New("lead_alert").Parse(`A new lead just came in.

Name:    {{.Name}}
Email:   {{.Email}}
Phone:   {{if .Phone}}{{.Phone}}{{else}}-{{end}}
Country: {{if .CountryInterest}}{{.CountryInterest}}{{else}}-{{end}}
Source:  {{if .Source}}{{.Source}}{{else}}website{{end}}
{{if .Message}}
Message:
{{.Message}}
{{end}}{{if .Degraded}}
NOTE: captured in degraded mode (fallback store). Re-check once the primary store is back.
{{end}}`))

// SendLeadAlert emails the counselor inbox about a freshly captured lead.
func (s *EmailSender) SendLeadAlert(payload queue.LeadCreatedPayload) error {
	if s.AlertTo == "" {
		return fmt.Errorf("no alert inbox configured")
	}

	data := LeadAlertData{
		Name:            payload.Name,
		Email:           payload.Email,
		Phone:           payload.Phone,
		CountryInterest: payload.CountryInterest,
		Message:         payload.Message,
		Source:          payload.Source,
		Degraded:        payload.Fallback,
	}

	var body bytes.Buffer
	if err := leadAlertTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering lead alert: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.AlertTo)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s <%s>", payload.Name, payload.Email))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending lead alert over SMTP: %w", err)
	}

	return nil
}
