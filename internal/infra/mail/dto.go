package mail

type LeadAlertData struct {
	Name            string
	Email           string
	Phone           string
	CountryInterest string
	Message         string
	Source          string
	Degraded        bool
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	AlertTo  string // counselor inbox for new-lead alerts
}
