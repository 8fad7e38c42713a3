package mail

type TerritoryRequestedEmailData struct {
	UserEmail   string
	ZipCode     string
	RequestID   string
	RequestedAt string
	ReviewURL   string
}

type EmailSender struct {
	From      string
	AdminTo   string
	ReviewURL string
	dialer    dialer
}
