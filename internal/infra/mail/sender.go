package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/leadzone/internal/entity"
)

//go:embed templates/*.html
var templatesFS embed.FS

var territoryRequestedTmpl = template.Must(template.ParseFS(templatesFS, "templates/territory_requested.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, adminTo, reviewURL string) *EmailSender {
	return &EmailSender{
		From:      from,
		AdminTo:   adminTo,
		ReviewURL: reviewURL,
		dialer:    gomail.NewDialer(host, port, user, password),
	}
}

// SendTerritoryRequested emails the admin inbox about a new pending request.
func (s *EmailSender) SendTerritoryRequested(ctx context.Context, event entity.TerritoryRequested) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := TerritoryRequestedEmailData{
		UserEmail:   event.UserEmail,
		ZipCode:     event.ZipCode,
		RequestID:   event.RequestID,
		RequestedAt: event.RequestedAt.UTC().Format(time.RFC1123),
		ReviewURL:   s.ReviewURL,
	}

	var body bytes.Buffer
	if err := territoryRequestedTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render territory request email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.AdminTo)
	m.SetHeader("Subject", fmt.Sprintf("Territory request for %s", event.ZipCode))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email via smtp: %w", err)
	}
	return nil
}

// LogNotifier stands in for the SMTP sender when mail is not configured.
type LogNotifier struct {
	Log func(msg string, event entity.TerritoryRequested)
}

func (n LogNotifier) SendTerritoryRequested(_ context.Context, event entity.TerritoryRequested) error {
	if n.Log != nil {
		n.Log("territory request received (mail disabled)", event)
	}
	return nil
}
