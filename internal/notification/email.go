// Package notification delivers organization lifecycle emails to admins.
package notification

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/tendant/simple-orgs/pkg/domain"
)

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// EmailService sends notifications over SMTP.
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

func (s *EmailService) SendOrganizationCreated(to string, org *domain.Organization) error {
	subject := fmt.Sprintf("Organization %s created", org.Name)
	body := fmt.Sprintf(`<html><body>
		<h2>Your organization is ready</h2>
		<p>The organization <strong>%s</strong> has been created and you are its admin.</p>
		<p>Your data is stored in the collection <code>%s</code>.</p>
	</body></html>`, html.EscapeString(org.Name), html.EscapeString(org.CollectionName))
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) SendOrganizationRenamed(to string, org *domain.Organization, previousName string) error {
	subject := fmt.Sprintf("Organization renamed to %s", org.Name)
	body := fmt.Sprintf(`<html><body>
		<h2>Organization renamed</h2>
		<p>Your organization <strong>%s</strong> is now called <strong>%s</strong>.</p>
		<p>Its data has moved to the collection <code>%s</code>.</p>
		<p>If you did not make this change, sign in and review your account.</p>
	</body></html>`, html.EscapeString(previousName), html.EscapeString(org.Name), html.EscapeString(org.CollectionName))
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	msg := s.buildMessage(to, subject, body)
	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return s.send(addr, auth, s.config.From, []string{to}, msg)
}

func (s *EmailService) buildMessage(to, subject, body string) []byte {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	// Header values must not carry line breaks.
	subject = strings.NewReplacer("\r", "", "\n", "").Replace(subject)

	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body))
}
