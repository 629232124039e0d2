// Package mail delivers transactional email over SMTP.
//
// The reset flow depends only on the Sender interface, so tests swap in a
// recording sender and production wires the SMTP mailer:
//
//	mailer := mail.NewSMTP(mail.SMTPFromConfig())
//	err := mailer.Send("user@example.com", "Reset your password", html)
package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shashiranjanraj/vastra/config"
)

// Sender delivers one HTML email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTP holds connection credentials.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// SMTPFromConfig reads the MAIL_* settings.
func SMTPFromConfig() SMTP {
	return SMTP{
		Host:     config.MailHost(),
		Port:     config.MailPort(),
		Username: config.MailUsername(),
		Password: config.MailPassword(),
		From:     config.MailFrom(),
		FromName: config.MailFromName(),
	}
}

// Mailer sends mail through one SMTP account.
type Mailer struct {
	cfg SMTP
}

// NewSMTP builds a Mailer with injected credentials.
func NewSMTP(cfg SMTP) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers a single HTML email.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	cfg := m.cfg
	if cfg.Username == "" {
		return fmt.Errorf("mail: MAIL_USERNAME not configured")
	}

	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	raw := buildRaw(from, to, subject, htmlBody)

	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)

	// TLS for port 465, STARTTLS for 587/25.
	if cfg.Port == "465" {
		return m.sendTLS(addr, auth, cfg.From, to, raw, cfg.Host)
	}
	return smtp.SendMail(addr, auth, cfg.From, []string{to}, raw)
}

func (m *Mailer) sendTLS(addr string, auth smtp.Auth, from, to string, raw []byte, host string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return fmt.Errorf("mail: TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write(raw)
	return err
}

func buildRaw(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Wrap dresses a fragment of body HTML in the store's email chrome.
func Wrap(inner string) string {
	return `<div style="border:1px solid black;padding:20px;font-family:sans-serif;line-height:2;font-size:20px;">
  <h2>Hello there,</h2>
  ` + inner + `
  <p>Vastra</p>
</div>`
}
