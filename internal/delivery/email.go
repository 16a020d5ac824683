package delivery

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

const mailSubject = "Your OTP Verification Code"

var htmlBody = template.Must(template.New("otp").Parse(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <h2>OTP Verification Code</h2>
      <p>Hello {{.Name}},</p>
      <p>Your OTP verification code is:</p>
      <h1 style="font-size: 32px; letter-spacing: 5px;">{{.Code}}</h1>
      <p>This code will expire in {{.Expiry}}.</p>
      <p style="color: #666; font-size: 12px;">If you didn't request this code, please ignore this email.</p>
    </div>
  </body>
</html>`))

// SMTPMailer sends codes by email. Port 465 uses implicit TLS, every other
// port requires STARTTLS.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

// Configured reports whether enough settings exist to send mail.
func (m *SMTPMailer) Configured() bool {
	return m != nil && m.Host != "" && m.Username != ""
}

func (m *SMTPMailer) build(message Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	from := m.From
	if from == "" {
		from = m.Username
	}
	if err := msg.FromFormat(m.FromName, from); err != nil {
		return nil, fmt.Errorf("email: from: %w", err)
	}
	if err := msg.To(message.Destination); err != nil {
		return nil, fmt.Errorf("email: to: %w", err)
	}
	msg.Subject(mailSubject)
	msg.SetBodyString(mail.TypeTextPlain, message.Text())

	name := message.Recipient
	if name == "" {
		name = "User"
	}
	var html strings.Builder
	if err := htmlBody.Execute(&html, struct{ Name, Code, Expiry string }{name, message.Code, humanDuration(message.ExpiresIn)}); err != nil {
		return nil, err
	}
	msg.AddAlternativeString(mail.TypeTextHTML, html.String())
	return msg, nil
}

// Send dials the SMTP server and delivers message.
func (m *SMTPMailer) Send(ctx context.Context, message Message) error {
	if !m.Configured() {
		return fmt.Errorf("email: smtp not configured: %w", ErrChannelUnavailable)
	}
	msg, err := m.build(message)
	if err != nil {
		return err
	}

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := []mail.Option{
		mail.WithPort(m.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.Username),
		mail.WithPassword(m.Password),
		mail.WithTimeout(timeout),
	}
	if m.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	client, err := mail.NewClient(m.Host, opts...)
	if err != nil {
		return fmt.Errorf("email: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("email: send: %w", err)
	}
	return nil
}
