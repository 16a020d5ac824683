// Package delivery hands one-time codes to the channel that reaches a
// contact address: SMS for phone numbers, email otherwise.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// KindOTP marks a one-time code message.
const KindOTP = "otp"

// ErrChannelUnavailable is returned when the channel for a destination is not
// configured.
var ErrChannelUnavailable = errors.New("delivery: channel not configured")

// Message describes an outbound code delivery.
type Message struct {
	Kind        string
	Destination string
	Recipient   string
	Code        string
	ExpiresIn   time.Duration
}

// Text renders the plain text body.
func (m Message) Text() string {
	name := m.Recipient
	if name == "" {
		name = "User"
	}
	return fmt.Sprintf("Hello %s,\n\nYour verification code is: %s\n\nThis code will expire in %s.\n\nIf you didn't request this code, please ignore this message.\n",
		name, m.Code, humanDuration(m.ExpiresIn))
}

func humanDuration(d time.Duration) string {
	if d <= 0 {
		return "a few minutes"
	}
	if d%time.Minute == 0 {
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	}
	return d.String()
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// IsEmail reports whether a destination should go to the mail channel.
func IsEmail(destination string) bool {
	return strings.Contains(destination, "@")
}

// LoggerSender writes codes to the structured logger. It is the development
// channel and must not be used in production.
type LoggerSender struct {
	logger *slog.Logger
}

// NewLoggerSender constructs a logging sender.
func NewLoggerSender(logger *slog.Logger) *LoggerSender {
	return &LoggerSender{logger: logger}
}

// Send logs the destination and code.
func (s *LoggerSender) Send(_ context.Context, message Message) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Warn("dev delivery: code not sent",
		"kind", message.Kind,
		"destination", message.Destination,
		"code", message.Code,
		"expires_in", message.ExpiresIn.String(),
	)
	return nil
}

// Router picks SMS or email by destination. A nil channel falls back to dev
// when set, else fails with ErrChannelUnavailable.
type Router struct {
	SMS   Sender
	Email Sender
	Dev   Sender
}

// Send dispatches message to the matching channel.
func (r *Router) Send(ctx context.Context, message Message) error {
	channel := r.SMS
	if IsEmail(message.Destination) {
		channel = r.Email
	}
	if channel == nil {
		channel = r.Dev
	}
	if channel == nil {
		return ErrChannelUnavailable
	}
	return channel.Send(ctx, message)
}
