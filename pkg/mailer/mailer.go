// Package mailer delivers transactional email over SMTP or the MailerSend API.
package mailer

import (
	"context"

	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks MailerSend when an API key is configured, SMTP when a host and
// sender are configured, and a log-only mailer otherwise.
func New(config utils.EmailConfig, log *zap.Logger) Mailer {
	switch {
	case config.MailerSendAPIKey != "" && config.From != "":
		log.Info("Using MailerSend mailer")
		return NewMailerSend(config.MailerSendAPIKey, config.MailerSendFromName, config.From)
	case config.Host != "" && config.From != "" && config.User != "":
		log.Info("Using SMTP mailer", zap.String("host", config.Host), zap.Int("port", config.Port))
		return NewSMTP(config.Host, config.Port, config.From, config.User, config.Password, config.UseTLS)
	default:
		log.Warn("No mail transport configured, emails will only be logged")
		return NewLogMailer(log)
	}
}

type logMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{log: log.With(zap.String("mailer", "log"))}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("Email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
