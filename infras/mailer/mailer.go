package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"stays/config"
	"stays/infras/otel"
	"stays/shared/constant"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrNotConfigured = errors.New("smtp host is not configured")

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	cfg  *config.Config
	otel otel.Otel
	send sendFunc
}

func New(cfg *config.Config, ot otel.Otel) Mailer {
	return &smtpMailer{
		cfg:  cfg,
		otel: ot,
		send: smtp.SendMail,
	}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string) (err error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".smtp.Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	smtpCfg := m.cfg.External.SMTP
	if smtpCfg.Host == "" {
		return ErrNotConfigured
	}

	var auth smtp.Auth
	if smtpCfg.Username != "" {
		auth = smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)
	}

	from := smtpCfg.From
	if from == "" {
		from = smtpCfg.Username
	}

	addr := net.JoinHostPort(smtpCfg.Host, smtpCfg.Port)

	if err = m.send(addr, auth, from, []string{to}, buildMessage(from, to, subject, htmlBody)); err != nil {
		log.Error().Err(err).Str("to", to).Msg("failed to send email")

		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("email sent")

	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	return []byte(b.String())
}
