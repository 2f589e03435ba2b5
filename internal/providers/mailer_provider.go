package providers

import (
	"context"
	"fmt"
	"journald/internal/models"
	"journald/internal/structures"

	"github.com/wneessen/go-mail"
	"golang.org/x/time/rate"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

type MailerInterface interface {
	Enabled() bool
	Send(ctx context.Context, msg Message) error
}

type SMTPMailer struct {
	from     string
	fromName string
	limiter  *rate.Limiter
	deliver  func(ctx context.Context, msg *mail.Msg) error
}

func NewMailerProvider(conf *structures.Config, logger Logger) (MailerInterface, error) {
	if !conf.Mail.Configured() {
		logger.Warnf(TypeMail, "GMAIL_USER or GMAIL_APP_PASSWORD not set, email features are disabled")
		return &disabledMailer{}, nil
	}

	client, err := mail.NewClient(conf.Mail.Host,
		mail.WithPort(conf.Mail.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithUsername(conf.Mail.User),
		mail.WithPassword(conf.Mail.AppPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return newSMTPMailer(conf.Mail, func(ctx context.Context, msg *mail.Msg) error {
		return client.DialAndSendWithContext(ctx, msg)
	}), nil
}

func newSMTPMailer(conf structures.MailConfig, deliver func(ctx context.Context, msg *mail.Msg) error) *SMTPMailer {
	limit := rate.Inf
	if conf.RatePerSecond > 0 {
		limit = rate.Limit(conf.RatePerSecond)
	}
	return &SMTPMailer{
		from:     conf.User,
		fromName: conf.FromName,
		limiter:  rate.NewLimiter(limit, 1),
		deliver:  deliver,
	}
}

func (m *SMTPMailer) Enabled() bool { return true }

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out, err := m.build(msg)
	if err != nil {
		return err
	}
	if err = m.limiter.Wait(ctx); err != nil {
		return err
	}
	if err = m.deliver(ctx, out); err != nil {
		return fmt.Errorf("sending mail to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.FromFormat(m.fromName, m.from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	var err error
	if msg.ToName != "" {
		err = out.AddToFormat(msg.ToName, msg.To)
	} else {
		err = out.To(msg.To)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return out, nil
}

type disabledMailer struct{}

func (d *disabledMailer) Enabled() bool { return false }

func (d *disabledMailer) Send(_ context.Context, _ Message) error {
	return models.ErrMailerDisabled
}
