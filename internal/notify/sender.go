package notify

import (
	"bytes"
	"context"

	"github.com/Abhinavj12/hackfest-2025/internal/config"
	"github.com/Abhinavj12/hackfest-2025/internal/model"
	"github.com/Abhinavj12/hackfest-2025/pkg/logger"
	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var ErrDelivery = errors.New("confirmation email delivery failed")

type Sender interface {
	Send(ctx context.Context, team *model.Team) error
}

type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type SMTPSender struct {
	from     string
	composer *Composer
	client   mailClient
}

// NewSender returns an SMTP sender, or a sender that only logs when SMTP credentials are missing.
func NewSender(cfg config.SMTP, event config.Event) (Sender, error) {
	if !cfg.Configured() {
		return NopSender{}, nil
	}
	return NewSMTPSender(cfg, NewComposer(event))
}

func NewSMTPSender(cfg config.SMTP, composer *Composer) (*SMTPSender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smtp client")
	}

	return &SMTPSender{
		from:     cfg.Sender(),
		composer: composer,
		client:   client,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, team *model.Team) error {
	msg, err := s.message(team)
	if err != nil {
		return errors.Wrap(ErrDelivery, err.Error())
	}

	if err = s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(ErrDelivery, err.Error())
	}
	return nil
}

func (s *SMTPSender) message(team *model.Team) (*mail.Msg, error) {
	email, err := s.composer.Compose(team)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err = msg.From(s.from); err != nil {
		return nil, errors.Wrap(err, "invalid sender address")
	}
	if err = msg.To(team.Email); err != nil {
		return nil, errors.Wrap(err, "invalid recipient address")
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)

	if err = msg.EmbedReader(qrFileName, bytes.NewReader(email.CheckinQR), mail.WithFileContentID("<"+qrContentID+">")); err != nil {
		return nil, errors.Wrap(err, "failed to embed check-in code")
	}
	return msg, nil
}

// NopSender is used when no SMTP credentials are configured.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, team *model.Team) error {
	logger.FromContext(ctx).Info("email service not configured, skipping confirmation email",
		zap.String("team_id", team.ID))
	return nil
}
