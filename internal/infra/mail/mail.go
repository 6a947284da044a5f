// Package mail delivers outcome notifications.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/isomerpages/site-provisioner/internal/application/errs"
)

type Message struct {
	To      []string
	Cc      []string
	Subject string
	Body    string
}

type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// NewTransport returns the SES transport in production and a log-only
// transport everywhere else.
func NewTransport(production bool, from string, awsCfg aws.Config, logger *slog.Logger) Transport {
	if production {
		return &SESTransport{
			client: sesv2.NewFromConfig(awsCfg),
			from:   from,
		}
	}
	return &LogTransport{logger: logger}
}

type SESTransport struct {
	client *sesv2.Client
	from   string
}

func (t *SESTransport) Send(ctx context.Context, msg Message) error {
	_, err := t.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(t.from),
		Destination: &types.Destination{
			ToAddresses: msg.To,
			CcAddresses: msg.Cc,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body)},
				},
			},
		},
	})
	if err != nil {
		return errs.MailTransportError{Err: fmt.Errorf("ses send: %w", err)}
	}
	return nil
}

// LogTransport stands in for real delivery outside production.
type LogTransport struct {
	logger *slog.Logger
}

func (t *LogTransport) Send(_ context.Context, msg Message) error {
	t.logger.Info("mail suppressed outside production",
		"to", msg.To, "cc", msg.Cc, "subject", msg.Subject, "body", msg.Body)
	return nil
}
