package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/infra/mail"
	"github.com/isomerpages/site-provisioner/internal/infra/metrics"
)

const errorTemplate = `
We were unable to perform the operation for {{.RepoName}}.

Please follow up by sending a mail to {{.SupportEmail}},
quoting the submission id [{{.SubmissionID}}] and the following error:

{{.Error}}
`

// NotifyOutcome sends the single outcome mail for a request. Transport
// failures are logged and counted, never returned: a request's outcome
// does not change because its notification could not be delivered.
type NotifyOutcome struct {
	transport    mail.Transport
	supportEmail string
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewNotifyOutcome(transport mail.Transport, supportEmail string, m *metrics.Metrics, logger *slog.Logger) *NotifyOutcome {
	return &NotifyOutcome{
		transport:    transport,
		supportEmail: supportEmail,
		metrics:      m,
		logger:       logger,
	}
}

func (c *NotifyOutcome) Notify(ctx context.Context, record dto.OutcomeRecord) {
	outcome := "success"
	subject := fmt.Sprintf("[Isomer] Success in %v %v", record.Action, record.RepoName)
	tmpl := record.SuccessTemplate
	if record.Err != nil {
		outcome = "error"
		subject = fmt.Sprintf("[Isomer] Error %v %v", record.Action, record.RepoName)
		tmpl = errorTemplate
	}

	body, err := c.render(tmpl, record)
	if err != nil {
		c.logger.Error("outcome mail not rendered", "submissionId", record.SubmissionID, "err", err)
		c.metrics.OutcomeMails.WithLabelValues(outcome, "failed").Inc()
		return
	}

	msg := mail.Message{
		To:      record.To,
		Cc:      []string{c.supportEmail},
		Subject: subject,
		Body:    body,
	}
	if err := c.transport.Send(ctx, msg); err != nil {
		c.logger.Error("outcome mail not delivered", "submissionId", record.SubmissionID, "err", err)
		c.metrics.OutcomeMails.WithLabelValues(outcome, "failed").Inc()
		return
	}
	c.metrics.OutcomeMails.WithLabelValues(outcome, "sent").Inc()
}

func (c *NotifyOutcome) render(tmpl string, record dto.OutcomeRecord) (string, error) {
	t, err := template.New("outcome").Parse(tmpl)
	if err != nil {
		return "", err
	}

	data := map[string]any{
		"RepoName":     record.RepoName,
		"SubmissionID": record.SubmissionID,
		"SupportEmail": c.supportEmail,
	}
	if record.Err != nil {
		data["Error"] = record.Err.Error()
	}
	for k, v := range record.Data {
		data[k] = v
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
