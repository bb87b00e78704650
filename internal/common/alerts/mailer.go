// internal/common/alerts/mailer.go
// Package alerts delivers operator notifications for pipeline events that
// need a human decision: degenerate model artifacts and aborted batches.
package alerts

import (
	"context"
	"fmt"

	"trustmarket-leadscore/internal/common/config"
	"trustmarket-leadscore/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the subset of the SES client used here, for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Mailer sends operator alert emails through SES. A nil *Mailer is a valid
// no-op sender so call sites don't need enabled checks.
type Mailer struct {
	cfg    config.AlertsConfig
	client SESService
	logger logger.Logger
}

// New returns a configured Mailer, or nil when alerts are disabled.
func New(ctx context.Context, cfg config.AlertsConfig, log logger.Logger) (*Mailer, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Mailer{
		cfg:    cfg,
		client: ses.NewFromConfig(awsCfg),
		logger: log.WithFields(map[string]interface{}{"component": "alerts"}),
	}, nil
}

// NewWithClient builds a Mailer around an injected SES client (tests).
func NewWithClient(cfg config.AlertsConfig, client SESService, log logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, client: client, logger: log}
}

// Send delivers one alert email. Failures are logged and returned but are
// never fatal to the calling run; alerting is best effort.
func (m *Mailer) Send(ctx context.Context, subject, body string) error {
	if m == nil {
		return nil
	}

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{m.cfg.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.cfg.FromEmail),
	})
	if err != nil {
		m.logger.Error("alert send failed", map[string]interface{}{
			"subject": subject,
			"error":   err,
		})
		return err
	}

	m.logger.Info("alert sent", map[string]interface{}{"subject": subject})
	return nil
}
