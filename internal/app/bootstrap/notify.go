package bootstrap

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/wolfman30/realestate-site/cmd/mainconfig"
	appconfig "github.com/wolfman30/realestate-site/internal/config"
	"github.com/wolfman30/realestate-site/internal/leads"
	"github.com/wolfman30/realestate-site/internal/notify"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

// BuildEmailSender prefers SendGrid, then SES, then the logging stub.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.SendGridAPIKey) != "" {
		logger.Info("lead notifications via sendgrid")
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	}
	if strings.TrimSpace(cfg.SESFromEmail) != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("failed to load aws config; lead emails disabled", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		logger.Info("lead notifications via SES", "region", cfg.AWSRegion)
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	}
	return notify.NewStubEmailSender(logger)
}

// BuildNotifier returns nil when NOTIFY_EMAIL is unset.
func BuildNotifier(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) leads.Notifier {
	if strings.TrimSpace(cfg.NotifyEmail) == "" {
		return nil
	}
	return notify.NewService(BuildEmailSender(ctx, cfg, logger), cfg.NotifyEmail, logger)
}
