// Package main is the entrypoint for the shipment-notification batch.
//
// Startup sequence:
//  1. Load and validate configuration (fail fast).
//  2. Build the structured logger.
//  3. Load the two template bodies and the three source tables.
//  4. Construct the carrier service, mailer, and metrics per config.
//  5. Run the orchestrator once over every distinct slip ID.
//
// Per-slip failures never abort the run; a non-zero exit means setup
// failed before the batch started.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"shipnotify/internal/batch"
	"shipnotify/internal/carrier"
	"shipnotify/internal/config"
	"shipnotify/internal/mailer"
	"shipnotify/internal/notify"
	"shipnotify/internal/records"
	"shipnotify/internal/types"
)

// slogAdapter wraps *slog.Logger to implement types.Logger. slog
// satisfies Info/Warn/Error directly, but With returns *slog.Logger
// rather than types.Logger, so an adapter is necessary.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "notifier: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting notifier",
		"env", cfg.Environment,
		"mail_provider", cfg.Mail.Provider,
		"carrier_stub", cfg.Carrier.Stub,
	)

	standardTmpl, err := os.ReadFile(cfg.Template.StandardPath)
	if err != nil {
		return fmt.Errorf("cannot read standard template: %w", err)
	}
	partnerTmpl, err := os.ReadFile(cfg.Template.LargePartnerPath)
	if err != nil {
		return fmt.Errorf("cannot read large-partner template: %w", err)
	}

	store, err := records.Load(ctx, records.LoaderConfig{
		ContactsPath:  cfg.Tables.ContactsPath,
		ShipmentsPath: cfg.Tables.ShipmentsPath,
		SlipsPath:     cfg.Tables.SlipsPath,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	carrierSvc, err := buildCarrier(cfg, logger)
	if err != nil {
		return err
	}

	m, metrics, err := buildMailerAndMetrics(ctx, cfg, logger)
	if err != nil {
		return err
	}

	filler := notify.NewFiller(notify.FillerConfig{
		Standard:        string(standardTmpl),
		LargePartner:    string(partnerTmpl),
		TrackingWebRoot: cfg.Carrier.WebRoot,
		Logger:          logger,
	})
	builder := notify.NewBuilder(notify.BuilderConfig{
		Store:        store,
		Carrier:      carrierSvc,
		Filler:       filler,
		SentinelCode: cfg.Batch.PartnerSentinelCode,
		Placeholder:  cfg.Batch.MissingPlaceholder,
		Logger:       logger,
	})

	orch := batch.New(batch.OrchestratorConfig{
		Store:   store,
		Builder: builder,
		Mailer:  m,
		Metrics: metrics,
		Logger:  logger,
		Options: batch.Options{
			Sender: types.SenderIdentity{
				Name:    cfg.Mail.FromName,
				Address: cfg.Mail.FromAddress,
			},
			InternalSenderName:       cfg.Mail.InternalFromName,
			SubjectStandard:          cfg.Mail.SubjectStandard,
			SubjectLargePartner:      cfg.Mail.SubjectLargePartner,
			RecordsAddress:           cfg.Mail.RecordsAddress,
			ContactUpdateAddress:     cfg.Mail.ContactUpdateAddress,
			Placeholder:              cfg.Batch.MissingPlaceholder,
			TestMode:                 cfg.Batch.TestMode,
			TestCustomerAddress:      cfg.Batch.TestCustomerAddress,
			TestRecordsAddress:       cfg.Batch.TestRecordsAddress,
			TestContactUpdateAddress: cfg.Batch.TestContactUpdateAddress,
		},
	})

	report, err := orch.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("notifier finished",
		"run_id", report.RunID,
		"slips", report.Slips,
		"sent", report.Sent,
		"escalated", report.Escalated,
		"failed", report.Failed,
	)
	return nil
}

func newLogger(level string) types.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return &slogAdapter{logger: slog.New(handler)}
}

func buildCarrier(cfg *config.Config, logger types.Logger) (types.CarrierService, error) {
	if cfg.Carrier.Stub {
		return &carrier.StubService{Logger: logger}, nil
	}
	endpoint := carrier.ProductionEndpoint
	if cfg.Carrier.UseTestEndpoint {
		endpoint = carrier.TestEndpoint
	}
	return carrier.NewUPSClient(carrier.UPSConfig{
		Endpoint: endpoint,
		Credentials: carrier.Credentials{
			AccessLicense: cfg.Carrier.AccessLicense,
			UserID:        cfg.Carrier.UserID,
			Password:      cfg.Carrier.Password,
		},
		Timeout: cfg.Carrier.Timeout,
		Logger:  logger,
	})
}

func buildMailerAndMetrics(ctx context.Context, cfg *config.Config, logger types.Logger) (types.Mailer, batch.Metrics, error) {
	var metrics batch.Metrics = batch.NopMetrics{}

	needsAWS := cfg.Mail.Provider == "ses" || cfg.Metrics.Enabled
	if needsAWS {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Mail.SES.Region))
		if err != nil {
			return nil, nil, fmt.Errorf("cannot load AWS config: %w", err)
		}
		if cfg.Metrics.Enabled {
			metrics = batch.NewCloudWatchMetrics(cloudwatch.NewFromConfig(awsCfg), logger)
		}
		if cfg.Mail.Provider == "ses" {
			ses := mailer.NewSESMailer(awsCfg, mailer.SESMailerConfig{
				ConfigSetName: cfg.Mail.SES.ConfigSetName,
				Logger:        logger,
			})
			return ses, metrics, nil
		}
	}

	switch cfg.Mail.Provider {
	case "smtp":
		return mailer.NewSMTPMailer(mailer.SMTPMailerConfig{
			Host:     cfg.Mail.SMTP.Host,
			Port:     cfg.Mail.SMTP.Port,
			Username: cfg.Mail.SMTP.Username,
			Password: cfg.Mail.SMTP.Password,
			Timeout:  cfg.Mail.SMTP.Timeout,
			Logger:   logger,
		}), metrics, nil
	case "simulation":
		return mailer.NewSimulationMailer(cfg.Mail.SimulationDir, logger), metrics, nil
	default:
		return nil, nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
	}
}
