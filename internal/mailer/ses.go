// Package mailer provides the Mailer implementations: AWS SES for
// production delivery, direct SMTP submission, and a simulation variant
// that writes would-be messages to disk. Selection happens at startup;
// the rest of the pipeline sees only the types.Mailer interface.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"shipnotify/internal/types"
)

// SESAPI is the subset of the SES v2 client used by SESMailer; tests
// provide a mock implementation.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailerConfig holds the configuration for creating an SESMailer.
type SESMailerConfig struct {
	// ConfigSetName is the SES configuration set for tracking.
	// Optional; if empty, no configuration set is used.
	ConfigSetName string
	Logger        types.Logger
}

// SESMailer implements types.Mailer using AWS SES v2 with simple content.
// Authentication is handled via IAM; the SDK provides its own retries.
type SESMailer struct {
	api           SESAPI
	configSetName string
	logger        types.Logger
}

// NewSESMailer creates an SESMailer from an AWS config.
func NewSESMailer(awsCfg aws.Config, cfg SESMailerConfig) *SESMailer {
	return &SESMailer{
		api:           sesv2.NewFromConfig(awsCfg),
		configSetName: cfg.ConfigSetName,
		logger:        cfg.Logger,
	}
}

// NewSESMailerWithAPI creates an SESMailer with a pre-configured SESAPI.
// Useful for testing with a mock.
func NewSESMailerWithAPI(api SESAPI, cfg SESMailerConfig) *SESMailer {
	return &SESMailer{
		api:           api,
		configSetName: cfg.ConfigSetName,
		logger:        cfg.Logger,
	}
}

// Kind identifies this transport as real SES delivery.
func (s *SESMailer) Kind() types.MailerKind {
	return types.MailerSES
}

// Send transmits the message via SES SendEmail.
//
// Error mapping:
//   - MessageRejected → ErrCodeEmailBlocked (terminal)
//   - TooManyRequestsException → ErrCodeUpstreamRateLimited
//   - SendingPausedException → ErrCodeDeliveryFailed
//   - Other → ErrCodeDeliveryFailed
func (s *SESMailer) Send(ctx context.Context, msg types.MailMessage) (string, error) {
	fromAddr := fmt.Sprintf("%s <%s>", msg.From.Name, msg.From.Address)
	if msg.From.Name == "" {
		fromAddr = msg.From.Address
	}

	dest := &sestypes.Destination{
		ToAddresses: []string{msg.To},
	}
	if msg.CC != "" {
		dest.CcAddresses = []string{msg.CC}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddr),
		Destination:      dest,
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &sestypes.Body{
					Html: &sestypes.Content{
						Data:    aws.String(msg.BodyHTML),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}
	if s.configSetName != "" {
		input.ConfigurationSetName = aws.String(s.configSetName)
	}
	if msg.ReferenceID != "" {
		input.EmailTags = []sestypes.MessageTag{
			{
				Name:  aws.String("ReferenceID"),
				Value: aws.String(msg.ReferenceID),
			},
		}
	}

	result, err := s.api.SendEmail(ctx, input)
	if err != nil {
		return "", mapSESError(err)
	}

	msgID := ""
	if result.MessageId != nil {
		msgID = *result.MessageId
	}
	s.logger.Info("email submitted to SES",
		"dest", RedactEmail(msg.To),
		"message_id", msgID,
		"reference_id", msg.ReferenceID,
	)
	return msgID, nil
}

func mapSESError(err error) *types.AppError {
	var rejected *sestypes.MessageRejected
	if errors.As(err, &rejected) {
		return types.NewAppError(types.ErrCodeEmailBlocked,
			"recipient rejected by provider", err)
	}
	var throttled *sestypes.TooManyRequestsException
	if errors.As(err, &throttled) {
		return types.NewAppError(types.ErrCodeUpstreamRateLimited,
			"email provider rate limit exceeded", err)
	}
	var paused *sestypes.SendingPausedException
	if errors.As(err, &paused) {
		return types.NewAppError(types.ErrCodeDeliveryFailed,
			"account sending is paused", err)
	}
	return types.NewAppError(types.ErrCodeDeliveryFailed,
		"email submission failed", err)
}

// Compile-time assertion that SESMailer implements types.Mailer.
var _ types.Mailer = (*SESMailer)(nil)
