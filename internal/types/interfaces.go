package types

import "context"

// Logger defines the structured logging interface used throughout the
// pipeline. The entrypoint adapts log/slog to it; tests use recorders.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}

// CarrierService resolves a shipment's expected delivery date from its
// tracking number.
//
// The returned string is ready for template insertion: either a formatted
// MM/DD/YYYY date or the carrier package's fixed "date currently
// unavailable" message. Errors carry ErrCodeTrackingInvalid for
// shape-check failures, ErrCodeCarrierRejected when the carrier reports
// an explicit error status, and ErrCodeCarrierUnavailable for transport
// failures; the caller converts all of them into the bad-tracking flag.
type CarrierService interface {
	ExpectedDelivery(ctx context.Context, trackingNumber string) (string, error)
}

// MailerKind identifies a mail transport. Simulation must never be
// conflated with real delivery in logs, so the kind is part of the
// interface rather than a config detail.
type MailerKind string

const (
	MailerSES        MailerKind = "ses"
	MailerSMTP       MailerKind = "smtp"
	MailerSimulation MailerKind = "simulation"
)

// Delivered reports whether this transport actually transmits mail.
func (k MailerKind) Delivered() bool {
	return k != MailerSimulation
}

// Mailer submits one HTML email. Implementations return a provider
// message ID (or a local artifact reference for simulation) on success
// and an AppError with a delivery code on failure.
type Mailer interface {
	Kind() MailerKind
	Send(ctx context.Context, msg MailMessage) (string, error)
}
