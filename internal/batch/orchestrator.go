// Package batch drives the per-slip construct/decide/dispatch loop. The
// orchestrator is the only component that performs I/O side effects; the
// record store, resolver, and filler below it are pure transformations
// over in-memory data.
package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shipnotify/internal/mailer"
	"shipnotify/internal/notify"
	"shipnotify/internal/records"
	"shipnotify/internal/types"
)

// Options are the orchestrator's delivery-decision knobs.
type Options struct {
	// Sender is the customer-facing From identity.
	Sender types.SenderIdentity
	// InternalSenderName replaces Sender.Name on escalation emails.
	InternalSenderName string

	SubjectStandard     string
	SubjectLargePartner string

	// RecordsAddress receives a copy of every customer send and the
	// escalation pair. ContactUpdateAddress is copied on escalations
	// whose flag set includes a missing contact email.
	RecordsAddress       string
	ContactUpdateAddress string

	// Placeholder is the missing-value marker; its presence in a
	// flag-clean body is an invariant violation.
	Placeholder string

	// TestMode reroutes all recipients to the test addresses. It is
	// orthogonal to the simulation mailer, which writes files instead
	// of transmitting at all.
	TestMode                 bool
	TestCustomerAddress      string
	TestRecordsAddress       string
	TestContactUpdateAddress string
}

// OrchestratorConfig holds the orchestrator's collaborators.
type OrchestratorConfig struct {
	Store   *records.Store
	Builder *notify.Builder
	Mailer  types.Mailer
	Metrics Metrics
	Logger  types.Logger
	Options Options
}

// Orchestrator iterates the distinct slip IDs in ascending order, fully
// constructing and dispatching each Notification before moving to the
// next. Notifications are independent, so nothing is shared across slip
// IDs and the record store stays read-only throughout.
type Orchestrator struct {
	store   *records.Store
	builder *notify.Builder
	mailer  types.Mailer
	metrics Metrics
	logger  types.Logger
	opts    Options
}

// New creates an Orchestrator. A nil Metrics falls back to NopMetrics.
func New(cfg OrchestratorConfig) *Orchestrator {
	m := cfg.Metrics
	if m == nil {
		m = NopMetrics{}
	}
	return &Orchestrator{
		store:   cfg.Store,
		builder: cfg.Builder,
		mailer:  cfg.Mailer,
		metrics: m,
		logger:  cfg.Logger,
		opts:    cfg.Options,
	}
}

// RunReport summarizes one batch run.
type RunReport struct {
	RunID     string
	Slips     int
	Sent      int
	Escalated int
	Failed    int
}

// Run processes every distinct slip ID. Per-slip failures never abort
// the run; the returned error is non-nil only when the context is
// canceled mid-batch.
func (o *Orchestrator) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{RunID: uuid.NewString()}
	ctx = types.WithRunID(ctx, report.RunID)
	log := o.logger.With("run_id", report.RunID)

	slipIDs := o.store.Slips.DistinctSorted(records.FieldSlipID)
	report.Slips = len(slipIDs)
	log.Info("starting batch run",
		"slips", len(slipIDs),
		"mailer", string(o.mailer.Kind()),
		"test_mode", o.opts.TestMode,
	)

	for _, slipID := range slipIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		switch o.processSlip(ctx, log, slipID) {
		case ResultSent:
			report.Sent++
		case ResultEscalated:
			report.Escalated++
		case ResultFailed:
			report.Failed++
		}
	}

	log.Info("batch run complete",
		"slips", report.Slips,
		"sent", report.Sent,
		"escalated", report.Escalated,
		"failed", report.Failed,
	)
	return report, nil
}

// processSlip runs construct → decide → dispatch for one slip ID.
// Exactly one of {customer send, internal escalation} happens per slip.
func (o *Orchestrator) processSlip(ctx context.Context, log types.Logger, slipID records.Value) MetricResult {
	n, err := o.builder.Build(ctx, slipID)
	if err != nil {
		// The only error Build can surface is the unrecoverable
		// zero-line-rows case. Log, escalate internally, move on.
		log.Error("cannot construct notification",
			"slip_id", slipID.String(),
			"error", err.Error(),
		)
		o.escalateMissingRecords(ctx, log, slipID.String(), err)
		return ResultEscalated
	}

	if !n.Flags.Deliverable() {
		o.escalate(ctx, log, n)
		return ResultEscalated
	}

	// Integrity check before the customer send: a flag-clean body or
	// recipient still carrying the placeholder means a flag was missed
	// somewhere. That is an invariant violation, so the send is hard
	// aborted and the slip escalates instead.
	if strings.Contains(n.Body, o.opts.Placeholder) || strings.Contains(n.ContactEmail, o.opts.Placeholder) {
		log.Error("placeholder text present in flag-clean notification; aborting customer send",
			"slip_id", n.SlipID,
		)
		n.Flags.TemplateIncomplete = true
		o.escalate(ctx, log, n)
		return ResultEscalated
	}

	return o.sendToCustomer(ctx, log, n)
}

func (o *Orchestrator) sendToCustomer(ctx context.Context, log types.Logger, n *types.Notification) MetricResult {
	to := n.ContactEmail
	cc := o.opts.RecordsAddress
	if o.opts.TestMode {
		to = o.opts.TestCustomerAddress
		cc = o.opts.TestRecordsAddress
	}

	subject := o.opts.SubjectStandard
	if n.IsLargePartner {
		subject = o.opts.SubjectLargePartner
	}

	msgID, err := o.mailer.Send(ctx, types.MailMessage{
		From:        o.opts.Sender,
		To:          to,
		CC:          cc,
		Subject:     subject,
		BodyHTML:    n.Body,
		ReferenceID: n.SlipID,
	})
	if err != nil {
		// Delivery failure is recovered here: reported, counted, and
		// the batch keeps its forward progress.
		log.Error("customer delivery failed",
			"slip_id", n.SlipID,
			"dest", mailer.RedactEmail(to),
			"error", err.Error(),
		)
		o.metrics.RecordDelivery(ctx, o.mailer.Kind(), ResultFailed)
		return ResultFailed
	}

	log.Info("customer notification dispatched",
		"slip_id", n.SlipID,
		"dest", mailer.RedactEmail(to),
		"message_id", msgID,
		"simulated", !o.mailer.Kind().Delivered(),
	)
	o.metrics.RecordDelivery(ctx, o.mailer.Kind(), ResultSent)
	return ResultSent
}

// escalate sends the internal pair: the itemized problem report with the
// field dump, then the degraded rendered body so staff can see what the
// customer would have received.
func (o *Orchestrator) escalate(ctx context.Context, log types.Logger, n *types.Notification) {
	log.Warn("escalating internally",
		"slip_id", n.SlipID,
		"problems", strings.Join(n.Flags.Problems(), "; "),
	)

	to, cc := o.escalationRecipients(n.Flags.NoEmailAddress)
	from := types.SenderIdentity{Name: o.opts.InternalSenderName, Address: o.opts.Sender.Address}

	o.sendInternal(ctx, log, types.MailMessage{
		From:        from,
		To:          to,
		CC:          cc,
		Subject:     fmt.Sprintf("Notification regarding packing slip ID %s", n.SlipID),
		BodyHTML:    problemReport(n),
		ReferenceID: n.SlipID,
	})
	o.sendInternal(ctx, log, types.MailMessage{
		From:        from,
		To:          to,
		Subject:     fmt.Sprintf("Draft notification for packing slip ID %s", n.SlipID),
		BodyHTML:    n.Body,
		ReferenceID: n.SlipID,
	})

	o.metrics.RecordEscalation(ctx)
}

// escalateMissingRecords covers the zero-line-rows case where there is
// no notification to include: one internal email describing the miss.
func (o *Orchestrator) escalateMissingRecords(ctx context.Context, log types.Logger, slipID string, err error) {
	to, _ := o.escalationRecipients(false)
	o.sendInternal(ctx, log, types.MailMessage{
		From:        types.SenderIdentity{Name: o.opts.InternalSenderName, Address: o.opts.Sender.Address},
		To:          to,
		Subject:     fmt.Sprintf("Notification regarding packing slip ID %s", slipID),
		BodyHTML:    missingRecordsReport(slipID, err),
		ReferenceID: slipID,
	})
	o.metrics.RecordEscalation(ctx)
}

// escalationRecipients picks the internal destinations, honoring test
// mode. When the contact email itself is the missing datum, the
// contact-updating mailbox is copied in so records get fixed.
func (o *Orchestrator) escalationRecipients(missingContact bool) (to, cc string) {
	to = o.opts.RecordsAddress
	cc = ""
	if missingContact {
		cc = o.opts.ContactUpdateAddress
	}
	if o.opts.TestMode {
		to = o.opts.TestRecordsAddress
		if missingContact {
			cc = o.opts.TestContactUpdateAddress
		}
	}
	return to, cc
}

func (o *Orchestrator) sendInternal(ctx context.Context, log types.Logger, msg types.MailMessage) {
	if _, err := o.mailer.Send(ctx, msg); err != nil {
		// Internal mail failing must not abort the batch either.
		log.Error("internal escalation email failed",
			"slip_id", msg.ReferenceID,
			"subject", msg.Subject,
			"error", err.Error(),
		)
	}
}
