// Package notify builds the reconciled per-slip Notification aggregate:
// it joins the three source tables, tracks completeness, and renders the
// email body. Every resolution step honors the completeness contract:
// a value that cannot be produced is replaced by the configured
// missing-value placeholder and the one flag that most specifically names
// the missing datum is raised. Construction never aborts on a missing
// field; only a slip with zero line rows is fatal.
package notify

import (
	"strings"

	"shipnotify/internal/records"
	"shipnotify/internal/types"
)

// Resolver determines the customer identity and greeting name for a slip
// through one of two join paths, then resolves the contact email.
//
// Large-partner orders are flagged by a sentinel value in the slip's
// customer-ID column and identify the customer through the shipments
// table's partner-reference column instead of the customer ID.
type Resolver struct {
	store       *records.Store
	sentinel    records.Value
	placeholder string
	logger      types.Logger
}

// NewResolver builds a Resolver. sentinelCode is the configured
// customer-ID value that marks a large-partner slip.
func NewResolver(store *records.Store, sentinelCode int64, placeholder string, logger types.Logger) *Resolver {
	return &Resolver{
		store:       store,
		sentinel:    records.IntValue(sentinelCode),
		placeholder: placeholder,
		logger:      logger,
	}
}

// ResolveIdentity fills the order-type discriminant, partner reference,
// customer ID, and greeting name from the slip's first line row. It
// returns the resolved customer key for the contacts lookup; ok is false
// when the customer ID could not be resolved and the notification is
// carrying the placeholder instead.
func (r *Resolver) ResolveIdentity(first records.Record, n *types.Notification) (custKey records.Value, ok bool) {
	slipCust := first.Get(records.FieldCustomerID)

	if slipCust.Equal(r.sentinel) {
		return r.resolveLargePartner(first, n)
	}
	r.resolveStandard(slipCust, n)
	return slipCust, true
}

// resolveLargePartner reads the partner reference from the slip and joins
// the shipments table through its partner-reference column. The greeting
// is the slip's address name, which a large-partner slip always carries.
func (r *Resolver) resolveLargePartner(first records.Record, n *types.Notification) (records.Value, bool) {
	n.IsLargePartner = true

	ref := first.Get(records.FieldPartnerRef)
	n.PartnerRef = ref.String()

	greeting := first.Get(records.FieldAddrName).String()
	if strings.TrimSpace(greeting) == "" {
		// Address name should always be present on a large-partner slip.
		// A blank one cannot raise the no-greeting flag (that flag is
		// reserved for standard orders) but the template is incomplete.
		r.logger.Warn("large-partner slip has blank address name", "slip_id", n.SlipID)
		greeting = r.placeholder
		n.Flags.TemplateIncomplete = true
	}
	n.GreetingName = greeting

	rec, err := r.store.Shipments.Find(records.FieldPartnerRef, ref)
	if err != nil {
		r.logger.Warn("no shipments row for partner reference",
			"slip_id", n.SlipID,
			"partner_ref", ref.String(),
		)
		n.CustomerID = r.placeholder
		n.Flags.TemplateIncomplete = true
		return records.Value{}, false
	}

	cust := rec.Get(records.FieldCustomerID)
	n.CustomerID = cust.String()
	return cust, true
}

// resolveStandard takes the customer ID directly from the slip and looks
// up the greeting name on the shipments table.
func (r *Resolver) resolveStandard(slipCust records.Value, n *types.Notification) {
	n.IsLargePartner = false
	n.CustomerID = slipCust.String()

	rec, err := r.store.Shipments.Find(records.FieldCustomerID, slipCust)
	if err != nil {
		r.markNoGreeting(n, "no shipments row for customer")
		return
	}

	greeting := rec.Get(records.FieldShipName).String()
	if strings.TrimSpace(greeting) == "" {
		// Found but blank is treated identically to not found rather
		// than accepted silently.
		r.markNoGreeting(n, "shipments row has blank greeting name")
		return
	}
	n.GreetingName = greeting
}

func (r *Resolver) markNoGreeting(n *types.Notification, reason string) {
	r.logger.Warn("greeting name unresolved",
		"slip_id", n.SlipID,
		"customer_id", n.CustomerID,
		"reason", reason,
	)
	n.GreetingName = r.placeholder
	n.Flags.TemplateIncomplete = true
	n.Flags.NoGreetingName = true
}

// ResolveContact looks up the contact record by customer ID and fills the
// contact name and email. An absent record, a degraded customer key, or
// an email failing the minimal validity check all raise the
// no-email-address flag and substitute the placeholder.
func (r *Resolver) ResolveContact(custKey records.Value, keyOK bool, n *types.Notification) {
	if !keyOK {
		r.markNoEmail(n, "customer ID unresolved")
		return
	}

	rec, err := r.store.Contacts.Find(records.FieldCustomerID, custKey)
	if err != nil {
		r.markNoEmail(n, "no contact record for customer")
		return
	}

	n.ContactName = rec.Get(records.FieldContactName).String()

	email := strings.TrimSpace(rec.Get(records.FieldEmail).String())
	if !validEmail(email) {
		r.markNoEmail(n, "contact email blank or invalid")
		return
	}
	n.ContactEmail = email
}

func (r *Resolver) markNoEmail(n *types.Notification, reason string) {
	r.logger.Warn("contact email unresolved",
		"slip_id", n.SlipID,
		"customer_id", n.CustomerID,
		"reason", reason,
	)
	if n.ContactName == "" {
		n.ContactName = r.placeholder
	}
	n.ContactEmail = r.placeholder
	n.Flags.NoEmailAddress = true
}

// validEmail is the minimal validity check: non-empty and containing both
// "@" and ".". Anything stricter belongs to the mail transport.
func validEmail(email string) bool {
	return email != "" && strings.Contains(email, "@") && strings.Contains(email, ".")
}
