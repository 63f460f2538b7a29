// Package types holds the domain model and collaborator interfaces shared
// across the notification pipeline. It is the leaf package of the module:
// everything else imports it, it imports nothing internal.
package types

// PackedItem is one shipped line item from a packing slip. Items are
// immutable values compared by field equality and kept in the order the
// slip rows were loaded; the renderer never re-sorts them.
type PackedItem struct {
	PartCode    string
	Description string
	Quantity    string
}

// Flags is the completeness record accumulated while a Notification is
// constructed. Every flag is monotonic: resolution steps may raise a flag
// but nothing ever clears one. A Notification is eligible for direct
// customer delivery only when all four flags are down.
type Flags struct {
	TemplateIncomplete bool
	NoEmailAddress     bool
	BadTrackingNumber  bool
	NoGreetingName     bool
}

// Deliverable reports whether the notification may be sent to the customer.
func (f Flags) Deliverable() bool {
	return !f.TemplateIncomplete && !f.NoEmailAddress && !f.BadTrackingNumber && !f.NoGreetingName
}

// Problems returns a stable-ordered, human-readable name for every raised
// flag. The internal escalation email itemizes exactly these entries.
func (f Flags) Problems() []string {
	var out []string
	if f.TemplateIncomplete {
		out = append(out, "template values incomplete")
	}
	if f.NoEmailAddress {
		out = append(out, "no valid contact email address")
	}
	if f.BadTrackingNumber {
		out = append(out, "tracking number invalid or carrier lookup failed")
	}
	if f.NoGreetingName {
		out = append(out, "no greeting name on record")
	}
	return out
}

// Notification is the reconciled aggregate for one packing-slip ID. It is
// built once from the three source tables, accumulates flags during
// construction, and is discarded after the delivery decision executes.
// There is no persistence.
type Notification struct {
	SlipID         string
	OrderID        string
	TrackingNumber string // upper-cased, trimmed

	// ExpectedDateText is either the carrier's rendered delivery date
	// (MM/DD/YYYY), the carrier's fixed no-date message, or the
	// missing-value placeholder when the lookup failed.
	ExpectedDateText string

	Items []PackedItem

	// IsLargePartner discriminates the customer-identification join path.
	// PartnerRef is populated only when IsLargePartner is true.
	IsLargePartner bool
	PartnerRef     string

	CustomerID   string
	GreetingName string
	ContactName  string
	ContactEmail string

	AddressName  string
	AddressHTML  string // non-blank street lines joined with <br>
	CityStateZip string

	Body string // filled template, empty until rendering completes

	Flags Flags
}

// SenderIdentity names the From header for outgoing mail.
type SenderIdentity struct {
	Name    string
	Address string
}

// MailMessage is the transport-agnostic contract handed to a Mailer.
type MailMessage struct {
	From        SenderIdentity
	To          string
	CC          string // optional
	Subject     string
	BodyHTML    string
	ReferenceID string // correlation ID, typically the slip ID
}
