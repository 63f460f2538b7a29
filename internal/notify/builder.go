package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"shipnotify/internal/records"
	"shipnotify/internal/types"
)

// BuilderConfig holds the collaborators needed to construct Notifications.
type BuilderConfig struct {
	Store        *records.Store
	Carrier      types.CarrierService
	Filler       *Filler
	SentinelCode int64  // customer-ID value marking a large-partner slip
	Placeholder  string // missing-value placeholder text
	Logger       types.Logger
}

// Builder assembles one fully-resolved Notification per slip ID. Each
// fallible step degrades via flag + placeholder instead of aborting; the
// single fatal case is a slip ID with zero matching line rows.
type Builder struct {
	store       *records.Store
	carrier     types.CarrierService
	resolver    *Resolver
	filler      *Filler
	placeholder string
	logger      types.Logger
}

// NewBuilder creates a Builder with the given dependencies.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{
		store:       cfg.Store,
		carrier:     cfg.Carrier,
		resolver:    NewResolver(cfg.Store, cfg.SentinelCode, cfg.Placeholder, cfg.Logger),
		filler:      cfg.Filler,
		placeholder: cfg.Placeholder,
		logger:      cfg.Logger,
	}
}

// Build constructs the Notification for one slip ID, running the full
// dependency chain: line rows, tracking lookup, item list, identity
// resolution, address formatting, contact resolution, template fill.
//
// Returns a record_not_found error only when the slip has no line rows
// at all; every other missing datum is absorbed into the flag set.
func (b *Builder) Build(ctx context.Context, slipID records.Value) (*types.Notification, error) {
	rows := b.store.Slips.FindAllBy(records.FieldSlipID, slipID)
	if len(rows) == 0 {
		return nil, types.NewRecordNotFound(b.store.Slips.Name(),
			string(records.FieldSlipID), slipID.String())
	}
	first := rows[0]

	n := &types.Notification{SlipID: slipID.String()}
	log := b.logger.With("slip_id", n.SlipID)
	log.Info("constructing notification", "line_rows", len(rows))

	n.OrderID = first.Get(records.FieldOrderID).String()
	n.TrackingNumber = strings.ToUpper(strings.TrimSpace(first.Get(records.FieldTrackingNumber).String()))

	dateText, err := b.carrier.ExpectedDelivery(ctx, n.TrackingNumber)
	if err != nil {
		// Invalid shape and carrier failures degrade identically: the
		// flag is raised and the placeholder stands in for the date.
		log.Warn("tracking lookup failed",
			"tracking_number", n.TrackingNumber,
			"error", err.Error(),
		)
		n.Flags.BadTrackingNumber = true
		n.ExpectedDateText = b.placeholder
	} else {
		n.ExpectedDateText = dateText
	}

	n.Items = itemsFromRows(rows)
	b.checkLineNumbers(rows, n.SlipID)

	custKey, keyOK := b.resolver.ResolveIdentity(first, n)

	n.AddressName = first.Get(records.FieldAddrName).String()
	n.AddressHTML = addressBlock(first)
	n.CityStateZip = fmt.Sprintf("%s, %s %s",
		first.Get(records.FieldCity).String(),
		first.Get(records.FieldState).String(),
		first.Get(records.FieldPostalCode).String(),
	)

	b.resolver.ResolveContact(custKey, keyOK, n)

	n.Body = b.filler.Fill(n)

	log.Info("notification constructed",
		"deliverable", n.Flags.Deliverable(),
		"large_partner", n.IsLargePartner,
		"items", len(n.Items),
	)
	return n, nil
}

// itemsFromRows extracts the packed items in slip-row order.
func itemsFromRows(rows []records.Record) []types.PackedItem {
	items := make([]types.PackedItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, types.PackedItem{
			PartCode:    row.Get(records.FieldPartCode).String(),
			Description: row.Get(records.FieldDescription).String(),
			Quantity:    row.Get(records.FieldQuantity).String(),
		})
	}
	return items
}

// checkLineNumbers sanity-checks that a slip's line counter is unique and
// contiguous. The exports are supposed to guarantee this; a violation is
// worth a warning but not worth blocking the notification.
func (b *Builder) checkLineNumbers(rows []records.Record, slipID string) {
	seen := make(map[int64]struct{}, len(rows))
	minLine, maxLine := int64(0), int64(0)
	for i, row := range rows {
		num, ok := row.Get(records.FieldLineNumber).Int()
		if !ok {
			b.logger.Warn("non-numeric line number on packing slip", "slip_id", slipID)
			return
		}
		if _, dup := seen[num]; dup {
			b.logger.Warn("duplicate line number on packing slip", "slip_id", slipID, "line", num)
			return
		}
		seen[num] = struct{}{}
		if i == 0 || num < minLine {
			minLine = num
		}
		if i == 0 || num > maxLine {
			maxLine = num
		}
	}
	if len(rows) > 0 && maxLine-minLine != int64(len(rows))-1 {
		b.logger.Warn("non-contiguous line numbers on packing slip",
			"slip_id", slipID, "min", minLine, "max", maxLine, "rows", len(rows))
	}
}

// addressBlock joins the slip's non-blank street lines with <br> for the
// single address replacement field. Lines are escaped; they come straight
// from the export.
func addressBlock(first records.Record) string {
	var lines []string
	for _, f := range []records.Field{records.FieldAddrLine1, records.FieldAddrLine2, records.FieldAddrLine3} {
		if v := first.Get(f); !v.IsBlank() {
			lines = append(lines, html.EscapeString(v.String()))
		}
	}
	return strings.Join(lines, "<br>")
}
