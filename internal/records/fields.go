// Package records holds the in-memory record store: the three source
// tables loaded from CSV exports, addressed through a closed enumeration
// of semantic field identifiers instead of raw column labels. Column
// labels are resolved to positions exactly once at load time, so a
// renamed source column is a one-line schema change rather than a hunt
// through resolution logic.
package records

// Field is a semantic identifier for a table column. Lookup code always
// addresses cells by Field; the CSV column label behind each Field is a
// schema concern.
type Field string

const (
	FieldSlipID         Field = "slip_id"
	FieldOrderID        Field = "order_id"
	FieldCustomerID     Field = "customer_id"
	FieldPartnerRef     Field = "partner_ref"
	FieldTrackingNumber Field = "tracking_number"
	FieldShipVia        Field = "ship_via"
	FieldLineNumber     Field = "line_number"

	FieldAddrName   Field = "addr_name"
	FieldAddrLine1  Field = "addr_line1"
	FieldAddrLine2  Field = "addr_line2"
	FieldAddrLine3  Field = "addr_line3"
	FieldCity       Field = "city"
	FieldState      Field = "state"
	FieldPostalCode Field = "postal_code"

	FieldPartCode    Field = "part_code"
	FieldDescription Field = "description"
	FieldQuantity    Field = "quantity"

	FieldContactName Field = "contact_name"
	FieldEmail       Field = "email"

	// Display name on the shipments table, used as the greeting for
	// standard orders.
	FieldShipName Field = "ship_name"
)

// Schema maps each Field a table exposes to its CSV column label.
// When a label appears more than once in a header row, the LAST
// occurrence is authoritative (the packing-slip export carries two
// "Customer" columns and only the right-hand one is meaningful).
type Schema map[Field]string

// DefaultContactsSchema matches the production customer-contacts export.
func DefaultContactsSchema() Schema {
	return Schema{
		FieldCustomerID:  "Customer",
		FieldContactName: "Name",
		FieldEmail:       "EMail Address",
	}
}

// DefaultShipmentsSchema matches the production shipments export. The
// partner reference lives in a free-form short-character column there.
func DefaultShipmentsSchema() Schema {
	return Schema{
		FieldCustomerID: "Customer",
		FieldShipName:   "Name",
		FieldPartnerRef: "ShortChar01",
	}
}

// DefaultSlipsSchema matches the production packing-slips export, one row
// per shipped line item.
func DefaultSlipsSchema() Schema {
	return Schema{
		FieldSlipID:         "Packing Slip",
		FieldCustomerID:     "Customer",
		FieldOrderID:        "Order",
		FieldPartnerRef:     "Reference 5",
		FieldAddrName:       "Name",
		FieldAddrLine1:      "Address",
		FieldAddrLine2:      "Address2",
		FieldAddrLine3:      "Address3",
		FieldCity:           "City",
		FieldState:          "State/Province",
		FieldPostalCode:     "Postal Code",
		FieldShipVia:        "Ship Via",
		FieldTrackingNumber: "Tracking Number",
		FieldDescription:    "Rev Description",
		FieldPartCode:       "Part",
		FieldQuantity:       "Qty",
		FieldLineNumber:     "Line",
	}
}
