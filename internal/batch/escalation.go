package batch

import (
	"fmt"
	"html"
	"strings"

	"shipnotify/internal/types"
)

// problemReport renders the body of the first escalation email: the
// itemized list of everything that went wrong plus a dump of every
// resolved field, so staff can debug the source data without re-running
// the batch.
func problemReport(n *types.Notification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<P>Order records are missing data required to produce a "+
		"shipment notification email for packing slip ID %s.</P>\n",
		html.EscapeString(n.SlipID))

	b.WriteString("<P><B>Problems:</B></P>\n<UL>\n")
	for _, p := range n.Flags.Problems() {
		fmt.Fprintf(&b, "<LI>%s</LI>\n", html.EscapeString(p))
	}
	b.WriteString("</UL>\n")

	b.WriteString("<P><B>Resolved fields:</B></P>\n")
	b.WriteString(`<table cellpadding="3" border="1">` + "\n")
	dump := func(label, value string) {
		fmt.Fprintf(&b, "\t<tr><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(label), html.EscapeString(value))
	}
	dump("slip ID", n.SlipID)
	dump("order ID", n.OrderID)
	dump("tracking number", n.TrackingNumber)
	dump("expected date text", n.ExpectedDateText)
	dump("large-partner order", fmt.Sprintf("%t", n.IsLargePartner))
	if n.IsLargePartner {
		dump("partner reference", n.PartnerRef)
	}
	dump("customer ID", n.CustomerID)
	dump("greeting name", n.GreetingName)
	dump("contact name", n.ContactName)
	dump("contact email", n.ContactEmail)
	dump("ship-to name", n.AddressName)
	dump("ship-to address", n.AddressHTML)
	dump("ship-to city line", n.CityStateZip)
	dump("packed items", fmt.Sprintf("%d", len(n.Items)))
	for _, item := range n.Items {
		dump("item "+item.PartCode, fmt.Sprintf("%s (qty %s)", item.Description, item.Quantity))
	}
	b.WriteString("</table>\n")

	return b.String()
}

// missingRecordsReport renders the internal email body for the one fatal
// per-slip case: no line rows matched, so no notification exists at all.
func missingRecordsReport(slipID string, err error) string {
	return fmt.Sprintf(
		"<P>Source tables are missing the data needed to identify records "+
			"for packing slip ID %s; no notification could be constructed.</P>\n"+
			"<P>Lookup failure: %s</P>\n",
		html.EscapeString(slipID), html.EscapeString(err.Error()))
}
