package notify

import (
	"html"
	"strings"

	"shipnotify/internal/types"
)

// itemTableHeader is the fixed column order for the rendered item table.
var itemTableHeader = []string{"Part No.", "Description", "Quantity"}

// RenderItemTable builds the HTML table of packed items. Rows keep the
// insertion order of the packing-slip lines; there is no sorting or
// grouping. Cell values are HTML-escaped since they come straight from
// the source files.
//
// The cellpadding/border attributes are not HTML5 but still render in
// current mail clients, matching the look of the surrounding template.
func RenderItemTable(items []types.PackedItem) string {
	var b strings.Builder
	b.WriteString(`<table cellpadding="3" border="1">`)
	b.WriteString("\n\t")
	writeRow(&b, itemTableHeader)
	for _, item := range items {
		b.WriteString("\n\t")
		writeRow(&b, []string{item.PartCode, item.Description, item.Quantity})
	}
	b.WriteString("\n</table>")
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("<tr>")
	for _, cell := range cells {
		b.WriteString("<td>")
		b.WriteString(html.EscapeString(cell))
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
}
