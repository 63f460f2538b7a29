package notify

import (
	"regexp"
	"strings"

	"shipnotify/internal/types"
)

// TagSet names the placeholder markers expected in the template bodies.
// Markers are literal substrings, not a template language: the bodies are
// exported from a word processor and survive only literal substitution.
type TagSet struct {
	GreetingName   string
	PartnerRef     string // large-partner template only
	OrderID        string
	Date           string
	TrackingNumber string
	AddressName    string
	AddressBlock   string
	CityStateZip   string
	ItemTable      string

	// TrackingLinkMarker is the verbatim text inside the anchor tag that
	// carries the tracking link. The whole matched tag is rewritten, not
	// just the marker, because the exported template embeds local paths
	// around it.
	TrackingLinkMarker string
}

// DefaultTagSet matches the markers in the production template files.
func DefaultTagSet() TagSet {
	return TagSet{
		GreetingName:       "putgreetingnamehere",
		PartnerRef:         "putpartnerrefhere",
		OrderID:            "putorderidhere",
		Date:               "putdatehere",
		TrackingNumber:     "placetrackingnumberhere",
		AddressName:        "putnamehere",
		AddressBlock:       "putaddresshere",
		CityStateZip:       "putcityszhere",
		ItemTable:          "puttablehere",
		TrackingLinkMarker: "placetrackingstringhere",
	}
}

// FillerConfig holds the two template bodies and rendering parameters.
type FillerConfig struct {
	Standard        string // body for ordinary orders
	LargePartner    string // body for large-partner orders
	Tags            TagSet
	TrackingWebRoot string // tracking site root; the number is appended
	Logger          types.Logger
}

// Filler performs placeholder substitution into one of the two template
// bodies, selected solely by the notification's large-partner
// discriminant. Substituting a marker that does not occur in the body is
// a warning, never an error: the standard template legitimately omits
// the partner-reference tag.
type Filler struct {
	standard     string
	largePartner string
	tags         TagSet
	webRoot      string
	linkTagRE    *regexp.Regexp
	logger       types.Logger
}

// NewFiller builds a Filler. Zero-value tags fall back to DefaultTagSet.
func NewFiller(cfg FillerConfig) *Filler {
	tags := cfg.Tags
	if tags == (TagSet{}) {
		tags = DefaultTagSet()
	}
	return &Filler{
		standard:     cfg.Standard,
		largePartner: cfg.LargePartner,
		tags:         tags,
		webRoot:      cfg.TrackingWebRoot,
		linkTagRE:    regexp.MustCompile(`(?i)<A HREF=[^>]*` + regexp.QuoteMeta(tags.TrackingLinkMarker) + `[^>]*>`),
		logger:       cfg.Logger,
	}
}

// Fill renders the notification's email body. By the time Fill runs the
// completeness contract guarantees every value is a non-empty string
// (missing data has already been replaced by the placeholder and
// flagged), so filling itself never fails.
func (f *Filler) Fill(n *types.Notification) string {
	body := f.standard
	if n.IsLargePartner {
		body = f.largePartner
	}

	body = f.rewriteTrackingLink(body, n)

	// Substitutions run in a fixed order so warnings about absent
	// markers stay stable across runs.
	repl := []struct{ tag, value string }{
		{f.tags.GreetingName, n.GreetingName},
		{f.tags.OrderID, n.OrderID},
		{f.tags.Date, n.ExpectedDateText},
		{f.tags.TrackingNumber, n.TrackingNumber},
		{f.tags.AddressName, n.AddressName},
		{f.tags.AddressBlock, n.AddressHTML},
		{f.tags.CityStateZip, n.CityStateZip},
		{f.tags.ItemTable, RenderItemTable(n.Items)},
	}
	if n.IsLargePartner {
		repl = append(repl, struct{ tag, value string }{f.tags.PartnerRef, n.PartnerRef})
	}

	for _, r := range repl {
		if !strings.Contains(body, r.tag) {
			f.logger.Warn("placeholder absent from template body",
				"tag", r.tag,
				"slip_id", n.SlipID,
				"large_partner", n.IsLargePartner,
			)
			continue
		}
		body = strings.ReplaceAll(body, r.tag, r.value)
	}

	return stripDocumentChrome(body)
}

// rewriteTrackingLink replaces the entire anchor-opening tag containing
// the link marker with a clean anchor at the tracking site.
func (f *Filler) rewriteTrackingLink(body string, n *types.Notification) string {
	loc := f.linkTagRE.FindStringIndex(body)
	if loc == nil {
		f.logger.Warn("tracking link marker not found in template body",
			"slip_id", n.SlipID,
			"large_partner", n.IsLargePartner,
		)
		return body
	}
	return body[:loc[0]] + `<A HREF="` + f.webRoot + n.TrackingNumber + `">` + body[loc[1]:]
}

var (
	headEndRe     = regexp.MustCompile(`(?i)</HEAD>`)
	closingHTMLRe = regexp.MustCompile(`(?i)</HTML>`)
)

// stripDocumentChrome discards everything up to and including the head
// terminator (word-processor exports front-load a bulky header block) and
// removes the closing document tag so several rendered notifications can
// be concatenated into one preview file.
func stripDocumentChrome(body string) string {
	if loc := headEndRe.FindStringIndex(body); loc != nil {
		body = body[loc[1]:]
	}
	return closingHTMLRe.ReplaceAllString(body, "")
}
