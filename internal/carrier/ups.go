package carrier

import (
	"bytes"
	"context"
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"text/template"
	"time"

	"shipnotify/internal/types"
)

//go:embed track_request.xml
var requestFS embed.FS

// ProductionEndpoint and TestEndpoint are the carrier's live and
// certification tracking URLs.
const (
	ProductionEndpoint = "https://onlinetools.ups.com/ups.app/xml/Track"
	TestEndpoint       = "https://wwwcie.ups.com/ups.app/xml/Track"
)

const (
	carrierDateLayout = "20060102"
	renderDateLayout  = "01/02/2006"
)

// Credentials authenticate against the carrier's developer-kit API.
type Credentials struct {
	AccessLicense types.SecretString
	UserID        string
	Password      types.SecretString
}

// UPSConfig holds the parameters needed to construct a UPSClient.
type UPSConfig struct {
	Endpoint    string
	Credentials Credentials
	Timeout     time.Duration
	Retry       RetryPolicy
	Logger      types.Logger

	// HTTPClient overrides the default client; the Timeout above is
	// applied only when this is nil.
	HTTPClient *http.Client
}

// UPSClient implements types.CarrierService against the UPS XML tracking
// API. The request envelope is two concatenated XML documents (access
// request + track request); the response is a single TrackResponse.
type UPSClient struct {
	endpoint string
	creds    Credentials
	client   *httpClient
	reqTmpl  *template.Template
	logger   types.Logger
}

// NewUPSClient builds a tracking client. Returns an error only if the
// embedded request template fails to parse.
func NewUPSClient(cfg UPSConfig) (*UPSClient, error) {
	raw, err := requestFS.ReadFile("track_request.xml")
	if err != nil {
		return nil, fmt.Errorf("carrier: failed to read request template: %w", err)
	}
	tmpl, err := template.New("track_request").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("carrier: failed to parse request template: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = ProductionEndpoint
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	retry := cfg.Retry
	if retry == (RetryPolicy{}) {
		retry = DefaultRetryPolicy()
	}

	return &UPSClient{
		endpoint: endpoint,
		creds:    cfg.Credentials,
		client:   newHTTPClient(hc, retry),
		reqTmpl:  tmpl,
		logger:   cfg.Logger,
	}, nil
}

// trackResponse mirrors the subset of the carrier's TrackResponse the
// pipeline cares about. The date field naming varies with shipment state,
// so all three variants are mapped and checked in preference order.
type trackResponse struct {
	XMLName  xml.Name      `xml:"TrackResponse"`
	Response responseInfo  `xml:"Response"`
	Shipment shipmentInfo  `xml:"Shipment"`
}

type responseInfo struct {
	StatusCode int        `xml:"ResponseStatusCode"`
	Error      *errorInfo `xml:"Error"`
}

type errorInfo struct {
	Description string `xml:"ErrorDescription"`
}

type shipmentInfo struct {
	DeliveryDateUnavailable *struct{}   `xml:"DeliveryDateUnavailable"`
	ScheduledDeliveryDate   string      `xml:"ScheduledDeliveryDate"`
	Package                 packageInfo `xml:"Package"`
}

type packageInfo struct {
	RescheduledDeliveryDate string `xml:"RescheduledDeliveryDate"`
}

// ExpectedDelivery implements types.CarrierService. It shape-checks the
// tracking number, queries the carrier, and renders the scheduled date as
// MM/DD/YYYY. A rescheduled date wins over a plain scheduled date. When
// the carrier has no date information the fixed NoDateMessage is
// returned with a nil error.
func (c *UPSClient) ExpectedDelivery(ctx context.Context, trackingNumber string) (string, error) {
	if err := ValidateShape(trackingNumber); err != nil {
		return "", err
	}

	resp, err := c.track(ctx, trackingNumber)
	if err != nil {
		return "", err
	}

	if resp.Response.StatusCode == 0 || resp.Response.Error != nil {
		detail := "carrier reported an error status"
		if resp.Response.Error != nil && resp.Response.Error.Description != "" {
			detail = resp.Response.Error.Description
		}
		return "", types.NewAppErrorWithDetails(types.ErrCodeCarrierRejected,
			detail, nil, map[string]any{"tracking_number": trackingNumber})
	}

	scheduled := resp.Shipment.Package.RescheduledDeliveryDate
	if scheduled == "" {
		scheduled = resp.Shipment.ScheduledDeliveryDate
	}
	if resp.Shipment.DeliveryDateUnavailable != nil && resp.Shipment.Package.RescheduledDeliveryDate == "" &&
		resp.Shipment.ScheduledDeliveryDate == "" {
		scheduled = ""
	}
	if scheduled == "" {
		return NoDateMessage, nil
	}

	t, err := time.Parse(carrierDateLayout, scheduled)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeCarrierRejected,
			fmt.Sprintf("carrier returned unparseable date %q", scheduled), err)
	}
	return t.Format(renderDateLayout), nil
}

func (c *UPSClient) track(ctx context.Context, trackingNumber string) (*trackResponse, error) {
	var buf bytes.Buffer
	err := c.reqTmpl.Execute(&buf, map[string]string{
		"AccessLicense":  xmlEscape(c.creds.AccessLicense.Unmask()),
		"UserID":         xmlEscape(c.creds.UserID),
		"Password":       xmlEscape(c.creds.Password.Unmask()),
		"Context":        "shipnotify",
		"TrackingNumber": xmlEscape(trackingNumber),
	})
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to build carrier request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to build carrier request", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	httpResp, err := c.client.do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeCarrierUnavailable,
			"failed to read carrier response", err)
	}

	var resp trackResponse
	if err := xml.Unmarshal(raw, &resp); err != nil {
		return nil, types.NewAppError(types.ErrCodeCarrierUnavailable,
			"failed to parse carrier response", err)
	}
	return &resp, nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	// xml.EscapeText only fails on a failing writer; bytes.Buffer never does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Compile-time assertion that UPSClient implements types.CarrierService.
var _ types.CarrierService = (*UPSClient)(nil)
