package carrier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipnotify/internal/types"
)

// testLogger implements types.Logger for test use.
type testLogger struct {
	warns  []string
	errors []string
}

func (l *testLogger) Info(msg string, args ...any)  {}
func (l *testLogger) Warn(msg string, args ...any)  { l.warns = append(l.warns, msg) }
func (l *testLogger) Error(msg string, args ...any) { l.errors = append(l.errors, msg) }
func (l *testLogger) With(args ...any) types.Logger { return l }

const validNumber = "1Z6351950343296108"

func newTestClient(t *testing.T, handler http.HandlerFunc) *UPSClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewUPSClient(UPSConfig{
		Endpoint: srv.URL,
		Credentials: Credentials{
			AccessLicense: "license",
			UserID:        "user",
			Password:      "pass",
		},
		Logger: &testLogger{},
	})
	require.NoError(t, err)
	return client
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}
}

func TestExpectedDeliveryScheduledDate(t *testing.T) {
	client := newTestClient(t, respond(`
		<TrackResponse>
			<Response><ResponseStatusCode>1</ResponseStatusCode></Response>
			<Shipment><ScheduledDeliveryDate>20141224</ScheduledDeliveryDate></Shipment>
		</TrackResponse>`))

	got, err := client.ExpectedDelivery(context.Background(), validNumber)
	require.NoError(t, err)
	assert.Equal(t, "12/24/2014", got)
}

func TestExpectedDeliveryPrefersRescheduledDate(t *testing.T) {
	client := newTestClient(t, respond(`
		<TrackResponse>
			<Response><ResponseStatusCode>1</ResponseStatusCode></Response>
			<Shipment>
				<ScheduledDeliveryDate>20141220</ScheduledDeliveryDate>
				<Package><RescheduledDeliveryDate>20141224</RescheduledDeliveryDate></Package>
			</Shipment>
		</TrackResponse>`))

	got, err := client.ExpectedDelivery(context.Background(), validNumber)
	require.NoError(t, err)
	assert.Equal(t, "12/24/2014", got)
}

func TestExpectedDeliveryNoDate(t *testing.T) {
	client := newTestClient(t, respond(`
		<TrackResponse>
			<Response><ResponseStatusCode>1</ResponseStatusCode></Response>
			<Shipment><DeliveryDateUnavailable/></Shipment>
		</TrackResponse>`))

	got, err := client.ExpectedDelivery(context.Background(), validNumber)
	require.NoError(t, err)
	assert.Equal(t, NoDateMessage, got)
}

func TestExpectedDeliveryCarrierError(t *testing.T) {
	client := newTestClient(t, respond(`
		<TrackResponse>
			<Response>
				<ResponseStatusCode>0</ResponseStatusCode>
				<Error><ErrorDescription>No tracking information available</ErrorDescription></Error>
			</Response>
		</TrackResponse>`))

	_, err := client.ExpectedDelivery(context.Background(), validNumber)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeCarrierRejected))
	assert.Contains(t, err.Error(), "No tracking information available")
}

func TestExpectedDeliveryShapeCheckBeforeNetwork(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.ExpectedDelivery(context.Background(), "123456789012")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeTrackingInvalid))
	assert.False(t, called, "invalid shape must never reach the carrier")
}

func TestExpectedDeliveryServerFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client.client.sleepFn = func(d time.Duration) {} // no real waits in tests

	_, err := client.ExpectedDelivery(context.Background(), validNumber)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeCarrierUnavailable))
}

func TestExpectedDeliveryRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	client.client.sleepFn = func(d time.Duration) {}

	_, err := client.ExpectedDelivery(context.Background(), validNumber)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeUpstreamRateLimited),
		"429 maps to the rate-limit code, not plain unavailability")
}

func TestTrackRequestCarriesCredentialsAndNumber(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		io.WriteString(w, `<TrackResponse>
			<Response><ResponseStatusCode>1</ResponseStatusCode></Response>
			<Shipment><ScheduledDeliveryDate>20141224</ScheduledDeliveryDate></Shipment>
		</TrackResponse>`)
	})

	_, err := client.ExpectedDelivery(context.Background(), validNumber)
	require.NoError(t, err)

	assert.True(t, strings.Contains(gotBody, "<AccessLicenseNumber>license</AccessLicenseNumber>"))
	assert.True(t, strings.Contains(gotBody, "<TrackingNumber>"+validNumber+"</TrackingNumber>"))
}
