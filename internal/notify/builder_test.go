package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipnotify/internal/records"
	"shipnotify/internal/types"
)

// fakeCarrier returns a canned date or error without touching the network.
type fakeCarrier struct {
	dateText string
	err      error
	asked    []string
}

func (c *fakeCarrier) ExpectedDelivery(ctx context.Context, trackingNumber string) (string, error) {
	c.asked = append(c.asked, trackingNumber)
	if c.err != nil {
		return "", c.err
	}
	return c.dateText, nil
}

func slipLine(slipID, line int64, part string) records.Record {
	return records.Record{
		records.FieldSlipID:         records.IntValue(slipID),
		records.FieldCustomerID:     records.IntValue(4411),
		records.FieldOrderID:        records.IntValue(500),
		records.FieldTrackingNumber: records.StringValue("1z6351950343296108"),
		records.FieldAddrName:       records.StringValue("Acme Supply"),
		records.FieldAddrLine1:      records.StringValue("12 Main St"),
		records.FieldAddrLine3:      records.StringValue("Suite 4"),
		records.FieldCity:           records.StringValue("Springfield"),
		records.FieldState:          records.StringValue("IL"),
		records.FieldPostalCode:     records.StringValue("62701"),
		records.FieldLineNumber:     records.IntValue(line),
		records.FieldPartCode:       records.StringValue(part),
		records.FieldDescription:    records.StringValue("Widget"),
		records.FieldQuantity:       records.IntValue(3),
	}
}

func newTestBuilder(t *testing.T, store *records.Store, carrier types.CarrierService) *Builder {
	t.Helper()
	logger := &testLogger{}
	return NewBuilder(BuilderConfig{
		Store:        store,
		Carrier:      carrier,
		Filler:       newTestFiller(logger),
		SentinelCode: testSentinel,
		Placeholder:  testPlaceholder,
		Logger:       logger,
	})
}

func TestBuildCompleteNotification(t *testing.T) {
	store := testStore()
	store.Slips = records.NewTable("packing_slips", []records.Record{
		slipLine(100, 1, "W-1"),
		slipLine(100, 2, "G-2"),
	})
	carrier := &fakeCarrier{dateText: "12/24/2014"}

	n, err := newTestBuilder(t, store, carrier).Build(context.Background(), records.IntValue(100))
	require.NoError(t, err)

	assert.True(t, n.Flags.Deliverable())
	assert.Equal(t, "100", n.SlipID)
	assert.Equal(t, "500", n.OrderID)
	assert.Equal(t, "1Z6351950343296108", n.TrackingNumber, "tracking number is upper-cased")
	assert.Equal(t, []string{"1Z6351950343296108"}, carrier.asked)
	assert.Equal(t, "12/24/2014", n.ExpectedDateText)
	assert.Equal(t, "12 Main St<br>Suite 4", n.AddressHTML, "blank address lines are dropped")
	assert.Equal(t, "Springfield, IL 62701", n.CityStateZip)
	assert.Equal(t, "orders@acme.example", n.ContactEmail)
	require.Len(t, n.Items, 2)
	assert.Equal(t, "W-1", n.Items[0].PartCode)

	assert.Contains(t, n.Body, "Dear Acme Supply,")
	assert.Contains(t, n.Body, "12/24/2014")
	assert.NotContains(t, n.Body, testPlaceholder)
}

func TestBuildNoLineRows(t *testing.T) {
	store := testStore()
	carrier := &fakeCarrier{dateText: "12/24/2014"}

	_, err := newTestBuilder(t, store, carrier).Build(context.Background(), records.IntValue(999))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeRecordNotFound))
}

func TestBuildTrackingFailureDegrades(t *testing.T) {
	store := testStore()
	store.Slips = records.NewTable("packing_slips", []records.Record{slipLine(100, 1, "W-1")})
	carrier := &fakeCarrier{
		err: types.NewAppError(types.ErrCodeTrackingInvalid, "tracking number has an invalid shape", nil),
	}

	n, err := newTestBuilder(t, store, carrier).Build(context.Background(), records.IntValue(100))
	require.NoError(t, err, "a bad tracking number never aborts construction")

	assert.True(t, n.Flags.BadTrackingNumber)
	assert.False(t, n.Flags.Deliverable())
	assert.Equal(t, testPlaceholder, n.ExpectedDateText)
	assert.Contains(t, n.Body, testPlaceholder, "the placeholder flows into the rendered body")
}

func TestBuildLargePartnerSlip(t *testing.T) {
	store := testStore()
	row := slipLine(300, 1, "P-9")
	row[records.FieldCustomerID] = records.IntValue(testSentinel)
	row[records.FieldPartnerRef] = records.StringValue("REF-881")
	row[records.FieldAddrName] = records.StringValue("Partner Depot East")
	store.Slips = records.NewTable("packing_slips", []records.Record{row})
	carrier := &fakeCarrier{dateText: "12/24/2014"}

	n, err := newTestBuilder(t, store, carrier).Build(context.Background(), records.IntValue(300))
	require.NoError(t, err)

	assert.True(t, n.IsLargePartner)
	assert.True(t, n.Flags.Deliverable())
	assert.Equal(t, "depot@partner.example", n.ContactEmail, "contact joins through the partner reference")
	assert.Contains(t, n.Body, "ref REF-881")
}

func TestBuildMissingContactDegrades(t *testing.T) {
	store := testStore()
	row := slipLine(100, 1, "W-1")
	row[records.FieldCustomerID] = records.IntValue(1)
	store.Slips = records.NewTable("packing_slips", []records.Record{row})
	carrier := &fakeCarrier{dateText: "12/24/2014"}

	n, err := newTestBuilder(t, store, carrier).Build(context.Background(), records.IntValue(100))
	require.NoError(t, err)

	assert.True(t, n.Flags.NoEmailAddress)
	assert.True(t, n.Flags.NoGreetingName)
	assert.False(t, n.Flags.Deliverable())
	assert.Equal(t, testPlaceholder, n.ContactEmail)
}
