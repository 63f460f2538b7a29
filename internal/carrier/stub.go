package carrier

import (
	"context"

	"shipnotify/internal/types"
)

// StubService implements types.CarrierService without network access.
// It shape-checks like the real client and returns a fixed date text.
// Used when the process boots in local mode without carrier credentials.
type StubService struct {
	DateText string
	Logger   types.Logger
}

// ExpectedDelivery validates the number's shape and returns the fixed
// date text, or NoDateMessage when none is configured.
func (s *StubService) ExpectedDelivery(_ context.Context, trackingNumber string) (string, error) {
	if err := ValidateShape(trackingNumber); err != nil {
		return "", err
	}
	if s.Logger != nil {
		s.Logger.Info("stub: carrier lookup", "tracking_number", trackingNumber)
	}
	if s.DateText == "" {
		return NoDateMessage, nil
	}
	return s.DateText, nil
}

var _ types.CarrierService = (*StubService)(nil)
