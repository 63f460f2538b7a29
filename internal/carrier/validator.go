// Package carrier validates tracking numbers and resolves expected
// delivery dates through the UPS XML tracking API. Shape validation is
// pure; only a well-shaped number ever reaches the network.
package carrier

import (
	"fmt"
	"strings"

	"shipnotify/internal/types"
)

// NoDateMessage is the fixed text used when the carrier has no delivery
// date information for a shipment. It is customer-facing and rendered
// into the email as-is.
const NoDateMessage = "Delivery date information is not currently available. " +
	"Please see the tracking link for delivery information."

// ValidateShape classifies a raw tracking-number string before any
// carrier call. The caller has already trimmed and upper-cased the input.
//
// Rejected shapes:
//   - empty string
//   - exactly 12 digits (known non-UPS carrier format)
//   - anything that is not 18 characters starting with "1Z"
func ValidateShape(trackingNumber string) error {
	switch {
	case trackingNumber == "":
		return types.NewAppError(types.ErrCodeTrackingInvalid,
			"tracking number is blank", nil)
	case len(trackingNumber) == 12 && isDigits(trackingNumber):
		return types.NewAppError(types.ErrCodeTrackingInvalid,
			"12-digit tracking number belongs to a different carrier", nil)
	case len(trackingNumber) != 18 || !strings.EqualFold(trackingNumber[:2], "1Z"):
		return types.NewAppError(types.ErrCodeTrackingInvalid,
			fmt.Sprintf("tracking number %q does not match the 1Z format", trackingNumber), nil)
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
