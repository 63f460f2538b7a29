package carrier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shipnotify/internal/types"
)

func TestValidateShape(t *testing.T) {
	tests := []struct {
		name           string
		trackingNumber string
		wantValid      bool
	}{
		{"valid 1Z number", "1Z6351950343296108", true},
		{"lower-case prefix accepted", "1z6351950343296108", true},
		{"empty", "", false},
		{"12 digits is another carrier", "123456789012", false},
		{"wrong prefix", "2Z6351950343296108", false},
		{"too short", "1Z63519503", false},
		{"too long", "1Z63519503432961081234", false},
		{"syntactically junk", "9999999", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShape(tt.trackingNumber)
			if tt.wantValid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, types.IsCode(err, types.ErrCodeTrackingInvalid))
		})
	}
}
