package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"orders@acme.example", "o***@acme.example"},
		{"@acme.example", "***@acme.example"},
		{"not-an-email", "***"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.in), tt.in)
	}
}
