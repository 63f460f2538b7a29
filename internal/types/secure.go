package types

import "log/slog"

// redactedPlaceholder replaces secret values in logs and serialization.
const redactedPlaceholder = "***REDACTED***"

var redactedJSON = []byte(`"***REDACTED***"`)

// SecretString is a string type that prevents accidental logging or
// serialization of sensitive values (carrier credentials, SMTP passwords).
// It overrides String, MarshalJSON, and LogValue so the raw value never
// reaches fmt output, JSON config dumps, or structured log entries.
//
// Use Unmask to retrieve the plaintext where it is genuinely needed, such
// as building an authentication payload for an outbound request.
type SecretString string

// String returns a redacted placeholder instead of the raw value.
func (s SecretString) String() string {
	return redactedPlaceholder
}

// MarshalJSON returns the redacted placeholder as a JSON string.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return redactedJSON, nil
}

// LogValue implements slog.LogValuer so slog attributes built from a
// SecretString are redacted without the call site having to remember to.
func (s SecretString) LogValue() slog.Value {
	return slog.StringValue(redactedPlaceholder)
}

// Unmask returns the raw plaintext value of the secret.
func (s SecretString) Unmask() string {
	return string(s)
}
