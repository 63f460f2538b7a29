package mailer

import "strings"

// RedactEmail masks an email address for safe logging, keeping only the
// first character of the local part and the domain. A string without an
// "@" is masked entirely.
func RedactEmail(email string) string {
	if email == "" {
		return ""
	}
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return "***"
	}
	if local == "" {
		return "***@" + domain
	}
	return string(local[0]) + "***@" + domain
}
