package mailer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shipnotify/internal/types"
)

// SimulationMailer implements types.Mailer by writing the would-be
// message to an HTML file instead of transmitting anything. It exists so
// an operator can eyeball a full batch before pointing it at customers.
// Log lines always say "simulated"; this transport must never be
// mistaken for real delivery.
type SimulationMailer struct {
	dir    string
	logger types.Logger
}

// NewSimulationMailer creates a SimulationMailer writing into dir
// (the working directory when empty).
func NewSimulationMailer(dir string, logger types.Logger) *SimulationMailer {
	if dir == "" {
		dir = "."
	}
	return &SimulationMailer{dir: dir, logger: logger}
}

// Kind identifies this transport as simulation.
func (m *SimulationMailer) Kind() types.MailerKind {
	return types.MailerSimulation
}

// Send writes the message to test_email_for_<recipient>.html, suffixing
// the name until it does not clobber an earlier artifact. The returned
// ID is the written file path.
func (m *SimulationMailer) Send(_ context.Context, msg types.MailMessage) (string, error) {
	base := "test_email_for_" + msg.To
	name := base
	for fileExists(filepath.Join(m.dir, name+".html")) {
		name += " next"
	}
	path := filepath.Join(m.dir, name+".html")

	var b strings.Builder
	header := func(label, value string) {
		fmt.Fprintf(&b, "<P><B>%s: %s</B></P>\n", label, value)
	}
	header("TO", msg.To)
	header("CC", msg.CC)
	header("SUBJECT", msg.Subject)
	b.WriteString(msg.BodyHTML)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			fmt.Sprintf("cannot write simulated email %q", path), err)
	}

	m.logger.Info("simulated email written",
		"path", path,
		"dest", RedactEmail(msg.To),
		"reference_id", msg.ReferenceID,
	)
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Compile-time assertion that SimulationMailer implements types.Mailer.
var _ types.Mailer = (*SimulationMailer)(nil)
