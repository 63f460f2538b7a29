package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shipnotify/internal/types"
)

// SMTPMailerConfig holds SMTP submission settings. The classic setup is
// an authenticated STARTTLS session on port 587.
type SMTPMailerConfig struct {
	Host     string
	Port     int
	Username string
	Password types.SecretString
	Timeout  time.Duration
	Logger   types.Logger
}

// SMTPMailer implements types.Mailer by submitting directly to an SMTP
// relay over STARTTLS. Each Send dials a fresh session; the batch volume
// is small enough that connection reuse is not worth the state.
type SMTPMailer struct {
	cfg SMTPMailerConfig
}

// NewSMTPMailer creates an SMTPMailer.
func NewSMTPMailer(cfg SMTPMailerConfig) *SMTPMailer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPMailer{cfg: cfg}
}

// Kind identifies this transport as real SMTP delivery.
func (m *SMTPMailer) Kind() types.MailerKind {
	return types.MailerSMTP
}

// Send submits one HTML message. The deadline covers the whole session:
// a stuck relay surfaces as a delivery error rather than a hung batch.
func (m *SMTPMailer) Send(ctx context.Context, msg types.MailMessage) (string, error) {
	deadline := time.Now().Add(m.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	conn, err := net.DialTimeout("tcp", addr, time.Until(deadline))
	if err != nil {
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			fmt.Sprintf("cannot reach SMTP relay %s", addr), err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			"cannot set SMTP session deadline", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			"SMTP handshake failed", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			"STARTTLS negotiation failed", err)
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password.Unmask(), m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			"SMTP authentication rejected", err)
	}

	if err := client.Mail(m.cfg.Username); err != nil {
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			"MAIL FROM rejected", err)
	}
	recipients := []string{msg.To}
	if msg.CC != "" {
		recipients = append(recipients, msg.CC)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return "", types.NewAppError(types.ErrCodeEmailBlocked,
				fmt.Sprintf("recipient %s rejected", RedactEmail(rcpt)), err)
		}
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.cfg.Host)
	w, err := client.Data()
	if err != nil {
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			"DATA rejected", err)
	}
	if _, err := w.Write(buildMIME(msg, messageID)); err != nil {
		w.Close()
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			"failed to write message body", err)
	}
	if err := w.Close(); err != nil {
		return "", types.NewAppError(types.ErrCodeDeliveryFailed,
			"message not accepted by relay", err)
	}
	if err := client.Quit(); err != nil {
		// Delivery already succeeded; a noisy QUIT is only worth a log.
		m.cfg.Logger.Warn("SMTP QUIT failed after accepted message", "error", err.Error())
	}

	m.cfg.Logger.Info("email submitted via SMTP",
		"dest", RedactEmail(msg.To),
		"message_id", messageID,
		"reference_id", msg.ReferenceID,
	)
	return messageID, nil
}

// buildMIME renders the RFC 5322 message: headers plus a single
// text/html part.
func buildMIME(msg types.MailMessage, messageID string) []byte {
	var b strings.Builder
	from := msg.From.Address
	if msg.From.Name != "" {
		from = fmt.Sprintf("%s <%s>", msg.From.Name, msg.From.Address)
	}
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.CC != "" {
		fmt.Fprintf(&b, "Cc: %s\r\n", msg.CC)
	}
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: %s\r\n", messageID)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.BodyHTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// Compile-time assertion that SMTPMailer implements types.Mailer.
var _ types.Mailer = (*SMTPMailer)(nil)
