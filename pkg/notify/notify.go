// Package notify sends the daily insight digest email through Resend.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/Karineprates/FinanceAI/internal/domain/insights"
)

// Sender is the outbound email port. The Resend client satisfies it in
// production; tests inject a recorder.
type Sender interface {
	Send(from, to, subject, html string) error
}

// ResendSender sends email through the Resend API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender creates a Resend-backed sender.
func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

func (r *ResendSender) Send(from, to, subject, html string) error {
	_, err := r.client.Emails.Send(&resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	return err
}

// DigestMailer renders and sends the daily insight digest.
type DigestMailer struct {
	sender Sender
	from   string
	to     string
	logger *slog.Logger
}

// NewDigestMailer creates a digest mailer. A nil sender disables sending.
func NewDigestMailer(sender Sender, from, to string, logger *slog.Logger) *DigestMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &DigestMailer{sender: sender, from: from, to: to, logger: logger}
}

// SendDigest renders the insight result into the digest email and sends it.
func (m *DigestMailer) SendDigest(result *insights.Result) error {
	if m.sender == nil {
		m.logger.Warn("email sender not configured, skipping digest")
		return nil
	}

	html := digestHTML(result)
	if err := m.sender.Send(m.from, m.to, "Your daily spending digest", html); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	m.logger.Info("digest sent",
		slog.String("to", m.to),
		slog.Int("insights", len(result.Items)),
	)
	return nil
}

func digestHTML(result *insights.Result) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body>`)
	b.WriteString(`<h1>Daily spending digest</h1>`)

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "<h2>%s</h2><ul>", title)
		for _, item := range items {
			fmt.Fprintf(&b, "<li>%s</li>", item)
		}
		b.WriteString("</ul>")
	}
	section("Overview", result.Overview())
	section("Alerts", result.Alerts())
	section("Suggestions", result.Suggestions())

	b.WriteString(`</body></html>`)
	return b.String()
}
