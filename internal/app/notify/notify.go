// Package notify delivers finished transcripts over email, carrier-gateway
// SMS and WhatsApp. Senders are thin formatters around their transports; all
// failures surface as notification errors with actionable messages.
package notify

import (
	"fmt"
	"strings"

	"clipscribe/internal/app/model"
)

// MaxMessageLen caps SMS and WhatsApp payloads. Longer messages are cut and
// suffixed with an ellipsis.
const MaxMessageLen = 1600

const divider = "------------------------------"

// FormatMessage renders the plain-text delivery body for a transcript.
func FormatMessage(t *model.Transcript) string {
	return fmt.Sprintf(`🎬 Video Transcript

📺 Video: %s
🌍 Language: %s

📝 Transcript:
%s
%s
%s

Generated by ClipScribe
`, t.SourceURL, t.Language, divider, t.Text, divider)
}

// FormatEmail renders the subject and body for an email delivery.
func FormatEmail(t *model.Transcript) (subject, body string) {
	subject = fmt.Sprintf("🎬 Your Video Transcript (%d lines)", t.LineCount)
	return subject, FormatMessage(t)
}

// Truncate enforces MaxMessageLen, replacing the tail with "...".
func Truncate(message string) string {
	if len(message) <= MaxMessageLen {
		return message
	}
	return message[:MaxMessageLen-3] + "..."
}

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
