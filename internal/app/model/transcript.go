package model

import "time"

// Channel is a transcript delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Valid reports whether c is a known delivery channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

// Transcript is one persisted pipeline result. SourceURL holds either the
// original video URL or "File: <name>" for uploads. The three sent flags are
// independent and only ever flip from false to true.
type Transcript struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	SourceURL    string    `json:"url"`
	Text         string    `json:"text"`
	Language     string    `json:"language"`
	LineCount    int       `json:"line_count"`
	CreatedAt    time.Time `json:"created_at"`
	SentEmail    bool      `json:"sent_email"`
	SentSMS      bool      `json:"sent_sms"`
	SentWhatsApp bool      `json:"sent_whatsapp"`
}
