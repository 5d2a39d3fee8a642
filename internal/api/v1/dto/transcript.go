package dto

import "clipscribe/internal/app/model"

// TranscribeURLRequest submits a remote video by URL. The handler also
// accepts form-encoded bodies and multipart uploads, so no field is required
// at binding time.
type TranscribeURLRequest struct {
	URL string `json:"url" form:"url"`
}

// TranscriptDetail is the full transcript view.
type TranscriptDetail struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Text      string `json:"text"`
	Language  string `json:"language"`
	LineCount int    `json:"line_count"`
	CreatedAt string `json:"created_at"`
}

// NewTranscriptDetail builds a TranscriptDetail from a transcript.
func NewTranscriptDetail(t *model.Transcript) TranscriptDetail {
	return TranscriptDetail{
		ID:        t.ID,
		URL:       t.SourceURL,
		Text:      t.Text,
		Language:  t.Language,
		LineCount: t.LineCount,
		CreatedAt: formatTime(t.CreatedAt),
	}
}

// HistoryItem is the transcript list view. It carries delivery flags but not
// the text itself.
type HistoryItem struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	Language     string `json:"language"`
	LineCount    int    `json:"line_count"`
	CreatedAt    string `json:"created_at"`
	SentEmail    bool   `json:"sent_email"`
	SentSMS      bool   `json:"sent_sms"`
	SentWhatsApp bool   `json:"sent_whatsapp"`
}

// NewHistoryItem builds a HistoryItem from a transcript.
func NewHistoryItem(t *model.Transcript) HistoryItem {
	return HistoryItem{
		ID:           t.ID,
		URL:          t.SourceURL,
		Language:     t.Language,
		LineCount:    t.LineCount,
		CreatedAt:    formatTime(t.CreatedAt),
		SentEmail:    t.SentEmail,
		SentSMS:      t.SentSMS,
		SentWhatsApp: t.SentWhatsApp,
	}
}
