package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"clipscribe/internal/api/errors"
	"clipscribe/internal/app/model"
)

var validate = validator.New()

// SendRequest delivers a transcript to the owner's own profile contacts.
type SendRequest struct {
	Method string `json:"method"`
}

// Channel resolves the requested delivery channel, defaulting to email.
func (r *SendRequest) Channel() (model.Channel, error) {
	return parseChannel(r.Method, "")
}

// SendDirectRequest delivers a transcript to an explicit recipient instead of
// the profile contacts. Only email and WhatsApp support direct recipients.
type SendDirectRequest struct {
	Method       string `json:"method"`
	Recipient    string `json:"recipient"`
	TranscriptID int64  `json:"transcript_id"`
}

// Validate checks the recipient and transcript reference and resolves the
// channel. Email recipients must parse as addresses.
func (r *SendDirectRequest) Validate() (model.Channel, error) {
	r.Recipient = strings.TrimSpace(r.Recipient)

	if r.Recipient == "" {
		return "", errors.NewValidationError("Please provide a recipient")
	}
	if r.TranscriptID == 0 {
		return "", errors.NewValidationError("No transcript selected")
	}

	channel, err := parseChannel(r.Method, model.ChannelSMS)
	if err != nil {
		return "", err
	}

	if channel == model.ChannelEmail {
		if err := validate.Var(r.Recipient, "email"); err != nil {
			return "", errors.NewValidationError("Please enter a valid email address")
		}
	}
	return channel, nil
}

// parseChannel maps a method string to a Channel. An empty method means
// email; unsupported holds a channel valid elsewhere but not here.
func parseChannel(method string, unsupported model.Channel) (model.Channel, error) {
	if method == "" {
		return model.ChannelEmail, nil
	}
	channel := model.Channel(method)
	if !channel.Valid() || (unsupported != "" && channel == unsupported) {
		return "", errors.NewValidationError("Invalid delivery method")
	}
	return channel, nil
}
