package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clipscribe/internal/api/errors"
	"clipscribe/internal/app/model"
	"clipscribe/internal/app/notify"
	"clipscribe/internal/app/repository"
)

// EmailChannel sends one email.
type EmailChannel interface {
	Send(to, subject, body string) error
}

// SMSChannel sends one carrier-gateway SMS.
type SMSChannel interface {
	Send(phone, carrier, message string) error
}

// WhatsAppChannel sends one WhatsApp message.
type WhatsAppChannel interface {
	Send(to, message string) error
}

// DeliveryService sends finished transcripts over the configured channels and
// records each successful delivery on the transcript row.
type DeliveryService struct {
	transcripts repository.TranscriptRepository
	email       EmailChannel
	sms         SMSChannel
	whatsapp    WhatsAppChannel
	log         *zap.SugaredLogger
}

// NewDeliveryService creates a DeliveryService.
func NewDeliveryService(
	transcripts repository.TranscriptRepository,
	email EmailChannel,
	sms SMSChannel,
	whatsapp WhatsAppChannel,
	log *zap.SugaredLogger,
) *DeliveryService {
	return &DeliveryService{
		transcripts: transcripts,
		email:       email,
		sms:         sms,
		whatsapp:    whatsapp,
		log:         log,
	}
}

// SendToProfile delivers a transcript to the owner's own contact details. The
// required profile field for the channel must be set.
func (s *DeliveryService) SendToProfile(ctx context.Context, user *model.User, transcriptID int64, channel model.Channel) (string, error) {
	t, err := s.get(ctx, user.ID, transcriptID)
	if err != nil {
		return "", err
	}

	switch channel {
	case model.ChannelEmail:
		if user.Email == "" {
			return "", errors.NewValidationError("No email address on file")
		}
		subject, body := notify.FormatEmail(t)
		if err := s.email.Send(user.Email, subject, body); err != nil {
			return "", err
		}
		return s.confirm(ctx, t, channel, fmt.Sprintf("Transcript sent to %s", user.Email))

	case model.ChannelSMS:
		if user.Phone == "" || user.PhoneCarrier == "" {
			return "", errors.NewValidationError("Please set your phone number and carrier in your profile")
		}
		message := fmt.Sprintf("🎬 Transcript ready! %d lines. Check your email for full text.", t.LineCount)
		if err := s.sms.Send(user.Phone, user.PhoneCarrier, message); err != nil {
			return "", err
		}
		return s.confirm(ctx, t, channel, fmt.Sprintf("SMS sent to %s", user.Phone))

	case model.ChannelWhatsApp:
		if user.WhatsApp == "" {
			return "", errors.NewValidationError("Please set your WhatsApp number in your profile")
		}
		if err := s.whatsapp.Send(user.WhatsApp, notify.FormatMessage(t)); err != nil {
			return "", err
		}
		return s.confirm(ctx, t, channel, fmt.Sprintf("WhatsApp sent to %s", user.WhatsApp))

	default:
		return "", errors.NewValidationError("Invalid delivery method")
	}
}

// SendDirect delivers a transcript to an explicit recipient. The caller has
// already validated email recipients; WhatsApp numbers are normalized here.
func (s *DeliveryService) SendDirect(ctx context.Context, user *model.User, transcriptID int64, channel model.Channel, recipient string) (string, error) {
	t, err := s.get(ctx, user.ID, transcriptID)
	if err != nil {
		return "", err
	}

	switch channel {
	case model.ChannelEmail:
		subject, body := notify.FormatEmail(t)
		if err := s.email.Send(recipient, subject, body); err != nil {
			return "", err
		}
		return s.confirm(ctx, t, channel, fmt.Sprintf("Transcript sent to %s", recipient))

	case model.ChannelWhatsApp:
		digits := notify.DigitsOnly(recipient)
		if len(digits) < 10 {
			return "", errors.NewValidationError("Please enter a valid phone number with country code")
		}
		if !strings.HasPrefix(recipient, "+") {
			recipient = "+" + digits
		}
		if err := s.whatsapp.Send(recipient, notify.FormatMessage(t)); err != nil {
			return "", err
		}
		return s.confirm(ctx, t, channel, fmt.Sprintf("WhatsApp sent to %s", recipient))

	default:
		return "", errors.NewValidationError("Invalid delivery method")
	}
}

func (s *DeliveryService) get(ctx context.Context, userID, transcriptID int64) (*model.Transcript, error) {
	t, err := s.transcripts.GetByID(ctx, transcriptID, userID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewNotFoundError("Transcript")
	}
	if err != nil {
		return nil, errors.NewInternalError("Failed to load transcript")
	}
	return t, nil
}

// confirm flags the channel as sent and returns the confirmation message.
// The delivery already happened, so a failed flag update is logged but does
// not turn the response into an error.
func (s *DeliveryService) confirm(ctx context.Context, t *model.Transcript, channel model.Channel, message string) (string, error) {
	if err := s.transcripts.MarkSent(ctx, t.ID, t.UserID, channel); err != nil {
		s.log.Warnw("failed to record delivery",
			"transcript_id", t.ID, "channel", channel, "error", err)
	}
	s.log.Infow("transcript delivered", "transcript_id", t.ID, "channel", channel)
	return message, nil
}
