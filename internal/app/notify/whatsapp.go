package notify

import (
	"strings"
	"sync"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	apierrors "clipscribe/internal/api/errors"
	"clipscribe/internal/config"
)

// messageCreator is the slice of the Twilio REST client the sender needs.
type messageCreator interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// WhatsAppSender delivers messages through the Twilio WhatsApp API. The REST
// client is built lazily on first use so an unconfigured server still boots.
type WhatsAppSender struct {
	cfg  config.TwilioConfig
	log  *zap.SugaredLogger
	once sync.Once

	client messageCreator
}

// NewWhatsAppSender creates a WhatsAppSender from Twilio credentials.
func NewWhatsAppSender(cfg config.TwilioConfig, log *zap.SugaredLogger) *WhatsAppSender {
	return &WhatsAppSender{cfg: cfg, log: log}
}

// NewWhatsAppSenderWithClient injects a prebuilt client, used by tests.
func NewWhatsAppSenderWithClient(cfg config.TwilioConfig, client messageCreator, log *zap.SugaredLogger) *WhatsAppSender {
	s := NewWhatsAppSender(cfg, log)
	s.client = client
	s.once.Do(func() {})
	return s
}

func (s *WhatsAppSender) Send(to, message string) error {
	if s.cfg.AccountSID == "" || s.cfg.AuthToken == "" {
		return apierrors.NewNotificationError(
			"WhatsApp not configured. Please set TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN in your .env file.")
	}

	s.once.Do(func() {
		rest := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: s.cfg.AccountSID,
			Password: s.cfg.AuthToken,
		})
		s.client = rest.Api
	})

	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetBody(Truncate(message))
	params.SetFrom(s.cfg.WhatsAppFrom)
	params.SetTo(to)

	if _, err := s.client.CreateMessage(params); err != nil {
		s.log.Warnw("whatsapp delivery failed", "to", to, "error", err)
		if strings.Contains(err.Error(), "not a valid WhatsApp") {
			return apierrors.NewNotificationError(
				"This number hasn't joined the Twilio WhatsApp Sandbox. " +
					"Ask the user to send 'join <sandbox-code>' to the Twilio number first.")
		}
		return apierrors.NewNotificationError("Failed to send WhatsApp: " + err.Error())
	}
	return nil
}
