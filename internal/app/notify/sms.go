package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	apierrors "clipscribe/internal/api/errors"
)

// SMSSender delivers short messages through carrier email-to-SMS gateways.
// The synthetic recipient is the last 10 digits of the phone number followed
// by the carrier's gateway domain suffix.
type SMSSender struct {
	mailer   Mailer
	gateways map[string]string
}

// NewSMSSender creates an SMSSender over a carrier gateway table mapping
// carrier name to email-domain suffix.
func NewSMSSender(mailer Mailer, gateways map[string]string) *SMSSender {
	return &SMSSender{mailer: mailer, gateways: gateways}
}

func (s *SMSSender) Send(phone, carrier, message string) error {
	suffix, ok := s.gateways[carrier]
	if !ok {
		supported := lo.Keys(s.gateways)
		sort.Strings(supported)
		return apierrors.NewNotificationError(fmt.Sprintf(
			"Unsupported carrier: %s. Supported carriers: %s",
			carrier, strings.Join(supported, ", ")))
	}

	digits := DigitsOnly(phone)
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if digits == "" {
		return apierrors.NewNotificationError("No valid phone number on file")
	}

	return s.mailer.Send(digits+suffix, "", Truncate(message))
}
