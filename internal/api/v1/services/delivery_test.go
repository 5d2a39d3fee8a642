package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apierrors "clipscribe/internal/api/errors"
	"clipscribe/internal/app/model"
	"clipscribe/internal/app/repository"
)

type memTranscripts struct {
	rows map[int64]*model.Transcript
}

func newMemTranscripts(rows ...*model.Transcript) *memTranscripts {
	m := &memTranscripts{rows: map[int64]*model.Transcript{}}
	for _, t := range rows {
		m.rows[t.ID] = t
	}
	return m
}

func (m *memTranscripts) Create(_ context.Context, t *model.Transcript) error {
	m.rows[t.ID] = t
	return nil
}

func (m *memTranscripts) GetByID(_ context.Context, id, userID int64) (*model.Transcript, error) {
	t, ok := m.rows[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (m *memTranscripts) ListByUser(_ context.Context, userID int64, _ int) ([]model.Transcript, error) {
	var out []model.Transcript
	for _, t := range m.rows {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTranscripts) MarkSent(_ context.Context, id, userID int64, channel model.Channel) error {
	t, ok := m.rows[id]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	switch channel {
	case model.ChannelEmail:
		t.SentEmail = true
	case model.ChannelSMS:
		t.SentSMS = true
	case model.ChannelWhatsApp:
		t.SentWhatsApp = true
	default:
		return fmt.Errorf("unknown delivery channel: %s", channel)
	}
	return nil
}

type recordingEmail struct {
	to  string
	err error
}

func (r *recordingEmail) Send(to, _, _ string) error {
	r.to = to
	return r.err
}

type recordingSMS struct {
	phone, carrier string
	err            error
}

func (r *recordingSMS) Send(phone, carrier, _ string) error {
	r.phone, r.carrier = phone, carrier
	return r.err
}

type recordingWhatsApp struct {
	to  string
	err error
}

func (r *recordingWhatsApp) Send(to, _ string) error {
	r.to = to
	return r.err
}

func fullProfileUser() *model.User {
	return &model.User{
		ID:           1,
		Email:        "ana@example.com",
		Phone:        "+91 98765 43210",
		PhoneCarrier: "jio",
		WhatsApp:     "+919876543210",
	}
}

func deliveryFixture(t *model.Transcript) (*DeliveryService, *memTranscripts, *recordingEmail, *recordingSMS, *recordingWhatsApp) {
	repo := newMemTranscripts(t)
	email := &recordingEmail{}
	sms := &recordingSMS{}
	whatsapp := &recordingWhatsApp{}
	svc := NewDeliveryService(repo, email, sms, whatsapp, zap.NewNop().Sugar())
	return svc, repo, email, sms, whatsapp
}

func ownedTranscript() *model.Transcript {
	return &model.Transcript{ID: 10, UserID: 1, SourceURL: "https://example.com/v", Text: "Hi.", Language: "english", LineCount: 1}
}

func TestSendToProfile_FlagsAreIndependent(t *testing.T) {
	row := ownedTranscript()
	svc, repo, email, _, whatsapp := deliveryFixture(row)
	user := fullProfileUser()

	_, err := svc.SendToProfile(context.Background(), user, row.ID, model.ChannelEmail)
	require.NoError(t, err)
	_, err = svc.SendToProfile(context.Background(), user, row.ID, model.ChannelWhatsApp)
	require.NoError(t, err)

	got := repo.rows[row.ID]
	assert.True(t, got.SentEmail)
	assert.True(t, got.SentWhatsApp)
	assert.False(t, got.SentSMS)
	assert.Equal(t, "ana@example.com", email.to)
	assert.Equal(t, "+919876543210", whatsapp.to)
}

func TestSendToProfile_OwnershipMaskedAsNotFound(t *testing.T) {
	row := ownedTranscript()
	svc, _, _, _, _ := deliveryFixture(row)
	stranger := &model.User{ID: 99, Email: "x@example.com"}

	_, err := svc.SendToProfile(context.Background(), stranger, row.ID, model.ChannelEmail)

	require.Error(t, err)
	apiErr := apierrors.AsAPIError(err)
	assert.Equal(t, apierrors.KindNotFound, apiErr.Kind)
	assert.Equal(t, "Transcript not found", apiErr.Message)
}

func TestSendToProfile_MissingProfileFields(t *testing.T) {
	tests := []struct {
		name    string
		channel model.Channel
		user    *model.User
		wantMsg string
	}{
		{
			name:    "sms without phone",
			channel: model.ChannelSMS,
			user:    &model.User{ID: 1, Email: "a@b.com", PhoneCarrier: "jio"},
			wantMsg: "Please set your phone number and carrier in your profile",
		},
		{
			name:    "sms without carrier",
			channel: model.ChannelSMS,
			user:    &model.User{ID: 1, Email: "a@b.com", Phone: "9876543210"},
			wantMsg: "Please set your phone number and carrier in your profile",
		},
		{
			name:    "whatsapp without number",
			channel: model.ChannelWhatsApp,
			user:    &model.User{ID: 1, Email: "a@b.com"},
			wantMsg: "Please set your WhatsApp number in your profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := ownedTranscript()
			svc, repo, _, _, _ := deliveryFixture(row)

			_, err := svc.SendToProfile(context.Background(), tt.user, row.ID, tt.channel)

			require.Error(t, err)
			apiErr := apierrors.AsAPIError(err)
			assert.Equal(t, apierrors.KindValidation, apiErr.Kind)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			got := repo.rows[row.ID]
			assert.False(t, got.SentSMS)
			assert.False(t, got.SentWhatsApp)
		})
	}
}

func TestSendToProfile_ChannelFailureLeavesFlagUnset(t *testing.T) {
	row := ownedTranscript()
	svc, repo, email, _, _ := deliveryFixture(row)
	email.err = apierrors.NewNotificationError("Failed to send email: connection refused")

	_, err := svc.SendToProfile(context.Background(), fullProfileUser(), row.ID, model.ChannelEmail)

	require.Error(t, err)
	assert.Equal(t, apierrors.KindNotification, apierrors.AsAPIError(err).Kind)
	assert.False(t, repo.rows[row.ID].SentEmail)
}

func TestSendDirect_EmailRecipient(t *testing.T) {
	row := ownedTranscript()
	svc, repo, email, _, _ := deliveryFixture(row)

	msg, err := svc.SendDirect(context.Background(), fullProfileUser(), row.ID, model.ChannelEmail, "friend@example.com")

	require.NoError(t, err)
	assert.Equal(t, "Transcript sent to friend@example.com", msg)
	assert.Equal(t, "friend@example.com", email.to)
	assert.True(t, repo.rows[row.ID].SentEmail)
}

func TestSendDirect_WhatsAppNormalizesRecipient(t *testing.T) {
	tests := []struct {
		name      string
		recipient string
		wantTo    string
	}{
		{"already prefixed", "+919876543210", "+919876543210"},
		{"digits with spaces", "91 98765 43210", "+919876543210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := ownedTranscript()
			svc, _, _, _, whatsapp := deliveryFixture(row)

			_, err := svc.SendDirect(context.Background(), fullProfileUser(), row.ID, model.ChannelWhatsApp, tt.recipient)

			require.NoError(t, err)
			assert.Equal(t, tt.wantTo, whatsapp.to)
		})
	}
}

func TestSendDirect_WhatsAppTooShort(t *testing.T) {
	row := ownedTranscript()
	svc, _, _, _, _ := deliveryFixture(row)

	_, err := svc.SendDirect(context.Background(), fullProfileUser(), row.ID, model.ChannelWhatsApp, "12345")

	require.Error(t, err)
	assert.Equal(t, "Please enter a valid phone number with country code", apierrors.AsAPIError(err).Message)
}
