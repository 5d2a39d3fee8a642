package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apierrors "clipscribe/internal/api/errors"
	"clipscribe/internal/api/middleware"
	"clipscribe/internal/api/v1/handlers"
	"clipscribe/internal/api/v1/routes"
	"clipscribe/internal/api/v1/services"
	"clipscribe/internal/app/model"
	"clipscribe/internal/app/pipeline"
	"clipscribe/internal/app/repository"
)

type memUsers struct {
	byID   map[int64]*model.User
	nextID int64
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	u.ID = m.nextID
	m.nextID++
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) UpdateProfile(_ context.Context, u *model.User) error {
	m.byID[u.ID] = u
	return nil
}

type memTranscripts struct {
	rows   map[int64]*model.Transcript
	nextID int64
}

func (m *memTranscripts) Create(_ context.Context, t *model.Transcript) error {
	t.ID = m.nextID
	m.nextID++
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
	}
	return nil
}

// fakeRunner stands in for the pipeline and records the source it received.
type fakeRunner struct {
	transcripts *memTranscripts
	lastSource  pipeline.Source
	err         error
}

func (f *fakeRunner) Run(ctx context.Context, userID int64, src pipeline.Source) (*model.Transcript, error) {
	f.lastSource = src
	if f.err != nil {
		return nil, f.err
	}
	t := &model.Transcript{
		UserID:    userID,
		SourceURL: src.Ref(),
		Text:      "Hello.",
		Language:  "english",
		LineCount: 1,
	}
	if err := f.transcripts.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

type emailChannel struct{ err error }

func (e *emailChannel) Send(_, _, _ string) error { return e.err }

type smsChannel struct{ err error }

func (s *smsChannel) Send(_, _, _ string) error { return s.err }

type whatsappChannel struct{ err error }

func (w *whatsappChannel) Send(_, _ string) error { return w.err }

type fixture struct {
	router      *gin.Engine
	users       *memUsers
	transcripts *memTranscripts
	runner      *fakeRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUsers{byID: map[int64]*model.User{}, nextID: 1}
	transcripts := &memTranscripts{rows: map[int64]*model.Transcript{}, nextID: 1}
	runner := &fakeRunner{transcripts: transcripts}
	log := zap.NewNop().Sugar()

	authService := services.NewAuthService(users, log)
	transcriptService := services.NewTranscriptService(runner, transcripts)
	deliveryService := services.NewDeliveryService(
		transcripts, &emailChannel{}, &smsChannel{}, &whatsappChannel{}, log)

	h := &routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, users),
		Transcribe: handlers.NewTranscribeHandler(transcriptService, 200<<20),
		Transcript: handlers.NewTranscriptHandler(transcriptService),
		Send:       handlers.NewSendHandler(deliveryService),
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	router.Use(sessions.Sessions("clipscribe_session", cookie.NewStore([]byte("test-secret"))))
	routes.Register(router, h, users)

	return &fixture{router: router, users: users, transcripts: transcripts, runner: runner}
}

// do sends a request, carrying the session cookie between calls.
func (f *fixture) do(t *testing.T, method, path string, body any, sessionCookie string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionCookie != "" {
		req.Header.Set("Cookie", sessionCookie)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	nextCookie := sessionCookie
	if raw := w.Header().Get("Set-Cookie"); raw != "" {
		nextCookie = strings.SplitN(raw, ";", 2)[0]
	}
	return w, nextCookie
}

func (f *fixture) signIn(t *testing.T) string {
	t.Helper()
	w, session := f.do(t, http.MethodPost, "/register", gin.H{
		"email": "ana@example.com", "password": "hunter2", "name": "Ana",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, session)
	return session
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterLoginFlow(t *testing.T) {
	f := newFixture(t)

	w, session := f.do(t, http.MethodPost, "/register", gin.H{
		"email": "Ana@Example.COM", "password": "hunter2", "name": "Ana",
	}, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["email"], "email is lowercased")

	// The registration session is live.
	w, _ = f.do(t, http.MethodGet, "/me", nil, session)
	body = decode(t, w)
	assert.Equal(t, true, body["authenticated"])

	// A fresh client can log in with the same credentials.
	w, session = f.do(t, http.MethodPost, "/login", gin.H{
		"email": "ana@example.com", "password": "hunter2",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodPost, "/logout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		body     gin.H
		wantCode int
		wantErr  string
	}{
		{
			name:     "short password",
			body:     gin.H{"email": "a@b.com", "password": "12345"},
			wantCode: http.StatusBadRequest,
			wantErr:  "Password must be at least 6 characters",
		},
		{
			name:     "missing email",
			body:     gin.H{"password": "hunter2"},
			wantCode: http.StatusBadRequest,
			wantErr:  "Email and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := f.do(t, http.MethodPost, "/register", tt.body, "")

			assert.Equal(t, tt.wantCode, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	w, _ := f.do(t, http.MethodPost, "/register", gin.H{
		"email": "ANA@example.com", "password": "other-pass",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decode(t, w)["error"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	w, _ := f.do(t, http.MethodPost, "/login", gin.H{
		"email": "ana@example.com", "password": "wrong",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decode(t, w)["error"])
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	f := newFixture(t)

	paths := []struct{ method, path string }{
		{http.MethodPost, "/transcribe"},
		{http.MethodGet, "/history"},
		{http.MethodGet, "/transcript/1"},
		{http.MethodPost, "/send/1"},
		{http.MethodPost, "/send-direct"},
		{http.MethodPost, "/profile"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w, _ := f.do(t, p.method, p.path, gin.H{}, "")

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestTranscribe_URLSource(t *testing.T) {
	f := newFixture(t)
	session := f.signIn(t)

	w, _ := f.do(t, http.MethodPost, "/transcribe", gin.H{"url": "https://example.com/v/1"}, session)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Hello.", body["transcript"])
	assert.Equal(t, "english", body["language"])
	assert.Equal(t, float64(1), body["line_count"])
	assert.Equal(t, "https://example.com/v/1", body["url"])
	assert.Equal(t, "https://example.com/v/1", f.runner.lastSource.URL)
}

func TestTranscribe_MissingSource(t *testing.T) {
	f := newFixture(t)
	session := f.signIn(t)

	w, _ := f.do(t, http.MethodPost, "/transcribe", gin.H{"url": "   "}, session)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please provide a video URL or upload a file", decode(t, w)["error"])
}

func TestTranscribe_PipelineErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"acquisition", apierrors.NewAcquisitionError("Download failed. Error: boom"), http.StatusBadRequest},
		{"empty transcript", apierrors.NewEmptyTranscriptError(), http.StatusBadRequest},
		{"transcription", apierrors.NewTranscriptionError("model unavailable"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			session := f.signIn(t)
			f.runner.err = tt.err

			w, _ := f.do(t, http.MethodPost, "/transcribe", gin.H{"url": "https://example.com/v"}, session)

			assert.Equal(t, tt.wantCode, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestTranscribe_UploadRejectsUnknownExtension(t *testing.T) {
	f := newFixture(t)
	session := f.signIn(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "malware.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("not media"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Cookie", session)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid file type. Allowed: mp3, wav, m4a, mp4, mov, webm", decode(t, w)["error"])
}

func TestTranscribe_UploadAccepted(t *testing.T) {
	f := newFixture(t)
	session := f.signIn(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "my talk.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("media-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Cookie", session)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "my_talk.mp4", f.runner.lastSource.Filename, "spaces become underscores")
	assert.Equal(t, "File: my_talk.mp4", decode(t, w)["url"])
}

func TestTranscriptOwnershipMasking(t *testing.T) {
	f := newFixture(t)

	// First user creates a transcript.
	session := f.signIn(t)
	w, _ := f.do(t, http.MethodPost, "/transcribe", gin.H{"url": "https://example.com/v"}, session)
	require.Equal(t, http.StatusOK, w.Code)
	id := int64(decode(t, w)["transcript_id"].(float64))

	// Second user cannot see it, and the error does not reveal it exists.
	w, other := f.do(t, http.MethodPost, "/register", gin.H{
		"email": "bo@example.com", "password": "hunter2",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, fmt.Sprintf("/transcript/%d", id), nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Transcript not found", decode(t, w)["error"])

	w, _ = f.do(t, http.MethodPost, fmt.Sprintf("/send/%d", id), gin.H{"method": "email"}, other)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryOmitsText(t *testing.T) {
	f := newFixture(t)
	session := f.signIn(t)
	w, _ := f.do(t, http.MethodPost, "/transcribe", gin.H{"url": "https://example.com/v"}, session)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, "/history", nil, session)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	items := body["transcripts"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.NotContains(t, item, "text")
	assert.Contains(t, item, "sent_email")
}

func TestSendUpdatesFlag(t *testing.T) {
	f := newFixture(t)
	session := f.signIn(t)
	w, _ := f.do(t, http.MethodPost, "/transcribe", gin.H{"url": "https://example.com/v"}, session)
	require.Equal(t, http.StatusOK, w.Code)
	id := int64(decode(t, w)["transcript_id"].(float64))

	w, _ = f.do(t, http.MethodPost, fmt.Sprintf("/send/%d", id), gin.H{"method": "email"}, session)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Transcript sent to ana@example.com", body["message"])
	assert.True(t, f.transcripts.rows[id].SentEmail)
	assert.False(t, f.transcripts.rows[id].SentSMS)
}

func TestSendDirectValidation(t *testing.T) {
	f := newFixture(t)
	session := f.signIn(t)

	tests := []struct {
		name    string
		body    gin.H
		wantErr string
	}{
		{"missing recipient", gin.H{"method": "email", "transcript_id": 1}, "Please provide a recipient"},
		{"missing transcript", gin.H{"method": "email", "recipient": "a@b.com"}, "No transcript selected"},
		{"bad email", gin.H{"method": "email", "recipient": "not-an-email", "transcript_id": 1}, "Please enter a valid email address"},
		{"sms not supported", gin.H{"method": "sms", "recipient": "9876543210", "transcript_id": 1}, "Invalid delivery method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := f.do(t, http.MethodPost, "/send-direct", tt.body, session)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, decode(t, w)["error"])
		})
	}
}
