// Package sqlite implements the repositories on SQLite, the default store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"clipscribe/internal/app/model"
	"clipscribe/internal/app/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	phone_carrier TEXT NOT NULL DEFAULT '',
	whatsapp TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS transcripts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	source_url TEXT NOT NULL,
	transcript_text TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	line_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	sent_email INTEGER NOT NULL DEFAULT 0,
	sent_sms INTEGER NOT NULL DEFAULT 0,
	sent_whatsapp INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_transcripts_user_created
	ON transcripts(user_id, created_at DESC);
`

// Open opens (creating if necessary) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_fk=1", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

// UserRepo is the SQLite UserRepository.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a UserRepo on an open database.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, phone, phone_carrier, whatsapp, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.PasswordHash, u.Name, u.Phone, u.PhoneCarrier, u.WhatsApp, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, phone, phone_carrier, whatsapp, created_at
		 FROM users WHERE email = ?`, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, phone, phone_carrier, whatsapp, created_at
		 FROM users WHERE id = ?`, id))
}

func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, phone = ?, phone_carrier = ?, whatsapp = ? WHERE id = ?`,
		u.Name, u.Phone, u.PhoneCarrier, u.WhatsApp, u.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *UserRepo) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.PhoneCarrier, &u.WhatsApp, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// TranscriptRepo is the SQLite TranscriptRepository.
type TranscriptRepo struct {
	db *sql.DB
}

// NewTranscriptRepo creates a TranscriptRepo on an open database.
func NewTranscriptRepo(db *sql.DB) *TranscriptRepo {
	return &TranscriptRepo{db: db}
}

func (r *TranscriptRepo) Create(ctx context.Context, t *model.Transcript) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transcripts (user_id, source_url, transcript_text, language, line_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.SourceURL, t.Text, t.Language, t.LineCount, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

func (r *TranscriptRepo) GetByID(ctx context.Context, id, userID int64) (*model.Transcript, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, source_url, transcript_text, language, line_count, created_at,
		        sent_email, sent_sms, sent_whatsapp
		 FROM transcripts WHERE id = ? AND user_id = ?`, id, userID)

	var t model.Transcript
	err := row.Scan(&t.ID, &t.UserID, &t.SourceURL, &t.Text, &t.Language, &t.LineCount,
		&t.CreatedAt, &t.SentEmail, &t.SentSMS, &t.SentWhatsApp)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return &t, nil
}

func (r *TranscriptRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Transcript, error) {
	query := `SELECT id, user_id, source_url, transcript_text, language, line_count, created_at,
	                 sent_email, sent_sms, sent_whatsapp
	          FROM transcripts WHERE user_id = ? ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	transcripts := make([]model.Transcript, 0)
	for rows.Next() {
		var t model.Transcript
		if err := rows.Scan(&t.ID, &t.UserID, &t.SourceURL, &t.Text, &t.Language, &t.LineCount,
			&t.CreatedAt, &t.SentEmail, &t.SentSMS, &t.SentWhatsApp); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		transcripts = append(transcripts, t)
	}
	return transcripts, rows.Err()
}

func (r *TranscriptRepo) MarkSent(ctx context.Context, id, userID int64, channel model.Channel) error {
	column, err := sentColumn(channel)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transcripts SET `+column+` = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// sentColumn maps a channel onto its flag column. The channel is validated
// here, never interpolated from user input directly.
func sentColumn(channel model.Channel) (string, error) {
	switch channel {
	case model.ChannelEmail:
		return "sent_email", nil
	case model.ChannelSMS:
		return "sent_sms", nil
	case model.ChannelWhatsApp:
		return "sent_whatsapp", nil
	default:
		return "", fmt.Errorf("unknown delivery channel: %s", channel)
	}
}
