// Package pg implements the repositories on PostgreSQL, selected with
// DB_DRIVER=postgres and a DATABASE_URL DSN.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"clipscribe/internal/app/model"
	"clipscribe/internal/app/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	phone_carrier TEXT NOT NULL DEFAULT '',
	whatsapp TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transcripts (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id),
	source_url TEXT NOT NULL,
	transcript_text TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	line_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	sent_email BOOLEAN NOT NULL DEFAULT FALSE,
	sent_sms BOOLEAN NOT NULL DEFAULT FALSE,
	sent_whatsapp BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_transcripts_user_created
	ON transcripts(user_id, created_at DESC);
`

// Open connects to PostgreSQL, verifies the connection and ensures the schema
// exists.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

// UserRepo is the PostgreSQL UserRepository.
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
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, name, phone, phone_carrier, whatsapp, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		u.Email, u.PasswordHash, u.Name, u.Phone, u.PhoneCarrier, u.WhatsApp, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, phone, phone_carrier, whatsapp, created_at
		 FROM users WHERE email = $1`, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, phone, phone_carrier, whatsapp, created_at
		 FROM users WHERE id = $1`, id))
}

func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $1, phone = $2, phone_carrier = $3, whatsapp = $4 WHERE id = $5`,
		u.Name, u.Phone, u.PhoneCarrier, u.WhatsApp, u.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
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

// TranscriptRepo is the PostgreSQL TranscriptRepository.
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
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transcripts (user_id, source_url, transcript_text, language, line_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		t.UserID, t.SourceURL, t.Text, t.Language, t.LineCount, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

func (r *TranscriptRepo) GetByID(ctx context.Context, id, userID int64) (*model.Transcript, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, source_url, transcript_text, language, line_count, created_at,
		        sent_email, sent_sms, sent_whatsapp
		 FROM transcripts WHERE id = $1 AND user_id = $2`, id, userID)

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
	          FROM transcripts WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
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
	var column string
	switch channel {
	case model.ChannelEmail:
		column = "sent_email"
	case model.ChannelSMS:
		column = "sent_sms"
	case model.ChannelWhatsApp:
		column = "sent_whatsapp"
	default:
		return fmt.Errorf("unknown delivery channel: %s", channel)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE transcripts SET `+column+` = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
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
