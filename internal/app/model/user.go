package model

import "time"

// User is an account that owns transcripts. Email is stored lowercased and
// must be unique.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PhoneCarrier string    `json:"phone_carrier"`
	WhatsApp     string    `json:"whatsapp"`
	CreatedAt    time.Time `json:"created_at"`
}
