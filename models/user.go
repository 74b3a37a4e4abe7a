package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user (consumer or farmer)
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Phone        string    `json:"phone" db:"phone"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Avatar       string    `json:"avatar" db:"avatar"`
	PushToken    *string   `json:"push_token,omitempty" db:"push_token"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (User) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		phone VARCHAR(20) NOT NULL UNIQUE,
		full_name VARCHAR(200) NOT NULL,
		password_hash TEXT NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'consumer' CHECK (role IN ('consumer', 'farmer')),
		avatar TEXT,
		push_token TEXT,
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
