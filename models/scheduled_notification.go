package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledNotification represents a push notification queued for later
// delivery, such as a pickup-day reminder.
type ScheduledNotification struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	Type         string     `json:"type" db:"type"` // "pickup-reminder", "delivery-reminder"
	OrderID      *uuid.UUID `json:"order_id" db:"order_id"`
	OrderNumber  string     `json:"order_number" db:"order_number"`
	Title        string     `json:"title" db:"title"`
	Body         string     `json:"body" db:"body"`
	ScheduledFor time.Time  `json:"scheduled_for" db:"scheduled_for"`
	Sent         bool       `json:"sent" db:"sent"`
	Cancelled    bool       `json:"cancelled" db:"cancelled"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (ScheduledNotification) TableName() string {
	return "scheduled_notifications"
}

func (ScheduledNotification) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS scheduled_notifications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type VARCHAR(50) NOT NULL CHECK (type IN ('pickup-reminder', 'delivery-reminder')),
		order_id UUID REFERENCES orders(id) ON DELETE CASCADE,
		order_number VARCHAR(50) NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		scheduled_for TIMESTAMP WITH TIME ZONE NOT NULL,
		sent BOOLEAN DEFAULT FALSE,
		cancelled BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
