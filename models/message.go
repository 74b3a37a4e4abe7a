package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation links a consumer and a farmer.
type Conversation struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ConsumerID uuid.UUID `json:"consumer_id" db:"consumer_id"`
	FarmerID   uuid.UUID `json:"farmer_id" db:"farmer_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Message is a single message within a conversation.
type Message struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id" db:"sender_id"`
	Body           string    `json:"body" db:"body"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Conversation) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		consumer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		farmer_id UUID NOT NULL REFERENCES farmers(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE(consumer_id, farmer_id)
	);`
}

func (Message) TableName() string {
	return "messages"
}

func (Message) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		body TEXT NOT NULL,
		is_read BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
