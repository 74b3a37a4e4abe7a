package models

import (
	"time"

	"github.com/google/uuid"
)

// Farmer represents a farmer's marketplace profile. BusinessHours is the
// farmer-level weekly schedule used as the default pickup-hours source when
// a product does not declare its own.
type Farmer struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	FarmName      string          `json:"farm_name" db:"farm_name"`
	Description   string          `json:"description" db:"description"`
	Location      string          `json:"location" db:"location"`
	Latitude      *float64        `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64        `json:"longitude,omitempty" db:"longitude"`
	BusinessHours *WeeklySchedule `json:"business_hours,omitempty" db:"business_hours"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

func (Farmer) TableName() string {
	return "farmers"
}

func (Farmer) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS farmers (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		farm_name VARCHAR(200) NOT NULL,
		description TEXT,
		location TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		business_hours JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
