package models

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	AddedAt   time.Time `json:"added_at" db:"added_at"`
}

func (Cart) TableName() string {
	return "carts"
}

func (Cart) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS carts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (CartItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS cart_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		quantity INT NOT NULL DEFAULT 1 CHECK (quantity > 0),
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		added_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE(cart_id, product_id)
	);`
}
