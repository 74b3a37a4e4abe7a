package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/garvbarthwal/Kisaan-sub001/models"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

var Database *DB

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Database = &DB{db}
	return Database, nil
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	// Enable pgcrypto extension
	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`); err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	// Define the order of table creation (respecting foreign key dependencies)
	tables := []interface{}{
		models.User{},
		models.Farmer{},
		models.Product{},
		models.Cart{},
		models.CartItem{},
		models.Order{},
		models.OrderItem{},
		models.AddressBookEntry{},
		models.Conversation{},
		models.Message{},
		models.Notification{},
		models.PaymentMethod{},
		models.ScheduledNotification{},
	}

	for _, model := range tables {
		if tableModel, ok := model.(interface {
			TableName() string
			CreateTableSQL() string
		}); ok {
			tableName := tableModel.TableName()
			createSQL := tableModel.CreateTableSQL()

			log.Printf("Creating table: %s", tableName)
			if _, err := db.Exec(createSQL); err != nil {
				return fmt.Errorf("failed to create table %s: %w", tableName, err)
			}
		}
	}

	// Run schema migrations
	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("All tables created successfully!")
	return nil
}

// runMigrations handles schema updates for existing tables
func (db *DB) runMigrations() error {
	migrations := []string{
		// Fulfillment configuration arrived after the first listings;
		// older product rows keep NULL and fall back at checkout.
		`ALTER TABLE products ADD COLUMN IF NOT EXISTS fulfillment_options JSONB;`,
		`ALTER TABLE products ADD COLUMN IF NOT EXISTS pickup_hours JSONB;`,
		`ALTER TABLE products ADD COLUMN IF NOT EXISTS unit VARCHAR(20) DEFAULT 'kg';`,
		`ALTER TABLE products ADD COLUMN IF NOT EXISTS quantity_available INT DEFAULT 0;`,

		// Farmer profiles gained declared business hours
		`ALTER TABLE farmers ADD COLUMN IF NOT EXISTS business_hours JSONB;`,
		`ALTER TABLE farmers ADD COLUMN IF NOT EXISTS latitude DOUBLE PRECISION;`,
		`ALTER TABLE farmers ADD COLUMN IF NOT EXISTS longitude DOUBLE PRECISION;`,

		// Orders gained type-specific detail columns
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS pickup_details JSONB;`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS delivery_details JSONB;`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS notes TEXT;`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS payment_method VARCHAR(50) DEFAULT 'cash';`,

		// Users gained push tokens and avatars
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS push_token TEXT;`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS avatar TEXT;`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS updated_at TIMESTAMP WITH TIME ZONE DEFAULT now();`,

		// Price snapshot on cart items
		`ALTER TABLE cart_items ADD COLUMN IF NOT EXISTS price NUMERIC(12,2) DEFAULT 0;`,

		// Indexes for the hot paths
		`CREATE INDEX IF NOT EXISTS idx_products_farmer_id ON products(farmer_id);`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_farmer_id ON orders(farmer_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_notifications_due
			ON scheduled_notifications(scheduled_for) WHERE NOT sent AND NOT cancelled;`,

		// Seed payment methods
		`INSERT INTO payment_methods (name, label) VALUES
			('cash', 'Cash on pickup/delivery'),
			('upi', 'UPI'),
			('bank_transfer', 'Bank transfer')
		 ON CONFLICT (name) DO NOTHING;`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			log.Printf("Warning: Migration %d failed: %v", i+1, err)
			// Continue with other migrations even if one fails
		}
	}

	log.Println("Migrations completed!")
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
