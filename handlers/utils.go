package handlers

import (
	"fmt"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/config"
	"github.com/garvbarthwal/Kisaan-sub001/database"

	"github.com/golang-jwt/jwt/v5"
)

// DB is the shared database handle for all handlers
var DB *database.DB

// InitializeHandlers wires the database handle into the handlers package
func InitializeHandlers(db *database.DB) {
	DB = db
}

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// generateJWTToken generates a signed token for a user session
func generateJWTToken(userID, phone, role string) (string, error) {
	claims := &Claims{
		UserID: userID,
		Phone:  phone,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * 24 * time.Hour)), // 15 days
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// generateOrderNumber generates a unique order number
func generateOrderNumber() string {
	now := time.Now()
	return fmt.Sprintf("KSN-%d%02d%02d-%d",
		now.Year(), now.Month(), now.Day(), now.Unix()%10000)
}
