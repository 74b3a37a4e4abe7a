package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/garvbarthwal/Kisaan-sub001/config"
	"github.com/garvbarthwal/Kisaan-sub001/models"
	"github.com/garvbarthwal/Kisaan-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser creates a consumer or farmer account
func RegisterUser(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"required,oneof=consumer farmer"`
		FarmName string `json:"farm_name"`
		Location string `json:"location"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var exists bool
	err := DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)`, req.Phone).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Phone number already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	avatar := utils.GenerateAvatarWithInitials(utils.GetInitialsFromName(req.FullName))

	var user models.User
	err = DB.QueryRow(`
		INSERT INTO users (phone, full_name, password_hash, role, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, phone, full_name, role, avatar, is_active, created_at`,
		req.Phone, req.FullName, string(hashedPassword), req.Role, avatar,
	).Scan(&user.ID, &user.Phone, &user.FullName, &user.Role, &user.Avatar, &user.IsActive, &user.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if req.Role == "farmer" {
		farmName := req.FarmName
		if farmName == "" {
			farmName = req.FullName + "'s Farm"
		}
		_, err = DB.Exec(`INSERT INTO farmers (user_id, farm_name, location) VALUES ($1, $2, $3)`,
			user.ID, farmName, req.Location)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create farmer profile"})
			return
		}
	}

	token, err := generateJWTToken(user.ID.String(), user.Phone, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"token":   token,
		"message": "Registration successful",
	})
}

// LoginUser authenticates by phone and password
func LoginUser(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var user models.User
	query := `SELECT id, phone, full_name, password_hash, role, avatar, is_active, created_at
	          FROM users WHERE phone = $1`
	err := DB.QueryRow(query, req.Phone).Scan(
		&user.ID, &user.Phone, &user.FullName, &user.PasswordHash,
		&user.Role, &user.Avatar, &user.IsActive, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := generateJWTToken(user.ID.String(), user.Phone, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"token":   token,
		"message": "Login successful",
	})
}

// UpdatePushToken stores the device push token for the authenticated user
func UpdatePushToken(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		PushToken string `json:"push_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := DB.Exec(`UPDATE users SET push_token = $1, updated_at = now() WHERE id = $2`, req.PushToken, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update push token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push token updated"})
}

// ValidateToken reports whether the presented token is still valid
func ValidateToken(c *gin.Context) {
	claims, err := parseClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"user_id": claims.UserID,
		"role":    claims.Role,
	})
}

// AuthMiddleware validates JWT tokens
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// FarmerMiddleware restricts a route to farmer accounts
func FarmerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != "farmer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Farmer account required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func parseClaims(c *gin.Context) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errAuthHeaderRequired
	}
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return nil, errInvalidAuthFormat
	}
	tokenString := authHeader[7:]

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

var (
	errAuthHeaderRequired = errors.New("Authorization header required")
	errInvalidAuthFormat  = errors.New("Invalid authorization format")
	errInvalidToken       = errors.New("Invalid token")
)
