package handlers

import (
	"net/http"

	"github.com/garvbarthwal/Kisaan-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const addressColumns = `id, user_id, label, street, city, state, COALESCE(zip_code, ''),
	latitude, longitude, is_default, created_at, updated_at`

func scanAddress(row interface{ Scan(...interface{}) error }) (models.AddressBookEntry, error) {
	var a models.AddressBookEntry
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.Street, &a.City, &a.State, &a.ZipCode,
		&a.Latitude, &a.Longitude, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetAddresses lists saved delivery addresses, default first
func GetAddresses(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	rows, err := DB.Query(`SELECT `+addressColumns+` FROM address_book
		WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
		return
	}
	defer rows.Close()

	addresses := []models.AddressBookEntry{}
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse addresses"})
			return
		}
		addresses = append(addresses, address)
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

type addressRequest struct {
	Label     string   `json:"label" binding:"required"`
	Street    string   `json:"street" binding:"required"`
	City      string   `json:"city" binding:"required"`
	State     string   `json:"state" binding:"required"`
	ZipCode   string   `json:"zip_code"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsDefault bool     `json:"is_default"`
}

// CreateAddress saves a new delivery address
func CreateAddress(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.IsDefault {
		DB.Exec(`UPDATE address_book SET is_default = FALSE WHERE user_id = $1`, userID)
	}

	address, err := scanAddress(DB.QueryRow(`
		INSERT INTO address_book (user_id, label, street, city, state, zip_code, latitude, longitude, is_default)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
		RETURNING `+addressColumns,
		userID, req.Label, req.Street, req.City, req.State, req.ZipCode,
		req.Latitude, req.Longitude, req.IsDefault))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// UpdateAddress replaces a saved address
func UpdateAddress(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.IsDefault {
		DB.Exec(`UPDATE address_book SET is_default = FALSE WHERE user_id = $1 AND id != $2`, userID, addressID)
	}

	address, err := scanAddress(DB.QueryRow(`
		UPDATE address_book
		SET label = $1, street = $2, city = $3, state = $4, zip_code = NULLIF($5, ''),
		    latitude = $6, longitude = $7, is_default = $8, updated_at = now()
		WHERE id = $9 AND user_id = $10
		RETURNING `+addressColumns,
		req.Label, req.Street, req.City, req.State, req.ZipCode,
		req.Latitude, req.Longitude, req.IsDefault, addressID, userID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address})
}

// DeleteAddress removes a saved address
func DeleteAddress(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM address_book WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
