package handlers

import (
	"net/http"

	"github.com/garvbarthwal/Kisaan-sub001/models"

	"github.com/gin-gonic/gin"
)

// GetPaymentMethods lists the active payment methods
func GetPaymentMethods(c *gin.Context) {
	rows, err := DB.Query(`
		SELECT id, name, label, is_active, created_at
		FROM payment_methods WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment methods"})
		return
	}
	defer rows.Close()

	methods := []models.PaymentMethod{}
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Label, &m.IsActive, &m.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse payment methods"})
			return
		}
		methods = append(methods, m)
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}
