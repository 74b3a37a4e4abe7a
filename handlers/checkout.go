package handlers

import (
	"net/http"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/database"
	"github.com/garvbarthwal/Kisaan-sub001/models"
	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Checkout holds every in-flight checkout session. Wired in main.
var Checkout *services.CheckoutManager

// InitializeCheckout builds the checkout manager with a business-hours
// fetcher backed by the farmers table.
func InitializeCheckout(db *database.DB) {
	Checkout = services.NewCheckoutManager(func(farmerID uuid.UUID) (*models.WeeklySchedule, error) {
		var hours *models.WeeklySchedule
		err := db.QueryRow(`SELECT business_hours FROM farmers WHERE id = $1`, farmerID).Scan(models.JSONColumn(&hours))
		return hours, err
	})
}

// GetCheckoutSession returns the current session state: availability,
// draft and whether business hours are still pending.
func GetCheckoutSession(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	session, ok := Checkout.Session(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"farmer_id":    session.FarmerID,
		"items":        session.Items,
		"fulfillment":  session.Availability,
		"draft":        session.Draft,
		"pickup_hours": Checkout.EffectiveSchedule(userID),
	})
}

// GetPickupAvailability resolves a candidate pickup date against the
// cart's effective schedule. Without a date it reports needs_date.
func GetPickupAvailability(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = &parsed
	}

	c.JSON(http.StatusOK, Checkout.PickupAvailability(userID, date))
}

// SetOrderType selects pickup or delivery for the draft
func SetOrderType(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req struct {
		OrderType string `json:"order_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Checkout.SetOrderType(userID, req.OrderType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, _ := Checkout.Session(userID)
	c.JSON(http.StatusOK, gin.H{"draft": session.Draft})
}

// UpdateCheckoutDraft applies partial updates to the draft's pickup or
// delivery details. Fields not present in the request are left alone.
func UpdateCheckoutDraft(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req struct {
		PickupDetails   *models.PickupDetails   `json:"pickup_details"`
		DeliveryDetails *models.DeliveryDetails `json:"delivery_details"`
		PaymentMethod   *string                 `json:"payment_method"`
		Notes           *string                 `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = Checkout.UpdateDraft(userID, func(draft *models.OrderDraft) {
		if req.PickupDetails != nil {
			draft.PickupDetails = *req.PickupDetails
		}
		if req.DeliveryDetails != nil {
			draft.DeliveryDetails = *req.DeliveryDetails
		}
		if req.PaymentMethod != nil {
			draft.PaymentMethod = *req.PaymentMethod
		}
		if req.Notes != nil {
			draft.Notes = *req.Notes
		}
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	session, _ := Checkout.Session(userID)
	c.JSON(http.StatusOK, gin.H{"draft": session.Draft})
}

// ValidateCheckout runs the submission gate without placing the order, so
// the client can surface every missing field and failure at once.
func ValidateCheckout(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	result, err := Checkout.Validate(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RefreshBusinessHours re-arms the business-hours fetch after a failure
func RefreshBusinessHours(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	Checkout.RefreshBusinessHours(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Business hours refresh started"})
}
