package handlers

import (
	"database/sql"
	"net/http"

	"github.com/garvbarthwal/Kisaan-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetFarmers lists active farmer profiles
func GetFarmers(c *gin.Context) {
	rows, err := DB.Query(`
		SELECT f.id, f.user_id, f.farm_name, f.description, f.location,
		       f.latitude, f.longitude, f.business_hours, f.created_at, f.updated_at,
		       u.full_name, u.avatar
		FROM farmers f
		JOIN users u ON f.user_id = u.id
		WHERE u.is_active = TRUE
		ORDER BY f.farm_name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch farmers"})
		return
	}
	defer rows.Close()

	var farmers []gin.H
	for rows.Next() {
		var f models.Farmer
		var fullName string
		var avatar sql.NullString
		var description, location sql.NullString
		err := rows.Scan(&f.ID, &f.UserID, &f.FarmName, &description, &location,
			&f.Latitude, &f.Longitude, models.JSONColumn(&f.BusinessHours), &f.CreatedAt, &f.UpdatedAt,
			&fullName, &avatar)
		if err != nil {
			continue
		}
		farmers = append(farmers, gin.H{
			"id":             f.ID,
			"user_id":        f.UserID,
			"farm_name":      f.FarmName,
			"description":    description.String,
			"location":       location.String,
			"latitude":       f.Latitude,
			"longitude":      f.Longitude,
			"business_hours": f.BusinessHours,
			"farmer_name":    fullName,
			"avatar":         avatar.String,
		})
	}

	c.JSON(http.StatusOK, gin.H{"farmers": farmers})
}

// GetFarmer returns one farmer profile
func GetFarmer(c *gin.Context) {
	farmerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid farmer ID"})
		return
	}

	var f models.Farmer
	var fullName string
	var description, location sql.NullString
	err = DB.QueryRow(`
		SELECT f.id, f.user_id, f.farm_name, f.description, f.location,
		       f.latitude, f.longitude, f.business_hours, f.created_at, f.updated_at,
		       u.full_name
		FROM farmers f
		JOIN users u ON f.user_id = u.id
		WHERE f.id = $1`, farmerID).Scan(
		&f.ID, &f.UserID, &f.FarmName, &description, &location,
		&f.Latitude, &f.Longitude, models.JSONColumn(&f.BusinessHours), &f.CreatedAt, &f.UpdatedAt,
		&fullName)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Farmer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch farmer"})
		return
	}

	f.Description = description.String
	f.Location = location.String
	c.JSON(http.StatusOK, gin.H{"farmer": f, "farmer_name": fullName})
}

// GetFarmerBusinessHours returns the farmer's declared weekly hours.
// An empty response (hours null) means the farmer has not declared any;
// checkout treats that as "not configured", not as an error.
func GetFarmerBusinessHours(c *gin.Context) {
	farmerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid farmer ID"})
		return
	}

	var hours *models.WeeklySchedule
	err = DB.QueryRow(`SELECT business_hours FROM farmers WHERE id = $1`, farmerID).Scan(models.JSONColumn(&hours))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Farmer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch business hours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"farmer_id":      farmerID,
		"business_hours": hours,
	})
}

// UpdateFarmerProfile updates the authenticated farmer's profile
func UpdateFarmerProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		FarmName    string   `json:"farm_name"`
		Description string   `json:"description"`
		Location    string   `json:"location"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := DB.Exec(`
		UPDATE farmers
		SET farm_name = COALESCE(NULLIF($1, ''), farm_name),
		    description = $2, location = $3, latitude = $4, longitude = $5,
		    updated_at = now()
		WHERE user_id = $6`,
		req.FarmName, req.Description, req.Location, req.Latitude, req.Longitude, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Farmer profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// SetFarmerBusinessHours replaces the farmer's weekly business hours
func SetFarmerBusinessHours(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		BusinessHours models.WeeklySchedule `json:"business_hours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.BusinessHours.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := DB.Exec(`
		UPDATE farmers SET business_hours = $1, updated_at = now() WHERE user_id = $2`,
		req.BusinessHours, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update business hours"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Farmer profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Business hours updated"})
}
