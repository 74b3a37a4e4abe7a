package handlers

import (
	"database/sql"
	"net/http"

	"github.com/garvbarthwal/Kisaan-sub001/models"
	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

func scanProduct(scanner interface{ Scan(...interface{}) error }) (models.Product, error) {
	var p models.Product
	var description sql.NullString
	err := scanner.Scan(
		&p.ID, &p.FarmerID, &p.Name, &p.Category, &description,
		&p.Price, &p.Unit, &p.QuantityAvailable, &p.Images,
		models.JSONColumn(&p.Fulfillment), models.JSONColumn(&p.PickupHours),
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	p.Description = description.String
	return p, err
}

const productColumns = `id, farmer_id, name, category, description, price, unit,
	quantity_available, images, fulfillment_options, pickup_hours, is_active, created_at, updated_at`

// GetProducts lists active produce listings, optionally filtered by
// category or farmer
func GetProducts(c *gin.Context) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE`
	args := []interface{}{}

	if category := c.Query("category"); category != "" {
		args = append(args, category)
		query += ` AND category = $1`
	}
	if farmerID := c.Query("farmer_id"); farmerID != "" {
		args = append(args, farmerID)
		if len(args) == 1 {
			query += ` AND farmer_id = $1`
		} else {
			query += ` AND farmer_id = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct returns a single listing
func GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	p, err := scanProduct(DB.QueryRow(
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p})
}

type productRequest struct {
	Name              string                     `json:"name" binding:"required"`
	Category          string                     `json:"category" binding:"required"`
	Description       string                     `json:"description"`
	Price             float64                    `json:"price" binding:"required,min=0"`
	Unit              string                     `json:"unit"`
	QuantityAvailable int                        `json:"quantity_available" binding:"min=0"`
	Images            []string                   `json:"images"`
	Fulfillment       *models.FulfillmentOptions `json:"fulfillment_options"`
	PickupHours       *models.WeeklySchedule     `json:"pickup_hours"`
}

func (req *productRequest) validate() (int, string) {
	if req.PickupHours != nil {
		if req.Fulfillment == nil || !req.Fulfillment.Pickup {
			return http.StatusBadRequest, "pickup_hours requires pickup to be enabled"
		}
		if err := req.PickupHours.Validate(); err != nil {
			return http.StatusBadRequest, err.Error()
		}
	}
	if req.Fulfillment != nil && !req.Fulfillment.Pickup && !req.Fulfillment.Delivery {
		return http.StatusBadRequest, "at least one fulfillment method must be enabled"
	}
	return 0, ""
}

// CreateProduct publishes a new listing for the authenticated farmer
func CreateProduct(c *gin.Context) {
	userID := c.GetString("user_id")

	var farmerID uuid.UUID
	err := DB.QueryRow(`SELECT id FROM farmers WHERE user_id = $1`, userID).Scan(&farmerID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Farmer profile not found"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if code, msg := req.validate(); code != 0 {
		c.JSON(code, gin.H{"error": msg})
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = "kg"
	}

	p, err := scanProduct(DB.QueryRow(`
		INSERT INTO products (farmer_id, name, category, description, price, unit,
			quantity_available, images, fulfillment_options, pickup_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+productColumns,
		farmerID, req.Name, req.Category, req.Description, req.Price, unit,
		req.QuantityAvailable, pq.StringArray(req.Images), req.Fulfillment, req.PickupHours))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": p})
}

// UpdateProduct updates the farmer's own listing
func UpdateProduct(c *gin.Context) {
	userID := c.GetString("user_id")
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if code, msg := req.validate(); code != 0 {
		c.JSON(code, gin.H{"error": msg})
		return
	}

	result, err := DB.Exec(`
		UPDATE products p
		SET name = $1, category = $2, description = $3, price = $4,
		    unit = COALESCE(NULLIF($5, ''), p.unit), quantity_available = $6,
		    images = $7, fulfillment_options = $8, pickup_hours = $9, updated_at = now()
		FROM farmers f
		WHERE p.id = $10 AND p.farmer_id = f.id AND f.user_id = $11`,
		req.Name, req.Category, req.Description, req.Price, req.Unit,
		req.QuantityAvailable, pq.StringArray(req.Images), req.Fulfillment, req.PickupHours,
		productID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// DeleteProduct deactivates the farmer's own listing
func DeleteProduct(c *gin.Context) {
	userID := c.GetString("user_id")
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	result, err := DB.Exec(`
		UPDATE products p SET is_active = FALSE, updated_at = now()
		FROM farmers f
		WHERE p.id = $1 AND p.farmer_id = f.id AND f.user_id = $2`,
		productID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}

// UploadProductImage uploads a produce photo and returns its URL
func UploadProductImage(c *gin.Context) {
	userID := c.GetString("user_id")

	var farmerID uuid.UUID
	err := DB.QueryRow(`SELECT id FROM farmers WHERE user_id = $1`, userID).Scan(&farmerID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Farmer profile not found"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	if services.Cloudinary == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads are not configured"})
		return
	}

	url, err := services.Cloudinary.UploadProduceImage(file, farmerID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
