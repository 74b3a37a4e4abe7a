package handlers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/garvbarthwal/Kisaan-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// loadCartSnapshot reads the user's cart into the line items checkout
// operates on, along with the cart's farmer. All items in a cart belong to
// one farmer; AddToCart enforces that.
func loadCartSnapshot(userID uuid.UUID) (uuid.UUID, []models.CartLineItem, error) {
	rows, err := DB.Query(`
		SELECT p.id, p.name, ci.quantity, ci.price, p.unit,
		       p.fulfillment_options, p.pickup_hours, p.farmer_id
		FROM cart_items ci
		JOIN carts c ON ci.cart_id = c.id
		JOIN products p ON ci.product_id = p.id
		WHERE c.user_id = $1
		ORDER BY ci.added_at`, userID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	defer rows.Close()

	var farmerID uuid.UUID
	var items []models.CartLineItem
	for rows.Next() {
		var item models.CartLineItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Price,
			&item.Unit, models.JSONColumn(&item.Fulfillment), models.JSONColumn(&item.PickupHours),
			&farmerID); err != nil {
			return uuid.Nil, nil, err
		}
		items = append(items, item)
	}
	return farmerID, items, rows.Err()
}

func getOrCreateCart(userID uuid.UUID) (uuid.UUID, error) {
	var cartID uuid.UUID
	err := DB.QueryRow(`SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if err == sql.ErrNoRows {
		err = DB.QueryRow(`INSERT INTO carts (user_id) VALUES ($1) RETURNING id`, userID).Scan(&cartID)
	}
	return cartID, err
}

// GetCart returns the cart contents plus the fulfillment availability
// derived from them. Availability is recomputed on every call, so the
// response always reflects the latest cart mutation.
func GetCart(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	farmerID, items, err := loadCartSnapshot(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	totalAmount := 0.0
	for _, item := range items {
		totalAmount += item.Price * float64(item.Quantity)
	}

	response := gin.H{
		"items":        items,
		"total_amount": totalAmount,
	}

	if len(items) > 0 {
		var farmName string
		if err := DB.QueryRow(`SELECT farm_name FROM farmers WHERE id = $1`, farmerID).Scan(&farmName); err == nil {
			response["farmer_id"] = farmerID
			response["farmer_name"] = farmName
		}
		response["fulfillment"] = Checkout.Begin(userID, farmerID, items)
	}

	c.JSON(http.StatusOK, response)
}

// AddToCart adds a product, merging quantities for repeated adds. Carts
// hold produce from one farmer at a time.
func AddToCart(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var farmerID uuid.UUID
	var price float64
	var available int
	err = DB.QueryRow(`
		SELECT farmer_id, price, quantity_available
		FROM products WHERE id = $1 AND is_active = TRUE`, productID).
		Scan(&farmerID, &price, &available)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if available < req.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     fmt.Sprintf("Only %d available, requested %d", available, req.Quantity),
			"available": available,
			"requested": req.Quantity,
		})
		return
	}

	cartID, err := getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	// Enforce the single-farmer cart
	var otherFarmerItems int
	err = DB.QueryRow(`
		SELECT COUNT(*) FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = $1 AND p.farmer_id != $2`, cartID, farmerID).Scan(&otherFarmerItems)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check cart"})
		return
	}
	if otherFarmerItems > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cart contains produce from a different farmer. Clear the cart to order from this farm.",
		})
		return
	}

	var existingQuantity int
	err = DB.QueryRow(`SELECT quantity FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID).Scan(&existingQuantity)

	if err == nil {
		newQuantity := existingQuantity + req.Quantity
		if newQuantity > available {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient quantity for requested amount"})
			return
		}
		_, err = DB.Exec(`UPDATE cart_items SET quantity = $1, price = $2 WHERE cart_id = $3 AND product_id = $4`,
			newQuantity, price, cartID, productID)
	} else if err == sql.ErrNoRows {
		_, err = DB.Exec(`INSERT INTO cart_items (cart_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`,
			cartID, productID, req.Quantity, price)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	refreshCheckout(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

// UpdateCartItem changes an item's quantity
func UpdateCartItem(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var available int
	if err := DB.QueryRow(`SELECT quantity_available FROM products WHERE id = $1`, productID).Scan(&available); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if available < req.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Only %d available, requested %d", available, req.Quantity)})
		return
	}

	result, err := DB.Exec(`
		UPDATE cart_items ci SET quantity = $1
		FROM carts c
		WHERE ci.cart_id = c.id AND c.user_id = $2 AND ci.product_id = $3`,
		req.Quantity, userID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	refreshCheckout(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated"})
}

// RemoveFromCart removes one item
func RemoveFromCart(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	result, err := DB.Exec(`
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id AND c.user_id = $1 AND ci.product_id = $2`,
		userID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	refreshCheckout(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// ClearCart empties the cart and abandons any checkout in progress
func ClearCart(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	_, err = DB.Exec(`
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id AND c.user_id = $1`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	Checkout.Discard(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// refreshCheckout recomputes fulfillment availability after a cart
// mutation, or drops the session when the cart emptied.
func refreshCheckout(userID uuid.UUID) {
	farmerID, items, err := loadCartSnapshot(userID)
	if err != nil {
		return
	}
	if len(items) == 0 {
		Checkout.Discard(userID)
		return
	}
	Checkout.Begin(userID, farmerID, items)
}
