package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/garvbarthwal/Kisaan-sub001/models"
	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateOrder submits the checkout draft as an order. The draft must pass
// the validation gate first; a failed gate returns every missing field and
// failure reason at once so the client never has to resubmit blind.
func CreateOrder(c *gin.Context) {
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
	if len(session.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	result, err := Checkout.Validate(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if !result.IsValid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":           "Order details are incomplete",
			"missing_fields":  result.MissingFields,
			"failure_reasons": result.FailureReasons,
		})
		return
	}

	draft := session.Draft
	totalAmount := 0.0
	for _, item := range session.Items {
		totalAmount += item.Price * float64(item.Quantity)
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	defer tx.Rollback()

	orderNumber := generateOrderNumber()
	var orderID uuid.UUID

	var pickupDetails *models.PickupDetails
	var deliveryDetails *models.DeliveryDetails
	if draft.OrderType == models.OrderTypePickup {
		pickupDetails = &draft.PickupDetails
	} else {
		deliveryDetails = &draft.DeliveryDetails
	}

	err = tx.QueryRow(`
		INSERT INTO orders (order_number, user_id, farmer_id, status, order_type,
			pickup_details, delivery_details, payment_method, notes, total_amount)
		VALUES ($1, $2, $3, 'pending', $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		orderNumber, userID, session.FarmerID, draft.OrderType,
		pickupDetails, deliveryDetails, draft.PaymentMethod, draft.Notes, totalAmount).
		Scan(&orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	for _, item := range session.Items {
		_, err = tx.Exec(`
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, unit)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			orderID, item.ProductID, item.ProductName, item.Quantity, item.Price, item.Unit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order items"})
			return
		}

		result, err := tx.Exec(`
			UPDATE products SET quantity_available = quantity_available - $1
			WHERE id = $2 AND quantity_available >= $1`,
			item.Quantity, item.ProductID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reserve stock"})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Insufficient stock for " + item.ProductName,
				"product": item.ProductID,
			})
			return
		}
	}

	_, err = tx.Exec(`
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id AND c.user_id = $1`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	Checkout.Discard(userID)

	if draft.OrderType == models.OrderTypePickup && draft.PickupDetails.Date != "" {
		scheduler := services.NewNotificationScheduler()
		if err := scheduler.SchedulePickupReminder(userID, orderID, orderNumber,
			draft.PickupDetails.Date, draft.PickupDetails.Time, draft.PickupDetails.Location); err != nil {
			log.Printf("Failed to schedule pickup reminders for order %s: %v", orderNumber, err)
		}
	}

	go notifyFarmerOrderPlaced(session.FarmerID, userID, orderNumber, draft.OrderType, totalAmount)

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order placed successfully",
		"order_id":     orderID,
		"order_number": orderNumber,
		"total_amount": totalAmount,
	})
}

func notifyFarmerOrderPlaced(farmerID, userID uuid.UUID, orderNumber, orderType string, totalAmount float64) {
	var farmerUserID uuid.UUID
	var pushToken sql.NullString
	var customerName string
	err := DB.QueryRow(`
		SELECT u.id, u.push_token, cu.full_name
		FROM farmers f
		JOIN users u ON f.user_id = u.id
		CROSS JOIN users cu
		WHERE f.id = $1 AND cu.id = $2`, farmerID, userID).Scan(&farmerUserID, &pushToken, &customerName)
	if err != nil {
		log.Printf("Failed to look up farmer for order %s: %v", orderNumber, err)
		return
	}

	n := services.OrderPlacedNotification(orderNumber, customerName, orderType, totalAmount)
	if err := services.NewNotificationService().Notify(farmerUserID, pushToken.String, n); err != nil {
		log.Printf("Failed to notify farmer of order %s: %v", orderNumber, err)
	}
}

const orderColumns = `id, order_number, user_id, farmer_id, status, order_type,
	pickup_details, delivery_details, payment_method, COALESCE(notes, ''), total_amount, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.FarmerID, &o.Status, &o.OrderType,
		models.JSONColumn(&o.PickupDetails), models.JSONColumn(&o.DeliveryDetails),
		&o.PaymentMethod, &o.Notes, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func loadOrderItems(orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := DB.Query(`
		SELECT id, order_id, product_id, product_name, quantity, unit_price, unit, created_at
		FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Unit, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetMyOrders lists the authenticated customer's orders, newest first
func GetMyOrders(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	rows, err := DB.Query(`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse orders"})
			return
		}
		orders = append(orders, order)
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder returns one order with its items. Customers see their own
// orders; farmers see orders placed with their farm.
func GetOrder(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := scanOrder(DB.QueryRow(`
		SELECT `+orderColumns+` FROM orders o
		WHERE o.id = $1 AND (o.user_id = $2 OR o.farmer_id IN (SELECT id FROM farmers WHERE user_id = $2))`,
		orderID, userID))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	order.Items, err = loadOrderItems(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels a pending or confirmed order and its reminders
func CancelOrder(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	result, err := DB.Exec(`
		UPDATE orders SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND user_id = $2 AND status IN ('pending', 'confirmed')`,
		orderID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order cannot be cancelled"})
		return
	}

	if err := services.NewNotificationScheduler().CancelOrderReminders(orderID); err != nil {
		log.Printf("Failed to cancel reminders for order %s: %v", orderID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

// GetFarmerOrders lists incoming orders for the authenticated farmer
func GetFarmerOrders(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	query := `
		SELECT ` + orderColumns + ` FROM orders o
		WHERE o.farmer_id IN (SELECT id FROM farmers WHERE user_id = $1)`
	args := []interface{}{userID}
	if status := c.Query("status"); status != "" {
		query += ` AND o.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse orders"})
			return
		}
		orders = append(orders, order)
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

var validStatusTransitions = map[string][]string{
	"pending":          {"confirmed", "cancelled"},
	"confirmed":        {"ready", "out_for_delivery", "cancelled"},
	"ready":            {"completed"},
	"out_for_delivery": {"completed"},
}

// UpdateOrderStatus moves an order through the farmer-side lifecycle and
// pushes the status change to the customer.
func UpdateOrderStatus(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var currentStatus, orderNumber string
	var customerID uuid.UUID
	err = DB.QueryRow(`
		SELECT o.status, o.order_number, o.user_id
		FROM orders o
		JOIN farmers f ON o.farmer_id = f.id
		WHERE o.id = $1 AND f.user_id = $2`, orderID, userID).
		Scan(&currentStatus, &orderNumber, &customerID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	allowed := false
	for _, next := range validStatusTransitions[currentStatus] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cannot move order from " + currentStatus + " to " + req.Status,
		})
		return
	}

	_, err = DB.Exec(`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`, req.Status, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	if req.Status == "cancelled" {
		if err := services.NewNotificationScheduler().CancelOrderReminders(orderID); err != nil {
			log.Printf("Failed to cancel reminders for order %s: %v", orderID, err)
		}
	}

	go func() {
		var pushToken sql.NullString
		var customerName string
		err := DB.QueryRow(`SELECT push_token, full_name FROM users WHERE id = $1`, customerID).
			Scan(&pushToken, &customerName)
		if err != nil {
			log.Printf("Failed to look up customer for order %s: %v", orderNumber, err)
			return
		}
		n := services.OrderStatusNotification(orderNumber, req.Status, customerName)
		if err := services.NewNotificationService().Notify(customerID, pushToken.String, n); err != nil {
			log.Printf("Failed to notify customer of order %s update: %v", orderNumber, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "status": req.Status})
}
