package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/config"
	"github.com/garvbarthwal/Kisaan-sub001/database"

	"github.com/google/uuid"
)

// ExpoPushMessage represents a push notification message
type ExpoPushMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
	Sound string                 `json:"sound,omitempty"`
	Badge int                    `json:"badge,omitempty"`
}

// ExpoPushResponse represents the response from Expo push service
type ExpoPushResponse struct {
	Data []struct {
		Status string `json:"status"`
		ID     string `json:"id"`
		Error  string `json:"message,omitempty"`
	} `json:"data"`
}

// NotificationService handles push notifications
type NotificationService struct {
	ExpoPushURL string
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	url := "https://exp.host/--/api/v2/push/send"
	if config.AppConfig != nil && config.AppConfig.ExpoPushURL != "" {
		url = config.AppConfig.ExpoPushURL
	}
	return &NotificationService{ExpoPushURL: url}
}

// SendPushNotification sends a push notification to a user
func (ns *NotificationService) SendPushNotification(pushToken string, title, body string, data map[string]interface{}) error {
	if pushToken == "" {
		return fmt.Errorf("push token is empty")
	}

	message := ExpoPushMessage{
		To:    pushToken,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
		Badge: 1,
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequest("POST", ns.ExpoPushURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push notification failed with status %d: %s", resp.StatusCode, string(responseBody))
	}

	var pushResponse ExpoPushResponse
	if err := json.Unmarshal(responseBody, &pushResponse); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	// Check if any notifications failed
	for _, result := range pushResponse.Data {
		if result.Status == "error" {
			return fmt.Errorf("push notification failed: %s", result.Error)
		}
	}

	return nil
}

// InAppNotification is the content of a single notification event. The same
// content is persisted for the in-app feed and used as the push payload, so
// the feed remains the durable record when a user has no push token.
type InAppNotification struct {
	Type  string
	Title string
	Body  string
	Data  map[string]interface{}
}

// OrderPlacedNotification builds the farmer-facing notification for a new
// incoming order.
func OrderPlacedNotification(orderNumber, customerName, orderType string, totalAmount float64) InAppNotification {
	return InAppNotification{
		Type:  "order_placed",
		Title: "New Order Received! 🧺",
		Body:  fmt.Sprintf("%s placed a %s order #%s. Total: ₹%.2f", customerName, orderType, orderNumber, totalAmount),
		Data: map[string]interface{}{
			"type":         "order_placed",
			"order_number": orderNumber,
			"order_type":   orderType,
			"total_amount": totalAmount,
			"timestamp":    time.Now().Unix(),
		},
	}
}

// OrderStatusNotification builds the customer-facing notification for an
// order status change.
func OrderStatusNotification(orderNumber, status, customerName string) InAppNotification {
	var title, body string

	switch status {
	case "confirmed":
		title = "Order Confirmed! 🎉"
		body = fmt.Sprintf("Hi %s! The farmer has confirmed your order #%s.", customerName, orderNumber)
	case "ready":
		title = "Order Ready 🧺"
		body = fmt.Sprintf("Your order #%s is ready for pickup.", orderNumber)
	case "out_for_delivery":
		title = "Out for Delivery 🚚"
		body = fmt.Sprintf("Your order #%s is on its way to you.", orderNumber)
	case "completed":
		title = "Order Completed ✅"
		body = fmt.Sprintf("Your order #%s is complete. Enjoy your fresh produce!", orderNumber)
	case "cancelled":
		title = "Order Cancelled ❌"
		body = fmt.Sprintf("Your order #%s has been cancelled.", orderNumber)
	default:
		title = "Order Update"
		body = fmt.Sprintf("Your order #%s status has been updated to: %s", orderNumber, status)
	}

	return InAppNotification{
		Type:  "order_update",
		Title: title,
		Body:  body,
		Data: map[string]interface{}{
			"type":         "order_update",
			"order_number": orderNumber,
			"status":       status,
			"timestamp":    time.Now().Unix(),
		},
	}
}

// NewMessageNotification builds the notification for an incoming chat
// message. Long bodies are previewed; truncation respects rune boundaries
// so multi-byte text is never cut mid-character.
func NewMessageNotification(senderName, body string) InAppNotification {
	preview := body
	if runes := []rune(preview); len(runes) > 80 {
		preview = string(runes[:77]) + "..."
	}

	return InAppNotification{
		Type:  "new_message",
		Title: fmt.Sprintf("Message from %s 💬", senderName),
		Body:  preview,
		Data: map[string]interface{}{
			"type":      "new_message",
			"sender":    senderName,
			"timestamp": time.Now().Unix(),
		},
	}
}

// SaveInAppNotification persists a notification row for the user's feed.
func SaveInAppNotification(userID uuid.UUID, n InAppNotification) error {
	_, err := database.Database.Exec(`
		INSERT INTO notifications (user_id, type, title, body)
		VALUES ($1, $2, $3, $4)`, userID, n.Type, n.Title, n.Body)
	return err
}

// Notify saves the notification to the user's feed and, when a push token
// is present, delivers it as a push as well. The push is best-effort.
func (ns *NotificationService) Notify(userID uuid.UUID, pushToken string, n InAppNotification) error {
	if err := SaveInAppNotification(userID, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	if pushToken == "" {
		return nil
	}
	return ns.SendPushNotification(pushToken, n.Title, n.Body, n.Data)
}
