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

// GetConversations lists the user's conversations with the other party's
// name and the latest message preview.
func GetConversations(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	rows, err := DB.Query(`
		SELECT cv.id, cv.consumer_id, cv.farmer_id, f.farm_name, u.full_name,
		       COALESCE((SELECT body FROM messages m WHERE m.conversation_id = cv.id ORDER BY m.created_at DESC LIMIT 1), ''),
		       (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = cv.id AND m.is_read = FALSE AND m.sender_id != $1),
		       cv.updated_at
		FROM conversations cv
		JOIN farmers f ON cv.farmer_id = f.id
		JOIN users u ON cv.consumer_id = u.id
		WHERE cv.consumer_id = $1 OR f.user_id = $1
		ORDER BY cv.updated_at DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}
	defer rows.Close()

	conversations := []gin.H{}
	for rows.Next() {
		var conv models.Conversation
		var farmName, consumerName, lastMessage string
		var unread int
		if err := rows.Scan(&conv.ID, &conv.ConsumerID, &conv.FarmerID, &farmName,
			&consumerName, &lastMessage, &unread, &conv.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse conversations"})
			return
		}
		conversations = append(conversations, gin.H{
			"id":            conv.ID,
			"consumer_id":   conv.ConsumerID,
			"farmer_id":     conv.FarmerID,
			"farm_name":     farmName,
			"consumer_name": consumerName,
			"last_message":  lastMessage,
			"unread_count":  unread,
			"updated_at":    conv.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetMessages returns a conversation's messages and marks the other
// party's messages as read.
func GetMessages(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	var memberCount int
	err = DB.QueryRow(`
		SELECT COUNT(*) FROM conversations cv
		JOIN farmers f ON cv.farmer_id = f.id
		WHERE cv.id = $1 AND (cv.consumer_id = $2 OR f.user_id = $2)`,
		conversationID, userID).Scan(&memberCount)
	if err != nil || memberCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	rows, err := DB.Query(`
		SELECT id, conversation_id, sender_id, body, is_read, created_at
		FROM messages WHERE conversation_id = $1 ORDER BY created_at`, conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body,
			&msg.IsRead, &msg.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse messages"})
			return
		}
		messages = append(messages, msg)
	}

	DB.Exec(`UPDATE messages SET is_read = TRUE WHERE conversation_id = $1 AND sender_id != $2`,
		conversationID, userID)

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage posts a message, creating the conversation on first contact
func SendMessage(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req struct {
		FarmerID string `json:"farmer_id" binding:"required"`
		Body     string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	farmerID, err := uuid.Parse(req.FarmerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid farmer ID"})
		return
	}

	// The consumer side of the conversation is the sender unless the
	// sender owns the farm.
	var consumerID uuid.UUID
	var farmerUserID uuid.UUID
	if err := DB.QueryRow(`SELECT user_id FROM farmers WHERE id = $1`, farmerID).Scan(&farmerUserID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Farmer not found"})
		return
	}
	if farmerUserID == userID {
		consumerRaw := c.Query("consumer_id")
		consumerID, err = uuid.Parse(consumerRaw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "consumer_id is required when replying as the farmer"})
			return
		}
	} else {
		consumerID = userID
	}

	var conversationID uuid.UUID
	err = DB.QueryRow(`
		INSERT INTO conversations (consumer_id, farmer_id)
		VALUES ($1, $2)
		ON CONFLICT (consumer_id, farmer_id) DO UPDATE SET updated_at = now()
		RETURNING id`, consumerID, farmerID).Scan(&conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open conversation"})
		return
	}

	var msg models.Message
	err = DB.QueryRow(`
		INSERT INTO messages (conversation_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, conversation_id, sender_id, body, is_read, created_at`,
		conversationID, userID, req.Body).
		Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body, &msg.IsRead, &msg.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	recipientID := farmerUserID
	if userID == farmerUserID {
		recipientID = consumerID
	}
	go notifyNewMessage(recipientID, userID, req.Body)

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func notifyNewMessage(recipientID, senderID uuid.UUID, body string) {
	var pushToken sql.NullString
	var senderName string
	err := DB.QueryRow(`
		SELECT r.push_token, s.full_name
		FROM users r CROSS JOIN users s
		WHERE r.id = $1 AND s.id = $2`, recipientID, senderID).Scan(&pushToken, &senderName)
	if err != nil {
		log.Printf("Failed to look up message recipient: %v", err)
		return
	}

	n := services.NewMessageNotification(senderName, body)
	if err := services.NewNotificationService().Notify(recipientID, pushToken.String, n); err != nil {
		log.Printf("Failed to notify message recipient: %v", err)
	}
}
