package services_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/stretchr/testify/assert"
)

func TestOrderPlacedNotification(t *testing.T) {
	n := services.OrderPlacedNotification("KSN-20260902-0001", "Asha", "pickup", 240.50)

	assert.Equal(t, "order_placed", n.Type)
	assert.Contains(t, n.Body, "KSN-20260902-0001")
	assert.Contains(t, n.Body, "Asha")
	assert.Contains(t, n.Body, "240.50")
}

func TestOrderStatusNotificationStatuses(t *testing.T) {
	ready := services.OrderStatusNotification("KSN-1", "ready", "Ravi")
	assert.Equal(t, "order_update", ready.Type)
	assert.Equal(t, "Order Ready 🧺", ready.Title)

	cancelled := services.OrderStatusNotification("KSN-1", "cancelled", "Ravi")
	assert.Contains(t, cancelled.Body, "cancelled")

	unknown := services.OrderStatusNotification("KSN-1", "repacking", "Ravi")
	assert.Equal(t, "Order Update", unknown.Title)
	assert.Contains(t, unknown.Body, "repacking")
}

func TestNewMessageNotificationShortBody(t *testing.T) {
	n := services.NewMessageNotification("Asha", "Is the spinach still available?")

	assert.Equal(t, "new_message", n.Type)
	assert.Equal(t, "Is the spinach still available?", n.Body)
	assert.Contains(t, n.Title, "Asha")
}

func TestNewMessageNotificationPreviewKeepsRunesIntact(t *testing.T) {
	// 100 multi-byte characters; a byte-indexed cut would split one
	body := strings.Repeat("क", 100)

	n := services.NewMessageNotification("Asha", body)
	assert.True(t, utf8.ValidString(n.Body))
	assert.Equal(t, 80, len([]rune(n.Body)))
	assert.True(t, strings.HasSuffix(n.Body, "..."))
	assert.Equal(t, strings.Repeat("क", 77), strings.TrimSuffix(n.Body, "..."))
}
