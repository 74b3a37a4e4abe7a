package services

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/database"

	"github.com/google/uuid"
)

// NotificationScheduler handles scheduling and sending pickup/delivery reminders
type NotificationScheduler struct {
	notificationService *NotificationService
}

// NewNotificationScheduler creates a new notification scheduler
func NewNotificationScheduler() *NotificationScheduler {
	return &NotificationScheduler{
		notificationService: NewNotificationService(),
	}
}

type pickupReminder struct {
	title string
	body  string
	at    time.Time
}

// pickupReminders computes the reminders still ahead of now for a pickup
// slot: one at 08:00 on the pickup date and one an hour before the slot.
// A reminder whose moment has already passed is not scheduled, so an order
// placed late on the pickup day never fires a stale morning reminder.
func pickupReminders(orderNumber, pickupDate, pickupTime, location string, now time.Time) ([]pickupReminder, error) {
	date, err := time.ParseInLocation("2006-01-02", pickupDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid pickup date %q: %w", pickupDate, err)
	}

	var reminders []pickupReminder

	morning := date.Add(8 * time.Hour)
	if morning.After(now) {
		body := fmt.Sprintf("Your order #%s is scheduled for pickup today at %s.", orderNumber, pickupTime)
		if location != "" {
			body = fmt.Sprintf("%s Location: %s", body, location)
		}
		reminders = append(reminders, pickupReminder{
			title: "Pickup Today 🧺",
			body:  body,
			at:    morning,
		})
	}

	if slot, err := time.ParseInLocation("2006-01-02 15:04", pickupDate+" "+pickupTime, time.Local); err == nil {
		hourBefore := slot.Add(-1 * time.Hour)
		if hourBefore.After(now) {
			reminders = append(reminders, pickupReminder{
				title: "Pickup in 1 Hour ⏰",
				body:  fmt.Sprintf("Your order #%s pickup slot starts at %s.", orderNumber, pickupTime),
				at:    hourBefore,
			})
		}
	}

	return reminders, nil
}

// SchedulePickupReminder queues the reminders for a pickup slot.
func (ns *NotificationScheduler) SchedulePickupReminder(userID, orderID uuid.UUID, orderNumber, pickupDate, pickupTime, location string) error {
	reminders, err := pickupReminders(orderNumber, pickupDate, pickupTime, location, time.Now())
	if err != nil {
		return err
	}

	for _, r := range reminders {
		if err := ns.createScheduledNotification(userID, "pickup-reminder", &orderID, orderNumber,
			r.title, r.body, r.at); err != nil {
			log.Printf("Failed to schedule pickup reminder for order %s: %v", orderNumber, err)
		}
	}

	return nil
}

// CancelOrderReminders cancels pending reminders for an order, e.g. when
// the order is cancelled.
func (ns *NotificationScheduler) CancelOrderReminders(orderID uuid.UUID) error {
	_, err := database.Database.Exec(`
		UPDATE scheduled_notifications
		SET cancelled = TRUE, updated_at = now()
		WHERE order_id = $1 AND sent = FALSE`, orderID)
	return err
}

// createScheduledNotification creates a scheduled notification record
func (ns *NotificationScheduler) createScheduledNotification(
	userID uuid.UUID,
	notificationType string,
	orderID *uuid.UUID,
	orderNumber, title, body string,
	scheduledFor time.Time,
) error {
	query := `
		INSERT INTO scheduled_notifications
		(id, user_id, type, order_id, order_number, title, body, scheduled_for, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, now(), now())
	`
	_, err := database.Database.Exec(query, userID, notificationType, orderID,
		orderNumber, title, body, scheduledFor)
	return err
}

// ProcessScheduledNotifications processes and sends due notifications
func (ns *NotificationScheduler) ProcessScheduledNotifications() error {
	now := time.Now()

	query := `
		SELECT id, user_id, type, order_id, order_number, title, body
		FROM scheduled_notifications
		WHERE scheduled_for <= $1
		AND sent = FALSE
		AND cancelled = FALSE
		ORDER BY scheduled_for ASC
		LIMIT 100
	`

	rows, err := database.Database.Query(query, now)
	if err != nil {
		return fmt.Errorf("failed to fetch scheduled notifications: %w", err)
	}
	defer rows.Close()

	type dueNotification struct {
		ID          uuid.UUID
		UserID      uuid.UUID
		Type        string
		OrderID     sql.NullString
		OrderNumber string
		Title       string
		Body        string
	}

	var notifications []dueNotification
	for rows.Next() {
		var notif dueNotification
		err := rows.Scan(&notif.ID, &notif.UserID, &notif.Type, &notif.OrderID,
			&notif.OrderNumber, &notif.Title, &notif.Body)
		if err != nil {
			continue
		}
		notifications = append(notifications, notif)
	}

	for _, notif := range notifications {
		// Skip reminders whose order was cancelled after scheduling
		if notif.OrderID.Valid && !ns.validateOrderIsActive(notif.OrderID.String) {
			ns.markNotificationCancelled(notif.ID)
			continue
		}

		var pushToken sql.NullString
		err := database.Database.QueryRow(
			"SELECT push_token FROM users WHERE id = $1",
			notif.UserID,
		).Scan(&pushToken)

		feedEntry := InAppNotification{Type: notif.Type, Title: notif.Title, Body: notif.Body}

		if err != nil || !pushToken.Valid || pushToken.String == "" {
			// No push token: the feed row is still the durable record
			if err := SaveInAppNotification(notif.UserID, feedEntry); err != nil {
				log.Printf("Failed to save scheduled notification %s to feed: %v", notif.ID, err)
			}
			ns.markNotificationSent(notif.ID)
			continue
		}

		data := map[string]interface{}{
			"type":         notif.Type,
			"order_number": notif.OrderNumber,
		}

		err = ns.notificationService.SendPushNotification(
			pushToken.String,
			notif.Title,
			notif.Body,
			data,
		)

		if err != nil {
			log.Printf("Failed to send scheduled notification %s: %v", notif.ID, err)
			// Don't mark as sent if it failed, so it can be retried
			continue
		}

		if err := SaveInAppNotification(notif.UserID, feedEntry); err != nil {
			log.Printf("Failed to save scheduled notification %s to feed: %v", notif.ID, err)
		}
		ns.markNotificationSent(notif.ID)
	}

	return nil
}

// Run processes due notifications on the given interval until the process exits.
func (ns *NotificationScheduler) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := ns.ProcessScheduledNotifications(); err != nil {
			log.Printf("Scheduled notification processing failed: %v", err)
		}
	}
}

// validateOrderIsActive checks the order still exists and is not cancelled
func (ns *NotificationScheduler) validateOrderIsActive(orderID string) bool {
	var status string
	err := database.Database.QueryRow(
		"SELECT status FROM orders WHERE id = $1", orderID,
	).Scan(&status)
	return err == nil && status != "cancelled"
}

// markNotificationSent marks a notification as sent
func (ns *NotificationScheduler) markNotificationSent(notificationID uuid.UUID) {
	database.Database.Exec(
		"UPDATE scheduled_notifications SET sent = TRUE, updated_at = now() WHERE id = $1",
		notificationID,
	)
}

// markNotificationCancelled marks a notification as cancelled
func (ns *NotificationScheduler) markNotificationCancelled(notificationID uuid.UUID) {
	database.Database.Exec(
		"UPDATE scheduled_notifications SET cancelled = TRUE, updated_at = now() WHERE id = $1",
		notificationID,
	)
}
