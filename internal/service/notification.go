package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"shiftride/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripScheduled  NotificationType = "TRIP_SCHEDULED"
	NotificationShiftPathReady NotificationType = "SHIFT_PATH_READY"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client (Twilio)
	// - Email client (SendGrid)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyTripScheduled notifies the rider that their trip has been scheduled
// into a shift with a confirmed pickup time.
func (s *NotificationService) NotifyTripScheduled(ctx context.Context, trip *domain.Trip, pickupAt time.Time) error {
	notification := Notification{
		Type:        NotificationTripScheduled,
		RecipientID: trip.RiderID,
		Title:       "Trip Scheduled",
		Message:     fmt.Sprintf("Your trip from %s to %s is scheduled. Pickup at %s", trip.FromName, trip.ToName, pickupAt.Format("15:04")),
		Data: map[string]interface{}{
			"trip_id":   trip.ID,
			"shift_id":  trip.ShiftID,
			"pickup_at": pickupAt,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyShiftPathReady notifies the driver that their shift route is ready.
func (s *NotificationService) NotifyShiftPathReady(ctx context.Context, shift *domain.Shift) error {
	notification := Notification{
		Type:        NotificationShiftPathReady,
		RecipientID: shift.DriverID,
		Title:       "Route Ready",
		Message:     fmt.Sprintf("Your shift route is ready with %d stops", len(shift.Checkpoints)),
		Data: map[string]interface{}{
			"shift_id":    shift.ID,
			"checkpoints": len(shift.Checkpoints),
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would:
	// 1. Store notification in database
	// 2. Send push notification via FCM/APNS
	// 3. Broadcast via WebSocket for real-time updates

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
