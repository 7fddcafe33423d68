package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"adsyclub/internal/models"
	"adsyclub/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	EventUserCreated               = "user.created"
	EventSubscriptionStatusChanged = models.NotificationEventStatusChanged
)

// Event carries a domain occurrence to registered handlers.
type Event struct {
	Type           string
	UserID         uuid.UUID
	SubscriptionID *uuid.UUID
	OldStatus      string
	NewStatus      string
	OccurredAt     time.Time
}

type EventHandler func(ctx context.Context, event Event) error

// Dispatcher calls handlers synchronously in registration order. Handler
// errors are logged and never reach the caller.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]EventHandler)}
}

func (d *Dispatcher) Register(eventType string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

func (d *Dispatcher) Dispatch(ctx context.Context, event Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	handlers := append([]EventHandler(nil), d.handlers[event.Type]...)
	d.mu.RUnlock()

	for i, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("event", event.Type).
				Str("user_id", event.UserID.String()).
				Int("handler", i).
				Msg("Event handler failed")
		}
	}
}

// FreeSubscriptionHandler gives every new user the free tier.
func FreeSubscriptionHandler(subscriptions SubscriptionService) EventHandler {
	return func(ctx context.Context, event Event) error {
		_, err := subscriptions.CreateFreeSubscription(ctx, event.UserID)
		return err
	}
}

// StatusNotificationHandler records an in-app notification for each status change.
func StatusNotificationHandler(store *repositories.Store) EventHandler {
	return func(ctx context.Context, event Event) error {
		notification := &models.Notification{
			UserID:         event.UserID,
			SubscriptionID: event.SubscriptionID,
			EventType:      event.Type,
			Message:        statusMessage(event.OldStatus, event.NewStatus),
		}
		if err := store.Notifications.Create(ctx, notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	}
}

func statusMessage(oldStatus, newStatus string) string {
	if oldStatus == "" || oldStatus == newStatus {
		return fmt.Sprintf("Your subscription is now %s.", newStatus)
	}
	return fmt.Sprintf("Your subscription changed from %s to %s.", oldStatus, newStatus)
}

// RegisterDefaultHandlers wires the handlers every process needs.
func RegisterDefaultHandlers(d *Dispatcher, subscriptions SubscriptionService, store *repositories.Store) {
	d.Register(EventUserCreated, FreeSubscriptionHandler(subscriptions))
	d.Register(EventSubscriptionStatusChanged, StatusNotificationHandler(store))
}
