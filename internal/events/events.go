package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Event subjects
const (
	SubjectOrderCreated = "pharmacy.order.created"
	SubjectOrderUpdated = "pharmacy.order.updated"
	SubjectOrderPaid    = "pharmacy.order.paid"

	SubjectSyncCompleted = "pharmacy.analytics.sync.completed"
	SubjectSyncFailed    = "pharmacy.analytics.sync.failed"
)

// OrderEvent is emitted by the pharmacy backend when an order changes.
type OrderEvent struct {
	PharmacyID uuid.UUID `json:"pharmacy_id"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// SyncCompletedEvent reports a successful order sync.
type SyncCompletedEvent struct {
	PharmacyID   uuid.UUID `json:"pharmacy_id"`
	OrdersSynced int       `json:"orders_synced"`
	Timestamp    time.Time `json:"timestamp"`
}

// SyncFailedEvent reports a failed order sync.
type SyncFailedEvent struct {
	PharmacyID uuid.UUID `json:"pharmacy_id"`
	Error      string    `json:"error"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventHandler defines the interface for handling order events.
type EventHandler interface {
	HandleOrderCreated(event *OrderEvent) error
	HandleOrderUpdated(event *OrderEvent) error
	HandleOrderPaid(event *OrderEvent) error
}

// Subscriber handles NATS event subscriptions.
type Subscriber struct {
	nc      *nats.Conn
	logger  *zap.Logger
	handler EventHandler
	subs    []*nats.Subscription
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(nc *nats.Conn, handler EventHandler, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		nc:      nc,
		logger:  logger,
		handler: handler,
		subs:    make([]*nats.Subscription, 0),
	}
}

// Start subscribes to all order events.
func (s *Subscriber) Start() error {
	subjects := []struct {
		subject string
		handle  func(*OrderEvent) error
	}{
		{SubjectOrderCreated, s.handler.HandleOrderCreated},
		{SubjectOrderUpdated, s.handler.HandleOrderUpdated},
		{SubjectOrderPaid, s.handler.HandleOrderPaid},
	}

	for _, sub := range subjects {
		handle := sub.handle
		subject := sub.subject
		natsSub, err := s.nc.Subscribe(subject, func(msg *nats.Msg) {
			var event OrderEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				s.logger.Error("Failed to unmarshal order event",
					zap.String("subject", subject), zap.Error(err))
				return
			}
			if err := handle(&event); err != nil {
				s.logger.Error("Failed to handle order event",
					zap.String("subject", subject),
					zap.String("order_id", event.OrderID),
					zap.Error(err),
				)
			}
		})
		if err != nil {
			return err
		}
		s.subs = append(s.subs, natsSub)
		s.logger.Info("Subscribed to event", zap.String("subject", subject))
	}

	s.logger.Info("NATS subscriber started with all subscriptions")
	return nil
}

// Stop unsubscribes from all events.
func (s *Subscriber) Stop() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.logger.Info("NATS subscriber stopped")
}

// Publisher handles publishing events to NATS.
type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(nc *nats.Conn, logger *zap.Logger) *Publisher {
	return &Publisher{nc: nc, logger: logger}
}

// PublishSyncCompleted publishes a sync completed event.
func (p *Publisher) PublishSyncCompleted(event *SyncCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(SubjectSyncCompleted, data)
}

// PublishSyncFailed publishes a sync failed event.
func (p *Publisher) PublishSyncFailed(event *SyncFailedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(SubjectSyncFailed, data)
}
