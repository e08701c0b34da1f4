package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/waterworks/water-service/internal/events"
)

// defaultPublishTimeout caps how long a request waits on the event sink.
const defaultPublishTimeout = 2 * time.Second

// EventSink forwards serialized events out of process. *persistence.Redis implements it.
type EventSink interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// EventCounter records event throughput. *observability.Metrics implements it.
type EventCounter interface {
	RecordEvent(eventType string)
}

// NotificationService fans domain events out to logs, metrics and the Redis channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	sink       EventSink
	channel    string
	counter    EventCounter
	timeout    time.Duration
}

// NewNotificationService creates the service. sink and counter may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, sink EventSink, channel string, counter EventCounter) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		sink:       sink,
		channel:    channel,
		counter:    counter,
		timeout:    defaultPublishTimeout,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventApplicationSubmitted, n.handleApplicationSubmitted)
	n.dispatcher.Subscribe(events.EventApplicationStatusChanged, n.handleApplicationStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintFiled, n.handleComplaintFiled)
	n.dispatcher.Subscribe(events.EventComplaintResponded, n.handleComplaintResponded)
}

func (n *NotificationService) handleApplicationSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ApplicationSubmitted", zap.Int64("application_id", event.ApplicationID), zap.String("username", event.Actor.Username))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleApplicationStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ApplicationStatusChanged", zap.Int64("application_id", event.ApplicationID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleComplaintFiled(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintFiled", zap.Int64("application_id", event.ApplicationID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleComplaintResponded(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintResponded", zap.Int64("application_id", event.ApplicationID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if n.counter != nil {
		n.counter.RecordEvent(string(event.Type))
	}
	if n.sink == nil || n.channel == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.sink.Publish(ctx, n.channel, payload); err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}
	n.logger.Debug("event forwarded", zap.String("channel", n.channel), zap.String("event_type", string(event.Type)))
	return nil
}
