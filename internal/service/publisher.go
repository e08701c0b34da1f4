package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/events"
)

// publisher stamps and dispatches domain events. Delivery failures never fail the
// request that produced the event.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func newPublisher(dispatcher events.Dispatcher, logger *zap.Logger) publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return publisher{dispatcher: dispatcher, logger: logger, now: time.Now}
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

func applicantActor(username string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeApplicant, Username: username}
}

func adminActor(username string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeAdmin, Username: username}
}
