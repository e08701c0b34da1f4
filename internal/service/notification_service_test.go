package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/waterworks/water-service/internal/events"
)

type recordingSink struct {
	channel  string
	payloads [][]byte
	err      error
}

func (s *recordingSink) Publish(_ context.Context, channel string, payload []byte) error {
	if s.err != nil {
		return s.err
	}
	s.channel = channel
	s.payloads = append(s.payloads, payload)
	return nil
}

type countingRecorder map[string]int

func (c countingRecorder) RecordEvent(eventType string) { c[eventType]++ }

func TestNotificationServiceForwardsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	sink := &recordingSink{}
	counter := countingRecorder{}

	NewNotificationService(dispatcher, zap.New(core), sink, "water.events", counter).RegisterHandlers()

	event := events.Event{
		ID:            "evt-1",
		Type:          events.EventComplaintFiled,
		ApplicationID: 7,
		Payload:       events.ComplaintFiledPayload{ComplaintID: 3, MessagePreview: "leak"},
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	assert.Equal(t, "water.events", sink.channel)
	require.Len(t, sink.payloads, 1)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(sink.payloads[0], &decoded))
	assert.Equal(t, "complaint_filed", decoded["type"])
	assert.Equal(t, float64(7), decoded["application_id"])

	assert.Equal(t, 1, counter["complaint_filed"])
	assert.Equal(t, 1, logs.FilterMessage("ComplaintFiled").Len())
}

func TestNotificationServiceSinkFailureSurfacesToDispatcher(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sinkErr := errors.New("redis unavailable")
	NewNotificationService(dispatcher, zap.NewNop(), &recordingSink{err: sinkErr}, "water.events", nil).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{ID: "evt-2", Type: events.EventApplicationSubmitted})
	assert.ErrorIs(t, err, sinkErr)
}

func TestNotificationServiceWithoutSink(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.NewNop(), nil, "", nil).RegisterHandlers()
	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventComplaintResponded}))
}

// blockingSink never answers, like a Redis behind a dropped route.
type blockingSink struct{}

func (blockingSink) Publish(ctx context.Context, _ string, _ []byte) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestNotificationServiceBoundsSinkLatency(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.NewNop(), blockingSink{}, "water.events", nil)
	svc.timeout = 20 * time.Millisecond
	svc.RegisterHandlers()

	start := time.Now()
	err := dispatcher.Publish(context.Background(), events.Event{ID: "evt-3", Type: events.EventApplicationSubmitted})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
