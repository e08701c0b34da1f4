package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventComplaintFiled, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+string(e.Type))
		return nil
	})
	d.Subscribe(EventComplaintFiled, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+string(e.Type))
		return nil
	})
	d.Subscribe(EventApplicationSubmitted, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintFiled}))
	assert.Equal(t, []string{"first:complaint_filed", "second:complaint_filed"}, calls)
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	errA := errors.New("redis down")
	ran := false

	d.Subscribe(EventApplicationStatusChanged, func(context.Context, Event) error { return errA })
	d.Subscribe(EventApplicationStatusChanged, func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventApplicationStatusChanged})
	assert.ErrorIs(t, err, errA)
	assert.True(t, ran)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintResponded}))
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	d := NewInMemoryDispatcher()
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.Subscribe(EventApplicationSubmitted, func(context.Context, Event) error {
				mu.Lock()
				count++
				mu.Unlock()
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			_ = d.Publish(context.Background(), Event{Type: EventApplicationSubmitted})
		}()
	}
	wg.Wait()

	mu.Lock()
	before := count
	mu.Unlock()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventApplicationSubmitted}))
	assert.Equal(t, before+8, count)
}
