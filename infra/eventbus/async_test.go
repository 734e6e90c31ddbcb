package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/bankdemo/internal/fixtures/mocks"
	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordedLetters struct {
	mu      sync.Mutex
	letters []eventbus.DeadLetter
}

func (r *recordedLetters) Record(_ context.Context, letter eventbus.DeadLetter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.letters = append(r.letters, letter)
	return nil
}

func (r *recordedLetters) all() []eventbus.DeadLetter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]eventbus.DeadLetter(nil), r.letters...)
}

func closeBus(t *testing.T, bus *AsyncEventBus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Close(ctx))
}

func TestAsyncEventBus_PublishesInBackground(t *testing.T) {
	target := NewWithMemory(discardLogger())
	bus := NewAsync(target, "memory", 10, nil, discardLogger())

	// a canceled caller context must not stop delivery
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Emit(ctx, events.NewNotificationRequested(1, "Alice", "one")))
	cancel()
	require.NoError(t, bus.Emit(context.Background(), events.NewNotificationRequested(2, "Bob", "two")))

	closeBus(t, bus)
	published := target.Published()
	require.Len(t, published, 2)
	assert.Equal(t, "one", published[0].(*events.NotificationRequested).Message)
	assert.Equal(t, "two", published[1].(*events.NotificationRequested).Message)

	assert.ErrorIs(t, bus.Emit(context.Background(), events.NewNotificationRequested(1, "Alice", "late")), ErrBusClosed)
}

func TestAsyncEventBus_FailedPublishIsDeadLettered(t *testing.T) {
	target := mocks.NewMockBus(t)
	target.On("Emit", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	letters := &recordedLetters{}

	bus := NewAsync(target, "kafka", 10, letters, discardLogger())
	require.NoError(t, bus.Emit(context.Background(), events.NewNotificationRequested(7, "Alice", "hi")))
	closeBus(t, bus)

	got := letters.all()
	require.Len(t, got, 1)
	assert.Equal(t, "kafka", got[0].Bus)
	assert.Equal(t, events.NotificationRequestedType, got[0].EventType)
	assert.Equal(t, "7", got[0].Key)
	assert.EqualError(t, got[0].Err, "broker down")
	assert.JSONEq(t, `{"toCustomerId":7,"toCustomerName":"Alice","message":"hi"}`, string(got[0].Payload))
}

func TestAsyncEventBus_PanicIsRecovered(t *testing.T) {
	target := mocks.NewMockBus(t)
	target.On("Emit", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("boom") }).Once()
	target.On("Emit", mock.Anything, mock.Anything).Return(nil).Once()
	letters := &recordedLetters{}

	bus := NewAsync(target, "redis", 10, letters, discardLogger())
	require.NoError(t, bus.Emit(context.Background(), events.NewNotificationRequested(1, "Alice", "first")))
	require.NoError(t, bus.Emit(context.Background(), events.NewNotificationRequested(1, "Alice", "second")))
	closeBus(t, bus)

	got := letters.all()
	require.Len(t, got, 1)
	assert.ErrorContains(t, got[0].Err, "panic while publishing: boom")
}

func TestAsyncEventBus_FullQueueDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	target := mocks.NewMockBus(t)
	target.On("Emit", mock.Anything, mock.Anything).Run(func(mock.Arguments) { <-release }).Return(nil)
	letters := &recordedLetters{}

	bus := NewAsync(target, "memory", 1, letters, discardLogger())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 5 {
			_ = bus.Emit(context.Background(), events.NewNotificationRequested(1, "Alice", "hi"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full queue")
	}
	close(release)
	closeBus(t, bus)

	assert.NotEmpty(t, letters.all())
	for _, l := range letters.all() {
		assert.ErrorContains(t, l.Err, "event queue full")
	}
}
