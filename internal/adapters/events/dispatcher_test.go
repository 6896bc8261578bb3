package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flow/internal/adapters/events"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
	block  chan struct{}
	err    error
	closed bool
}

func (r *recorder) Handle(_ context.Context, e domain.Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func (r *recorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(r.events))
	for i, e := range r.events {
		ids[i] = e.EntityID
	}
	return ids
}

func definitionEvent(id string) domain.Event {
	return domain.NewDefinitionEvent(domain.EventEntityCreated, domain.Definition{ID: id, DeploymentID: "dep-1"})
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	rec := &recorder{}
	d := events.NewDispatcher(log, events.WithListeners(rec))
	require.True(t, d.Enabled())

	for _, id := range []string{"pd-1", "pd-2", "pd-3", "pd-4"} {
		d.Dispatch(context.Background(), definitionEvent(id))
	}
	require.NoError(t, d.Close())

	assert.Equal(t, []string{"pd-1", "pd-2", "pd-3", "pd-4"}, rec.ids())
	assert.True(t, rec.closed, "closable listeners are closed after draining")
}

func TestDispatcher_DispatchDoesNotWaitForDelivery(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := mocks.NewMockLogger(ctrl)

		rec := &recorder{block: make(chan struct{})}
		d := events.NewDispatcher(log, events.WithListeners(rec))

		d.Dispatch(context.Background(), definitionEvent("pd-1"))
		d.Dispatch(context.Background(), definitionEvent("pd-2"))
		synctest.Wait()
		assert.Empty(t, rec.ids(), "listener is still blocked")

		close(rec.block)
		require.NoError(t, d.Close())
		assert.Equal(t, []string{"pd-1", "pd-2"}, rec.ids())
	})
}

func TestDispatcher_FullQueueHonoursContext(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := mocks.NewMockLogger(ctrl)
		log.EXPECT().Warn("event dropped", gomock.Any()).Times(1)

		rec := &recorder{block: make(chan struct{})}
		d := events.NewDispatcher(log, events.WithQueueSize(1), events.WithListeners(rec))

		d.Dispatch(context.Background(), definitionEvent("pd-1"))
		synctest.Wait()
		d.Dispatch(context.Background(), definitionEvent("pd-2"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d.Dispatch(ctx, definitionEvent("pd-3"))

		close(rec.block)
		require.NoError(t, d.Close())
		assert.Equal(t, []string{"pd-1", "pd-2"}, rec.ids())
	})
}

func TestDispatcher_ListenerErrorsAreLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	boom := errors.New("listener failed")
	log.EXPECT().Error(boom, gomock.Any()).Times(2)

	failing := &recorder{err: boom}
	next := &recorder{}
	d := events.NewDispatcher(log, events.WithListeners(failing, next))

	d.Dispatch(context.Background(), definitionEvent("pd-1"))
	d.Dispatch(context.Background(), definitionEvent("pd-2"))
	require.NoError(t, d.Close())

	assert.Equal(t, []string{"pd-1", "pd-2"}, next.ids(), "later listeners still receive events")
}

func TestDispatcher_DispatchAfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("event dropped, dispatcher closed", gomock.Any()).Times(1)

	rec := &recorder{}
	d := events.NewDispatcher(log, events.WithListeners(rec))
	require.NoError(t, d.Close())
	require.NoError(t, d.Close(), "close is idempotent")

	d.Dispatch(context.Background(), definitionEvent("pd-1"))
	assert.Empty(t, rec.ids())
}

func TestNew_FromConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	d, err := events.New(domain.EventsConfig{Enabled: false, QueueSize: 4}, log)
	require.NoError(t, err)
	assert.False(t, d.Enabled())
	require.NoError(t, d.Close())

	_, err = events.New(domain.EventsConfig{
		Enabled: true,
		Kafka:   domain.KafkaConfig{Brokers: []string{"localhost:9092"}},
	}, log)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLogListener(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("entity event", gomock.Any()).Times(1)

	require.NoError(t, events.NewLogListener(log).Handle(context.Background(), definitionEvent("pd-1")))
}
