package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stefanobartoli/filiera-backend/pkg/config"
	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
)

type fakePubSubClient struct {
	pingErr error
}

func (f *fakePubSubClient) Ping(context.Context) error            { return f.pingErr }
func (f *fakePubSubClient) OrdersPublisher() *gcppubsub.Publisher { return nil }
func (f *fakePubSubClient) DomainPublisher() *gcppubsub.Publisher { return nil }

type fakeRepo struct {
	events    []models.OutboxEvent
	fetchErr  error
	published []uuid.UUID
	failed    map[uuid.UUID]string
}

func (f *fakeRepo) FetchUnpublished(limit int) ([]models.OutboxEvent, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	if f.failed == nil {
		f.failed = map[uuid.UUID]string{}
	}
	f.failed[id] = err.Error()
	return nil
}

type fakePublisher struct {
	messages   []*gcppubsub.Message
	publishErr error
}

func (f *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	return fakeResult{err: f.publishErr}
}

type fakeResult struct {
	err error
}

func (r fakeResult) Get(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "msg-id", nil
}

func testEvent(t *testing.T, aggregate enums.OutboxAggregateType, eventType enums.OutboxEventType, attempts int) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"order_number": "ORD-2026-0001"})
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: aggregate,
		AggregateID:   uuid.New(),
		Payload:       payload,
		CreatedAt:     time.Date(2026, time.March, 12, 9, 30, 0, 0, time.UTC),
		AttemptCount:  attempts,
	}
}

func newTestService(t *testing.T, repo *fakeRepo, resolver topicResolver) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Outbox.BatchSize = 10
	cfg.Outbox.PollIntervalMS = 50
	cfg.Outbox.MaxAttempts = 5

	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		PubSub:     &fakePubSubClient{},
		Repository: repo,
		Resolver:   resolver,
	})
	require.NoError(t, err)
	return svc
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	orderEvent := testEvent(t, enums.AggregateOrder, enums.EventOrderCreated, 0)
	domainEvent := testEvent(t, enums.AggregateSupplier, enums.EventSupplierRated, 1)

	repo := &fakeRepo{events: []models.OutboxEvent{orderEvent, domainEvent}}
	orders := &fakePublisher{}
	domain := &fakePublisher{}
	resolver := func(event models.OutboxEvent) publisher {
		if event.AggregateType == enums.AggregateOrder {
			return orders
		}
		return domain
	}

	svc := newTestService(t, repo, resolver)
	require.NoError(t, svc.processBatch(context.Background()))

	require.Len(t, orders.messages, 1)
	require.Len(t, domain.messages, 1)
	require.ElementsMatch(t, []uuid.UUID{orderEvent.ID, domainEvent.ID}, repo.published)
	require.Empty(t, repo.failed)

	msg := orders.messages[0]
	require.Equal(t, string(enums.EventOrderCreated), msg.Attributes["event_type"])
	require.Equal(t, string(enums.AggregateOrder), msg.Attributes["aggregate_type"])
	require.Equal(t, orderEvent.AggregateID.String(), msg.Attributes["aggregate_id"])
	require.JSONEq(t, `{"order_number":"ORD-2026-0001"}`, string(msg.Data))
}

func TestProcessBatchMarksFailedOnPublishError(t *testing.T) {
	event := testEvent(t, enums.AggregateProduct, enums.EventDiscountTierUpdated, 2)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	broken := &fakePublisher{publishErr: errors.New("topic unavailable")}
	resolver := func(models.OutboxEvent) publisher { return broken }

	svc := newTestService(t, repo, resolver)
	require.NoError(t, svc.processBatch(context.Background()))

	require.Empty(t, repo.published)
	require.Contains(t, repo.failed[event.ID], "topic unavailable")
	// publish is retried before the failure is recorded
	require.Greater(t, len(broken.messages), 1)
}

func TestProcessBatchSkipsExhaustedEvents(t *testing.T) {
	event := testEvent(t, enums.AggregateOrder, enums.EventOrderCancelled, 5)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	resolver := func(models.OutboxEvent) publisher { return pub }

	svc := newTestService(t, repo, resolver)
	require.NoError(t, svc.processBatch(context.Background()))

	require.Empty(t, pub.messages)
	require.Empty(t, repo.published)
	require.Empty(t, repo.failed)
}

func TestProcessBatchPropagatesFetchError(t *testing.T) {
	repo := &fakeRepo{fetchErr: errors.New("connection reset")}
	svc := newTestService(t, repo, func(models.OutboxEvent) publisher { return &fakePublisher{} })

	err := svc.processBatch(context.Background())
	require.ErrorContains(t, err, "connection reset")
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	cfg := &config.Config{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	_, err := NewService(ServiceParams{Logger: logg, PubSub: &fakePubSubClient{}, Repository: &fakeRepo{}})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Config: cfg, PubSub: &fakePubSubClient{}, Repository: &fakeRepo{}})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Config: cfg, Logger: logg, Repository: &fakeRepo{}})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Config: cfg, Logger: logg, PubSub: &fakePubSubClient{}})
	require.Error(t, err)
}
