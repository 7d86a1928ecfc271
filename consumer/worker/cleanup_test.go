package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bqtran/filevault/infra"
	"github.com/bqtran/filevault/infra/produce"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAcknowledger struct {
	acks     int
	requeues []bool
}

func (a *recordingAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acks++
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.requeues = append(a.requeues, requeue)
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	a.requeues = append(a.requeues, requeue)
	return nil
}

type recordingRemover struct {
	removed []string
	err     error
}

func (r *recordingRemover) RemoveObject(ctx context.Context, key string) error {
	if r.err != nil {
		return r.err
	}
	r.removed = append(r.removed, key)
	return nil
}

func testConsumer(store ObjectRemover) *CleanupConsumer {
	return &CleanupConsumer{
		store:  store,
		logger: infra.NewConsoleLoggerClient(),
	}
}

func cleanupDelivery(t *testing.T, ack amqp.Acknowledger, keys []string) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(produce.OrphanedBlobMessage{
		StorageKeys: keys,
		Reason:      "metadata insert failed",
		Timestamp:   time.Now().Unix(),
	})
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestHandleCleanupRemovesBlobsAndAcks(t *testing.T) {
	ack := &recordingAcknowledger{}
	store := &recordingRemover{}
	consumer := testConsumer(store)

	keys := []string{"k1/a.txt", "k2/b.txt"}
	consumer.handleCleanup(context.Background(), cleanupDelivery(t, ack, keys))

	assert.Equal(t, keys, store.removed)
	assert.Equal(t, 1, ack.acks)
	assert.Empty(t, ack.requeues)
}

func TestHandleCleanupAcksEmptyKeyList(t *testing.T) {
	ack := &recordingAcknowledger{}
	store := &recordingRemover{}
	consumer := testConsumer(store)

	consumer.handleCleanup(context.Background(), cleanupDelivery(t, ack, nil))

	assert.Empty(t, store.removed)
	assert.Equal(t, 1, ack.acks)
}

func TestHandleCleanupDropsMalformedMessage(t *testing.T) {
	ack := &recordingAcknowledger{}
	consumer := testConsumer(&recordingRemover{})

	consumer.handleCleanup(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte("not json"),
	})

	assert.Zero(t, ack.acks)
	assert.Equal(t, []bool{false}, ack.requeues)
}

func TestHandleCleanupRequeuesFirstDeliveryOnce(t *testing.T) {
	old := retryDelay
	retryDelay = 0
	defer func() { retryDelay = old }()

	ack := &recordingAcknowledger{}
	store := &recordingRemover{err: errors.New("storage unavailable")}
	consumer := testConsumer(store)

	consumer.handleCleanup(context.Background(), cleanupDelivery(t, ack, []string{"k1/a.txt"}))

	assert.Zero(t, ack.acks)
	assert.Equal(t, []bool{true}, ack.requeues)
}

func TestHandleCleanupDropsRedeliveredFailure(t *testing.T) {
	old := retryDelay
	retryDelay = 0
	defer func() { retryDelay = old }()

	ack := &recordingAcknowledger{}
	store := &recordingRemover{err: errors.New("storage unavailable")}
	consumer := testConsumer(store)

	msg := cleanupDelivery(t, ack, []string{"k1/a.txt"})
	msg.Redelivered = true
	consumer.handleCleanup(context.Background(), msg)

	assert.Zero(t, ack.acks)
	assert.Equal(t, []bool{false}, ack.requeues, "a redelivered message that still fails must not requeue again")
}
