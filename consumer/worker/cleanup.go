package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bqtran/filevault/infra"
	"github.com/bqtran/filevault/infra/produce"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ObjectRemover is the slice of the object store the cleanup worker needs.
type ObjectRemover interface {
	RemoveObject(ctx context.Context, key string) error
}

// retryDelay scales the backoff between cleanup attempts.
var retryDelay = 2 * time.Second

// CleanupConsumer deletes blobs whose upload batch never reached the
// metadata store, restoring the "row iff object" invariant eventually.
type CleanupConsumer struct {
	channel *amqp.Channel
	store   ObjectRemover
	logger  *infra.LoggerClient
}

func NewCleanupConsumer(channel *amqp.Channel, infra *infra.Infra) *CleanupConsumer {
	return &CleanupConsumer{
		channel: channel,
		store:   infra.Minio,
		logger:  infra.Logger,
	}
}

func (c *CleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.BlobCleanupQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register blob cleanup consumer: %w", err)
	}

	c.logger.InfoWithContextf(ctx, "[Cleanup Consumer] Started listening for orphaned blob jobs on queue: %s", produce.BlobCleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.InfoWithContextf(ctx, "[Cleanup Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.WarningWithContextf(ctx, "[Cleanup Consumer] Channel closed")
					return
				}
				c.handleCleanup(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *CleanupConsumer) handleCleanup(ctx context.Context, msg amqp.Delivery) {
	c.logger.InfoWithContextf(ctx, "[Cleanup Consumer] Received message: %s", string(msg.Body))

	var payload produce.OrphanedBlobMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	if len(payload.StorageKeys) == 0 {
		c.logger.WarningWithContextf(ctx, "[Cleanup Consumer] Message carries no storage keys")
		_ = msg.Ack(false)
		return
	}

	maxRetries := 3
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = c.executeCleanup(ctx, payload.StorageKeys)
		if err == nil {
			c.logger.InfoWithContextf(ctx, "[Cleanup Consumer] Deleted %d orphaned blobs (reason: %s)", len(payload.StorageKeys), payload.Reason)
			_ = msg.Ack(false)
			return
		}

		c.logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Attempt %d/%d failed: %v", attempt, maxRetries, err)

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * retryDelay)
		}
	}

	// A message that already went through a full retry cycle once is
	// poisoned; drop it instead of requeueing it forever.
	if msg.Redelivered {
		c.logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Dropping message after repeated failures")
		_ = msg.Nack(false, false)
		return
	}

	c.logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed after %d attempts, requeueing message once", maxRetries)
	_ = msg.Nack(false, true)
}

func (c *CleanupConsumer) executeCleanup(ctx context.Context, storageKeys []string) error {
	for _, key := range storageKeys {
		if err := c.store.RemoveObject(ctx, key); err != nil {
			return fmt.Errorf("remove orphaned blob %q: %w", key, err)
		}
	}
	return nil
}
