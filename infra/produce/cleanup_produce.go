package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	BlobCleanupQueue      = "blob.cleanup"
	BlobCleanupExchange   = "blob.exchange"
	BlobCleanupRoutingKey = "blob.cleanup"
)

// OrphanedBlobMessage lists object-store keys that were written during an
// upload batch whose metadata never got committed. The cleanup consumer
// deletes the blobs so the store converges back to matching the metadata.
type OrphanedBlobMessage struct {
	StorageKeys []string `json:"storage_keys"`
	Reason      string   `json:"reason"`
	Timestamp   int64    `json:"timestamp"`
}

// CleanupProduceService publishes orphaned blob cleanup jobs
type CleanupProduceService struct {
	channel *amqp.Channel
}

func InitCleanupProduceService(channel *amqp.Channel) *CleanupProduceService {
	service := &CleanupProduceService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		BlobCleanupExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Blob Cleanup exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		BlobCleanupQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Blob Cleanup queue: " + err.Error())
	}

	err = channel.QueueBind(
		BlobCleanupQueue,
		BlobCleanupRoutingKey,
		BlobCleanupExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Blob Cleanup queue: " + err.Error())
	}

	return service
}

// PublishOrphanedBlobs queues the given storage keys for deletion.
func (s *CleanupProduceService) PublishOrphanedBlobs(ctx context.Context, storageKeys []string, reason string) error {
	msg := OrphanedBlobMessage{
		StorageKeys: storageKeys,
		Reason:      reason,
		Timestamp:   time.Now().Unix(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		BlobCleanupExchange,
		BlobCleanupRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
