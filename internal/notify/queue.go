package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	messageQueueKey = "notify_messages"
)

// QueueGateway - реализация Gateway, которая ставит сообщения в очередь Redis.
// Доставку выполняет Worker.
type QueueGateway struct {
	redisClient *redis.Client
}

// NewQueueGateway создает новый QueueGateway
func NewQueueGateway(client *redis.Client) *QueueGateway {
	return &QueueGateway{
		redisClient: client,
	}
}

// Send публикует сообщение в очередь Redis
func (q *QueueGateway) Send(ctx context.Context, msg Message) error {
	msg.To = normalizeRecipients(msg.To)
	if len(msg.To) == 0 {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	// LPUSH в голову списка, воркер забирает из хвоста
	if err := q.redisClient.LPush(ctx, messageQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification to Redis: %w", err)
	}
	return nil
}
