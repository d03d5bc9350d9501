package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Worker забирает сообщения из очереди Redis и доставляет их через FanoutGateway
type Worker struct {
	redisClient *redis.Client
	gateway     *FanoutGateway
	logger      *logrus.Logger
	maxRetries  int
	baseDelay   time.Duration
	popTimeout  time.Duration
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, gateway *FanoutGateway, logger *logrus.Logger, maxRetries int, baseDelay time.Duration) *Worker {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Worker{
		redisClient: redisClient,
		gateway:     gateway,
		logger:      logger,
		maxRetries:  maxRetries,
		baseDelay:   baseDelay,
		popTimeout:  5 * time.Second,
	}
}

// Start запускает горутину для обработки очереди оповещений
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting notification worker...")
	go w.run(ctx)
}

func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping notification worker.")
			return
		default:
		}

		// BRPOP - блокирующее извлечение из хвоста очереди
		result, err := w.redisClient.BRPop(ctx, w.popTimeout, messageQueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.WithError(err).Error("Failed to pop notification from Redis")
			w.sleep(ctx, w.baseDelay)
			continue
		}

		// result[0] - ключ, result[1] - значение
		w.handlePayload(ctx, result[1])
	}
}

func (w *Worker) handlePayload(ctx context.Context, payload string) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		w.logger.WithError(err).Error("Failed to unmarshal notification from Redis")
		return
	}
	w.deliver(ctx, msg)
}

// deliver отправляет сообщение, повторяя попытки только для неуспешных получателей
func (w *Worker) deliver(ctx context.Context, msg Message) {
	log := w.logger.WithField("subject", msg.Subject)
	delay := w.baseDelay

	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err := w.gateway.Send(ctx, msg)
		if err == nil {
			log.WithField("recipients", len(msg.To)).Debug("Notification delivered")
			return
		}

		var deliveryErr *DeliveryError
		if !errors.As(err, &deliveryErr) {
			log.WithError(err).Error("Notification delivery aborted")
			return
		}
		msg.To = deliveryErr.Recipients()

		if attempt == w.maxRetries {
			break
		}
		log.WithError(err).Warnf("Notification delivery failed. Retrying in %v. Retries left: %d", delay, w.maxRetries-attempt)
		if !w.sleep(ctx, delay) {
			return
		}
		delay *= 2
	}

	log.WithField("recipients", msg.To).Errorf("Failed to deliver notification after %d attempts.", w.maxRetries)
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
