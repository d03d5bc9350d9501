// Package cache хранит снимки происшествий в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/accident_dispatch_system/internal/models"
)

const (
	reminderTTL   = 24 * time.Hour
	generationTTL = 24 * time.Hour
)

type IncidentCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewIncidentCache(redisClient *redis.Client, ttl time.Duration) *IncidentCache {
	return &IncidentCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func incidentKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

func generationKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s:generation", id.String())
}

func reminderKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s:reminded", id.String())
}

// Get пытается получить снимок происшествия из Redis; промах - (nil, nil)
func (c *IncidentCache) Get(ctx context.Context, id uuid.UUID) (*models.IncidentDetails, error) {
	val, err := c.redisClient.Get(ctx, incidentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	details := &models.IncidentDetails{}
	if err := json.Unmarshal(val, details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return details, nil
}

// Generation возвращает номер поколения снимка. Номер растет при каждой инвалидации;
// его читают до загрузки из БД и передают в Set.
func (c *IncidentCache) Generation(ctx context.Context, id uuid.UUID) (int64, error) {
	gen, err := c.redisClient.Get(ctx, generationKey(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get incident cache generation: %w", err)
	}
	return gen, nil
}

// Set сохраняет снимок происшествия, только если с момента чтения generation
// не было инвалидации. Устаревший снимок молча отбрасывается.
func (c *IncidentCache) Set(ctx context.Context, details *models.IncidentDetails, generation int64) error {
	val, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}

	id := details.Incident.ID
	err = c.redisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey(id)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, incidentKey(id), val, c.ttl)
			return nil
		})
		return err
	}, generationKey(id))
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// Invalidate удаляет снимок происшествия и сдвигает поколение,
// чтобы запоздавший Set не вернул старые данные
func (c *IncidentCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	_, err := c.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(id))
		pipe.Expire(ctx, generationKey(id), generationTTL)
		pipe.Del(ctx, incidentKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}

// MarkReminded атомарно отмечает, что по происшествию отправлено напоминание.
// Возвращает true только для первого вызова.
func (c *IncidentCache) MarkReminded(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := c.redisClient.SetNX(ctx, reminderKey(id), time.Now().UTC().Format(time.RFC3339), reminderTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark incident as reminded: %w", err)
	}
	return ok, nil
}

// ClearReminded снимает отметку о напоминании, чтобы следующий обход повторил попытку
func (c *IncidentCache) ClearReminded(ctx context.Context, id uuid.UUID) error {
	if err := c.redisClient.Del(ctx, reminderKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to clear incident reminder mark: %w", err)
	}
	return nil
}
