package ai

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CachedClassifier caches successful classifications in Redis keyed by
// ticket id. Re-delivered triage events and retried workflow attempts
// then reuse the stored result instead of paying for another model
// call. Cache failures degrade to the inner classifier.
type CachedClassifier struct {
	inner  Classifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClassifier wraps inner with a Redis-backed cache.
func NewCachedClassifier(inner Classifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	return &CachedClassifier{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(ticketID string) string {
	return "triage:classification:" + ticketID
}

// Classify returns the cached result for the ticket when present,
// otherwise delegates and stores the outcome.
func (c *CachedClassifier) Classify(ctx context.Context, ticket *domain.Ticket) (*domain.ClassificationResult, error) {
	key := cacheKey(ticket.ID)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var result domain.ClassificationResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			c.logger.Debug("classification cache hit", zap.String("ticket_id", ticket.ID))
			return &result, nil
		}
		// corrupted entry, fall through to the model
	case err != redis.Nil:
		c.logger.Warn("classification cache read failed", zap.Error(err))
	}

	result, err := c.inner.Classify(ctx, ticket)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.logger.Warn("classification cache write failed", zap.Error(err))
		}
	}
	return result, nil
}
