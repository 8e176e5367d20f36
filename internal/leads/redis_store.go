package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisStore keeps the lead log as a Redis list. Any number of processes
// can append to the same key; stamps stay non-decreasing in list order.
type RedisStore struct {
	redis  *redis.Client
	key    string
	tracer trace.Tracer
}

// NewRedisStore returns nil when redisClient is nil.
func NewRedisStore(redisClient *redis.Client, key string) *RedisStore {
	if redisClient == nil {
		return nil
	}
	if key == "" {
		key = DefaultLogKey
	}
	return &RedisStore{
		redis:  redisClient,
		key:    key,
		tracer: otel.Tracer("realestate.internal.leads.redis"),
	}
}

// maxAppendAttempts bounds optimistic retries when writers collide on the key.
const maxAppendAttempts = 100

// Append pushes lead onto the list. The tail is read under WATCH so the
// stamp can be clamped to the previous lead's before the push commits; a
// concurrent writer aborts the transaction and the read is redone.
func (s *RedisStore) Append(ctx context.Context, lead *Lead) error {
	if lead == nil {
		return errors.New("leads: nil lead")
	}

	ctx, span := s.tracer.Start(ctx, "leads.redis.append")
	defer span.End()

	push := func(tx *redis.Tx) error {
		cp := *lead
		tail, err := tx.LIndex(ctx, s.key, -1).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var last Lead
			if err := json.Unmarshal([]byte(tail), &last); err != nil {
				return fmt.Errorf("leads: decode log tail: %w", err)
			}
			cp.Timestamp = notBefore(cp.Timestamp, last.Timestamp)
		}

		data, err := json.Marshal(&cp)
		if err != nil {
			return fmt.Errorf("leads: marshal lead: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, s.key, data)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		err := s.redis.Watch(ctx, push, s.key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		span.RecordError(err)
		return fmt.Errorf("leads: redis append: %w", err)
	}
	err := fmt.Errorf("leads: redis append: %s kept changing under %d attempts", s.key, maxAppendAttempts)
	span.RecordError(err)
	return err
}

// List returns every lead, oldest first. An entry that does not decode is
// reported with its index.
func (s *RedisStore) List(ctx context.Context) ([]*Lead, error) {
	ctx, span := s.tracer.Start(ctx, "leads.redis.list")
	defer span.End()

	raw, err := s.redis.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*Lead{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("leads: redis list: %w", err)
	}

	out := make([]*Lead, 0, len(raw))
	for i, item := range raw {
		var lead Lead
		if err := json.Unmarshal([]byte(item), &lead); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("leads: decode log entry %d: %w", i, err)
		}
		out = append(out, &lead)
	}
	return out, nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.redis.LLen(ctx, s.key).Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("leads: redis len: %w", err)
	}
	return int(n), nil
}
