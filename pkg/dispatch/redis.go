package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartvault/smartvault/pkg/domain"
)

// RedisQueue is the self-hosted handoff: the front door pushes restore
// requests onto a Redis list and the worker daemon blocks on the other end.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(addr string, db int, key string) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisQueue{client: client, key: key}, nil
}

func (q *RedisQueue) Dispatch(ctx context.Context, req *domain.RestoreRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal restore request: %w", err)
	}

	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue restore request: %w", err)
	}
	return nil
}

// Receive blocks until a request arrives or ctx is canceled. The short BLPOP
// timeout exists only to re-check ctx between blocking rounds.
func (q *RedisQueue) Receive(ctx context.Context) (*domain.RestoreRequest, error) {
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := q.client.BLPop(ctx, 1*time.Second, q.key).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to dequeue: %w", err)
		}

		// result[0] is the key, result[1] is the value
		if len(result) < 2 {
			continue
		}

		var req domain.RestoreRequest
		if err := json.Unmarshal([]byte(result[1]), &req); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dequeued request: %w", err)
		}
		return &req, nil
	}
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

var _ Dispatcher = (*RedisQueue)(nil)
