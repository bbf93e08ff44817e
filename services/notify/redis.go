package notify

import (
	"context"

	"github.com/redis/go-redis/v9"

	"luxo-leads/models"
)

// Redis publishes ready leads to a capped Redis stream.
type Redis struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedis creates a Redis notifier for the given stream.
func NewRedis(addr string, db int, stream string, maxLen int) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return &Redis{client: client, stream: stream, maxLen: int64(maxLen)}
}

// Ping verifies connectivity, so a bad address surfaces at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) LeadReady(ctx context.Context, lead *models.Lead) error {
	encoded, err := Encode(lead)
	if err != nil {
		return err
	}
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]interface{}{"lead": encoded},
	}).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
