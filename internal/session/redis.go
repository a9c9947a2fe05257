package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "audiodrop:session:"

type RedisStore struct {
	redis     *redis.Client
	highlight time.Duration
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, highlight time.Duration) *RedisStore {
	return &RedisStore{redis: client, highlight: highlight}
}

func key(sid, name string) string {
	return keyPrefix + sid + ":" + name
}

func (r *RedisStore) SetHighlight(ctx context.Context, sid, id string) error {
	if err := r.redis.Set(ctx, key(sid, "highlight"), id, r.highlight).Err(); err != nil {
		return fmt.Errorf("setting highlight: %w", err)
	}
	return nil
}

func (r *RedisStore) Highlight(ctx context.Context, sid string) (string, error) {
	id, err := r.redis.Get(ctx, key(sid, "highlight")).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting highlight: %w", err)
	}
	return id, nil
}

func (r *RedisStore) BeginPurchase(ctx context.Context, sid string) error {
	k := key(sid, "purchasing")
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, idleTimeout)
		return nil
	})
	if err != nil {
		return fmt.Errorf("marking purchase: %w", err)
	}
	return nil
}

func (r *RedisStore) EndPurchase(ctx context.Context, sid string) error {
	k := key(sid, "purchasing")
	n, err := r.redis.Decr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("clearing purchase: %w", err)
	}
	if n <= 0 {
		if err := r.redis.Del(ctx, k).Err(); err != nil {
			log.Warn().Err(err).Str("session", sid).Msg("error deleting purchase counter")
		}
	}
	return nil
}

func (r *RedisStore) PurchaseInProgress(ctx context.Context, sid string) (bool, error) {
	n, err := r.redis.Get(ctx, key(sid, "purchasing")).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting purchase state: %w", err)
	}
	return n > 0, nil
}

func (r *RedisStore) PushToast(ctx context.Context, sid string, toast model.Toast) error {
	payload, err := json.Marshal(toast)
	if err != nil {
		return err
	}
	k := key(sid, "toasts")
	_, err = r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, k, payload)
		pipe.Expire(ctx, k, idleTimeout)
		return nil
	})
	if err != nil {
		return fmt.Errorf("pushing toast: %w", err)
	}
	return nil
}

func (r *RedisStore) PopToasts(ctx context.Context, sid string) ([]model.Toast, error) {
	k := key(sid, "toasts")
	var values *redis.StringSliceCmd
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		values = pipe.LRange(ctx, k, 0, -1)
		pipe.Del(ctx, k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("popping toasts: %w", err)
	}
	var toasts []model.Toast
	for _, value := range values.Val() {
		var toast model.Toast
		if err := json.Unmarshal([]byte(value), &toast); err != nil {
			log.Warn().Err(err).Str("session", sid).Msg("discarding malformed toast")
			continue
		}
		toasts = append(toasts, toast)
	}
	return toasts, nil
}
