package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"recipe_api/internal/common"
	"recipe_api/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// TokenStore holds issued auth tokens server-side. A token is an opaque
// key; the stored value is the owning user's id.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	UserID(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	log.Println("Successfully connected to Redis!")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		log.Println("Redis connection closed.")
	}
}

const tokenKeyPrefix = "authtoken:"

type redisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) TokenStore {
	return &redisTokenStore{rdb: rdb}
}

func (s *redisTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, tokenKeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redisTokenStore.Save: %w", err)
	}
	return nil
}

func (s *redisTokenStore) UserID(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("redisTokenStore.UserID: %w", err)
	}
	return userID, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("redisTokenStore.Revoke: %w", err)
	}
	return nil
}
