package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisTokenModel struct {
	client *redis.Client
}

func NewRedisTokenModel(client *redis.Client) *RedisTokenModel {
	return &RedisTokenModel{client: client}
}

func createTokenKey(scope, userID string) string {
	return fmt.Sprintf("%s:%s", scope, userID)
}

func (m *RedisTokenModel) New(userID string, ttl time.Duration, scope string) (*Token, error) {
	return generateToken(userID, ttl, scope)
}

func (m *RedisTokenModel) Insert(ctx context.Context, token *Token) error {
	key := createTokenKey(token.Scope, token.UserID)

	payload, err := json.Marshal(token)
	if err != nil {
		return err
	}

	err = m.client.Set(ctx, key, payload, time.Until(token.Expiry).Abs()).Err()
	if err != nil {
		return fmt.Errorf("failed to insert token into redis: %w", err)
	}

	return nil
}

// Get returns nil (without an error) when the token is missing, expired
// or does not match the stored hash.
func (m *RedisTokenModel) Get(ctx context.Context, scope, userID, tokenKey string) (*Token, error) {
	key := createTokenKey(scope, userID)
	data, err := m.client.Get(ctx, key).Result()

	if err == redis.Nil {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	token := &Token{}
	if err := json.Unmarshal([]byte(data), token); err != nil {
		return nil, err
	}

	hash := sha256.Sum256([]byte(tokenKey))

	if !bytes.Equal(token.Hash, hash[:]) {
		return nil, nil
	}

	return token, nil
}

func (m *RedisTokenModel) DeleteAllForUser(ctx context.Context, scope string, userID string) error {
	key := createTokenKey(scope, userID)

	err := m.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete token from redis: %w", err)
	}

	return nil
}
