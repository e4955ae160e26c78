// Package redisstore keeps carts in Redis as JSON documents that expire
// after a period of inactivity.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phenrril/maison/internal/domain"
)

const keyPrefix = "maison:cart:"

type CartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCartStore stores carts under rdb. Every save pushes expiry ttl into the
// future; ttl <= 0 keeps carts forever.
func NewCartStore(rdb *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{rdb: rdb, ttl: ttl}
}

func key(cartID string) string { return keyPrefix + cartID }

func (s *CartStore) Load(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	raw, err := s.rdb.Get(ctx, key(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", cartID, err)
	}
	return lines, nil
}

func (s *CartStore) Save(ctx context.Context, cartID string, lines []domain.CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key(cartID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, cartID string) error {
	return s.rdb.Del(ctx, key(cartID)).Err()
}
