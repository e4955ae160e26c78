// Package boltstore keeps carts in a local bbolt file for single-node
// deployments without Redis.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/phenrril/maison/internal/domain"
)

var cartsBucket = []byte("carts")

// record is the stored form of one cart.
type record struct {
	Lines     []domain.CartLine `json:"lines"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type CartStore struct {
	db  *bolt.DB
	now func() time.Time
}

// Open creates or opens the store file at path.
func Open(path string) (*CartStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &CartStore{db: db, now: time.Now}, nil
}

func (s *CartStore) Close() error { return s.db.Close() }

func (s *CartStore) Load(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	var rec record
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(cartsBucket).Get([]byte(cartID))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &rec)
	})
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", cartID, err)
	}
	return rec.Lines, nil
}

func (s *CartStore) Save(ctx context.Context, cartID string, lines []domain.CartLine) error {
	raw, err := json.Marshal(record{Lines: lines, UpdatedAt: s.now()})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartsBucket).Put([]byte(cartID), raw)
	})
}

func (s *CartStore) Delete(ctx context.Context, cartID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartsBucket).Delete([]byte(cartID))
	})
}

// PurgeBefore removes carts last saved before cutoff and reports how many
// went.
func (s *CartStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(cartsBucket)
		var stale [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil || rec.UpdatedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}
