// Package redis provides a design store backed by Redis.
//
// Each design is a JSON string under "<prefix>design:<owner>:<id>". A set
// at "<prefix>designs:<owner>" indexes the owner's ids for listing.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/slotcraft/pkg/design"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "slotcraft:"

// Config configures a Redis design store.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store is a Redis-backed design store.
type Store struct {
	client *redis.Client
	prefix string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewFromClient(client, cfg.Prefix), nil
}

// NewFromClient wraps an existing client. An empty prefix uses DefaultPrefix.
func NewFromClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) designKey(owner, id string) string {
	return fmt.Sprintf("%sdesign:%s:%s", s.prefix, owner, id)
}

func (s *Store) indexKey(owner string) string {
	return fmt.Sprintf("%sdesigns:%s", s.prefix, owner)
}

func (s *Store) Get(ctx context.Context, owner, id string) (*design.Design, error) {
	data, err := s.client.Get(ctx, s.designKey(owner, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, design.NotFound(owner, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get design: %w", err)
	}

	var d design.Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse design %s: %w", id, err)
	}
	return &d, nil
}

func (s *Store) Save(ctx context.Context, d *design.Design) error {
	if err := design.Prepare(d, time.Now()); err != nil {
		return err
	}
	if prev, err := s.Get(ctx, d.Owner, d.ID); err == nil {
		d.CreatedAt = prev.CreatedAt
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.designKey(d.Owner, d.ID), data, 0)
		pipe.SAdd(ctx, s.indexKey(d.Owner), d.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save design: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, owner, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.designKey(owner, id))
		pipe.SRem(ctx, s.indexKey(owner), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete design: %w", err)
	}
	if del.Val() == 0 {
		return design.NotFound(owner, id)
	}
	return nil
}

func (s *Store) List(ctx context.Context, owner string) ([]design.Design, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list designs: %w", err)
	}

	out := make([]design.Design, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.designKey(owner, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list designs: %w", err)
	}
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var d design.Design
		if err := json.Unmarshal([]byte(str), &d); err != nil {
			continue
		}
		out = append(out, d)
	}
	design.SortByUpdated(out)
	return out, nil
}

func (s *Store) Close() error { return s.client.Close() }

var _ design.Store = (*Store)(nil)
