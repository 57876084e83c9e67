package session

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/tile2048/slidegame/game/service"
)

const defaultRedisKeyPrefix = "slidegame:session:"

// RedisPersistence implements SessionPersistence backed by Redis. It
// stores each session as a JSON value under a prefixed key, optionally
// with a TTL so abandoned games expire on their own.
type RedisPersistence struct {
	client       *backend.Client
	rulesManager service.RulesManager
	prefix       string
	ttl          time.Duration
	timeout      time.Duration
}

type RedisOption func(*RedisPersistence)

// WithTTL sets the expiration for persisted sessions.
func WithTTL(ttl time.Duration) RedisOption {
	return func(rp *RedisPersistence) {
		rp.ttl = ttl
	}
}

// WithKeyPrefix sets the key prefix for persisted sessions.
func WithKeyPrefix(prefix string) RedisOption {
	return func(rp *RedisPersistence) {
		rp.prefix = prefix
	}
}

// NewRedisPersistence creates a Redis-backed session persistence layer
func NewRedisPersistence(addr, password string, db int, rulesManager service.RulesManager, opts ...RedisOption) *RedisPersistence {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return newRedisPersistence(client, rulesManager, opts...)
}

// NewRedisPersistenceFromClient creates a Redis-backed persistence
// layer from an existing client.
func NewRedisPersistenceFromClient(client *backend.Client, rulesManager service.RulesManager, opts ...RedisOption) *RedisPersistence {
	return newRedisPersistence(client, rulesManager, opts...)
}

func newRedisPersistence(client *backend.Client, rulesManager service.RulesManager, opts ...RedisOption) *RedisPersistence {
	rp := &RedisPersistence{
		client:       client,
		rulesManager: rulesManager,
		prefix:       defaultRedisKeyPrefix,
		ttl:          0, // No expiration by default
		timeout:      5 * time.Second,
	}

	for _, opt := range opts {
		opt(rp)
	}

	return rp
}

func (rp *RedisPersistence) key(id string) string {
	return rp.prefix + id
}

func (rp *RedisPersistence) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rp.timeout)
}

// Save persists a session as JSON under its key
func (rp *RedisPersistence) Save(session *service.Session) error {
	data, err := marshalSession(session, rp.rulesManager)
	if err != nil {
		return err
	}

	ctx, cancel := rp.opCtx()
	defer cancel()

	if err := rp.client.Set(ctx, rp.key(session.ID), data, rp.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}

	return nil
}

// Load retrieves a session from Redis
func (rp *RedisPersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := rp.opCtx()
	defer cancel()

	val, err := rp.client.Get(ctx, rp.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	return unmarshalSession([]byte(val), rp.rulesManager)
}

// Delete removes a session from Redis
func (rp *RedisPersistence) Delete(id string) error {
	ctx, cancel := rp.opCtx()
	defer cancel()

	removed, err := rp.client.Del(ctx, rp.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	if removed == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// ListAll returns all persisted session IDs by scanning the key prefix
func (rp *RedisPersistence) ListAll() ([]string, error) {
	ctx, cancel := rp.opCtx()
	defer cancel()

	var sessionIDs []string
	iter := rp.client.Scan(ctx, 0, rp.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		sessionIDs = append(sessionIDs, iter.Val()[len(rp.prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions in redis: %w", err)
	}

	return sessionIDs, nil
}

// Exists checks if a session key exists in Redis
func (rp *RedisPersistence) Exists(id string) bool {
	ctx, cancel := rp.opCtx()
	defer cancel()

	count, err := rp.client.Exists(ctx, rp.key(id)).Result()
	return err == nil && count > 0
}

// Close closes the underlying Redis client
func (rp *RedisPersistence) Close() error {
	return rp.client.Close()
}
