package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"applybot/core/logger"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 3 * time.Second

// RedisOptions configures the Redis-backed session manager.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix namespaces session keys; defaults to "session".
	KeyPrefix string
	// TTL bounds how long an abandoned session survives; 0 disables expiry.
	TTL time.Duration
}

type redisManager struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisManager constructs a Manager backed by Redis so sessions survive
// process restarts. It verifies connectivity before returning.
func NewRedisManager(opts RedisOptions) (Manager, error) {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "session"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session redis ping: %w", err)
	}

	return &redisManager{client: client, prefix: opts.KeyPrefix, ttl: opts.TTL}, nil
}

func (m *redisManager) key(userID int64) string {
	return fmt.Sprintf("%s:%d", m.prefix, userID)
}

func (m *redisManager) load(userID int64) *Session {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := m.client.Get(ctx, m.key(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "session", "redis.get.fail",
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
		return &Session{State: StateIdle, Data: make(map[string]string)}
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		logger.Warn(ctx, "session", "redis.decode.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return &Session{State: StateIdle, Data: make(map[string]string)}
	}
	if sess.State == "" {
		sess.State = StateIdle
	}
	if sess.Data == nil {
		sess.Data = make(map[string]string)
	}
	return &sess
}

func (m *redisManager) save(userID int64, sess *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := json.Marshal(sess)
	if err != nil {
		logger.Warn(ctx, "session", "redis.encode.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return
	}
	if err := m.client.Set(ctx, m.key(userID), raw, m.ttl).Err(); err != nil {
		logger.Warn(ctx, "session", "redis.set.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

// State returns the current step for a user, StateIdle if none exists.
func (m *redisManager) State(userID int64) State {
	return m.load(userID).State
}

// SetState sets the step for a user, creating a session if necessary.
func (m *redisManager) SetState(userID int64, st State) {
	sess := m.load(userID)
	sess.State = st
	m.save(userID, sess)
}

// SetValue stores a collected key/value pair for the user session.
func (m *redisManager) SetValue(userID int64, key, value string) {
	sess := m.load(userID)
	sess.Data[key] = value
	m.save(userID, sess)
}

// Value retrieves a collected value by key.
func (m *redisManager) Value(userID int64, key string) (string, bool) {
	val, ok := m.load(userID).Data[key]
	return val, ok
}

// Values returns a copy of all collected values for the user.
func (m *redisManager) Values(userID int64) map[string]string {
	return m.load(userID).Data
}

// Clear removes the entire session for a user.
func (m *redisManager) Clear(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := m.client.Del(ctx, m.key(userID)).Err(); err != nil {
		logger.Warn(ctx, "session", "redis.del.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

// InProgress reports whether the user has an active step other than idle.
func (m *redisManager) InProgress(userID int64) bool {
	return m.State(userID) != StateIdle
}
