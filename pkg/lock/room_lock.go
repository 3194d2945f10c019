// Package lock serializes conversational turns per room across instances.
package lock

import (
	"context"
	"fmt"
	"time"

	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const busyMessage = "Percakapan di room ini masih diproses. Silakan coba lagi sebentar lagi."

// ReleaseFunc frees a held lock. It is always safe to call.
type ReleaseFunc func()

type RoomLocker interface {
	// Acquire returns an *apperror.ConflictError when another turn holds the room.
	Acquire(ctx context.Context, roomID int64) (ReleaseFunc, error)
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisRoomLock struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

// NewRedisRoomLock accepts a nil client, in which case every Acquire succeeds.
func NewRedisRoomLock(rdb *redis.Client, ttl time.Duration, log logger.ILogger) *RedisRoomLock {
	return &RedisRoomLock{rdb: rdb, ttl: ttl, logger: log}
}

func roomKey(roomID int64) string {
	return fmt.Sprintf("nl2sql:room-lock:%d", roomID)
}

// Acquire degrades to no locking when Redis cannot be reached.
func (l *RedisRoomLock) Acquire(ctx context.Context, roomID int64) (ReleaseFunc, error) {
	noop := func() {}
	if l.rdb == nil {
		return noop, nil
	}

	key := roomKey(roomID)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		l.logger.Warn("LOCK", "Redis unavailable, continuing without room lock", map[string]interface{}{
			"room_id": roomID,
			"error":   err.Error(),
		})
		return noop, nil
	}
	if !ok {
		return nil, &apperror.ConflictError{Message: busyMessage}
	}

	return func() {
		// the request context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.rdb, []string{key}, token).Err(); err != nil && err != redis.Nil {
			l.logger.Warn("LOCK", "Failed to release room lock", map[string]interface{}{
				"room_id": roomID,
				"error":   err.Error(),
			})
		}
	}, nil
}
