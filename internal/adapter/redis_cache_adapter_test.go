package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"docquiz/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

const quizKey = "docquiz:quizgen:quiz:4f2a:5"

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Hit", func(t *testing.T) {
		mock.ExpectGet(quizKey).SetVal(`{"questions":[],"total_questions":0}`)
		val, err := adapter.Get(ctx, quizKey)
		assert.NoError(t, err)
		assert.Equal(t, `{"questions":[],"total_questions":0}`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		mock.ExpectGet(quizKey).SetErr(redis.Nil)
		val, err := adapter.Get(ctx, quizKey)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection refused")
		mock.ExpectGet(quizKey).SetErr(redisErr)
		val, err := adapter.Get(ctx, quizKey)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	ttl := 24 * time.Hour

	t.Run("Success", func(t *testing.T) {
		mock.ExpectSet(quizKey, "payload", ttl).SetVal("OK")
		assert.NoError(t, adapter.Set(ctx, quizKey, "payload", ttl))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("OOM command not allowed")
		mock.ExpectSet(quizKey, "payload", ttl).SetErr(redisErr)
		assert.ErrorIs(t, adapter.Set(ctx, quizKey, "payload", ttl), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Deleted", func(t *testing.T) {
		mock.ExpectDel(quizKey).SetVal(1)
		assert.NoError(t, adapter.Delete(ctx, quizKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("KeyNotFound", func(t *testing.T) {
		mock.ExpectDel(quizKey).SetVal(0)
		assert.NoError(t, adapter.Delete(ctx, quizKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("READONLY replica")
		mock.ExpectDel(quizKey).SetErr(redisErr)
		assert.ErrorIs(t, adapter.Delete(ctx, quizKey), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(ctx))

	redisErr := errors.New("i/o timeout")
	mock.ExpectPing().SetErr(redisErr)
	assert.ErrorIs(t, adapter.Ping(ctx), redisErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
