// Package redis содержит хранилище веб-сессий на основе Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	svc "digithai/internal/ports/services"
	"digithai/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodCreate = "create"
	LogMethodGet    = "get"
	LogMethodDelete = "delete"

	ErrorFailedToCreate = "failed to store session in redis"
	ErrorFailedToGet    = "failed to get session from redis"
	ErrorFailedToDelete = "failed to delete session from redis"
)

const sessionKeyPrefix = "session:"

// SessionStore реализует интерфейс services.SessionStore поверх Redis.
// Ключом служит случайный идентификатор сессии, значением - идентификатор
// пользователя; TTL продлевается при каждом обращении.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore создает новое хранилище сессий.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Create создает новую сессию для пользователя и возвращает ее идентификатор.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodCreate), zap.String("userID", userID))

	sessionID := uuid.New().String()
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, userID, s.ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToCreate, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToCreate, err)
	}

	return sessionID, nil
}

// Get возвращает идентификатор пользователя по идентификатору сессии
// и продлевает время жизни сессии.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet))

	userID, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", svc.ErrSessionNotFound
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	// Скользящее окно: активная сессия не истекает.
	if err := s.client.Expire(ctx, sessionKeyPrefix+sessionID, s.ttl).Err(); err != nil {
		log.Warn(ctx, "failed to extend session ttl", zap.Error(err))
	}

	return userID, nil
}

// Delete удаляет сессию.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodDelete))

	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}
