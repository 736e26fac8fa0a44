package services

import (
	"context"
	"errors"
)

// ErrSessionNotFound возвращается, когда сессия отсутствует или истекла.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore определяет интерфейс хранилища веб-сессий.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
