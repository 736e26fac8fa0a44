package repositories

import (
	"context"
	"time"

	"digithai/internal/domain/entities"
)

// TokenRepository определяет интерфейс для работы с refresh токенами.
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) (*entities.RefreshToken, error)
	FindByToken(ctx context.Context, token string) (*entities.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID string) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}
