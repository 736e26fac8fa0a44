package services

import (
	"context"
	"time"
)

// TokenService определяет интерфейс для работы с токенами доступа.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID, emailAddress string) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context) (string, time.Time, error)
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}
