package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"digithai/internal/domain/entities"
	"digithai/internal/ports/repositories"
	"digithai/pkg/logger"
)

// TokenRepository реализует интерфейс repositories.TokenRepository.
type TokenRepository struct {
	pool PgxPoolInterface
}

// NewTokenRepository создает новый репозиторий refresh токенов.
func NewTokenRepository(pool PgxPoolInterface) repositories.TokenRepository {
	return &TokenRepository{pool: pool}
}

// StoreRefreshToken сохраняет refresh токен пользователя.
func (r *TokenRepository) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) (*entities.RefreshToken, error) {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "StoreRefreshToken"))
	log.Debug(ctx, "storing refresh token", zap.String("userID", userID))

	var stored entities.RefreshToken
	err := r.pool.QueryRow(ctx,
		`INSERT INTO refresh_tokens (user_id, token, expires_at)
         VALUES ($1, $2, $3)
         RETURNING id, user_id, token, expires_at, revoked_at, created_at`,
		userID, token, expiresAt,
	).Scan(&stored.ID, &stored.UserID, &stored.Token, &stored.ExpiresAt, &stored.RevokedAt, &stored.CreatedAt)

	if err != nil {
		log.Error(ctx, "failed to store refresh token", zap.Error(err))
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &stored, nil
}

// FindByToken находит refresh токен по значению.
func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*entities.RefreshToken, error) {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "FindByToken"))

	var stored entities.RefreshToken
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, token, expires_at, revoked_at, created_at
         FROM refresh_tokens
         WHERE token = $1`,
		token,
	).Scan(&stored.ID, &stored.UserID, &stored.Token, &stored.ExpiresAt, &stored.RevokedAt, &stored.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "refresh token not found")
			return nil, entities.ErrTokenNotFound
		}
		log.Error(ctx, "error finding refresh token", zap.Error(err))
		return nil, fmt.Errorf("error querying refresh token: %w", err)
	}

	return &stored, nil
}

// RevokeToken помечает refresh токен отозванным.
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "RevokeToken"))

	result, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`,
		token,
	)
	if err != nil {
		log.Error(ctx, "failed to revoke refresh token", zap.Error(err))
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "refresh token not found or already revoked")
		return entities.ErrTokenNotFound
	}

	return nil
}

// RevokeAllUserTokens отзывает все refresh токены пользователя.
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "RevokeAllUserTokens"))
	log.Debug(ctx, "revoking all user tokens", zap.String("userID", userID))

	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`,
		userID,
	)
	if err != nil {
		log.Error(ctx, "failed to revoke user tokens", zap.Error(err))
		return fmt.Errorf("error revoking user tokens: %w", err)
	}

	return nil
}

// CleanupExpiredTokens удаляет истекшие refresh токены и возвращает
// количество удаленных строк.
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", "CleanupExpiredTokens"))

	result, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		log.Error(ctx, "failed to cleanup expired tokens", zap.Error(err))
		return 0, fmt.Errorf("error cleaning up expired tokens: %w", err)
	}

	deleted := result.RowsAffected()
	log.Debug(ctx, "expired tokens removed", zap.Int64("count", deleted))
	return deleted, nil
}
