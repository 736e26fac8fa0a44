package entities

import (
	"errors"
	"time"
)

// Ошибки домена refresh токенов.
var (
	ErrTokenNotFound = errors.New("refresh token not found")
	ErrTokenRevoked  = errors.New("refresh token has been revoked")
	ErrTokenExpired  = errors.New("refresh token has expired")
)

// RefreshToken представляет долгоживущий токен обновления,
// хранящийся в базе данных.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsExpired сообщает, истек ли срок действия токена.
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsRevoked сообщает, был ли токен отозван.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}
