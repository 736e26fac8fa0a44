package api

import (
	"context"

	"digithai/internal/domain/entities"
	"digithai/internal/domain/services"
)

// AuthService определяет операции аутентификации, доступные обработчикам.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*entities.User, error)
	Authenticate(ctx context.Context, email, password string) (*entities.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}
