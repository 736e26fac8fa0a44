// Package dto содержит структуры запросов и ответов JSON API.
package dto

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// RegisterResponse содержит данные созданного пользователя.
type RegisterResponse struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// LoginRequest содержит учетные данные для входа.
type LoginRequest struct {
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// TokenResponse содержит пару токенов аутентификации.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// RefreshRequest содержит refresh токен для обновления пары.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest содержит refresh токен для отзыва.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
