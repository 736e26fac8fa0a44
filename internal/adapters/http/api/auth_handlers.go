package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"digithai/internal/app/dto"
	"digithai/internal/domain/entities"
	"digithai/internal/domain/services"
	portsapi "digithai/internal/ports/api"
	"digithai/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerRegister = "handling register request"
	LogHandlerLogin    = "handling login request"
	LogHandlerRefresh  = "handling refresh tokens request"
	LogHandlerLogout   = "handling logout request"

	ErrMsgUserAlreadyExists  = "user with this email address already exists"
	ErrMsgInvalidCredentials = "invalid email address or password"
	ErrMsgInvalidToken       = "invalid or expired refresh token"
)

// AuthHandler обработчик HTTP-запросов аутентификации.
type AuthHandler struct {
	authService portsapi.AuthService
}

// NewAuthHandler создает новый экземпляр обработчика аутентификации.
func NewAuthHandler(authService portsapi.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *AuthHandler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "AuthHandler.Register"))
	log.Debug(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	user, err := h.authService.Register(requestCtx, req.EmailAddress, req.Password, req.FirstName, req.LastName)
	if err != nil {
		log.Debug(requestCtx, "failed to register user", zap.Error(err))
		return handleAuthError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		ID:           user.ID,
		EmailAddress: user.EmailAddress,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Login обрабатывает запрос на вход и выдает пару токенов.
func (h *AuthHandler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "AuthHandler.Login"))
	log.Debug(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	pair, err := h.authService.Login(requestCtx, req.EmailAddress, req.Password)
	if err != nil {
		log.Debug(requestCtx, "failed to login", zap.Error(err))
		return handleAuthError(ctx, err)
	}

	if err := ctx.JSON(tokenResponse(pair)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Refresh обрабатывает запрос на обновление пары токенов.
func (h *AuthHandler) Refresh(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "AuthHandler.Refresh"))
	log.Debug(requestCtx, LogHandlerRefresh)

	var req dto.RefreshRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	pair, err := h.authService.RefreshTokens(requestCtx, req.RefreshToken)
	if err != nil {
		log.Debug(requestCtx, "failed to refresh tokens", zap.Error(err))
		return handleAuthError(ctx, err)
	}

	if err := ctx.JSON(tokenResponse(pair)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Logout отзывает переданный refresh-токен.
func (h *AuthHandler) Logout(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "AuthHandler.Logout"))
	log.Debug(requestCtx, LogHandlerLogout)

	var req dto.LogoutRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	if err := h.authService.Logout(requestCtx, req.RefreshToken); err != nil {
		log.Debug(requestCtx, "failed to logout", zap.Error(err))
		return handleAuthError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func tokenResponse(pair *services.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.Format(time.RFC3339),
	}
}

// handleAuthError преобразует доменные ошибки аутентификации в HTTP статусы.
func handleAuthError(ctx fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entities.ErrUserAlreadyExists):
		return sendErrorResponse(ctx, fiber.StatusConflict, ErrMsgUserAlreadyExists)
	case errors.Is(err, entities.ErrInvalidCredentials) || errors.Is(err, entities.ErrUserInactive):
		return sendErrorResponse(ctx, fiber.StatusUnauthorized, ErrMsgInvalidCredentials)
	case errors.Is(err, services.ErrInvalidRefreshToken) ||
		errors.Is(err, services.ErrRevokedRefreshToken) ||
		errors.Is(err, entities.ErrTokenNotFound):
		return sendErrorResponse(ctx, fiber.StatusUnauthorized, ErrMsgInvalidToken)
	case errors.Is(err, entities.ErrInvalidEmail) ||
		errors.Is(err, entities.ErrPasswordTooShort) ||
		errors.Is(err, entities.ErrPasswordTooWeak):
		return sendErrorResponse(ctx, fiber.StatusBadRequest, err.Error())
	default:
		return sendErrorResponse(ctx, fiber.StatusInternalServerError, "internal server error")
	}
}
