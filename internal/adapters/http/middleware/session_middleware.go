package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"digithai/internal/ports/services"
	"digithai/pkg/logger"
)

// Константы для логирования.
const (
	LogSessionMiddleware = "session middleware"

	ErrorNoSessionCookie = "no session cookie provided"
	ErrorInvalidSession  = "session not found or expired"
)

// NewSessionMiddleware создает промежуточное ПО, проверяющее cookie
// веб-сессии. Неаутентифицированные запросы перенаправляются на
// страницу входа.
func NewSessionMiddleware(store services.SessionStore, cookieName string) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "session"))
		log.Debug(requestCtx, LogSessionMiddleware)

		sessionID := ctx.Cookies(cookieName)
		if sessionID == "" {
			log.Debug(requestCtx, ErrorNoSessionCookie)
			return ctx.Redirect().To("/login")
		}

		userID, err := store.Get(requestCtx, sessionID)
		if err != nil {
			if !errors.Is(err, services.ErrSessionNotFound) {
				log.Error(requestCtx, ErrorInvalidSession, zap.Error(err))
			}
			ctx.ClearCookie(cookieName)
			return ctx.Redirect().To("/login")
		}

		ctx.Locals(UserIDKey, userID)

		return ctx.Next()
	}
}
