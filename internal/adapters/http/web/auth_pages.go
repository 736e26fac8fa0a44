package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"digithai/internal/domain/entities"
	portsapi "digithai/internal/ports/api"
	"digithai/internal/ports/services"
	"digithai/pkg/logger"
)

// Константы для логирования.
const (
	LogPageLogin  = "rendering login page"
	LogPageSignup = "rendering signup page"

	ErrMsgLoginFailed = "Invalid email address or password."
)

// AuthPages обрабатывает HTML-страницы входа и регистрации.
type AuthPages struct {
	authService  portsapi.AuthService
	sessions     services.SessionStore
	templates    *Templates
	cookieName   string
	cookieSecure bool
	sessionTTL   time.Duration
}

// NewAuthPages создает обработчик страниц аутентификации.
func NewAuthPages(
	authService portsapi.AuthService,
	sessions services.SessionStore,
	templates *Templates,
	cookieName string,
	cookieSecure bool,
	sessionTTL time.Duration,
) *AuthPages {
	return &AuthPages{
		authService:  authService,
		sessions:     sessions,
		templates:    templates,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

// LoginPage отображает форму входа.
func (p *AuthPages) LoginPage(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogPageLogin)

	return p.templates.RenderPage(ctx, ViewData{
		Title:           "Log In",
		ContentTemplate: "login",
	})
}

// Login обрабатывает отправку формы входа и создает веб-сессию.
func (p *AuthPages) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("page", "login"))

	email := ctx.FormValue("email_address")
	password := ctx.FormValue("password")

	user, err := p.authService.Authenticate(requestCtx, email, password)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidCredentials) || errors.Is(err, entities.ErrUserInactive) {
			log.Debug(requestCtx, "login rejected", zap.Error(err))
			return p.templates.RenderPage(ctx.Status(fiber.StatusUnauthorized), ViewData{
				Title:           "Log In",
				ContentTemplate: "login",
				Form:            map[string]string{"email_address": email},
				Error:           ErrMsgLoginFailed,
			})
		}
		log.Error(requestCtx, "failed to authenticate user", zap.Error(err))
		return p.renderLoginError(ctx)
	}

	sessionID, err := p.sessions.Create(requestCtx, user.ID)
	if err != nil {
		log.Error(requestCtx, "failed to create session", zap.Error(err))
		return p.renderLoginError(ctx)
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     p.cookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(p.sessionTTL),
		HTTPOnly: true,
		Secure:   p.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return ctx.Redirect().To("/")
}

// SignupPage отображает форму регистрации.
func (p *AuthPages) SignupPage(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogPageSignup)

	return p.templates.RenderPage(ctx, ViewData{
		Title:           "Sign Up",
		ContentTemplate: "signup",
	})
}

// Signup обрабатывает отправку формы регистрации.
func (p *AuthPages) Signup(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("page", "signup"))

	email := ctx.FormValue("email_address")
	password := ctx.FormValue("password")
	firstName := ctx.FormValue("first_name")
	lastName := ctx.FormValue("last_name")

	_, err := p.authService.Register(requestCtx, email, password, firstName, lastName)
	if err != nil {
		form := map[string]string{
			"email_address": email,
			"first_name":    firstName,
			"last_name":     lastName,
		}

		switch {
		case errors.Is(err, entities.ErrUserAlreadyExists):
			log.Debug(requestCtx, "signup rejected: duplicate email", zap.Error(err))
			return p.templates.RenderPage(ctx.Status(fiber.StatusConflict), ViewData{
				Title:           "Sign Up",
				ContentTemplate: "signup",
				Form:            form,
				Error:           "An account with this email address already exists.",
			})
		case errors.Is(err, entities.ErrInvalidEmail) ||
			errors.Is(err, entities.ErrPasswordTooShort) ||
			errors.Is(err, entities.ErrPasswordTooWeak):
			log.Debug(requestCtx, "signup validation failed", zap.Error(err))
			return p.templates.RenderPage(ctx.Status(fiber.StatusBadRequest), ViewData{
				Title:           "Sign Up",
				ContentTemplate: "signup",
				Form:            form,
				Error:           signupValidationMessage(err),
			})
		default:
			log.Error(requestCtx, "failed to register user", zap.Error(err))
			return p.templates.RenderPage(ctx.Status(fiber.StatusInternalServerError), ViewData{
				Title:           "Sign Up",
				ContentTemplate: "signup",
				Form:            form,
				Error:           "Something went wrong. Please try again.",
			})
		}
	}

	return ctx.Redirect().To("/login")
}

// Logout удаляет веб-сессию и очищает cookie.
func (p *AuthPages) Logout(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("page", "logout"))

	if sessionID := ctx.Cookies(p.cookieName); sessionID != "" {
		if err := p.sessions.Delete(requestCtx, sessionID); err != nil {
			log.Warn(requestCtx, "failed to delete session", zap.Error(err))
		}
	}
	ctx.ClearCookie(p.cookieName)

	return ctx.Redirect().To("/login")
}

func signupValidationMessage(err error) string {
	switch {
	case errors.Is(err, entities.ErrInvalidEmail):
		return "Enter a valid email address."
	case errors.Is(err, entities.ErrPasswordTooShort):
		return "Password must contain at least 8 characters."
	case errors.Is(err, entities.ErrPasswordTooWeak):
		return "Password must contain at least one letter and one digit."
	default:
		return "Invalid signup data."
	}
}

func (p *AuthPages) renderLoginError(ctx fiber.Ctx) error {
	return p.templates.RenderPage(ctx.Status(fiber.StatusInternalServerError), ViewData{
		Title:           "Log In",
		ContentTemplate: "login",
		Error:           "Something went wrong. Please try again.",
	})
}
