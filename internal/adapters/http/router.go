// Package http содержит компоненты для HTTP сервера.
package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"digithai/internal/adapters/http/api"
	"digithai/internal/adapters/http/middleware"
	"digithai/internal/adapters/http/web"
	portsapi "digithai/internal/ports/api"
	"digithai/internal/ports/services"
)

// RouterConfig содержит зависимости и настройки маршрутизации.
type RouterConfig struct {
	AuthService  portsapi.AuthService
	NoteService  portsapi.NoteService
	TokenService services.TokenService
	Sessions     services.SessionStore

	SessionCookieName   string
	SessionCookieSecure bool
	SessionTTL          time.Duration
}

// SetupRouter настраивает маршрутизацию для HTTP сервера:
// JSON API под /api/v1 и HTML-интерфейс в корне.
func SetupRouter(app *fiber.App, cfg RouterConfig) {
	authHandler := api.NewAuthHandler(cfg.AuthService)
	notesHandler := api.NewNotesHandler(cfg.NoteService)

	templates := web.MustParseTemplates()
	authPages := web.NewAuthPages(cfg.AuthService, cfg.Sessions, templates,
		cfg.SessionCookieName, cfg.SessionCookieSecure, cfg.SessionTTL)
	notesPages := web.NewNotesPages(cfg.NoteService, templates)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(middleware.NewMetricsMiddleware())

	// Служебные маршруты.
	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Auth routes (публичные).
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authHandler.Logout)

	// Маршруты заметок (требуют Bearer токен).
	notesRoutes := apiV1.Group("/notes")
	notesRoutes.Use(middleware.NewAuthMiddleware(cfg.TokenService))
	notesRoutes.Post("/", notesHandler.CreateNote)
	notesRoutes.Get("/", notesHandler.ListNotes)
	notesRoutes.Get("/:note_id", notesHandler.GetNote)
	notesRoutes.Patch("/:note_id", notesHandler.UpdateNote)
	notesRoutes.Put("/:note_id", notesHandler.UpdateNote)
	notesRoutes.Delete("/:note_id", notesHandler.DeleteNote)

	// Страницы аутентификации (публичные).
	app.Get("/login", authPages.LoginPage)
	app.Post("/login", authPages.Login)
	app.Get("/signup", authPages.SignupPage)
	app.Post("/signup", authPages.Signup)
	app.Post("/logout", authPages.Logout)

	// Страницы заметок (требуют сессионный cookie).
	sessionAuth := middleware.NewSessionMiddleware(cfg.Sessions, cfg.SessionCookieName)
	app.Get("/", notesPages.Home, sessionAuth)
	app.Post("/note/create", notesPages.CreateNote, sessionAuth)
	app.Get("/note/:note_id", notesPages.Detail, sessionAuth)
	app.Post("/note/:note_id/edit", notesPages.UpdateNote, sessionAuth)
	app.Get("/note/:note_id/delete", notesPages.DeleteConfirm, sessionAuth)
	app.Post("/note/:note_id/delete", notesPages.DeleteNote, sessionAuth)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
