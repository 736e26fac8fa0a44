package web

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"digithai/internal/adapters/http/middleware"
	"digithai/internal/domain/entities"
	portsapi "digithai/internal/ports/api"
	"digithai/pkg/logger"
	"digithai/pkg/metrics"
)

// Количество заметок на странице списка.
const NotesPerPage = 5

// Константы для логирования.
const (
	LogPageHome          = "rendering notes list page"
	LogPageDetail        = "rendering note detail page"
	LogPageDeleteConfirm = "rendering delete confirmation page"

	ErrMsgRenderFailed = "failed to render page"
)

const pageTimeLayout = "Jan 2, 2006 15:04"

// NotesPages обрабатывает HTML-страницы заметок.
type NotesPages struct {
	noteService portsapi.NoteService
	templates   *Templates
}

// NewNotesPages создает обработчик страниц заметок.
func NewNotesPages(noteService portsapi.NoteService, templates *Templates) *NotesPages {
	return &NotesPages{noteService: noteService, templates: templates}
}

// Home отображает список заметок пользователя с поиском, фильтром
// по дате и постраничной навигацией. Форма создания заметки встроена
// в эту же страницу.
func (p *NotesPages) Home(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("page", "home"))
	log.Debug(requestCtx, LogPageHome)

	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	query := entities.NotesQuery{
		Search:    ctx.Query("search_note"),
		DateRange: ctx.Query("type"),
		Ordering:  entities.OrderingNewestFirst,
		Limit:     NotesPerPage,
		Offset:    (page - 1) * NotesPerPage,
	}

	notes, total, err := p.noteService.ListNotes(requestCtx, userID, query)
	if err != nil {
		log.Error(requestCtx, "failed to list notes", zap.Error(err))
		return p.renderError(ctx)
	}

	totalPages := (total + NotesPerPage - 1) / NotesPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	return p.render(ctx, ViewData{
		Title:           "My Notes",
		ContentTemplate: "home",
		Notes:           noteViews(notes),
		Search:          query.Search,
		DateRange:       ctx.Query("type"),
		Page:            page,
		TotalPages:      totalPages,
		PrevPage:        page - 1,
		NextPage:        page + 1,
	})
}

// CreateNote обрабатывает отправку встроенной формы создания заметки.
func (p *NotesPages) CreateNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("page", "create"))

	title := ctx.FormValue("title")
	content := ctx.FormValue("content")

	if _, err := p.noteService.CreateNote(requestCtx, userID, title, content); err != nil {
		if isNoteValidationError(err) {
			log.Debug(requestCtx, "note validation failed", zap.Error(err))
			return p.renderHomeWithFormErrors(ctx, userID, title, content, err)
		}
		log.Error(requestCtx, "failed to create note", zap.Error(err))
		return p.renderError(ctx)
	}

	metrics.NotesCreatedTotal.Inc()

	return ctx.Redirect().To("/")
}

// Detail отображает одну заметку; параметр edit=1 включает форму
// редактирования на той же странице.
func (p *NotesPages) Detail(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("page", "detail"))
	log.Debug(requestCtx, LogPageDetail)

	note, err := p.noteService.GetNote(requestCtx, userID, ctx.Params("note_id"))
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return p.renderNotFound(ctx)
		}
		log.Error(requestCtx, "failed to get note", zap.Error(err))
		return p.renderError(ctx)
	}

	view := noteView(note)
	return p.render(ctx, ViewData{
		Title:           note.Title,
		ContentTemplate: "detail",
		Note:            &view,
		EditMode:        ctx.Query("edit") == "1",
	})
}

// UpdateNote обрабатывает отправку формы редактирования заметки.
func (p *NotesPages) UpdateNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("page", "update"))

	noteID := ctx.Params("note_id")
	title := ctx.FormValue("title")
	content := ctx.FormValue("content")

	note, err := p.noteService.UpdateNote(requestCtx, userID, noteID, title, content)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrNoteNotFound):
			return p.renderNotFound(ctx)
		case isNoteValidationError(err):
			log.Debug(requestCtx, "note validation failed", zap.Error(err))
			view := NoteView{ID: noteID, Title: title, Content: content}
			return p.render(ctx, ViewData{
				Title:           "Edit Note",
				ContentTemplate: "detail",
				Note:            &view,
				EditMode:        true,
				FormErrors:      noteFieldErrors(err),
			})
		default:
			log.Error(requestCtx, "failed to update note", zap.Error(err))
			return p.renderError(ctx)
		}
	}

	return ctx.Redirect().To("/note/" + note.ID)
}

// DeleteConfirm отображает страницу подтверждения удаления.
func (p *NotesPages) DeleteConfirm(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("page", "delete_confirm"))
	log.Debug(requestCtx, LogPageDeleteConfirm)

	note, err := p.noteService.GetNote(requestCtx, userID, ctx.Params("note_id"))
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return p.renderNotFound(ctx)
		}
		log.Error(requestCtx, "failed to get note", zap.Error(err))
		return p.renderError(ctx)
	}

	view := noteView(note)
	return p.render(ctx, ViewData{
		Title:           "Delete Note",
		ContentTemplate: "confirm_delete",
		Note:            &view,
	})
}

// DeleteNote удаляет заметку после подтверждения.
func (p *NotesPages) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("page", "delete"))

	if err := p.noteService.DeleteNote(requestCtx, userID, ctx.Params("note_id")); err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return p.renderNotFound(ctx)
		}
		log.Error(requestCtx, "failed to delete note", zap.Error(err))
		return p.renderError(ctx)
	}

	return ctx.Redirect().To("/")
}

func (p *NotesPages) renderHomeWithFormErrors(ctx fiber.Ctx, userID, title, content string, validationErr error) error {
	requestCtx := ctx.Context()

	query := entities.NotesQuery{
		Ordering: entities.OrderingNewestFirst,
		Limit:    NotesPerPage,
	}
	notes, total, err := p.noteService.ListNotes(requestCtx, userID, query)
	if err != nil {
		logger.Log(requestCtx).Error(requestCtx, "failed to list notes", zap.Error(err))
		return p.renderError(ctx)
	}

	totalPages := (total + NotesPerPage - 1) / NotesPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	return p.render(ctx.Status(fiber.StatusBadRequest), ViewData{
		Title:           "My Notes",
		ContentTemplate: "home",
		Notes:           noteViews(notes),
		Page:            1,
		TotalPages:      totalPages,
		PrevPage:        0,
		NextPage:        2,
		Form:            map[string]string{"title": title, "content": content},
		FormErrors:      noteFieldErrors(validationErr),
	})
}

func (p *NotesPages) renderNotFound(ctx fiber.Ctx) error {
	return p.render(ctx.Status(fiber.StatusNotFound), ViewData{
		Title:           "Not Found",
		ContentTemplate: "notfound",
	})
}

func (p *NotesPages) renderError(ctx fiber.Ctx) error {
	return p.render(ctx.Status(fiber.StatusInternalServerError), ViewData{
		Title:           "Error",
		ContentTemplate: "error",
		Error:           "Something went wrong. Please try again.",
	})
}

// render отображает страницу заметок; все они доступны только
// аутентифицированным пользователям.
func (p *NotesPages) render(ctx fiber.Ctx, data ViewData) error {
	data.LoggedIn = true
	return p.templates.RenderPage(ctx, data)
}

func isNoteValidationError(err error) bool {
	return errors.Is(err, entities.ErrEmptyTitle) || errors.Is(err, entities.ErrEmptyContent)
}

func noteFieldErrors(err error) map[string]string {
	out := make(map[string]string)
	if errors.Is(err, entities.ErrEmptyTitle) {
		out["title"] = "Title cannot be empty."
	}
	if errors.Is(err, entities.ErrEmptyContent) {
		out["content"] = "Content cannot be empty."
	}
	return out
}

func noteView(note *entities.Note) NoteView {
	return NoteView{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.Local().Format(pageTimeLayout),
		UpdatedAt: note.UpdatedAt.Local().Format(pageTimeLayout),
	}
}

func noteViews(notes []*entities.Note) []NoteView {
	out := make([]NoteView, 0, len(notes))
	for _, note := range notes {
		out = append(out, noteView(note))
	}
	return out
}
