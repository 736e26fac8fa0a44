// Package api содержит HTTP-обработчики JSON API.
package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"digithai/internal/adapters/http/middleware"
	"digithai/internal/app/dto"
	"digithai/internal/domain/entities"
	portsapi "digithai/internal/ports/api"
	"digithai/pkg/logger"
	"digithai/pkg/metrics"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote = "handling create note request"
	LogHandlerGetNote    = "handling get note request"
	LogHandlerListNotes  = "handling list notes request"
	LogHandlerUpdateNote = "handling update note request"
	LogHandlerDeleteNote = "handling delete note request"

	ErrMsgNoteNotFound       = "note not found"
	ErrMsgInvalidPagination  = "invalid pagination parameters"
	ErrMsgInvalidRequestBody = "invalid request body"
)

// NotesHandler обработчик HTTP-запросов для работы с заметками.
type NotesHandler struct {
	noteService portsapi.NoteService
}

// NewNotesHandler создает новый экземпляр обработчика заметок.
func NewNotesHandler(noteService portsapi.NoteService) *NotesHandler {
	return &NotesHandler{noteService: noteService}
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *NotesHandler) CreateNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.CreateNote"))
	log.Debug(requestCtx, LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	note, err := h.noteService.CreateNote(requestCtx, userID, req.Title, req.Content)
	if err != nil {
		log.Debug(requestCtx, "failed to create note", zap.Error(err))
		return handleNoteError(ctx, err)
	}

	metrics.NotesCreatedTotal.Inc()

	if err := ctx.Status(fiber.StatusCreated).JSON(dto.NoteFromEntity(note)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetNote обрабатывает запрос на получение заметки по идентификатору.
func (h *NotesHandler) GetNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.GetNote"))
	log.Debug(requestCtx, LogHandlerGetNote)

	note, err := h.noteService.GetNote(requestCtx, userID, ctx.Params("note_id"))
	if err != nil {
		log.Debug(requestCtx, "failed to get note", zap.Error(err))
		return handleNoteError(ctx, err)
	}

	if err := ctx.JSON(dto.NoteFromEntity(note)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListNotes обрабатывает запрос на получение списка заметок
// с поиском, фильтром по дате, сортировкой и пагинацией.
func (h *NotesHandler) ListNotes(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.ListNotes"))
	log.Debug(requestCtx, LogHandlerListNotes)

	limit, err := strconv.Atoi(ctx.Query("limit", strconv.Itoa(entities.DefaultListLimit)))
	if err != nil {
		log.Debug(requestCtx, ErrMsgInvalidPagination, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidPagination)
	}

	offset, err := strconv.Atoi(ctx.Query("offset", "0"))
	if err != nil {
		log.Debug(requestCtx, ErrMsgInvalidPagination, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidPagination)
	}

	query := entities.NotesQuery{
		Search:    ctx.Query("search"),
		DateRange: ctx.Query("date_range"),
		Ordering:  ctx.Query("ordering"),
		Limit:     limit,
		Offset:    offset,
	}

	notes, total, err := h.noteService.ListNotes(requestCtx, userID, query)
	if err != nil {
		log.Error(requestCtx, "failed to list notes", zap.Error(err))
		return handleNoteError(ctx, err)
	}

	if err := ctx.JSON(dto.ListNotesResponse{
		Count:   total,
		Results: dto.NotesFromEntities(notes),
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на обновление заметки.
func (h *NotesHandler) UpdateNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.UpdateNote"))
	log.Debug(requestCtx, LogHandlerUpdateNote)

	var req dto.UpdateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendErrorResponse(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	note, err := h.noteService.UpdateNote(requestCtx, userID, ctx.Params("note_id"), req.Title, req.Content)
	if err != nil {
		log.Debug(requestCtx, "failed to update note", zap.Error(err))
		return handleNoteError(ctx, err)
	}

	if err := ctx.JSON(dto.NoteFromEntity(note)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *NotesHandler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	userID := middleware.UserID(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.DeleteNote"))
	log.Debug(requestCtx, LogHandlerDeleteNote)

	if err := h.noteService.DeleteNote(requestCtx, userID, ctx.Params("note_id")); err != nil {
		log.Debug(requestCtx, "failed to delete note", zap.Error(err))
		return handleNoteError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// handleNoteError преобразует доменные ошибки заметок в HTTP статусы.
// Отсутствующая и чужая заметки дают один и тот же 404.
func handleNoteError(ctx fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entities.ErrNoteNotFound):
		return sendErrorResponse(ctx, fiber.StatusNotFound, ErrMsgNoteNotFound)
	case errors.Is(err, entities.ErrEmptyTitle) || errors.Is(err, entities.ErrEmptyContent):
		return sendValidationError(ctx, err)
	default:
		return sendErrorResponse(ctx, fiber.StatusInternalServerError, "internal server error")
	}
}

func sendValidationError(ctx fiber.Ctx, err error) error {
	fieldErrors := make(map[string]string)
	if errors.Is(err, entities.ErrEmptyTitle) {
		fieldErrors["title"] = "this field may not be blank"
	}
	if errors.Is(err, entities.ErrEmptyContent) {
		fieldErrors["content"] = "this field may not be blank"
	}

	if err := ctx.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{Errors: fieldErrors}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// sendErrorResponse отправляет единообразный JSON с описанием ошибки.
func sendErrorResponse(ctx fiber.Ctx, statusCode int, message string) error {
	if err := ctx.Status(statusCode).JSON(fiber.Map{
		"error": message,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
