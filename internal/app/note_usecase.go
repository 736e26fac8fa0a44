// Package app реализует бизнес-логику приложения заметок.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"digithai/internal/domain/entities"
	"digithai/internal/ports/repositories"
	"digithai/pkg/logger"
)

const (
	methodCreateNote = "CreateNote"
	methodGetNote    = "GetNote"
	methodListNotes  = "ListNotes"
	methodUpdateNote = "UpdateNote"
	methodDeleteNote = "DeleteNote"

	msgCreatingNote  = "creating note"
	msgNoteCreated   = "note created"
	msgListingNotes  = "listing notes"
	msgNoteNotFound  = "note not found or not owned by requester"
	msgNoteUpdated   = "note updated"
	msgNoteDeleted   = "note deleted"
	msgInvalidNote   = "note failed validation"
	msgErrCreateNote = "failed to create note"
	msgErrGetNote    = "failed to get note"
	msgErrListNotes  = "failed to list notes"
	msgErrUpdateNote = "failed to update note"
	msgErrDeleteNote = "failed to delete note"

	errCtxValidatingNote = "validating note"
	errCtxCreatingNote   = "creating note"
	errCtxGettingNote    = "getting note"
	errCtxListingNotes   = "listing notes"
	errCtxUpdatingNote   = "updating note"
	errCtxDeletingNote   = "deleting note"
)

// NoteUseCase реализует операции над заметками. Автор каждой операции
// берется из аутентифицированного запроса и всегда участвует в выборке.
type NoteUseCase struct {
	noteRepo repositories.NoteRepository
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(noteRepo repositories.NoteRepository) *NoteUseCase {
	return &NoteUseCase{noteRepo: noteRepo}
}

// CreateNote создает новую заметку. Автором назначается authorID
// независимо от данных запроса.
func (uc *NoteUseCase) CreateNote(ctx context.Context, authorID, title, content string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateNote), zap.String("authorID", authorID))
	log.Debug(ctx, msgCreatingNote)

	note := entities.NewNote(authorID, strings.TrimSpace(title), content)
	if err := note.Validate(); err != nil {
		log.Debug(ctx, msgInvalidNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingNote, err)
	}

	created, err := uc.noteRepo.Create(ctx, note)
	if err != nil {
		log.Error(ctx, msgErrCreateNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingNote, err)
	}

	log.Debug(ctx, msgNoteCreated, zap.String("noteID", created.ID))
	return created, nil
}

// GetNote возвращает заметку по идентификатору. Чужая или отсутствующая
// заметка дает одну и ту же ошибку ErrNoteNotFound.
func (uc *NoteUseCase) GetNote(ctx context.Context, authorID, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetNote), zap.String("noteID", noteID))

	note, err := uc.noteRepo.GetByID(ctx, noteID, authorID)
	if err != nil {
		if errorsIsNotFound(err) {
			log.Debug(ctx, msgNoteNotFound)
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, msgErrGetNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}

	return note, nil
}

// ListNotes возвращает страницу заметок пользователя вместе с общим
// количеством, удовлетворяющим фильтрам.
func (uc *NoteUseCase) ListNotes(ctx context.Context, authorID string, query entities.NotesQuery) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListNotes), zap.String("authorID", authorID))

	query = query.Normalize()

	log.Debug(ctx, msgListingNotes,
		zap.String("search", query.Search),
		zap.String("date_range", query.DateRange),
		zap.String("ordering", query.Ordering),
		zap.Int("limit", query.Limit),
		zap.Int("offset", query.Offset))

	notes, total, err := uc.noteRepo.List(ctx, authorID, query)
	if err != nil {
		log.Error(ctx, msgErrListNotes, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxListingNotes, err)
	}

	return notes, total, nil
}

// UpdateNote обновляет заголовок и содержимое существующей заметки.
// Идентификатор и автор через обновление не меняются.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, authorID, noteID, title, content string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateNote), zap.String("noteID", noteID))

	note, err := uc.noteRepo.GetByID(ctx, noteID, authorID)
	if err != nil {
		if errorsIsNotFound(err) {
			log.Debug(ctx, msgNoteNotFound)
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, msgErrGetNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}

	note.Title = strings.TrimSpace(title)
	note.Content = content
	if err := note.Validate(); err != nil {
		log.Debug(ctx, msgInvalidNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingNote, err)
	}

	updated, err := uc.noteRepo.Update(ctx, note)
	if err != nil {
		if errorsIsNotFound(err) {
			log.Debug(ctx, msgNoteNotFound)
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, msgErrUpdateNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingNote, err)
	}

	log.Debug(ctx, msgNoteUpdated)
	return updated, nil
}

// DeleteNote удаляет заметку навсегда. Повторное удаление того же
// идентификатора возвращает ErrNoteNotFound.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, authorID, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteNote), zap.String("noteID", noteID))

	if err := uc.noteRepo.Delete(ctx, noteID, authorID); err != nil {
		if errorsIsNotFound(err) {
			log.Debug(ctx, msgNoteNotFound)
			return entities.ErrNoteNotFound
		}
		log.Error(ctx, msgErrDeleteNote, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingNote, err)
	}

	log.Debug(ctx, msgNoteDeleted)
	return nil
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, entities.ErrNoteNotFound)
}
