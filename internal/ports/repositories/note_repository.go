// Package repositories определяет интерфейсы репозиториев приложения.
package repositories

import (
	"context"

	"digithai/internal/domain/entities"
)

// NoteRepository определяет интерфейс для работы с хранилищем заметок.
// Каждый метод доступа по идентификатору принимает и идентификатор
// владельца: запись другого пользователя неотличима от отсутствующей.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetByID(ctx context.Context, noteID, authorID string) (*entities.Note, error)
	List(ctx context.Context, authorID string, query entities.NotesQuery) ([]*entities.Note, int, error)
	Update(ctx context.Context, note *entities.Note) (*entities.Note, error)
	Delete(ctx context.Context, noteID, authorID string) error
}
