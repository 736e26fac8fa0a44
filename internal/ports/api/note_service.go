// Package api определяет интерфейсы прикладного слоя для HTTP обработчиков.
package api

import (
	"context"

	"digithai/internal/domain/entities"
)

// NoteService определяет операции над заметками, доступные обработчикам.
type NoteService interface {
	CreateNote(ctx context.Context, authorID, title, content string) (*entities.Note, error)
	GetNote(ctx context.Context, authorID, noteID string) (*entities.Note, error)
	ListNotes(ctx context.Context, authorID string, query entities.NotesQuery) ([]*entities.Note, int, error)
	UpdateNote(ctx context.Context, authorID, noteID, title, content string) (*entities.Note, error)
	DeleteNote(ctx context.Context, authorID, noteID string) error
}
