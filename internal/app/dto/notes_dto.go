package dto

import (
	"time"

	"digithai/internal/domain/entities"
)

// CreateNoteRequest содержит данные для создания заметки.
// Поле автора в запросе отсутствует: автором всегда становится
// аутентифицированный пользователь.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest содержит данные для обновления заметки.
type UpdateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Note представляет заметку в ответе API.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListNotesResponse содержит страницу заметок и общее количество.
type ListNotesResponse struct {
	Count   int     `json:"count"`
	Results []*Note `json:"results"`
}

// ValidationErrorResponse содержит ошибки валидации по полям.
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// NoteFromEntity преобразует доменную заметку в ответ API.
func NoteFromEntity(note *entities.Note) *Note {
	return &Note{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// NotesFromEntities преобразует список доменных заметок в ответ API.
func NotesFromEntities(notes []*entities.Note) []*Note {
	out := make([]*Note, 0, len(notes))
	for _, note := range notes {
		out = append(out, NoteFromEntity(note))
	}
	return out
}
