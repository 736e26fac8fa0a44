// Package entities определяет доменные сущности приложения заметок.
package entities

import (
	"errors"
	"strings"
	"time"
)

// Ошибки домена заметок.
var (
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrEmptyContent = errors.New("content cannot be empty")
	ErrNoteNotFound = errors.New("note not found")
)

// Note представляет собой заметку пользователя.
// Автор назначается один раз при создании и далее не меняется.
type Note struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote создает новую заметку для указанного автора.
func NewNote(authorID, title, content string) *Note {
	now := time.Now()
	return &Note{
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate проверяет обязательные поля заметки.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(n.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}
