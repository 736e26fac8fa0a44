package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"digithai/internal/domain/entities"
	"digithai/internal/ports/repositories"
	"digithai/pkg/logger"
)

// Формат даты для фильтров по календарному дню.
const dateLayout = "2006-01-02"

var noteColumns = []string{"id", "author_id", "title", "content", "created_at", "updated_at"}

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет новую заметку в БД.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Create"))
	log.Debug(ctx, "creating new note", zap.String("authorID", note.AuthorID))

	var created entities.Note
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notes (author_id, title, content, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, author_id, title, content, created_at, updated_at`,
		note.AuthorID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt,
	).Scan(&created.ID, &created.AuthorID, &created.Title, &created.Content, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", created.ID))
	return &created, nil
}

// GetByID получает заметку по идентификатору и владельцу. Чужая заметка
// дает ту же ошибку entities.ErrNoteNotFound, что и отсутствующая.
func (r *NoteRepository) GetByID(ctx context.Context, noteID, authorID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "GetByID"))

	var note entities.Note
	err := r.pool.QueryRow(ctx,
		`SELECT id, author_id, title, content, created_at, updated_at
         FROM notes
         WHERE id = $1 AND author_id = $2`,
		noteID, authorID,
	).Scan(&note.ID, &note.AuthorID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("error querying note by id: %w", err)
	}

	return &note, nil
}

// List получает страницу заметок владельца с учетом поиска, фильтра по
// дате создания и сортировки, а также общее число подходящих заметок.
func (r *NoteRepository) List(ctx context.Context, authorID string, query entities.NotesQuery) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "List"))
	log.Debug(ctx, "listing notes",
		zap.String("authorID", authorID),
		zap.Int("limit", query.Limit),
		zap.Int("offset", query.Offset))

	base := squirrel.Select().
		From("notes").
		Where(squirrel.Eq{"author_id": authorID}).
		PlaceholderFormat(squirrel.Dollar)

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"content": pattern},
		})
	}

	base = applyDateRange(base, query.DateRange)

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		log.Error(ctx, "failed to count notes", zap.Error(err))
		return nil, 0, fmt.Errorf("error counting notes: %w", err)
	}

	ordering := "created_at DESC"
	if query.Ordering == entities.OrderingOldestFirst {
		ordering = "created_at ASC"
	}

	listSQL, listArgs, err := base.
		Columns(noteColumns...).
		OrderBy(ordering).
		Limit(uint64(query.Limit)).
		Offset(uint64(query.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, 0, fmt.Errorf("error listing notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		var note entities.Note
		if err := rows.Scan(&note.ID, &note.AuthorID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, 0, fmt.Errorf("error scanning note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, total, nil
}

// applyDateRange добавляет предикат по календарной дате создания.
// Диапазоны last-week и last-month намеренно не имеют верхней границы:
// так вели себя исходные фильтры, и заметки с будущей датой попадают
// в выборку.
func applyDateRange(base squirrel.SelectBuilder, dateRange string) squirrel.SelectBuilder {
	today := time.Now()

	switch dateRange {
	case entities.DateRangeToday:
		return base.Where("created_at::date = ?", today.Format(dateLayout))
	case entities.DateRangeYesterday:
		return base.Where("created_at::date = ?", today.AddDate(0, 0, -1).Format(dateLayout))
	case entities.DateRangeLastWeek:
		return base.Where("created_at::date >= ?", today.AddDate(0, 0, -7).Format(dateLayout))
	case entities.DateRangeLastMonth:
		return base.Where("created_at::date >= ?", today.AddDate(0, 0, -30).Format(dateLayout))
	default:
		return base
	}
}

// Update обновляет заголовок и содержимое заметки. Автор и идентификатор
// не меняются.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", note.ID))

	var updated entities.Note
	err := r.pool.QueryRow(ctx,
		`UPDATE notes
         SET title = $1, content = $2, updated_at = NOW()
         WHERE id = $3 AND author_id = $4
         RETURNING id, author_id, title, content, created_at, updated_at`,
		note.Title, note.Content, note.ID, note.AuthorID,
	).Scan(&updated.ID, &updated.AuthorID, &updated.Title, &updated.Content, &updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found or not owned by user")
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("error updating note: %w", err)
	}

	return &updated, nil
}

// Delete удаляет заметку владельца. Отсутствующая или чужая заметка
// дает entities.ErrNoteNotFound.
func (r *NoteRepository) Delete(ctx context.Context, noteID, authorID string) error {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID))

	result, err := r.pool.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND author_id = $2`,
		noteID, authorID,
	)
	if err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("error deleting note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found or not owned by user")
		return entities.ErrNoteNotFound
	}

	return nil
}
