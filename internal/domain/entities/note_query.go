package entities

import "strings"

// Диапазоны дат, поддерживаемые фильтром списка заметок.
// Значения совпадают с параметром type на веб-странице списка.
const (
	DateRangeToday     = "today"
	DateRangeYesterday = "yest"
	DateRangeLastWeek  = "last-week"
	DateRangeLastMonth = "last-month"
)

// Порядок сортировки списка заметок. Значения совпадают
// с параметром ordering JSON API.
const (
	OrderingNewestFirst = "-created_at"
	OrderingOldestFirst = "created_at"
)

// Параметры пагинации по умолчанию.
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// NotesQuery описывает необязательные параметры выборки заметок.
// Обязательный предикат владельца задается отдельно и не является
// частью запроса.
type NotesQuery struct {
	Search    string
	DateRange string
	Ordering  string
	Limit     int
	Offset    int
}

// Normalize приводит параметры запроса к допустимым значениям:
// поисковая строка обрезается, неизвестный диапазон дат и порядок
// сортировки сбрасываются, пагинация ограничивается.
func (q NotesQuery) Normalize() NotesQuery {
	q.Search = strings.TrimSpace(q.Search)

	switch q.DateRange {
	case DateRangeToday, DateRangeYesterday, DateRangeLastWeek, DateRangeLastMonth:
	default:
		q.DateRange = ""
	}

	if q.Ordering != OrderingOldestFirst {
		q.Ordering = OrderingNewestFirst
	}

	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	return q
}
