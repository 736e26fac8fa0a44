// Package web содержит серверный HTML-интерфейс заметок.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v3"
)

//go:embed templates/*.html
var templateFS embed.FS

// ViewData передается в HTML-шаблоны страниц.
type ViewData struct {
	Title           string
	ContentTemplate string
	ContentHTML     template.HTML
	LoggedIn        bool

	Notes      []NoteView
	Note       *NoteView
	EditMode   bool
	Search     string
	DateRange  string
	Page       int
	TotalPages int
	PrevPage   int
	NextPage   int

	Form       map[string]string
	FormErrors map[string]string
	Error      string
}

// NoteView представляет заметку на HTML-странице.
type NoteView struct {
	ID        string
	Title     string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// Templates хранит разобранный набор HTML-шаблонов.
type Templates struct {
	all *template.Template
}

// MustParseTemplates разбирает встроенные шаблоны и паникует при ошибке.
func MustParseTemplates() *Templates {
	t := template.New("").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"seq": func(n int) []int {
			out := make([]int, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, i)
			}
			return out
		},
	})
	t = template.Must(t.ParseFS(templateFS, "templates/*.html"))
	return &Templates{all: t}
}

// RenderPage исполняет шаблон содержимого и вставляет результат в базовый макет.
func (t *Templates) RenderPage(ctx fiber.Ctx, data ViewData) error {
	var content bytes.Buffer
	if err := t.all.ExecuteTemplate(&content, data.ContentTemplate, data); err != nil {
		return fmt.Errorf("error rendering template %s: %w", data.ContentTemplate, err)
	}

	pageData := data
	pageData.ContentHTML = template.HTML(content.String())

	var page bytes.Buffer
	if err := t.all.ExecuteTemplate(&page, "base", pageData); err != nil {
		return fmt.Errorf("error rendering base template: %w", err)
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return ctx.Send(page.Bytes())
}
