package web_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serverHTTP "digithai/internal/adapters/http"
	"digithai/internal/domain/entities"
	"digithai/internal/domain/services"
	portssvc "digithai/internal/ports/services"
)

const (
	testSessionID  = "session-1"
	testUserID     = "user-1"
	testCookieName = "session_id"
)

// stubNoteService позволяет задавать поведение каждой операции в тесте.
type stubNoteService struct {
	createFn func(ctx context.Context, authorID, title, content string) (*entities.Note, error)
	getFn    func(ctx context.Context, authorID, noteID string) (*entities.Note, error)
	listFn   func(ctx context.Context, authorID string, query entities.NotesQuery) ([]*entities.Note, int, error)
	updateFn func(ctx context.Context, authorID, noteID, title, content string) (*entities.Note, error)
	deleteFn func(ctx context.Context, authorID, noteID string) error
}

func (s *stubNoteService) CreateNote(ctx context.Context, authorID, title, content string) (*entities.Note, error) {
	return s.createFn(ctx, authorID, title, content)
}

func (s *stubNoteService) GetNote(ctx context.Context, authorID, noteID string) (*entities.Note, error) {
	return s.getFn(ctx, authorID, noteID)
}

func (s *stubNoteService) ListNotes(ctx context.Context, authorID string, query entities.NotesQuery) ([]*entities.Note, int, error) {
	return s.listFn(ctx, authorID, query)
}

func (s *stubNoteService) UpdateNote(ctx context.Context, authorID, noteID, title, content string) (*entities.Note, error) {
	return s.updateFn(ctx, authorID, noteID, title, content)
}

func (s *stubNoteService) DeleteNote(ctx context.Context, authorID, noteID string) error {
	return s.deleteFn(ctx, authorID, noteID)
}

type stubAuthService struct {
	registerFn     func(ctx context.Context, email, password, firstName, lastName string) (*entities.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*entities.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*entities.User, error) {
	return s.registerFn(ctx, email, password, firstName, lastName)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAuthService) Login(context.Context, string, string) (*services.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) RefreshTokens(context.Context, string) (*services.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Logout(context.Context, string) error { return nil }

// stubSessionStore хранит одну известную сессию.
type stubSessionStore struct {
	created []string
	deleted []string
}

func (s *stubSessionStore) Create(_ context.Context, userID string) (string, error) {
	s.created = append(s.created, userID)
	return testSessionID, nil
}

func (s *stubSessionStore) Get(_ context.Context, sessionID string) (string, error) {
	if sessionID == testSessionID {
		return testUserID, nil
	}
	return "", portssvc.ErrSessionNotFound
}

func (s *stubSessionStore) Delete(_ context.Context, sessionID string) error {
	s.deleted = append(s.deleted, sessionID)
	return nil
}

type stubTokenService struct{}

func (stubTokenService) GenerateAccessToken(context.Context, string, string) (string, time.Time, error) {
	return "", time.Time{}, errors.New("not implemented")
}

func (stubTokenService) GenerateRefreshToken(context.Context) (string, time.Time, error) {
	return "", time.Time{}, errors.New("not implemented")
}

func (stubTokenService) ValidateAccessToken(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

func newWebApp(noteSvc *stubNoteService, authSvc *stubAuthService, sessions *stubSessionStore) *fiber.App {
	app := fiber.New()
	serverHTTP.SetupRouter(app, serverHTTP.RouterConfig{
		AuthService:       authSvc,
		NoteService:       noteSvc,
		TokenService:      stubTokenService{},
		Sessions:          sessions,
		SessionCookieName: testCookieName,
		SessionTTL:        time.Hour,
	})
	return app
}

func sessionRequest(method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: testSessionID})
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestHomePageRequiresSession(t *testing.T) {
	app := newWebApp(&stubNoteService{}, &stubAuthService{}, &stubSessionStore{})

	t.Run("no cookie redirects to login", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("stale cookie redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: "expired-session"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})
}

func TestHomePageListsNotes(t *testing.T) {
	now := time.Now()
	noteSvc := &stubNoteService{
		listFn: func(_ context.Context, authorID string, query entities.NotesQuery) ([]*entities.Note, int, error) {
			if authorID != testUserID {
				return nil, 0, errors.New("unexpected author")
			}
			if query.Limit != 5 || query.Offset != 5 {
				return nil, 0, errors.New("unexpected pagination")
			}
			if query.Search != "milk" || query.DateRange != "last-week" {
				return nil, 0, errors.New("unexpected filters")
			}
			return []*entities.Note{
				{ID: "n1", AuthorID: testUserID, Title: "Groceries", Content: "milk", CreatedAt: now, UpdatedAt: now},
			}, 7, nil
		},
	}

	app := newWebApp(noteSvc, &stubAuthService{}, &stubSessionStore{})
	resp, err := app.Test(sessionRequest(http.MethodGet, "/?page=2&search_note=milk&type=last-week", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "Groceries")
	// 7 заметок по 5 на страницу дают 2 страницы.
	assert.Contains(t, body, "page=1")
}

func TestCreateNoteFromWebForm(t *testing.T) {
	t.Run("Success - redirects to home", func(t *testing.T) {
		var gotAuthor string
		noteSvc := &stubNoteService{
			createFn: func(_ context.Context, authorID, title, content string) (*entities.Note, error) {
				gotAuthor = authorID
				return &entities.Note{ID: "n1", AuthorID: authorID, Title: title, Content: content}, nil
			},
		}

		app := newWebApp(noteSvc, &stubAuthService{}, &stubSessionStore{})
		resp, err := app.Test(sessionRequest(http.MethodPost, "/note/create", url.Values{
			"title":   {"Title"},
			"content": {"Body"},
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.Equal(t, testUserID, gotAuthor)
	})

	t.Run("Error - blank title re-renders form with message", func(t *testing.T) {
		noteSvc := &stubNoteService{
			createFn: func(context.Context, string, string, string) (*entities.Note, error) {
				return nil, entities.ErrEmptyTitle
			},
			listFn: func(context.Context, string, entities.NotesQuery) ([]*entities.Note, int, error) {
				return nil, 0, nil
			},
		}

		app := newWebApp(noteSvc, &stubAuthService{}, &stubSessionStore{})
		resp, err := app.Test(sessionRequest(http.MethodPost, "/note/create", url.Values{
			"title":   {""},
			"content": {"Body"},
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Title cannot be empty.")
	})
}

func TestNoteDetailPage(t *testing.T) {
	now := time.Now()
	note := &entities.Note{ID: "n1", AuthorID: testUserID, Title: "My note", Content: "Body", CreatedAt: now, UpdatedAt: now}

	t.Run("Success - detail rendered", func(t *testing.T) {
		noteSvc := &stubNoteService{
			getFn: func(context.Context, string, string) (*entities.Note, error) { return note, nil },
		}
		app := newWebApp(noteSvc, &stubAuthService{}, &stubSessionStore{})

		resp, err := app.Test(sessionRequest(http.MethodGet, "/note/n1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := readBody(t, resp)
		assert.Contains(t, body, "My note")
		assert.NotContains(t, body, "<form method=\"post\" action=\"/note/n1/edit\"")
	})

	t.Run("Success - edit mode shows form", func(t *testing.T) {
		noteSvc := &stubNoteService{
			getFn: func(context.Context, string, string) (*entities.Note, error) { return note, nil },
		}
		app := newWebApp(noteSvc, &stubAuthService{}, &stubSessionStore{})

		resp, err := app.Test(sessionRequest(http.MethodGet, "/note/n1?edit=1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "/note/n1/edit")
	})

	t.Run("Error - foreign note renders 404 page", func(t *testing.T) {
		noteSvc := &stubNoteService{
			getFn: func(context.Context, string, string) (*entities.Note, error) {
				return nil, entities.ErrNoteNotFound
			},
		}
		app := newWebApp(noteSvc, &stubAuthService{}, &stubSessionStore{})

		resp, err := app.Test(sessionRequest(http.MethodGet, "/note/n1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Note not found")
	})
}

func TestDeleteNoteFlow(t *testing.T) {
	now := time.Now()
	note := &entities.Note{ID: "n1", AuthorID: testUserID, Title: "Doomed", Content: "Body", CreatedAt: now, UpdatedAt: now}

	t.Run("confirmation page shows note title", func(t *testing.T) {
		noteSvc := &stubNoteService{
			getFn: func(context.Context, string, string) (*entities.Note, error) { return note, nil },
		}
		app := newWebApp(noteSvc, &stubAuthService{}, &stubSessionStore{})

		resp, err := app.Test(sessionRequest(http.MethodGet, "/note/n1/delete", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := readBody(t, resp)
		assert.Contains(t, body, "Doomed")
		assert.Contains(t, body, "/note/n1/delete")
	})

	t.Run("delete redirects home", func(t *testing.T) {
		deleted := false
		noteSvc := &stubNoteService{
			deleteFn: func(_ context.Context, authorID, noteID string) error {
				deleted = authorID == testUserID && noteID == "n1"
				return nil
			},
		}
		app := newWebApp(noteSvc, &stubAuthService{}, &stubSessionStore{})

		resp, err := app.Test(sessionRequest(http.MethodPost, "/note/n1/delete", url.Values{}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.True(t, deleted)
	})
}

func TestLoginFlow(t *testing.T) {
	t.Run("Success - session cookie set and redirected home", func(t *testing.T) {
		authSvc := &stubAuthService{
			authenticateFn: func(_ context.Context, email, password string) (*entities.User, error) {
				if email == "user@example.com" && password == "password123" {
					return &entities.User{ID: testUserID, EmailAddress: email, IsActive: true}, nil
				}
				return nil, entities.ErrInvalidCredentials
			},
		}
		sessions := &stubSessionStore{}
		app := newWebApp(&stubNoteService{}, authSvc, sessions)

		form := url.Values{"email_address": {"user@example.com"}, "password": {"password123"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.Equal(t, []string{testUserID}, sessions.created)

		var found bool
		for _, c := range resp.Cookies() {
			if c.Name == testCookieName && c.Value == testSessionID {
				found = true
			}
		}
		assert.True(t, found, "session cookie must be set")
	})

	t.Run("Error - bad credentials re-render login form", func(t *testing.T) {
		authSvc := &stubAuthService{
			authenticateFn: func(context.Context, string, string) (*entities.User, error) {
				return nil, entities.ErrInvalidCredentials
			},
		}
		app := newWebApp(&stubNoteService{}, authSvc, &stubSessionStore{})

		form := url.Values{"email_address": {"user@example.com"}, "password": {"wrong"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Invalid email address or password.")
	})
}

func TestSignupFlow(t *testing.T) {
	t.Run("Success - redirects to login", func(t *testing.T) {
		authSvc := &stubAuthService{
			registerFn: func(_ context.Context, email, _, firstName, _ string) (*entities.User, error) {
				return &entities.User{ID: "user-2", EmailAddress: email, FirstName: firstName, IsActive: true}, nil
			},
		}
		app := newWebApp(&stubNoteService{}, authSvc, &stubSessionStore{})

		form := url.Values{
			"email_address": {"new@example.com"},
			"password":      {"password123"},
			"first_name":    {"New"},
		}
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("Error - duplicate email yields conflict page", func(t *testing.T) {
		authSvc := &stubAuthService{
			registerFn: func(context.Context, string, string, string, string) (*entities.User, error) {
				return nil, entities.ErrUserAlreadyExists
			},
		}
		app := newWebApp(&stubNoteService{}, authSvc, &stubSessionStore{})

		form := url.Values{"email_address": {"dup@example.com"}, "password": {"password123"}}
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "already exists")
	})
}

func TestLogoutFlow(t *testing.T) {
	sessions := &stubSessionStore{}
	app := newWebApp(&stubNoteService{}, &stubAuthService{}, sessions)

	resp, err := app.Test(sessionRequest(http.MethodPost, "/logout", url.Values{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, []string{testSessionID}, sessions.deleted)
}
