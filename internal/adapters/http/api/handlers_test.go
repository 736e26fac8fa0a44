package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	serverHTTP "digithai/internal/adapters/http"
	"digithai/internal/app/dto"
	"digithai/internal/domain/entities"
	"digithai/internal/domain/services"
	portssvc "digithai/internal/ports/services"
)

const (
	validToken = "valid-token"
	testUserID = "user-1"
)

type mockNoteService struct {
	mock.Mock
}

func (m *mockNoteService) CreateNote(ctx context.Context, authorID, title, content string) (*entities.Note, error) {
	args := m.Called(ctx, authorID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteService) GetNote(ctx context.Context, authorID, noteID string) (*entities.Note, error) {
	args := m.Called(ctx, authorID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteService) ListNotes(ctx context.Context, authorID string, query entities.NotesQuery) ([]*entities.Note, int, error) {
	args := m.Called(ctx, authorID, query)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Note), args.Int(1), args.Error(2)
}

func (m *mockNoteService) UpdateNote(ctx context.Context, authorID, noteID, title, content string) (*entities.Note, error) {
	args := m.Called(ctx, authorID, noteID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteService) DeleteNote(ctx context.Context, authorID, noteID string) error {
	args := m.Called(ctx, authorID, noteID)
	return args.Error(0)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*entities.User, error) {
	args := m.Called(ctx, email, password, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockAuthService) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *mockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

// stubTokenService принимает ровно один токен и возвращает фиксированного
// пользователя.
type stubTokenService struct{}

func (stubTokenService) GenerateAccessToken(context.Context, string, string) (string, time.Time, error) {
	return "", time.Time{}, errors.New("not implemented")
}

func (stubTokenService) GenerateRefreshToken(context.Context) (string, time.Time, error) {
	return "", time.Time{}, errors.New("not implemented")
}

func (stubTokenService) ValidateAccessToken(_ context.Context, token string) (string, error) {
	if token == validToken {
		return testUserID, nil
	}
	return "", errors.New("invalid token")
}

type stubSessionStore struct{}

func (stubSessionStore) Create(context.Context, string) (string, error) { return "", nil }
func (stubSessionStore) Get(context.Context, string) (string, error) {
	return "", portssvc.ErrSessionNotFound
}
func (stubSessionStore) Delete(context.Context, string) error { return nil }

func newTestApp(noteSvc *mockNoteService, authSvc *mockAuthService) *fiber.App {
	app := fiber.New()
	serverHTTP.SetupRouter(app, serverHTTP.RouterConfig{
		AuthService:       authSvc,
		NoteService:       noteSvc,
		TokenService:      stubTokenService{},
		Sessions:          stubSessionStore{},
		SessionCookieName: "session_id",
		SessionTTL:        time.Hour,
	})
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authRequest(method, target string, body any) *http.Request {
	req := jsonRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+validToken)
	return req
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestNotesAPIRequiresToken(t *testing.T) {
	app := newTestApp(new(mockNoteService), new(mockAuthService))

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"no header", httptest.NewRequest(http.MethodGet, "/api/v1/notes/", nil)},
		{"malformed header", func() *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/notes/", nil)
			req.Header.Set("Authorization", "Token something")
			return req
		}()},
		{"invalid token", func() *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/notes/", nil)
			req.Header.Set("Authorization", "Bearer bad-token")
			return req
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestCreateNoteAPI(t *testing.T) {
	t.Run("Success - 201 with created note", func(t *testing.T) {
		noteSvc := new(mockNoteService)
		now := time.Now().UTC()
		noteSvc.On("CreateNote", mock.Anything, testUserID, "Title", "Content").
			Return(&entities.Note{
				ID:        "note-1",
				AuthorID:  testUserID,
				Title:     "Title",
				Content:   "Content",
				CreatedAt: now,
				UpdatedAt: now,
			}, nil).Once()

		app := newTestApp(noteSvc, new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodPost, "/api/v1/notes/", dto.CreateNoteRequest{
			Title:   "Title",
			Content: "Content",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		note := decodeBody[dto.Note](t, resp)
		assert.Equal(t, "note-1", note.ID)
		noteSvc.AssertExpectations(t)
	})

	t.Run("Error - 400 with per-field validation detail", func(t *testing.T) {
		noteSvc := new(mockNoteService)
		noteSvc.On("CreateNote", mock.Anything, testUserID, "", "Content").
			Return(nil, entities.ErrEmptyTitle).Once()

		app := newTestApp(noteSvc, new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodPost, "/api/v1/notes/", dto.CreateNoteRequest{
			Content: "Content",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[dto.ValidationErrorResponse](t, resp)
		assert.Contains(t, body.Errors, "title")
	})
}

func TestGetNoteAPI(t *testing.T) {
	t.Run("Success - 200 with note", func(t *testing.T) {
		noteSvc := new(mockNoteService)
		noteSvc.On("GetNote", mock.Anything, testUserID, "note-1").
			Return(&entities.Note{ID: "note-1", AuthorID: testUserID, Title: "T", Content: "C"}, nil).Once()

		app := newTestApp(noteSvc, new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodGet, "/api/v1/notes/note-1", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Error - foreign note yields 404", func(t *testing.T) {
		noteSvc := new(mockNoteService)
		noteSvc.On("GetNote", mock.Anything, testUserID, "note-1").
			Return(nil, entities.ErrNoteNotFound).Once()

		app := newTestApp(noteSvc, new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodGet, "/api/v1/notes/note-1", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListNotesAPI(t *testing.T) {
	t.Run("Success - envelope with count and results", func(t *testing.T) {
		noteSvc := new(mockNoteService)
		noteSvc.On("ListNotes", mock.Anything, testUserID, mock.MatchedBy(func(q entities.NotesQuery) bool {
			return q.Search == "milk" && q.DateRange == "last-week" &&
				q.Ordering == "created_at" && q.Limit == 5 && q.Offset == 10
		})).Return([]*entities.Note{
			{ID: "n1", AuthorID: testUserID, Title: "a", Content: "x"},
		}, 12, nil).Once()

		app := newTestApp(noteSvc, new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodGet,
			"/api/v1/notes/?search=milk&date_range=last-week&ordering=created_at&limit=5&offset=10", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[dto.ListNotesResponse](t, resp)
		assert.Equal(t, 12, body.Count)
		require.Len(t, body.Results, 1)
		assert.Equal(t, "n1", body.Results[0].ID)
		noteSvc.AssertExpectations(t)
	})

	t.Run("Error - non-numeric pagination yields 400", func(t *testing.T) {
		app := newTestApp(new(mockNoteService), new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodGet, "/api/v1/notes/?limit=abc", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateNoteAPI(t *testing.T) {
	t.Run("Success - 200 with updated note", func(t *testing.T) {
		noteSvc := new(mockNoteService)
		noteSvc.On("UpdateNote", mock.Anything, testUserID, "note-1", "New", "Body").
			Return(&entities.Note{ID: "note-1", AuthorID: testUserID, Title: "New", Content: "Body"}, nil).Once()

		app := newTestApp(noteSvc, new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodPut, "/api/v1/notes/note-1", dto.UpdateNoteRequest{
			Title:   "New",
			Content: "Body",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Error - foreign note yields 404", func(t *testing.T) {
		noteSvc := new(mockNoteService)
		noteSvc.On("UpdateNote", mock.Anything, testUserID, "note-1", "New", "Body").
			Return(nil, entities.ErrNoteNotFound).Once()

		app := newTestApp(noteSvc, new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodPatch, "/api/v1/notes/note-1", dto.UpdateNoteRequest{
			Title:   "New",
			Content: "Body",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteNoteAPI(t *testing.T) {
	t.Run("Success - 204 without body", func(t *testing.T) {
		noteSvc := new(mockNoteService)
		noteSvc.On("DeleteNote", mock.Anything, testUserID, "note-1").Return(nil).Once()

		app := newTestApp(noteSvc, new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodDelete, "/api/v1/notes/note-1", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Error - repeated delete yields 404", func(t *testing.T) {
		noteSvc := new(mockNoteService)
		noteSvc.On("DeleteNote", mock.Anything, testUserID, "note-1").
			Return(entities.ErrNoteNotFound).Once()

		app := newTestApp(noteSvc, new(mockAuthService))
		resp, err := app.Test(authRequest(http.MethodDelete, "/api/v1/notes/note-1", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRegisterAPI(t *testing.T) {
	t.Run("Success - 201 with user data", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("Register", mock.Anything, "user@example.com", "password123", "First", "Last").
			Return(&entities.User{
				ID:           "user-1",
				EmailAddress: "user@example.com",
				FirstName:    "First",
				LastName:     "Last",
				IsActive:     true,
			}, nil).Once()

		app := newTestApp(new(mockNoteService), authSvc)
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
			EmailAddress: "user@example.com",
			Password:     "password123",
			FirstName:    "First",
			LastName:     "Last",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody[dto.RegisterResponse](t, resp)
		assert.Equal(t, "user-1", body.ID)
	})

	t.Run("Error - duplicate email yields 409", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("Register", mock.Anything, "user@example.com", "password123", "", "").
			Return(nil, entities.ErrUserAlreadyExists).Once()

		app := newTestApp(new(mockNoteService), authSvc)
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
			EmailAddress: "user@example.com",
			Password:     "password123",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Error - weak password yields 400", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("Register", mock.Anything, "user@example.com", "short", "", "").
			Return(nil, entities.ErrPasswordTooShort).Once()

		app := newTestApp(new(mockNoteService), authSvc)
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
			EmailAddress: "user@example.com",
			Password:     "short",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginAPI(t *testing.T) {
	t.Run("Success - token pair returned", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("Login", mock.Anything, "user@example.com", "password123").
			Return(&services.TokenPair{
				UserID:       "user-1",
				EmailAddress: "user@example.com",
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresAt:    time.Now().Add(15 * time.Minute),
			}, nil).Once()

		app := newTestApp(new(mockNoteService), authSvc)
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
			EmailAddress: "user@example.com",
			Password:     "password123",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[dto.TokenResponse](t, resp)
		assert.Equal(t, "access", body.AccessToken)
		assert.Equal(t, "refresh", body.RefreshToken)
	})

	t.Run("Error - invalid credentials yield 401", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("Login", mock.Anything, "user@example.com", "wrongpass1").
			Return(nil, entities.ErrInvalidCredentials).Once()

		app := newTestApp(new(mockNoteService), authSvc)
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
			EmailAddress: "user@example.com",
			Password:     "wrongpass1",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRefreshAPI(t *testing.T) {
	t.Run("Error - invalid refresh token yields 401", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("RefreshTokens", mock.Anything, "stale").
			Return(nil, services.ErrInvalidRefreshToken).Once()

		app := newTestApp(new(mockNoteService), authSvc)
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/refresh", dto.RefreshRequest{
			RefreshToken: "stale",
		}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutAPI(t *testing.T) {
	authSvc := new(mockAuthService)
	authSvc.On("Logout", mock.Anything, "refresh").Return(nil).Once()

	app := newTestApp(new(mockNoteService), authSvc)
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/logout", dto.RefreshRequest{
		RefreshToken: "refresh",
	}))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
