package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/auth"
	"portfolio/internal/domain/models"
	"portfolio/internal/handler"
	"portfolio/internal/middleware"
	"portfolio/internal/render"
	"portfolio/internal/repository/workspacedb"
	"portfolio/internal/service"
	"portfolio/internal/service/content"
	"portfolio/internal/workspace/memstore"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestServer serves the full API over an in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &workspacedb.RepositoryConfig{
		Store:                 memstore.New(),
		UsersDatabaseID:       "users",
		CaseStudiesDatabaseID: "case-studies",
		Logger:                discard,
	}
	userRepo := workspacedb.NewUserRepository(cfg)
	caseRepo := workspacedb.NewCaseStudyRepository(cfg)
	translator := content.NewTranslator(workspacedb.NewBlockRepository(cfg), content.Limits{}, nil, discard)

	tokens, err := auth.NewLocalJWT("client-test-secret", time.Hour, discard)
	require.NoError(t, err)

	errs := handler.ErrorPolicy{Logger: discard}
	router := &handler.Router{
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, tokens, discard), errs),
		User:      handler.NewUserHandler(service.NewUserService(userRepo, discard), errs),
		CaseStudy: handler.NewCaseStudyHandler(service.NewCaseStudyService(caseRepo, translator, discard), render.NewRenderer(), errs),
		Database:  handler.NewDatabaseHandler(service.NewDatabaseService(userRepo, caseRepo, discard), errs),
	}
	mux := http.NewServeMux()
	router.Register(mux)

	srv := httptest.NewServer(middleware.AuthMiddleware(tokens, middleware.PublicPaths(handler.PublicRoutes...), discard)(mux))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := New(srv.URL, NewSession(), discard)

	_, err := c.Profile(ctx)
	require.ErrorIs(t, err, ErrSessionExpired)

	res, err := c.Register(ctx, models.RegisterRequest{Email: "ada@example.com", Password: "pw", FullName: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.True(t, c.Session().Authenticated())

	user, ok := c.Session().User()
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", user.Email)

	profile, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FullName)
	assert.NotEmpty(t, profile.CreatedAt)

	phone := "555"
	updated, err := c.UpdateProfile(ctx, ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555", updated.Phone)
	assert.Equal(t, "Ada", updated.FullName)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.Session().Authenticated())

	_, err = c.Login(ctx, "ada@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, service.MsgInvalidCredentials, apiErr.Message)

	_, err = c.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, c.Session().Authenticated())
}

func TestClient_RejectedTokenClearsSession(t *testing.T) {
	srv := newTestServer(t)
	session := NewSession()
	session.Set("not-a-token", models.UserSummary{ID: "u1"})
	c := New(srv.URL, session, discard)

	_, err := c.ListCaseStudies(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSessionExpired))
	assert.False(t, session.Authenticated())
}

func TestClient_CaseStudies(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := New(srv.URL, nil, discard)

	_, err := c.Register(ctx, models.RegisterRequest{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	cs, err := c.CreateCaseStudy(ctx, models.CreateCaseStudyRequest{
		Name:   "Alpha",
		Tags:   []string{"go"},
		Status: models.StatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", cs.Name)

	list, err := c.ListCaseStudies(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cs.ID, list[0].ID)

	updated, err := c.UpdateCaseStudy(ctx, cs.ID, map[string]any{"tags": nil})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
	assert.Equal(t, "Alpha", updated.Name)

	full, err := c.GetCaseStudy(ctx, cs.ID, true)
	require.NoError(t, err)
	assert.False(t, full.HasContent)

	html, err := c.RenderCaseStudy(ctx, cs.ID)
	require.NoError(t, err)
	assert.Contains(t, html, render.EmptyMessage)

	overview, err := c.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Users.Total)
	assert.Equal(t, 1, overview.CaseStudies.Total)

	require.NoError(t, c.DeleteCaseStudy(ctx, cs.ID))
	_, err = c.GetCaseStudy(ctx, cs.ID, false)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.True(t, c.Session().Authenticated())
}

func TestSession_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	empty, err := LoadSession(path)
	require.NoError(t, err)
	assert.False(t, empty.Authenticated())

	s := NewSession()
	s.Set("tok", models.UserSummary{ID: "u1", Email: "a@b.co"})
	require.NoError(t, s.Save(path))

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token())
	user, _ := loaded.User()
	assert.Equal(t, "a@b.co", user.Email)

	loaded.Clear()
	require.NoError(t, loaded.Save(path))
	again, err := LoadSession(path)
	require.NoError(t, err)
	assert.False(t, again.Authenticated())
}
