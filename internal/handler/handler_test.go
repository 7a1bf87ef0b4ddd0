package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/auth"
	"portfolio/internal/domain/models"
	"portfolio/internal/middleware"
	"portfolio/internal/render"
	"portfolio/internal/repository/workspacedb"
	"portfolio/internal/service"
	"portfolio/internal/service/content"
	"portfolio/internal/workspace"
	"portfolio/internal/workspace/memstore"
)

const testSecret = "handler-test-secret"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type testAPI struct {
	t      *testing.T
	store  *memstore.Store
	server http.Handler
	tokens *auth.LocalJWT
}

func newTestAPI(t *testing.T, expose bool) *testAPI {
	t.Helper()
	store := memstore.New()
	cfg := &workspacedb.RepositoryConfig{
		Store:                 store,
		UsersDatabaseID:       "users",
		CaseStudiesDatabaseID: "case-studies",
		Logger:                discard,
	}
	userRepo := workspacedb.NewUserRepository(cfg)
	caseRepo := workspacedb.NewCaseStudyRepository(cfg)
	translator := content.NewTranslator(workspacedb.NewBlockRepository(cfg), content.Limits{}, nil, discard)

	tokens, err := auth.NewLocalJWT(testSecret, time.Hour, discard)
	require.NoError(t, err)

	errs := ErrorPolicy{Logger: discard, ExposeDetails: expose}
	router := &Router{
		Auth:      NewAuthHandler(service.NewAuthService(userRepo, tokens, discard), errs),
		User:      NewUserHandler(service.NewUserService(userRepo, discard), errs),
		CaseStudy: NewCaseStudyHandler(service.NewCaseStudyService(caseRepo, translator, discard), render.NewRenderer(), errs),
		Database:  NewDatabaseHandler(service.NewDatabaseService(userRepo, caseRepo, discard), errs),
	}
	mux := http.NewServeMux()
	router.Register(mux)

	h := middleware.AuthMiddleware(tokens, middleware.PublicPaths(PublicRoutes...), discard)(mux)
	return &testAPI{t: t, store: store, server: h, tokens: tokens}
}

func (a *testAPI) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func (a *testAPI) register(email string) (string, string) {
	a.t.Helper()
	rec, body := a.do("POST", "/api/auth/register", "", map[string]string{"email": email, "password": "pw", "fullName": "Test"})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t, true)

	token, userID := api.register("ada@example.com")

	rec, body := api.do("POST", "/api/auth/register", "", map[string]string{"email": "ada@example.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists with this email", body["message"])

	rec, body = api.do("POST", "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", body["message"])

	rec, body = api.do("POST", "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])

	rec, body = api.do("GET", "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, userID, user["id"])
	assert.NotEmpty(t, user["createdAt"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec, body = api.do("POST", "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successful", body["message"])
}

func TestRegister_MissingFields(t *testing.T) {
	api := newTestAPI(t, true)

	rec, body := api.do("POST", "/api/auth/register", "", map[string]string{"email": "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email and password are required", body["message"])

	rec, _ = api.do("POST", "/api/auth/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, api.store.Calls())
}

func TestUpdateProfile(t *testing.T) {
	api := newTestAPI(t, true)
	token, _ := api.register("a@example.com")

	api.store.ResetCalls()
	rec, body := api.do("PUT", "/api/user/update", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "At least one field (fullName or phone) is required", body["message"])
	assert.Zero(t, api.store.Calls())

	rec, body = api.do("PUT", "/api/user/update", token, map[string]any{"phone": "555", "fullName": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "555", user["phone"])
	assert.Equal(t, "", user["fullName"])
}

func TestExpiredTokenNeverReachesStore(t *testing.T) {
	api := newTestAPI(t, true)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{"GET", "/api/case-studies"},
		{"POST", "/api/case-studies"},
		{"GET", "/api/user/profile"},
		{"GET", "/api/database/overview"},
	}
	for _, rt := range routes {
		rec, body := api.do(rt.method, rt.path, expired, map[string]string{"name": "x"})
		assert.Equal(t, http.StatusForbidden, rec.Code, rt.path)
		assert.Equal(t, false, body["success"])

		rec, _ = api.do(rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, rt.path)
	}

	assert.Zero(t, api.store.Calls())
}

func TestCreateCaseStudyScenario(t *testing.T) {
	api := newTestAPI(t, true)
	token, _ := api.register("a@example.com")

	rec, body := api.do("POST", "/api/case-studies", token, map[string]any{
		"name":   "Acme Rebrand",
		"status": "In Progress",
		"tags":   []string{"branding", "web"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Case study created successfully", body["message"])

	cs := body["caseStudy"].(map[string]any)
	assert.NotEmpty(t, cs["id"])
	assert.Equal(t, "Acme Rebrand", cs["name"])
	assert.Equal(t, "In Progress", cs["status"])
	assert.Equal(t, []any{"branding", "web"}, cs["tags"])
	assert.Equal(t, "", cs["projectDetails"])
	v, ok := cs["coverImage"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestCreateCaseStudy_NameRequired(t *testing.T) {
	api := newTestAPI(t, true)
	token, _ := api.register("a@example.com")
	api.store.ResetCalls()

	rec, body := api.do("POST", "/api/case-studies", token, map[string]any{"status": "Done"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Case study name is required", body["message"])
	assert.Zero(t, api.store.Calls())
}

func TestUpdateCaseStudy(t *testing.T) {
	api := newTestAPI(t, true)
	token, _ := api.register("a@example.com")

	_, body := api.do("POST", "/api/case-studies", token, map[string]any{
		"name":       "Acme",
		"tags":       []string{"web"},
		"coverImage": map[string]string{"url": "https://cdn.example.com/a.png"},
	})
	id := body["caseStudy"].(map[string]any)["id"].(string)

	api.store.ResetCalls()
	rec, body := api.do("PUT", "/api/case-studies/"+id, token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No fields provided for update", body["message"])
	rec, _ = api.do("PUT", "/api/case-studies/"+id, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, api.store.Calls())

	rec, body = api.do("PUT", "/api/case-studies/"+id, token, map[string]any{"status": "Done", "coverImage": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cs := body["caseStudy"].(map[string]any)
	assert.Equal(t, "Done", cs["status"])
	assert.Equal(t, "Acme", cs["name"])
	assert.Equal(t, []any{"web"}, cs["tags"])
	assert.Nil(t, cs["coverImage"])

	rec, _ = api.do("PUT", "/api/case-studies/"+id, token, map[string]any{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGetDeleteCaseStudies(t *testing.T) {
	api := newTestAPI(t, true)
	token, _ := api.register("a@example.com")

	var ids []string
	for _, st := range []string{"Done", "In Progress", "Done"} {
		_, body := api.do("POST", "/api/case-studies", token, map[string]any{"name": st, "status": st})
		ids = append(ids, body["caseStudy"].(map[string]any)["id"].(string))
	}

	rec, body := api.do("GET", "/api/case-studies", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["caseStudies"], 2)

	rec, body = api.do("GET", "/api/database/case-studies", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["count"])

	rec, body = api.do("GET", "/api/case-studies/"+ids[1], token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "In Progress", body["caseStudy"].(map[string]any)["name"])

	rec, body = api.do("DELETE", "/api/case-studies/"+ids[0], token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Case study deleted successfully", body["message"])

	rec, body = api.do("GET", "/api/case-studies/"+ids[0], token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Case study not found", body["message"])
}

func TestGetCaseStudyWithContentAndRender(t *testing.T) {
	api := newTestAPI(t, true)
	token, _ := api.register("a@example.com")
	_, body := api.do("POST", "/api/case-studies", token, map[string]any{"name": "Rich"})
	id := body["caseStudy"].(map[string]any)["id"].(string)

	ctx := context.Background()
	para, err := workspace.NewBlockInput("paragraph", map[string]any{"rich_text": models.NewRichText("intro")})
	require.NoError(t, err)
	toggle, err := workspace.NewBlockInput("toggle", map[string]any{"rich_text": models.NewRichText("more")})
	require.NoError(t, err)
	blocks, err := api.store.AppendBlockChildren(ctx, id, []workspace.BlockInput{para, toggle})
	require.NoError(t, err)
	_, err = api.store.AppendBlockChildren(ctx, blocks[1].ID, []workspace.BlockInput{para})
	require.NoError(t, err)

	rec, body := api.do("GET", "/api/case-studies/"+id+"?includeContent=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cs := body["caseStudy"].(map[string]any)
	assert.Equal(t, true, cs["hasContent"])
	top := cs["blocks"].([]any)
	require.Len(t, top, 2)
	assert.Len(t, top[1].(map[string]any)["children"], 1)

	rec, body = api.do("GET", "/api/case-studies/"+id+"/render", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, body["nodes"], 2)
	assert.Contains(t, body["html"], "notion-toggle-content")
	assert.Contains(t, body["html"], "intro")
}

func TestStoreFailure_DetailPolicy(t *testing.T) {
	for _, expose := range []bool{true, false} {
		api := newTestAPI(t, expose)
		token, _ := api.register("a@example.com")
		api.store.FailOn(memstore.OpQueryDatabase, errors.New("upstream exploded"))

		rec, body := api.do("GET", "/api/database/users", token, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error fetching users from database", body["message"])
		if expose {
			assert.Contains(t, body["error"], "upstream exploded")
		} else {
			assert.NotContains(t, rec.Body.String(), "upstream exploded")
		}
	}
}

func TestDatabaseRoutes(t *testing.T) {
	api := newTestAPI(t, true)
	token, userID := api.register("a@example.com")

	rec, body := api.do("GET", "/api/database/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])

	rec, body = api.do("GET", "/api/database/users/"+userID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", body["user"].(map[string]any)["email"])

	rec, _ = api.do("GET", "/api/database/case-studies/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = api.do("GET", "/api/database/overview", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overview := body["overview"].(map[string]any)
	assert.Equal(t, float64(1), overview["users"].(map[string]any)["total"])
	assert.Equal(t, float64(0), overview["caseStudies"].(map[string]any)["total"])
}

func TestHealthIsPublic(t *testing.T) {
	api := newTestAPI(t, true)
	rec, body := api.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestStoreConflictIs409(t *testing.T) {
	api := newTestAPI(t, false)
	token, _ := api.register("a@example.com")

	rec, body := api.do("POST", "/api/case-studies", token, map[string]any{"name": "Alpha"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := body["caseStudy"].(map[string]any)["id"].(string)

	api.store.FailOn(memstore.OpUpdatePage, workspace.Conflict("Conflict occurred while saving. Please try again."))
	rec, body = api.do("PUT", "/api/case-studies/"+id, token, map[string]any{"status": "Done"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Conflict occurred while saving. Please try again.", body["message"])
}

func TestCaseStudyRoutesIgnoreUserPages(t *testing.T) {
	api := newTestAPI(t, false)
	token, userID := api.register("mallory@example.com")
	_, victimID := api.register("victim@example.com")

	rec, _ := api.do("GET", "/api/case-studies/"+userID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = api.do("PUT", "/api/case-studies/"+victimID, token, map[string]any{"status": "Done"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := api.do("DELETE", "/api/case-studies/"+victimID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Case study not found", body["message"])

	rec, _ = api.do("POST", "/api/auth/login", "", map[string]string{"email": "victim@example.com", "password": "pw"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserRoutesIgnoreCaseStudyPages(t *testing.T) {
	api := newTestAPI(t, false)
	token, _ := api.register("a@example.com")

	rec, body := api.do("POST", "/api/case-studies", token, map[string]any{"name": "Alpha"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := body["caseStudy"].(map[string]any)["id"].(string)

	rec, body = api.do("GET", "/api/database/users/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", body["message"])

	rec, _ = api.do("GET", "/api/database/case-studies/"+id, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
