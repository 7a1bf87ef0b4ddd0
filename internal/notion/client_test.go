package notion

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/workspace"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: "secret_test", BaseURL: srv.URL, RateLimit: -1}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{}, slog.Default())
	require.Error(t, err)
}

func TestClient_SendsAuthAndVersionHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pages/page-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"object":"page","id":"page-1","properties":{}}`))
	})

	page, err := c.RetrievePage(t.Context(), "page-1")
	require.NoError(t, err)
	assert.Equal(t, "page-1", page.ID)
}

func TestClient_QueryDatabaseFollowsCursors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db-1/query", r.URL.Path)

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Filter)
		assert.Equal(t, "Status", req.Filter.Property)
		assert.Equal(t, "Done", req.Filter.Status.Equals)
		assert.Equal(t, 100, req.PageSize)

		switch calls.Add(1) {
		case 1:
			assert.Empty(t, req.StartCursor)
			_, _ = w.Write([]byte(`{"results":[{"id":"a"},{"id":"b"}],"has_more":true,"next_cursor":"c2"}`))
		default:
			assert.Equal(t, "c2", req.StartCursor)
			_, _ = w.Write([]byte(`{"results":[{"id":"c"}],"has_more":false,"next_cursor":null}`))
		}
	})

	pages, err := c.QueryDatabase(t.Context(), "db-1", workspace.StatusEquals("Status", "Done"))
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{pages[0].ID, pages[1].ID, pages[2].ID})
	assert.EqualValues(t, 2, calls.Load())
}

func TestClient_ListBlockChildren(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blocks/page-1/children", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("page_size"))
		assert.Equal(t, "cur", r.URL.Query().Get("start_cursor"))
		_, _ = w.Write([]byte(`{
			"object":"list",
			"results":[{"object":"block","id":"b1","type":"paragraph","has_children":true,
				"paragraph":{"rich_text":[{"plain_text":"hi"}],"color":"default"}}],
			"has_more":false,"next_cursor":null}`))
	})

	list, err := c.ListBlockChildren(t.Context(), "page-1", "cur", 0)
	require.NoError(t, err)
	require.Len(t, list.Results, 1)

	b := list.Results[0]
	assert.Equal(t, "paragraph", b.Type)
	assert.True(t, b.HasChildren)
	assert.JSONEq(t, `{"rich_text":[{"plain_text":"hi"}],"color":"default"}`, string(b.Payload))
}

func TestClient_ArchivePageSendsArchivedFlag(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"archived":true}`, string(body))
		_, _ = w.Write([]byte(`{"id":"p","archived":true}`))
	})

	page, err := c.ArchivePage(t.Context(), "p")
	require.NoError(t, err)
	assert.True(t, page.Archived)
}

func TestClient_UpdatePageSendsEmptyMultiSelect(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"properties":{"Tags":{"type":"multi_select","multi_select":[]}}}`, string(body))
		_, _ = w.Write([]byte(`{"id":"p"}`))
	})

	_, err := c.UpdatePage(t.Context(), "p", workspace.Properties{
		"Tags": workspace.MultiSelectProperty(nil),
	})
	require.NoError(t, err)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
		code     string
	}{
		{
			name:     "object not found",
			status:   http.StatusNotFound,
			body:     `{"object":"error","status":404,"code":"object_not_found","message":"Could not find page"}`,
			notFound: true,
			code:     "object_not_found",
		},
		{
			name:   "validation error",
			status: http.StatusBadRequest,
			body:   `{"object":"error","status":400,"code":"validation_error","message":"bad"}`,
			code:   "validation_error",
		},
		{
			name:   "non-json body",
			status: http.StatusBadGateway,
			body:   `upstream down`,
			code:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.RetrievePage(t.Context(), "p")
			require.Error(t, err)
			assert.Equal(t, tt.notFound, workspace.IsNotFound(err))

			var apiErr *workspace.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}
