package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/workspace"
	"portfolio/internal/workspace/memstore"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestInstrumentStore_CountsOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())
	mem := memstore.New()
	store := InstrumentStore(mem, m)
	ctx := context.Background()

	page, err := store.CreatePage(ctx, "db", workspace.Properties{"Name": workspace.TitleProperty("A")})
	require.NoError(t, err)
	_, err = store.RetrievePage(ctx, page.ID)
	require.NoError(t, err)

	mem.FailOn(memstore.OpQueryDatabase, errors.New("boom"))
	_, err = store.QueryDatabase(ctx, "db", nil)
	require.Error(t, err)

	body := scrape(t, m)
	assert.Contains(t, body, `portfolio_store_requests_total{operation="create_page",outcome="ok"} 1`)
	assert.Contains(t, body, `portfolio_store_requests_total{operation="retrieve_page",outcome="ok"} 1`)
	assert.Contains(t, body, `portfolio_store_requests_total{operation="query_database",outcome="error"} 1`)
	assert.Contains(t, body, `portfolio_store_request_duration_seconds_count{operation="create_page"} 1`)
}

func TestInstrumentStore_NilMetrics(t *testing.T) {
	mem := memstore.New()
	assert.Same(t, workspace.Store(mem), InstrumentStore(mem, nil))
}
