package metrics

import (
	"context"
	"time"

	"portfolio/internal/workspace"
)

// InstrumentedStore records a counter and latency sample for every call
// to the wrapped store.
type InstrumentedStore struct {
	next    workspace.Store
	metrics *Metrics
}

// InstrumentStore wraps next. A nil m returns next unchanged.
func InstrumentStore(next workspace.Store, m *Metrics) workspace.Store {
	if m == nil {
		return next
	}
	return &InstrumentedStore{next: next, metrics: m}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.StoreRequests.WithLabelValues(op, outcome).Inc()
	s.metrics.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *InstrumentedStore) CreatePage(ctx context.Context, databaseID string, props workspace.Properties) (*workspace.Page, error) {
	start := time.Now()
	page, err := s.next.CreatePage(ctx, databaseID, props)
	s.observe("create_page", start, err)
	return page, err
}

func (s *InstrumentedStore) QueryDatabase(ctx context.Context, databaseID string, q *workspace.Query) ([]workspace.Page, error) {
	start := time.Now()
	pages, err := s.next.QueryDatabase(ctx, databaseID, q)
	s.observe("query_database", start, err)
	return pages, err
}

func (s *InstrumentedStore) RetrievePage(ctx context.Context, pageID string) (*workspace.Page, error) {
	start := time.Now()
	page, err := s.next.RetrievePage(ctx, pageID)
	s.observe("retrieve_page", start, err)
	return page, err
}

func (s *InstrumentedStore) UpdatePage(ctx context.Context, pageID string, props workspace.Properties) (*workspace.Page, error) {
	start := time.Now()
	page, err := s.next.UpdatePage(ctx, pageID, props)
	s.observe("update_page", start, err)
	return page, err
}

func (s *InstrumentedStore) ArchivePage(ctx context.Context, pageID string) (*workspace.Page, error) {
	start := time.Now()
	page, err := s.next.ArchivePage(ctx, pageID)
	s.observe("archive_page", start, err)
	return page, err
}

func (s *InstrumentedStore) ListBlockChildren(ctx context.Context, blockID, cursor string, pageSize int) (*workspace.BlockList, error) {
	start := time.Now()
	list, err := s.next.ListBlockChildren(ctx, blockID, cursor, pageSize)
	s.observe("list_block_children", start, err)
	return list, err
}

func (s *InstrumentedStore) AppendBlockChildren(ctx context.Context, blockID string, children []workspace.BlockInput) ([]workspace.Block, error) {
	start := time.Now()
	blocks, err := s.next.AppendBlockChildren(ctx, blockID, children)
	s.observe("append_block_children", start, err)
	return blocks, err
}
