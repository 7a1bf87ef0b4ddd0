// Package memstore is an in-memory workspace.Store. It backs local
// development (STORE_BACKEND=memory) and the service and handler tests,
// and records every call so tests can assert that no store access happened.
package memstore

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/workspace"
)

// Operation names used for call accounting.
const (
	OpCreatePage          = "create_page"
	OpQueryDatabase       = "query_database"
	OpRetrievePage        = "retrieve_page"
	OpUpdatePage          = "update_page"
	OpArchivePage         = "archive_page"
	OpListBlockChildren   = "list_block_children"
	OpAppendBlockChildren = "append_block_children"
)

// Store keeps pages and blocks in maps guarded by a mutex.
type Store struct {
	mu sync.Mutex

	pages     map[string]*workspace.Page
	databases map[string][]string // database ID -> page IDs in insertion order
	blocks    map[string]*workspace.Block
	children  map[string][]string // parent ID -> block IDs in order

	calls    map[string]int
	failures map[string]error

	// Now is the clock used for timestamps.
	Now func() time.Time
	// BaseURL prefixes page URLs.
	BaseURL string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		pages:     make(map[string]*workspace.Page),
		databases: make(map[string][]string),
		blocks:    make(map[string]*workspace.Block),
		children:  make(map[string][]string),
		calls:     make(map[string]int),
		failures:  make(map[string]error),
		Now:       time.Now,
		BaseURL:   "https://workspace.local/",
	}
}

// Calls returns the total number of store operations performed.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// CallCount returns how many times op was invoked.
func (s *Store) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// ResetCalls zeroes the call counters.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

// FailOn makes every later call to op return err. A nil err clears it.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// begin records a call and returns an injected failure, if any. Caller holds mu.
func (s *Store) begin(ctx context.Context, op string) error {
	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.failures[op]
}

func (s *Store) timestamp() string {
	return s.Now().UTC().Format(workspace.TimeLayout)
}

func (s *Store) CreatePage(ctx context.Context, databaseID string, props workspace.Properties) (*workspace.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpCreatePage); err != nil {
		return nil, err
	}
	if databaseID == "" {
		return nil, workspace.Invalid("parent.database_id should be defined")
	}

	id := uuid.NewString()
	now := s.timestamp()
	page := &workspace.Page{
		Object:         "page",
		ID:             id,
		CreatedTime:    now,
		LastEditedTime: now,
		URL:            s.BaseURL + id,
		Parent:         workspace.Parent{Type: "database_id", DatabaseID: databaseID},
		Properties:     workspace.Normalize(props),
	}
	s.pages[id] = page
	s.databases[databaseID] = append(s.databases[databaseID], id)

	return workspace.ClonePage(page)
}

func (s *Store) QueryDatabase(ctx context.Context, databaseID string, q *workspace.Query) ([]workspace.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpQueryDatabase); err != nil {
		return nil, err
	}

	var filter *workspace.Filter
	if q != nil {
		filter = q.Filter
	}

	results := []workspace.Page{}
	for _, id := range s.databases[databaseID] {
		page := s.pages[id]
		if page.Archived || !filter.Match(*page) {
			continue
		}
		clone, err := workspace.ClonePage(page)
		if err != nil {
			return nil, err
		}
		results = append(results, *clone)
	}
	return results, nil
}

func (s *Store) RetrievePage(ctx context.Context, pageID string) (*workspace.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpRetrievePage); err != nil {
		return nil, err
	}

	page, ok := s.pages[pageID]
	if !ok {
		return nil, workspace.NotFound("page", pageID)
	}
	return workspace.ClonePage(page)
}

func (s *Store) UpdatePage(ctx context.Context, pageID string, props workspace.Properties) (*workspace.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpUpdatePage); err != nil {
		return nil, err
	}

	page, ok := s.pages[pageID]
	if !ok {
		return nil, workspace.NotFound("page", pageID)
	}
	if page.Archived {
		return nil, workspace.Invalid("Can't edit block that is archived. You must unarchive the block before editing.")
	}
	if page.Properties == nil {
		page.Properties = workspace.Properties{}
	}
	for name, v := range workspace.Normalize(props) {
		page.Properties[name] = v
	}
	page.LastEditedTime = s.timestamp()

	return workspace.ClonePage(page)
}

func (s *Store) ArchivePage(ctx context.Context, pageID string) (*workspace.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpArchivePage); err != nil {
		return nil, err
	}

	page, ok := s.pages[pageID]
	if !ok {
		return nil, workspace.NotFound("page", pageID)
	}
	page.Archived = true
	page.LastEditedTime = s.timestamp()

	return workspace.ClonePage(page)
}

func (s *Store) ListBlockChildren(ctx context.Context, blockID, cursor string, pageSize int) (*workspace.BlockList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpListBlockChildren); err != nil {
		return nil, err
	}

	if _, isPage := s.pages[blockID]; !isPage {
		if _, isBlock := s.blocks[blockID]; !isBlock {
			return nil, workspace.NotFound("block", blockID)
		}
	}
	if pageSize <= 0 || pageSize > workspace.DefaultPageSize {
		pageSize = workspace.DefaultPageSize
	}

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return nil, workspace.Invalid("start_cursor should be a valid cursor, instead was %q", cursor)
		}
		start = n
	}

	ids := s.children[blockID]
	if start > len(ids) {
		start = len(ids)
	}
	end := min(start+pageSize, len(ids))

	list := &workspace.BlockList{Object: "list", Results: make([]workspace.Block, 0, end-start)}
	for _, id := range ids[start:end] {
		list.Results = append(list.Results, cloneBlock(s.blocks[id]))
	}
	if end < len(ids) {
		next := strconv.Itoa(end)
		list.NextCursor = &next
		list.HasMore = true
	}
	return list, nil
}

func (s *Store) AppendBlockChildren(ctx context.Context, blockID string, children []workspace.BlockInput) ([]workspace.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx, OpAppendBlockChildren); err != nil {
		return nil, err
	}

	parent, isBlock := s.blocks[blockID]
	if _, isPage := s.pages[blockID]; !isPage && !isBlock {
		return nil, workspace.NotFound("block", blockID)
	}

	now := s.timestamp()
	out := make([]workspace.Block, 0, len(children))
	for _, in := range children {
		if in.Type == "" {
			return nil, workspace.Invalid("body.children should define a block type")
		}
		b := &workspace.Block{
			Object:         "block",
			ID:             uuid.NewString(),
			Type:           in.Type,
			CreatedTime:    now,
			LastEditedTime: now,
			Payload:        append(json.RawMessage(nil), in.Payload...),
		}
		if len(b.Payload) == 0 {
			b.Payload = json.RawMessage(`{}`)
		}
		s.blocks[b.ID] = b
		s.children[blockID] = append(s.children[blockID], b.ID)
		out = append(out, cloneBlock(b))
	}
	if isBlock && len(children) > 0 {
		parent.HasChildren = true
	}
	return out, nil
}

func cloneBlock(b *workspace.Block) workspace.Block {
	c := *b
	c.Payload = append(json.RawMessage(nil), b.Payload...)
	return c
}

var _ workspace.Store = (*Store)(nil)
