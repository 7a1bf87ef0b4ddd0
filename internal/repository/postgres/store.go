// Package postgres is a self-hosted workspace.Store on PostgreSQL. Pages
// keep their typed properties as JSONB; blocks keep their type payload as
// JSONB and are ordered by position under their parent.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio/internal/workspace"
)

// Store implements workspace.Store.
type Store struct {
	pool      *pgxpool.Pool
	tables    *TableNames
	txManager *TxManager
	logger    *slog.Logger

	// BaseURL prefixes page URLs.
	BaseURL string
}

// NewStore creates a store over an already migrated database.
func NewStore(config *RepositoryConfig) *Store {
	return &Store{
		pool:      config.Pool,
		tables:    config.Tables,
		txManager: NewTxManager(config.Pool, config.Logger),
		logger:    config.Logger,
		BaseURL:   "https://workspace.local/",
	}
}

func (s *Store) pageColumns() string {
	return "id, database_id, properties, archived, created_time, last_edited_time"
}

func (s *Store) blockColumns() string {
	return "id, type, payload, has_children, archived, created_time, last_edited_time"
}

func (s *Store) CreatePage(ctx context.Context, databaseID string, props workspace.Properties) (*workspace.Page, error) {
	if databaseID == "" {
		return nil, workspace.Invalid("parent.database_id should be defined")
	}
	data, err := json.Marshal(workspace.Normalize(props))
	if err != nil {
		return nil, fmt.Errorf("marshal properties: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, database_id, properties)
		VALUES ($1, $2, $3::jsonb)
		RETURNING %s
	`, s.tables.Pages, s.pageColumns())

	row := GetExecutor(ctx, s.pool).QueryRow(ctx, query, uuid.NewString(), databaseID, string(data))
	page, err := s.scanPage(row)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	s.logger.Debug("page created", "id", page.ID, "database_id", databaseID)
	return page, nil
}

// QueryDatabase pushes the filter down as a JSONB predicate. Results come
// back in insertion order, all in one round trip.
func (s *Store) QueryDatabase(ctx context.Context, databaseID string, q *workspace.Query) ([]workspace.Page, error) {
	var filter *workspace.Filter
	if q != nil {
		filter = q.Filter
	}

	args := []any{databaseID}
	where := "database_id = $1 AND NOT archived"
	if cond, ok := filterSQL(filter); ok {
		where += " AND " + cond
		args = append(args, filter.Property, filterValue(filter))
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY seq`, s.pageColumns(), s.tables.Pages, where)

	rows, err := GetExecutor(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query database: %w", err)
	}
	defer rows.Close()

	pages := []workspace.Page{}
	for rows.Next() {
		page, err := s.scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}
	return pages, nil
}

// filterSQL returns the predicate for f, with the property name as $2 and
// the compared value as $3.
func filterSQL(f *workspace.Filter) (string, bool) {
	switch {
	case f == nil:
		return "", false
	case f.Title != nil:
		return "properties->($2::text)->'title'->0->>'plain_text' = $3", true
	case f.RichText != nil:
		return "properties->($2::text)->'rich_text'->0->>'plain_text' = $3", true
	case f.Status != nil:
		return "properties->($2::text)->'status'->>'name' = $3", true
	}
	return "", false
}

func filterValue(f *workspace.Filter) string {
	switch {
	case f.Title != nil:
		return f.Title.Equals
	case f.RichText != nil:
		return f.RichText.Equals
	default:
		return f.Status.Equals
	}
}

func (s *Store) RetrievePage(ctx context.Context, pageID string) (*workspace.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, s.pageColumns(), s.tables.Pages)

	page, err := s.scanPage(GetExecutor(ctx, s.pool).QueryRow(ctx, query, pageID))
	if err != nil {
		return nil, storeError(err, "retrieve page", "page", pageID)
	}
	return page, nil
}

// UpdatePage merges props into the stored properties key by key.
func (s *Store) UpdatePage(ctx context.Context, pageID string, props workspace.Properties) (*workspace.Page, error) {
	data, err := json.Marshal(workspace.Normalize(props))
	if err != nil {
		return nil, fmt.Errorf("marshal properties: %w", err)
	}

	var page *workspace.Page
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		current, err := s.lockPage(txCtx, pageID)
		if err != nil {
			return err
		}
		if current.Archived {
			return workspace.Invalid("Can't edit block that is archived. You must unarchive the block before editing.")
		}

		query := fmt.Sprintf(`
			UPDATE %s
			SET properties = properties || $2::jsonb, last_edited_time = now()
			WHERE id = $1
			RETURNING %s
		`, s.tables.Pages, s.pageColumns())

		page, err = s.scanPage(GetExecutor(txCtx, s.pool).QueryRow(txCtx, query, pageID, string(data)))
		if err != nil {
			return fmt.Errorf("update page: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *Store) lockPage(ctx context.Context, pageID string) (*workspace.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, s.pageColumns(), s.tables.Pages)

	page, err := s.scanPage(GetExecutor(ctx, s.pool).QueryRow(ctx, query, pageID))
	if err != nil {
		return nil, storeError(err, "lock page", "page", pageID)
	}
	return page, nil
}

func (s *Store) ArchivePage(ctx context.Context, pageID string) (*workspace.Page, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET archived = TRUE, last_edited_time = now()
		WHERE id = $1
		RETURNING %s
	`, s.tables.Pages, s.pageColumns())

	page, err := s.scanPage(GetExecutor(ctx, s.pool).QueryRow(ctx, query, pageID))
	if err != nil {
		return nil, storeError(err, "archive page", "page", pageID)
	}

	s.logger.Debug("page archived", "id", pageID)
	return page, nil
}

// ListBlockChildren pages through children by position. The cursor is the
// position of the first child on the next page.
func (s *Store) ListBlockChildren(ctx context.Context, blockID, cursor string, pageSize int) (*workspace.BlockList, error) {
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

	exists, err := s.parentExists(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, workspace.NotFound("block", blockID)
	}

	query := fmt.Sprintf(`
		SELECT position, %s FROM %s
		WHERE parent_id = $1 AND position >= $2
		ORDER BY position
		LIMIT $3
	`, s.blockColumns(), s.tables.Blocks)

	rows, err := GetExecutor(ctx, s.pool).Query(ctx, query, blockID, start, pageSize+1)
	if err != nil {
		return nil, fmt.Errorf("list block children: %w", err)
	}
	defer rows.Close()

	list := &workspace.BlockList{Object: "list", Results: make([]workspace.Block, 0, pageSize)}
	for rows.Next() {
		var position int
		var b workspace.Block
		var payload []byte
		var created, edited time.Time
		if err := rows.Scan(&position, &b.ID, &b.Type, &payload, &b.HasChildren, &b.Archived, &created, &edited); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		if len(list.Results) == pageSize {
			next := strconv.Itoa(position)
			list.NextCursor = &next
			list.HasMore = true
			break
		}
		b.Object = "block"
		b.Payload = json.RawMessage(payload)
		b.CreatedTime = formatTime(created)
		b.LastEditedTime = formatTime(edited)
		list.Results = append(list.Results, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return list, nil
}

// AppendBlockChildren inserts children after the parent's last child. A
// transaction-scoped advisory lock on the parent serialises concurrent
// appends so positions stay dense.
func (s *Store) AppendBlockChildren(ctx context.Context, blockID string, children []workspace.BlockInput) ([]workspace.Block, error) {
	for _, in := range children {
		if in.Type == "" {
			return nil, workspace.Invalid("body.children should define a block type")
		}
	}

	var out []workspace.Block
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		db := GetExecutor(txCtx, s.pool)

		exists, err := s.parentExists(txCtx, blockID)
		if err != nil {
			return err
		}
		if !exists {
			return workspace.NotFound("block", blockID)
		}

		if _, err := db.Exec(txCtx, `SELECT pg_advisory_xact_lock(hashtext($1))`, blockID); err != nil {
			return fmt.Errorf("lock parent: %w", err)
		}

		var next int
		nextQuery := fmt.Sprintf(`SELECT COALESCE(MAX(position) + 1, 0) FROM %s WHERE parent_id = $1`, s.tables.Blocks)
		if err := db.QueryRow(txCtx, nextQuery, blockID).Scan(&next); err != nil {
			return fmt.Errorf("next position: %w", err)
		}

		insert := fmt.Sprintf(`
			INSERT INTO %s (id, parent_id, position, type, payload)
			VALUES ($1, $2, $3, $4, $5::jsonb)
			RETURNING %s
		`, s.tables.Blocks, s.blockColumns())

		out = make([]workspace.Block, 0, len(children))
		for i, in := range children {
			payload := in.Payload
			if len(payload) == 0 {
				payload = json.RawMessage(`{}`)
			}
			b, err := scanBlock(db.QueryRow(txCtx, insert, uuid.NewString(), blockID, next+i, in.Type, string(payload)))
			if err != nil {
				return storeError(err, "insert block", "block", blockID)
			}
			out = append(out, *b)
		}

		if len(children) > 0 {
			mark := fmt.Sprintf(`UPDATE %s SET has_children = TRUE, last_edited_time = now() WHERE id = $1`, s.tables.Blocks)
			if _, err := db.Exec(txCtx, mark, blockID); err != nil {
				return fmt.Errorf("mark parent: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) parentExists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)
		    OR EXISTS (SELECT 1 FROM %s WHERE id = $1)
	`, s.tables.Pages, s.tables.Blocks)

	var exists bool
	if err := GetExecutor(ctx, s.pool).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check parent: %w", err)
	}
	return exists, nil
}

func (s *Store) scanPage(row pgx.Row) (*workspace.Page, error) {
	var page workspace.Page
	var databaseID string
	var props []byte
	var created, edited time.Time

	if err := row.Scan(&page.ID, &databaseID, &props, &page.Archived, &created, &edited); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(props, &page.Properties); err != nil {
		return nil, fmt.Errorf("decode properties of %s: %w", page.ID, err)
	}

	page.Object = "page"
	page.URL = s.BaseURL + page.ID
	page.Parent = workspace.Parent{Type: "database_id", DatabaseID: databaseID}
	page.CreatedTime = formatTime(created)
	page.LastEditedTime = formatTime(edited)
	return &page, nil
}

func scanBlock(row pgx.Row) (*workspace.Block, error) {
	var b workspace.Block
	var payload []byte
	var created, edited time.Time

	if err := row.Scan(&b.ID, &b.Type, &payload, &b.HasChildren, &b.Archived, &created, &edited); err != nil {
		return nil, err
	}
	b.Object = "block"
	b.Payload = json.RawMessage(payload)
	b.CreatedTime = formatTime(created)
	b.LastEditedTime = formatTime(edited)
	return &b, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(workspace.TimeLayout)
}

var _ workspace.Store = (*Store)(nil)
