package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/workspace"
)

// newTestStore migrates a fresh table prefix on TEST_DATABASE_URL and drops
// it afterwards. Skipped when the variable is unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := CreateConnectionPool(ctx, url)
	require.NoError(t, err)

	prefix := "t" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + "_"
	tables := NewTableNames(prefix)
	require.NoError(t, Migrate(ctx, pool, tables))

	t.Cleanup(func() {
		_ = DropTables(context.Background(), pool, tables)
		pool.Close()
	})

	return NewStore(&RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")
	assert.Equal(t, "dev_pages", tables.Pages)
	assert.Equal(t, "dev_blocks", tables.Blocks)
}

func TestFilterSQL(t *testing.T) {
	_, ok := filterSQL(nil)
	assert.False(t, ok)

	cond, ok := filterSQL(workspace.StatusEquals("Status", "Done").Filter)
	require.True(t, ok)
	assert.Contains(t, cond, "'status'->>'name'")
	assert.Equal(t, "Done", filterValue(workspace.StatusEquals("Status", "Done").Filter))

	cond, ok = filterSQL(workspace.TitleEquals("Email", "a@b.co").Filter)
	require.True(t, ok)
	assert.Contains(t, cond, "'title'->0->>'plain_text'")
}

func TestStore_PageLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page, err := s.CreatePage(ctx, "db", workspace.Properties{
		"Name":   workspace.TitleProperty("Alpha"),
		"Status": workspace.StatusProperty("Done"),
	})
	require.NoError(t, err)
	assert.Equal(t, "page", page.Object)
	assert.Equal(t, "db", page.Parent.DatabaseID)
	assert.Equal(t, "Alpha", page.Properties["Name"].Title[0].PlainText)

	_, err = s.CreatePage(ctx, "db", workspace.Properties{
		"Name":   workspace.TitleProperty("Beta"),
		"Status": workspace.StatusProperty("Not Started"),
	})
	require.NoError(t, err)

	all, err := s.QueryDatabase(ctx, "db", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, page.ID, all[0].ID)

	done, err := s.QueryDatabase(ctx, "db", workspace.StatusEquals("Status", "Done"))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, page.ID, done[0].ID)

	updated, err := s.UpdatePage(ctx, page.ID, workspace.Properties{"Details": workspace.RichTextProperty("x")})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", updated.Properties["Name"].Title[0].PlainText)
	assert.Equal(t, "x", updated.Properties["Details"].RichText[0].PlainText)

	_, err = s.ArchivePage(ctx, page.ID)
	require.NoError(t, err)

	all, err = s.QueryDatabase(ctx, "db", nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	archived, err := s.RetrievePage(ctx, page.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	_, err = s.UpdatePage(ctx, page.ID, workspace.Properties{"Details": workspace.RichTextProperty("y")})
	var apiErr *workspace.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, workspace.CodeValidationError, apiErr.Code)
}

func TestStore_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.RetrievePage(ctx, "missing")
	assert.True(t, workspace.IsNotFound(err))

	_, err = s.ArchivePage(ctx, "missing")
	assert.True(t, workspace.IsNotFound(err))

	_, err = s.ListBlockChildren(ctx, "missing", "", 10)
	assert.True(t, workspace.IsNotFound(err))
}

func TestStore_BlockChildrenPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page, err := s.CreatePage(ctx, "db", workspace.Properties{"Name": workspace.TitleProperty("Doc")})
	require.NoError(t, err)

	inputs := make([]workspace.BlockInput, 5)
	for i := range inputs {
		in, err := workspace.NewBlockInput("paragraph", map[string]any{"rich_text": []any{}})
		require.NoError(t, err)
		inputs[i] = in
	}
	created, err := s.AppendBlockChildren(ctx, page.ID, inputs)
	require.NoError(t, err)
	require.Len(t, created, 5)

	first, err := s.ListBlockChildren(ctx, page.ID, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Results, 2)
	assert.True(t, first.HasMore)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, created[0].ID, first.Results[0].ID)

	var ids []string
	cursor := ""
	for {
		list, err := s.ListBlockChildren(ctx, page.ID, cursor, 2)
		require.NoError(t, err)
		for _, b := range list.Results {
			ids = append(ids, b.ID)
		}
		if !list.HasMore {
			break
		}
		cursor = *list.NextCursor
	}
	require.Len(t, ids, 5)
	assert.Equal(t, created[4].ID, ids[4])

	nested, err := workspace.NewBlockInput("paragraph", map[string]any{"rich_text": []any{}})
	require.NoError(t, err)
	_, err = s.AppendBlockChildren(ctx, created[0].ID, []workspace.BlockInput{nested})
	require.NoError(t, err)

	list, err := s.ListBlockChildren(ctx, page.ID, "", 1)
	require.NoError(t, err)
	assert.True(t, list.Results[0].HasChildren)
	assert.JSONEq(t, `{"rich_text":[]}`, string(list.Results[0].Payload))
}

func TestStore_AppendRejectsUntypedBlock(t *testing.T) {
	s := &Store{}
	_, err := s.AppendBlockChildren(context.Background(), "parent", []workspace.BlockInput{{}})
	var apiErr *workspace.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, workspace.CodeValidationError, apiErr.Code)
}
