package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/workspace"
)

func paragraph(t *testing.T, text string) workspace.BlockInput {
	t.Helper()
	in, err := workspace.NewBlockInput("paragraph", map[string]any{
		"rich_text": []map[string]any{{"type": "text", "text": map[string]any{"content": text}}},
	})
	require.NoError(t, err)
	return in
}

func TestStore_QueryExcludesArchivedAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	var ids []string
	for _, status := range []string{"Done", "In Progress", "Done"} {
		p, err := s.CreatePage(ctx, "db", workspace.Properties{"Status": workspace.StatusProperty(status)})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	_, err := s.ArchivePage(ctx, ids[0])
	require.NoError(t, err)

	all, err := s.QueryDatabase(ctx, "db", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ids[1], all[0].ID)
	assert.Equal(t, ids[2], all[1].ID)

	done, err := s.QueryDatabase(ctx, "db", workspace.StatusEquals("Status", "Done"))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, ids[2], done[0].ID)
}

func TestStore_UpdateMergesProperties(t *testing.T) {
	ctx := context.Background()
	s := New()

	p, err := s.CreatePage(ctx, "db", workspace.Properties{
		"Email": workspace.TitleProperty("a@b.c"),
		"Phone": workspace.RichTextProperty("1"),
	})
	require.NoError(t, err)

	updated, err := s.UpdatePage(ctx, p.ID, workspace.Properties{"Phone": workspace.RichTextProperty("2")})
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", updated.Properties["Email"].Title[0].PlainText)
	assert.Equal(t, "2", updated.Properties["Phone"].RichText[0].PlainText)
}

func TestStore_RetrieveUnknownPage(t *testing.T) {
	_, err := New().RetrievePage(context.Background(), "missing")
	assert.True(t, workspace.IsNotFound(err))
}

func TestStore_BlockChildrenPagination(t *testing.T) {
	ctx := context.Background()
	s := New()

	page, err := s.CreatePage(ctx, "db", workspace.Properties{})
	require.NoError(t, err)

	inputs := make([]workspace.BlockInput, 5)
	for i := range inputs {
		inputs[i] = paragraph(t, "p")
	}
	appended, err := s.AppendBlockChildren(ctx, page.ID, inputs)
	require.NoError(t, err)
	require.Len(t, appended, 5)

	first, err := s.ListBlockChildren(ctx, page.ID, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Results, 2)
	require.True(t, first.HasMore)
	require.NotNil(t, first.NextCursor)

	second, err := s.ListBlockChildren(ctx, page.ID, *first.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Results, 2)

	third, err := s.ListBlockChildren(ctx, page.ID, *second.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, third.Results, 1)
	assert.False(t, third.HasMore)
	assert.Nil(t, third.NextCursor)

	assert.Equal(t, appended[4].ID, third.Results[0].ID)
}

func TestStore_AppendMarksParentBlock(t *testing.T) {
	ctx := context.Background()
	s := New()

	page, err := s.CreatePage(ctx, "db", workspace.Properties{})
	require.NoError(t, err)
	top, err := s.AppendBlockChildren(ctx, page.ID, []workspace.BlockInput{paragraph(t, "parent")})
	require.NoError(t, err)
	assert.False(t, top[0].HasChildren)

	_, err = s.AppendBlockChildren(ctx, top[0].ID, []workspace.BlockInput{paragraph(t, "child")})
	require.NoError(t, err)

	list, err := s.ListBlockChildren(ctx, page.ID, "", 0)
	require.NoError(t, err)
	assert.True(t, list.Results[0].HasChildren)
}

func TestStore_CallAccountingAndFailures(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, _ = s.QueryDatabase(ctx, "db", nil)
	_, _ = s.RetrievePage(ctx, "x")
	assert.Equal(t, 2, s.Calls())
	assert.Equal(t, 1, s.CallCount(OpQueryDatabase))

	boom := errors.New("boom")
	s.FailOn(OpQueryDatabase, boom)
	_, err := s.QueryDatabase(ctx, "db", nil)
	assert.ErrorIs(t, err, boom)

	s.FailOn(OpQueryDatabase, nil)
	_, err = s.QueryDatabase(ctx, "db", nil)
	assert.NoError(t, err)

	s.ResetCalls()
	assert.Zero(t, s.Calls())
}
