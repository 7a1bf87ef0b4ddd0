package workspacedb

import (
	"context"
	"log/slog"

	"portfolio/internal/domain/repositories"
	"portfolio/internal/workspace"
)

// BlockRepository reads page content from the store
type BlockRepository struct {
	store    workspace.Store
	pageSize int
	logger   *slog.Logger
}

// NewBlockRepository creates a new BlockRepository
func NewBlockRepository(cfg *RepositoryConfig) repositories.BlockRepository {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = workspace.DefaultPageSize
	}
	return &BlockRepository{
		store:    cfg.Store,
		pageSize: pageSize,
		logger:   cfg.Logger,
	}
}

// ListChildren walks every result page of blockID's children
func (r *BlockRepository) ListChildren(ctx context.Context, blockID string) ([]workspace.Block, error) {
	blocks := []workspace.Block{}
	cursor := ""
	for {
		list, err := r.store.ListBlockChildren(ctx, blockID, cursor, r.pageSize)
		if err != nil {
			return nil, mapStoreError("list block children", "Block", err)
		}
		blocks = append(blocks, list.Results...)

		if !list.HasMore || list.NextCursor == nil || *list.NextCursor == "" {
			return blocks, nil
		}
		cursor = *list.NextCursor
	}
}
