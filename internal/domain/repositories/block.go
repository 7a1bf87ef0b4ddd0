package repositories

import (
	"context"

	"portfolio/internal/workspace"
)

// BlockRepository reads raw block content
type BlockRepository interface {
	// ListChildren returns every direct child of blockID in store order,
	// walking all result pages.
	ListChildren(ctx context.Context, blockID string) ([]workspace.Block, error)
}
