// Package content materializes a page's block tree into ContentBlocks.
package content

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"portfolio/internal/domain"
	"portfolio/internal/domain/models"
	"portfolio/internal/domain/repositories"
	"portfolio/internal/metrics"
	"portfolio/internal/workspace"
)

// Default traversal limits
const (
	DefaultMaxDepth    = 16
	DefaultMaxNodes    = 5000
	DefaultConcurrency = 4
)

// Limits bound a single tree fetch.
type Limits struct {
	// MaxDepth is the deepest level whose children are fetched. Blocks at
	// this depth that report children are returned with Truncated set.
	MaxDepth int
	// MaxNodes aborts the fetch with domain.ErrContentTooLarge once exceeded.
	MaxNodes int
	// Concurrency bounds sibling fetches within one level.
	Concurrency int
}

func (l Limits) withDefaults() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxNodes <= 0 {
		l.MaxNodes = DefaultMaxNodes
	}
	if l.Concurrency <= 0 {
		l.Concurrency = DefaultConcurrency
	}
	return l
}

// Translator walks a block tree level by level using an explicit worklist.
type Translator struct {
	blocks  repositories.BlockRepository
	limits  Limits
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewTranslator creates a Translator. m may be nil.
func NewTranslator(blocks repositories.BlockRepository, limits Limits, m *metrics.Metrics, logger *slog.Logger) *Translator {
	return &Translator{
		blocks:  blocks,
		limits:  limits.withDefaults(),
		metrics: m,
		logger:  logger,
	}
}

// pending is a block whose children still have to be fetched into dest.
type pending struct {
	id    string
	depth int
	dest  *[]models.ContentBlock
}

// Tree fetches every descendant of rootID and returns the top-level blocks.
// Child order matches the store. Any failed fetch aborts the whole tree.
func (t *Translator) Tree(ctx context.Context, rootID string) ([]models.ContentBlock, error) {
	var roots []models.ContentBlock
	level := []pending{{id: rootID, depth: 1, dest: &roots}}
	nodes := 0

	for len(level) > 0 {
		fetched, err := t.fetchLevel(ctx, level)
		if err != nil {
			return nil, err
		}

		var next []pending
		for i, p := range level {
			nodes += len(fetched[i])
			if nodes > t.limits.MaxNodes {
				t.logger.Warn("block tree exceeds node limit",
					"root_id", rootID,
					"limit", t.limits.MaxNodes,
				)
				return nil, &domain.ContentTooLargeError{
					Message: fmt.Sprintf("content has more than %d blocks", t.limits.MaxNodes),
					Limit:   t.limits.MaxNodes,
				}
			}

			out := make([]models.ContentBlock, len(fetched[i]))
			for j, raw := range fetched[i] {
				block, err := Normalize(raw)
				if err != nil {
					return nil, err
				}
				out[j] = block
			}
			*p.dest = out

			for j := range out {
				if !out[j].HasChildren {
					continue
				}
				if p.depth >= t.limits.MaxDepth {
					out[j].Truncated = true
					continue
				}
				next = append(next, pending{id: out[j].ID, depth: p.depth + 1, dest: &out[j].Children})
			}
		}
		level = next
	}

	if roots == nil {
		roots = []models.ContentBlock{}
	}
	if t.metrics != nil {
		t.metrics.BlockTreeNodes.Observe(float64(nodes))
	}
	t.logger.Debug("block tree fetched", "root_id", rootID, "nodes", nodes)
	return roots, nil
}

// fetchLevel lists the children of every pending block concurrently.
// Results are indexed like level so sibling order survives.
func (t *Translator) fetchLevel(ctx context.Context, level []pending) ([][]workspace.Block, error) {
	results := make([][]workspace.Block, len(level))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.limits.Concurrency)
	for i, p := range level {
		g.Go(func() error {
			blocks, err := t.blocks.ListChildren(gctx, p.id)
			if err != nil {
				return fmt.Errorf("fetch children of %s: %w", p.id, err)
			}
			results[i] = blocks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
