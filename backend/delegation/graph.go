package delegation

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// DefaultBatchSize bounds the number of parents passed to one EdgesFrom call.
const DefaultBatchSize = 500

// reachable reports whether target can be reached from start over the edges
// in store. The frontier is expanded one level at a time with a single
// batched lookup per chunk; each node is expanded at most once, so malformed
// data containing cycles still terminates.
func reachable(ctx context.Context, store EdgeStore, start, target uuid.UUID, batchSize int) (bool, error) {
	if start == target {
		return true, nil
	}
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	visited := map[uuid.UUID]struct{}{start: {}}
	frontier := []uuid.UUID{start}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		var next []uuid.UUID
		for chunk := range slices.Chunk(frontier, batchSize) {
			edges, err := store.EdgesFrom(ctx, chunk...)
			if err != nil {
				return false, err
			}
			for _, edge := range edges {
				if edge.ChildID == target {
					return true, nil
				}
				if _, ok := visited[edge.ChildID]; ok {
					continue
				}
				visited[edge.ChildID] = struct{}{}
				next = append(next, edge.ChildID)
			}
		}
		frontier = next
	}

	return false, nil
}
