package chunk

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LoadChunks reads and decodes the given chunks concurrently, with at most
// limit chunks in flight (unlimited when limit <= 0).
//
// The result is in the order of ids. The first failure cancels the chunks
// not yet started and is returned.
func LoadChunks(ctx context.Context, r *Reader, ids []int, limit int) ([]*Chunk, error) {
	out := make([]*Chunk, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, id := range ids {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			c, err := r.GetChunk(id)
			if err != nil {
				return err
			}
			out[i] = c

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
