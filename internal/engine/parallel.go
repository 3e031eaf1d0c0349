package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// SearchParallel splits the root moves of side across the configured
// workers. Each worker owns a copy of l and its own Searcher; the tables
// are shared. Root moves are scored with a full window, so the result is
// the same move, score and node count as the serial search.
//
// l itself is only read.
func (e *Engine) SearchParallel(ctx context.Context, l *board.Layout, side board.Color, depth int) (Result, error) {
	if err := checkDepth(depth); err != nil {
		return Result{Move: board.NoMove, Status: StatusNotSearched}, err
	}
	startTime := time.Now()

	moves := append([]board.Move(nil), e.Moves(l, side)...)
	scores := make([]int, len(moves))

	workers := e.workers
	if workers > len(moves) {
		workers = len(moves)
	}
	nodes := make([]uint64, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			local := *l
			s := NewSearcher(e.attacks, e.eval)
			sign := side.Sign()

			for i := w; i < len(moves); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				scores[i] = s.scoreRootMove(&local, moves[i], depth, sign)
			}
			nodes[w] = s.Nodes()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{Move: board.NoMove, Status: StatusNotSearched}, err
	}

	res := Result{Move: board.NoMove, Score: -Infinity, Status: StatusNoMove, Nodes: 1}
	for _, n := range nodes {
		res.Nodes += n
	}

	for i, m := range moves {
		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Move:  m,
				Score: scores[i],
				Nodes: res.Nodes,
				Time:  time.Since(startTime),
			})
		}
		res.consider(m, scores[i])
	}

	return res, nil
}
