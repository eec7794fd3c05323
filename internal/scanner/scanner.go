// Package scanner matches a batch of target pictures against compiled symbols
// using a bounded pool of workers.
//
// Every (target, symbol) pair is one unit of work. Graphs are immutable once
// compiled, so pairs sharing a symbol run in parallel without locking. Results
// are returned in job order and, within a job, in symbol order, whatever order
// the workers finish in.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/fsm"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/specialistvlad/glyphgrid/internal/symbolstore"
	"golang.org/x/sync/errgroup"
)

// Region is an inclusive crop rectangle applied to a target before matching.
type Region struct {
	X1, Y1, X2, Y2 int
}

// Job is one target picture and the symbols to look for in it.
type Job struct {
	Target  string
	Picture *picture.Picture
	// Region, when set, restricts matching to a crop of Picture.
	Region  *Region
	Symbols []*symbolstore.Symbol
}

// Result is the outcome of matching one symbol against one target. Match is
// nil when the symbol was not found. Err records failures that only affect
// this pair, such as an exhausted step budget or an invalid region.
type Result struct {
	Target   string
	Symbol   string
	Match    *fsm.Match
	Err      error
	Duration time.Duration
}

// Matched reports whether the symbol was found.
func (r Result) Matched() bool {
	return r.Match != nil
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers bounds the number of concurrent matches. Values below one
// select runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

// WithMaxSteps sets the per-match step budget. Zero means unbounded.
func WithMaxSteps(n int) Option {
	return func(s *Scanner) {
		s.maxSteps = n
	}
}

// Scanner runs jobs.
type Scanner struct {
	workers  int
	maxSteps int
}

// New creates a scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	return s
}

// Workers returns the effective worker limit.
func (s *Scanner) Workers() int {
	return s.workers
}

type pair struct {
	index  int
	target string
	grid   picture.Grid
	symbol *symbolstore.Symbol
	err    error
}

// Scan matches every job and returns one Result per (target, symbol) pair.
// It fails as a whole only when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, jobs []Job) ([]Result, error) {
	logger := ctxlog.FromContext(ctx)

	var pairs []pair
	for _, job := range jobs {
		grid, err := crop(job)
		if len(job.Symbols) == 0 {
			logger.Warn("Target has no symbols to match.", "target", job.Target)
		}
		for _, sym := range job.Symbols {
			pairs = append(pairs, pair{index: len(pairs), target: job.Target, grid: grid, symbol: sym, err: err})
		}
	}

	results := make([]Result, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	logger.Debug("Scan started.", "pairs", len(pairs), "workers", s.workers)

	for _, p := range pairs {
		p := p
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := s.match(gctx, p)
			results[p.index] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}

	logger.Debug("Scan finished.", "pairs", len(pairs))
	return results, nil
}

// match runs one pair. Only cancellation is returned as an error; everything
// else is recorded on the result.
func (s *Scanner) match(ctx context.Context, p pair) (Result, error) {
	res := Result{Target: p.target, Symbol: p.symbol.Name}
	if p.err != nil {
		res.Err = p.err
		return res, nil
	}

	logger := ctxlog.FromContext(ctx).With("target", p.target, "symbol", p.symbol.Name)
	opts := append(p.symbol.MatchOptions(), fsm.WithMaxSteps(s.maxSteps))

	start := time.Now()
	m, err := p.symbol.Graph.Identify(ctx, p.grid, opts...)
	res.Duration = time.Since(start)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return res, err
	case errors.Is(err, fsm.ErrStepBudget):
		logger.Warn("Step budget exhausted.", "max_steps", s.maxSteps)
		res.Err = err
	case err != nil:
		res.Err = err
	default:
		res.Match = m
		logger.Debug("Target matched.", "matched", m != nil, "duration", res.Duration)
	}
	return res, nil
}

func crop(job Job) (picture.Grid, error) {
	if job.Picture == nil {
		return nil, fmt.Errorf("target '%s' has no picture", job.Target)
	}
	if job.Region == nil {
		return job.Picture, nil
	}
	r := job.Region
	sub, err := job.Picture.Subpicture(r.X1, r.Y1, r.X2, r.Y2)
	if err != nil {
		return nil, fmt.Errorf("target '%s' region: %w", job.Target, err)
	}
	return sub, nil
}
