package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"hmerize/internal/engine"
	"hmerize/internal/hmer"
	"hmerize/internal/metrics"
	"hmerize/internal/primer"
	"hmerize/internal/record"
)

// Batch operation names, used as log attributes and metric labels.
const (
	OpKmers       = "kmers"
	OpTheoretical = "theoretical"
	OpPrimers     = "primers"
)

// DefaultChunkSize is the number of records per chunk when Config.ChunkSize is 0.
const DefaultChunkSize = 64

// enumChunk is the number of generated k-mers hashed per chunk.
const enumChunk = 1 << 12

// Config controls the batch operations.
type Config struct {
	Threads   int           // worker goroutines (>=1)
	ChunkSize int           // records per chunk (0 → DefaultChunkSize)
	Limits    engine.Config // scratch budget of the default engine
	Engine    Engine        // nil → engine.New(Limits)

	Logger  *slog.Logger     // nil discards
	Metrics *metrics.Metrics // nil discards
}

func (c Config) threads() int {
	if c.Threads < 1 {
		return 1
	}
	return c.Threads
}

func (c Config) chunkSize() int {
	if c.ChunkSize < 1 {
		return DefaultChunkSize
	}
	return c.ChunkSize
}

func (c Config) engine() Engine {
	if c.Engine != nil {
		return c.Engine
	}
	return engine.New(c.Limits)
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

/* -------------------------------------------------------------------------- */
/*                                  runner                                    */
/* -------------------------------------------------------------------------- */

// batch tracks one call: totals, timing and the final log line.
type batch struct {
	op    string
	cfg   Config
	log   *slog.Logger
	start time.Time

	mu     sync.Mutex
	chunks int
	total  engine.Stats
}

func newBatch(cfg Config, op string) *batch {
	return &batch{op: op, cfg: cfg, log: cfg.logger().With("op", op), start: time.Now()}
}

// chunkDone folds one chunk's stats into the totals. Callers hold b.mu.
func (b *batch) chunkDone(st engine.Stats) {
	b.chunks++
	b.total.Add(st)
	b.cfg.Metrics.ObserveChunk(b.op, st)
	b.log.Debug("chunk done", "chunk", b.chunks, "records", st.Records, "windows", st.Windows)
}

func (b *batch) finish(err error) error {
	d := time.Since(b.start)
	b.cfg.Metrics.ObserveBatch(b.op, d, err)
	if err != nil {
		b.log.Error("batch failed", "chunks", b.chunks, "err", err)
		return err
	}
	b.log.Info("batch done",
		"chunks", b.chunks,
		"records", b.total.Records,
		"windows", b.total.Windows,
		"variants", b.total.Variants,
		"skipped", b.total.Skipped,
		"elapsed", d)
	if b.total.OverBudget > 0 {
		lim := b.cfg.Limits.Limits.Effective()
		b.log.Warn("windows over scratch budget skipped",
			"windows", b.total.OverBudget,
			"max_variants", lim.MaxVariants,
			"max_cells", lim.MaxCells)
	}
	return nil
}

// run feeds record chunks to work on at most cfg.Threads goroutines. work
// runs unlocked; its result is handed to collect under b.mu. The first error
// cancels the remaining chunks.
func run[T any](
	ctx context.Context,
	b *batch,
	recs <-chan record.Record,
	work func(chunk []record.Record) ([]T, engine.Stats, error),
	collect func(T) error,
) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.threads())
	for chunk := range record.Chunks(gctx, recs, b.cfg.chunkSize()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, st, err := work(chunk)
			if err != nil {
				return err
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			b.chunkDone(st)
			for _, r := range res {
				if err := collect(r); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

/* -------------------------------------------------------------------------- */
/*                                operations                                  */
/* -------------------------------------------------------------------------- */

// ExtractKmers returns the distinct hmers of every record keyed by record id.
// Any failure discards all results.
func ExtractKmers(ctx context.Context, cfg Config, recs <-chan record.Record, sizes []int) (map[uint64][]hmer.Pack, error) {
	b := newBatch(cfg, OpKmers)
	sizes, err := hmer.CheckSizes(sizes)
	if err != nil {
		return nil, b.finish(err)
	}
	eng := cfg.engine()
	out := make(map[uint64][]hmer.Pack)
	err = run(ctx, b, recs,
		func(chunk []record.Record) ([]hmer.Parsed, engine.Stats, error) {
			return eng.ParseChunk(chunk, sizes)
		},
		func(p hmer.Parsed) error {
			if _, dup := out[p.SeqID]; dup {
				return engine.DuplicateID("parse", p.SeqID)
			}
			out[p.SeqID] = p.Hmers
			return nil
		})
	if err != nil {
		return nil, b.finish(err)
	}
	return out, b.finish(nil)
}

// ExtractTheoretical hashes unambiguous k-mers of one size into a set.
func ExtractTheoretical(kmers []string, size int) (map[hmer.Hash]struct{}, error) {
	return engine.New(engine.Config{}).Theoretical(kmers, size)
}

// TheoreticalSpace hashes every A/C/G/T k-mer of each size. Sizes above
// hmer.MaxEnumerableSize are refused with hmer.ErrSizeOverflow.
func TheoreticalSpace(ctx context.Context, cfg Config, sizes []int) (map[hmer.Hash]struct{}, error) {
	b := newBatch(cfg, OpTheoretical)
	sizes, err := hmer.CheckSizes(sizes)
	if err != nil {
		return nil, b.finish(err)
	}
	for _, k := range sizes {
		if k > hmer.MaxEnumerableSize {
			return nil, b.finish(fmt.Errorf("k-mer size %d: %w (enumeration max %d)", k, hmer.ErrSizeOverflow, hmer.MaxEnumerableSize))
		}
	}
	total, _ := hmer.TheoreticalTotal(sizes)
	eng := cfg.engine()
	out := make(map[hmer.Hash]struct{}, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.threads())
	submit := func(kmers []string, size int) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			set, err := eng.Theoretical(kmers, size)
			if err != nil {
				return err
			}
			n := uint64(len(kmers))
			b.mu.Lock()
			defer b.mu.Unlock()
			b.chunkDone(engine.Stats{Records: n, Windows: n, Variants: n})
			for h := range set {
				out[h] = struct{}{}
			}
			return nil
		})
	}
	for _, k := range sizes {
		buf := make([]string, 0, enumChunk)
		hmer.Enumerate(k, func(kmer string) bool {
			buf = append(buf, kmer)
			if len(buf) == enumChunk {
				submit(buf, k)
				buf = make([]string, 0, enumChunk)
			}
			return gctx.Err() == nil
		})
		if len(buf) > 0 {
			submit(buf, k)
		}
	}
	if err := g.Wait(); err != nil {
		return nil, b.finish(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, b.finish(err)
	}
	return out, b.finish(nil)
}

// MatchPrimers scans every record for every primer. The result maps target
// id to primer id to match state. Any failure discards all results.
func MatchPrimers(ctx context.Context, cfg Config, recs <-chan record.Record, primers []record.Record) (map[uint64]map[uint64]primer.State, error) {
	b := newBatch(cfg, OpPrimers)
	eng := cfg.engine()
	built, err := eng.BuildPrimers(primers)
	if err != nil {
		return nil, b.finish(err)
	}
	b.log.Debug("primers built", "primers", len(built))

	out := make(map[uint64]map[uint64]primer.State)
	err = run(ctx, b, recs,
		func(chunk []record.Record) ([]engine.Matched, engine.Stats, error) {
			return eng.MatchChunk(chunk, built)
		},
		func(m engine.Matched) error {
			if _, dup := out[m.SeqID]; dup {
				return engine.DuplicateID("match", m.SeqID)
			}
			states := make(map[uint64]primer.State, len(m.States))
			for _, st := range m.States {
				states[st.PrimerID] = st
			}
			out[m.SeqID] = states
			return nil
		})
	if err != nil {
		return nil, b.finish(err)
	}
	return out, b.finish(nil)
}
