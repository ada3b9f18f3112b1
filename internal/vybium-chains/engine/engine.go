// Package engine drives the chain search: every round combines all chains
// found so far into chains one element longer and offers them to the
// database.
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
	"github.com/vybium/vybium-chains/internal/vybium-chains/database"
	"github.com/vybium/vybium-chains/internal/vybium-chains/utils"
)

var signs = [2]bool{true, false}

// RoundStats summarizes one extension round.
type RoundStats struct {
	Round        int // 1-based; round r produces chains of length r+1
	Pairs        int // ordered chain pairs examined
	SkippedPairs int // pairs whose merge has the wrong length
	Candidates   int // nodes constructed
	Admitted     int
	Duplicates   int
	Longer       int
	NonPositive  int
	Invalid      int
	Duration     time.Duration
}

func (s *RoundStats) add(o RoundStats) {
	s.Pairs += o.Pairs
	s.SkippedPairs += o.SkippedPairs
	s.Candidates += o.Candidates
	s.Admitted += o.Admitted
	s.Duplicates += o.Duplicates
	s.Longer += o.Longer
	s.NonPositive += o.NonPositive
	s.Invalid += o.Invalid
}

// RoundResult is the output of one round.
type RoundResult struct {
	Stats  RoundStats
	Chains []core.Chain // chains stored at the new length, sorted
}

// Engine extends a chain database round by round.
type Engine struct {
	db          *database.Database
	maxBitWidth int
	workers     int
	timeout     time.Duration
	logger      *zap.Logger
	metrics     *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the collectors updated after each round.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an engine writing to db.
func New(db *database.Database, cfg *utils.Config, opts ...Option) (*Engine, error) {
	if db == nil {
		return nil, errors.New("database must not be nil")
	}
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	e := &Engine{
		db:          db,
		maxBitWidth: cfg.MaxBitWidth,
		workers:     cfg.Workers,
		timeout:     cfg.Timeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Database returns the database the engine writes to
func (e *Engine) Database() *database.Database {
	return e.db
}

// Run executes the given number of rounds starting from h and returns the
// extended history together with the statistics of every completed round.
// On error the history and statistics of the completed rounds are returned.
func (e *Engine) Run(ctx context.Context, h History, rounds int) (History, []RoundStats, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	stats := make([]RoundStats, 0, rounds)
	for i := 0; i < rounds; i++ {
		res, err := e.ExtendRound(ctx, h)
		if err != nil {
			return h, stats, err
		}
		h = append(h, res.Chains)
		stats = append(stats, res.Stats)
	}
	return h, stats, nil
}

// ExtendRound combines every ordered pair of chains in h. A pair (cp, cq) is
// used only when merging cq into cp yields a chain of length h.Level(); the
// merged chain is then extended by (±)cp.last + (±)cq.last·2^r for every
// shift that keeps the node within the maximum bit width.
//
// The output holds every generated chain the database stores at the new
// length, including chains an earlier, canceled attempt of the same round
// already admitted. Re-running a round therefore rebuilds its full output.
func (e *Engine) ExtendRound(ctx context.Context, h History) (*RoundResult, error) {
	if err := ValidateHistory(h); err != nil {
		return nil, err
	}

	start := time.Now()
	level := h.Level()
	all := h.All()

	workers := e.workers
	if workers > len(all) {
		workers = len(all)
	}

	partial := make([]RoundStats, workers)
	outputs := make([][]core.Chain, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := w; i < len(all); i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := e.extendFrom(all[i], all, level, &partial[w])
				if err != nil {
					return err
				}
				outputs[w] = append(outputs[w], out...)
			}
			e.logger.Debug("worker finished",
				zap.Int("round", level),
				zap.Int("worker", w),
				zap.Int("admitted", partial[w].Admitted))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &RoundResult{Stats: RoundStats{Round: level}}
	for w := range partial {
		res.Stats.add(partial[w])
		res.Chains = append(res.Chains, outputs[w]...)
	}
	res.Chains = sortUnique(res.Chains)
	res.Stats.Duration = time.Since(start)

	values := e.db.Len()
	e.metrics.observe(res.Stats, values)
	e.logger.Info("round complete",
		zap.Int("round", res.Stats.Round),
		zap.Int("history", len(all)),
		zap.Int("pairs", res.Stats.Pairs),
		zap.Int("candidates", res.Stats.Candidates),
		zap.Int("admitted", res.Stats.Admitted),
		zap.Int("values", values),
		zap.Duration("duration", res.Stats.Duration))

	return res, nil
}

func (e *Engine) extendFrom(cp core.Chain, all []core.Chain, level int, stats *RoundStats) ([]core.Chain, error) {
	var out []core.Chain
	seen := make(map[[32]byte]struct{})
	keep := func(c core.Chain) {
		fp := c.Fingerprint()
		if _, ok := seen[fp]; !ok {
			seen[fp] = struct{}{}
			out = append(out, c)
		}
	}
	p := cp.Last()

	for _, cq := range all {
		stats.Pairs++
		merged, err := cp.Merge(cq)
		if err != nil {
			return nil, errors.Wrapf(err, "merging %s with %s", cp, cq)
		}
		if merged.Len() != level {
			stats.SkippedPairs++
			continue
		}

		present := make(map[int64]struct{}, merged.Len())
		for _, v := range merged.Values() {
			present[v] = struct{}{}
		}

		q := cq.Last()
		for r := 1; r <= e.maxBitWidth-q.Width(); r++ {
			for _, lp := range signs {
				for _, rp := range signs {
					n, err := core.NewOddClass(lp, p, rp, q, r)
					if err != nil {
						stats.Invalid++
						continue
					}
					stats.Candidates++
					if n.Value() <= 0 {
						stats.NonPositive++
						continue
					}
					if _, dup := present[n.Value()]; dup {
						stats.Duplicates++
						continue
					}

					candidate := merged.Append(n)
					switch e.db.Admit(candidate) {
					case database.Admitted:
						stats.Admitted++
						keep(candidate)
					case database.Duplicate:
						stats.Duplicates++
						keep(candidate)
					case database.Longer:
						stats.Longer++
					default:
						stats.Invalid++
					}
				}
			}
		}
	}
	return out, nil
}

// sortUnique sorts chains by value sequence and drops repeats.
func sortUnique(chains []core.Chain) []core.Chain {
	sort.Slice(chains, func(i, j int) bool {
		return chains[i].Compare(chains[j]) < 0
	})
	out := chains[:0]
	for i, c := range chains {
		if i > 0 && c.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, c)
	}
	return out
}
