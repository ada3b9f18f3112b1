package vybiumchains

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vybium/vybium-chains/internal/vybium-chains/database"
	"github.com/vybium/vybium-chains/internal/vybium-chains/engine"
	"github.com/vybium/vybium-chains/internal/vybium-chains/report"
	"github.com/vybium/vybium-chains/internal/vybium-chains/storage"
)

// Searcher runs the chain search
type Searcher interface {
	// Run executes the configured number of rounds, continuing from the
	// rounds already completed
	Run(ctx context.Context) (*SearchResult, error)

	// Database returns the chain database
	Database() *Database

	// History returns the chains of every completed round
	History() History

	// Report builds the sorted report of the database
	Report() (*Report, error)

	// WriteReport renders the report to w
	WriteReport(w io.Writer, opts ReportOptions) error

	// Export writes the prescriptions of every value below limit (0 = all) as YAML
	Export(w io.Writer, limit int64) error

	// Save stores the database in store
	Save(ctx context.Context, store *Store) (RunMeta, error)
}

// SearchResult summarizes a Run
type SearchResult struct {
	Rounds   []RoundStats
	Values   int
	Chains   int
	Duration time.Duration
}

// Option configures a Searcher
type Option func(*searcherImpl)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *searcherImpl) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegisterer registers the search metrics with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *searcherImpl) {
		s.registerer = reg
	}
}

// searcherImpl is the implementation of Searcher
type searcherImpl struct {
	config     *Config
	logger     *zap.Logger
	registerer prometheus.Registerer

	db      *database.Database
	engine  *engine.Engine
	history History
	rounds  int
}

// NewSearcher creates a searcher with an empty database
func NewSearcher(config *Config, opts ...Option) (Searcher, error) {
	if config == nil {
		return nil, &ChainError{Code: ErrInvalidConfig, Message: "config must not be nil"}
	}
	if err := config.Validate(); err != nil {
		return nil, &ChainError{Code: ErrInvalidConfig, Message: "invalid config", Cause: err}
	}

	s := &searcherImpl{
		config:  config.Clone(),
		logger:  zap.NewNop(),
		db:      database.New(),
		history: engine.NewHistory(),
	}
	for _, opt := range opts {
		opt(s)
	}

	engineOpts := []engine.Option{engine.WithLogger(s.logger)}
	if s.registerer != nil {
		engineOpts = append(engineOpts, engine.WithMetrics(engine.NewMetrics(s.registerer)))
	}
	e, err := engine.New(s.db, s.config, engineOpts...)
	if err != nil {
		return nil, wrap(ErrInvalidConfig, "creating engine", err)
	}
	s.engine = e
	return s, nil
}

// Run executes the configured number of rounds
func (s *searcherImpl) Run(ctx context.Context) (*SearchResult, error) {
	start := time.Now()
	h, stats, err := s.engine.Run(ctx, s.history, s.config.Rounds)
	s.history = h
	s.rounds += len(stats)

	res := &SearchResult{
		Rounds:   stats,
		Values:   s.db.Len(),
		Chains:   s.db.ChainCount(),
		Duration: time.Since(start),
	}
	if err != nil {
		return res, wrap(ErrUnknown, "search stopped", err)
	}
	s.logger.Info("search complete",
		zap.Int("rounds", s.rounds),
		zap.Int("values", res.Values),
		zap.Int("chains", res.Chains),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// Database returns the chain database
func (s *searcherImpl) Database() *Database {
	return s.db
}

// History returns the chains of every completed round
func (s *searcherImpl) History() History {
	return s.history
}

// Report builds the sorted report of the database
func (s *searcherImpl) Report() (*Report, error) {
	r, err := report.Build(s.db, s.config.MaxBitWidth)
	if err != nil {
		return nil, wrap(ErrInvalidConfig, "building report", err)
	}
	return r, nil
}

// WriteReport renders the report to w
func (s *searcherImpl) WriteReport(w io.Writer, opts ReportOptions) error {
	r, err := s.Report()
	if err != nil {
		return err
	}
	if !opts.AllChains {
		opts.AllChains = s.config.AllChains
	}
	return wrap(ErrUnknown, "writing report", report.Render(w, r, opts))
}

// Export writes the prescriptions as YAML
func (s *searcherImpl) Export(w io.Writer, limit int64) error {
	return wrap(ErrUnknown, "exporting prescriptions", report.ExportYAML(w, s.db, limit))
}

// Save stores the database in store
func (s *searcherImpl) Save(ctx context.Context, store *Store) (RunMeta, error) {
	meta, err := store.Save(ctx, storage.Meta{
		MaxBitWidth: s.config.MaxBitWidth,
		Rounds:      s.rounds,
	}, s.db)
	if err != nil {
		return RunMeta{}, wrap(ErrStorage, "saving run", err)
	}
	s.logger.Info("run saved", zap.String("id", meta.ID), zap.Int("values", meta.Values))
	return meta, nil
}
