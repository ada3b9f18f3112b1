package vybiumchains

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
	"github.com/vybium/vybium-chains/internal/vybium-chains/engine"
	"github.com/vybium/vybium-chains/internal/vybium-chains/storage"
)

func newSearcher(t *testing.T, width, rounds int, opts ...Option) Searcher {
	t.Helper()
	s, err := NewSearcher(DefaultConfig().WithMaxBitWidth(width).WithRounds(rounds), opts...)
	require.NoError(t, err)
	return s
}

func TestNewSearcher(t *testing.T) {
	_, err := NewSearcher(nil)
	assert.True(t, errors.Is(err, &ChainError{Code: ErrInvalidConfig}))

	_, err = NewSearcher(DefaultConfig().WithRounds(0))
	assert.True(t, errors.Is(err, &ChainError{Code: ErrInvalidConfig}))

	cfg := DefaultConfig()
	s, err := NewSearcher(cfg)
	require.NoError(t, err)
	cfg.WithMaxBitWidth(3)
	r, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, 10, r.MaxBitWidth, "searcher keeps its own copy of the config")
}

func TestSearcherRun(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	s := newSearcher(t, 8, 2, WithRegisterer(reg))

	res, err := s.Run(ctx)
	require.NoError(t, err)
	require.Len(t, res.Rounds, 2)
	assert.Equal(t, s.Database().Len(), res.Values)
	assert.Equal(t, 3, s.History().Level())

	e, ok := s.Database().Lookup(45)
	require.True(t, ok)
	assert.Equal(t, 3, e.Length)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	t.Run("Report", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.WriteReport(&buf, ReportOptions{}))
		assert.Contains(t, buf.String(), "\n45: [len 3] 1 -> ")
		assert.Contains(t, buf.String(), "coverage: ")
	})

	t.Run("ScalarMul", func(t *testing.T) {
		for _, k := range []int64{1, 3, 45, 127} {
			y, err := ScalarMul(s.Database(), k, 7)
			require.NoError(t, err)
			assert.Equal(t, uint64(7*k), y)
		}
		_, err := ScalarMul(s.Database(), 2, 7)
		assert.True(t, errors.Is(err, &ChainError{Code: ErrInvalidInput}))
	})

	t.Run("Export", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.Export(&buf, 16))
		assert.Contains(t, buf.String(), "15:")
		assert.NotContains(t, buf.String(), "17:")
	})
}

func TestSearcherContinues(t *testing.T) {
	ctx := context.Background()
	s := newSearcher(t, 5, 1)

	_, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.History().Level())

	res, err := s.Run(ctx)
	require.NoError(t, err)
	require.Len(t, res.Rounds, 1)
	assert.Equal(t, 2, res.Rounds[0].Round)
	assert.Equal(t, 3, s.History().Level())
}

func TestSearcherCanceled(t *testing.T) {
	s := newSearcher(t, 8, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &ChainError{Code: ErrCanceled}))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, res.Rounds)
}

func TestSaveLoadRun(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStoreWithConfig(storage.InMemoryConfig())
	require.NoError(t, err)
	defer store.Close()

	_, _, err = LoadRun(ctx, store, "")
	assert.True(t, errors.Is(err, &ChainError{Code: ErrStorage}))

	s := newSearcher(t, 6, 2)
	_, err = s.Run(ctx)
	require.NoError(t, err)

	meta, err := s.Save(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 6, meta.MaxBitWidth)
	assert.Equal(t, 2, meta.Rounds)

	got, db, err := LoadRun(ctx, store, "")
	require.NoError(t, err)
	assert.Equal(t, meta.ID, got.ID)
	assert.Equal(t, s.Database().Values(), db.Values())
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{context.Canceled, ErrCanceled},
		{errors.Wrap(context.DeadlineExceeded, "round 3"), ErrCanceled},
		{errors.Wrap(core.ErrPrefixMismatch, "merging"), ErrMergePrefix},
		{core.ErrInvalidShift, ErrConstruction},
		{core.ErrMalformedChain, ErrStructure},
		{engine.ErrMalformedHistory, ErrStructure},
		{storage.ErrNotFound, ErrStorage},
		{errors.New("boom"), ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, codeOf(tt.err))
		})
	}

	err := wrap(ErrStorage, "saving", context.Canceled)
	var ce *ChainError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCanceled, ce.Code)
	assert.Contains(t, err.Error(), "canceled error: saving")

	assert.Same(t, err, wrap(ErrUnknown, "again", err))
	assert.Nil(t, wrap(ErrUnknown, "nothing", nil))
	assert.Equal(t, "code(99)", ErrorCode(99).String())
}
