package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
	"github.com/vybium/vybium-chains/internal/vybium-chains/database"
)

// smallDB holds 1, 3, 5, 7 and 15 with one-step chains.
func smallDB(t *testing.T) *database.Database {
	t.Helper()
	u := core.Unit()
	db := database.New()
	for _, s := range []struct {
		lp    bool
		shift int
	}{{true, 1}, {true, 2}, {false, 3}, {false, 4}} {
		n, err := core.NewOddClass(s.lp, u, true, u, s.shift)
		require.NoError(t, err)
		require.Equal(t, database.Admitted, db.Admit(core.NewChain().Append(n)))
	}
	return db
}

func TestBuild(t *testing.T) {
	db := smallDB(t)

	t.Run("Exhaustive", func(t *testing.T) {
		r, err := Build(db, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(8), r.Threshold)
		require.Len(t, r.Lines, 5)

		var values []int64
		for _, l := range r.Lines {
			values = append(values, l.Value)
		}
		assert.Equal(t, []int64{1, 3, 5, 7, 15}, values)

		assert.False(t, r.Lines[3].GapBefore)
		assert.True(t, r.Lines[4].GapBefore)
		assert.False(t, r.Lines[3].Unverified)
		assert.True(t, r.Lines[4].Unverified)

		assert.Equal(t, uint(4), r.Covered)
		assert.Equal(t, uint(4), r.Total)
		assert.Zero(t, r.FirstMissing)
	})

	t.Run("Gaps", func(t *testing.T) {
		r, err := Build(db, 5)
		require.NoError(t, err)
		assert.Equal(t, uint(5), r.Covered)
		assert.Equal(t, uint(8), r.Total)
		assert.Equal(t, int64(9), r.FirstMissing)
		for _, l := range r.Lines {
			assert.False(t, l.Unverified)
		}
	})

	t.Run("WideThreshold", func(t *testing.T) {
		r, err := Build(db, 48)
		require.NoError(t, err)
		assert.Equal(t, int64(1)<<47, r.Threshold)
		assert.Equal(t, uint(1)<<46, r.Total)
		assert.Equal(t, uint(5), r.Covered)
		assert.Equal(t, int64(9), r.FirstMissing)

		r, err = Build(database.New(), core.MaxWidth)
		require.NoError(t, err)
		assert.Equal(t, uint(1), r.Covered)
		assert.Equal(t, uint(1)<<60, r.Total)
		assert.Equal(t, int64(3), r.FirstMissing)
	})

	t.Run("MissingAfterLast", func(t *testing.T) {
		r, err := Build(db, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(9), r.FirstMissing)

		full := database.New()
		n, err := core.NewOddClass(true, core.Unit(), true, core.Unit(), 1)
		require.NoError(t, err)
		full.Admit(core.NewChain().Append(n))
		r, err = Build(full, 4)
		require.NoError(t, err)
		assert.Equal(t, uint(2), r.Covered)
		assert.Equal(t, int64(5), r.FirstMissing)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := Build(nil, 4)
		assert.Error(t, err)
		_, err = Build(db, 1)
		assert.Error(t, err)
		_, err = Build(db, core.MaxWidth+1)
		assert.Error(t, err)
	})
}

func TestRender(t *testing.T) {
	r, err := Build(smallDB(t), 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, Options{}))

	want := strings.Join([]string{
		"1: [len 1] 1",
		"3: [len 2] 1 -> 3   ( 3 |  1 + 1·2^1 )",
		"5: [len 2] 1 -> 5   ( 5 |  1 + 1·2^2 )",
		"7: [len 2] 1 -> 7   ( 7 | -1 + 1·2^3 )",
		"---",
		"=== above 2^3 = 8: not exhaustive, unverified ===",
		"15: [len 2] 1 -> 15   ( 15 | -1 + 1·2^4 ) (unverified)",
		"coverage: 4/4 odd values below 8",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderAllChains(t *testing.T) {
	db := smallDB(t)
	u := core.Unit()
	n3 := core.NewChain().Append(mustNode(t, true, u, true, u, 1))
	n5 := core.NewChain().Append(mustNode(t, true, u, true, u, 2))

	// 11 = 3 + 1·2^3 and 11 = 1 + 5·2^1
	c1 := n3.Append(mustNode(t, true, n3.Last(), true, u, 3))
	c2 := n5.Append(mustNode(t, true, u, true, n5.Last(), 1))
	require.Equal(t, database.Admitted, db.Admit(c1))
	require.Equal(t, database.Admitted, db.Admit(c2))

	r, err := Build(db, 5)
	require.NoError(t, err)

	var one, all bytes.Buffer
	require.NoError(t, Render(&one, r, Options{}))
	require.NoError(t, Render(&all, r, Options{AllChains: true}))

	assert.Equal(t, 1, strings.Count(one.String(), "\n11: "))
	assert.Equal(t, 2, strings.Count(all.String(), "\n11: "))
	assert.Contains(t, all.String(), "11: [len 3] 1 -> 3 -> 11")
	assert.Contains(t, all.String(), "11: [len 3] 1 -> 5 -> 11")
	assert.Contains(t, one.String(), "coverage: 6/8 odd values below 16, first missing 9")
}

func TestRenderStyled(t *testing.T) {
	r, err := Build(smallDB(t), 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, Options{Styled: true}))
	out := buf.String()
	for _, s := range []string{"15:", "---", "(unverified)", "coverage: 4/4"} {
		assert.Contains(t, out, s)
	}
}

func mustNode(t *testing.T, lp bool, l *core.OddClass, rp bool, r *core.OddClass, s int) *core.OddClass {
	t.Helper()
	n, err := core.NewOddClass(lp, l, rp, r, s)
	require.NoError(t, err)
	return n
}
