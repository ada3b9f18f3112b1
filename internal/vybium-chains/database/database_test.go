package database

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
)

func node(t *testing.T, lp bool, l *core.OddClass, rp bool, r *core.OddClass, s int) *core.OddClass {
	t.Helper()
	n, err := core.NewOddClass(lp, l, rp, r, s)
	require.NoError(t, err)
	return n
}

func TestNew(t *testing.T) {
	db := New()
	require.Equal(t, 1, db.Len())

	e, ok := db.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, 1, e.Length)
	require.Len(t, e.Chains, 1)
	assert.Equal(t, []int64{1}, e.Chains[0].Values())
}

func TestAdmit(t *testing.T) {
	u := core.Unit()
	n3 := node(t, true, u, true, u, 1)
	n5 := node(t, true, u, true, u, 2)
	n7 := node(t, false, u, true, u, 3)
	n15 := node(t, false, u, true, u, 4)

	// two distinct 3-node chains ending in 11
	c11a := core.NewChain().Append(n3).Append(node(t, true, n3, true, u, 3)) // 3 + 8
	c11b := core.NewChain().Append(n5).Append(node(t, true, u, true, n5, 1)) // 1 + 10

	db := New()
	assert.Equal(t, Admitted, db.Admit(core.NewChain().Append(n3)))
	assert.Equal(t, Duplicate, db.Admit(core.NewChain().Append(node(t, true, u, true, u, 1))))

	assert.Equal(t, Admitted, db.Admit(c11a))
	assert.Equal(t, Admitted, db.Admit(c11b), "ties of minimal length are kept")
	assert.Equal(t, Duplicate, db.Admit(c11a))

	e, ok := db.Lookup(11)
	require.True(t, ok)
	assert.Equal(t, 3, e.Length)
	require.Len(t, e.Chains, 2)
	assert.Equal(t, []int64{1, 3, 11}, e.Chains[0].Values(), "chains are kept sorted")
	assert.Equal(t, []int64{1, 5, 11}, e.Chains[1].Values())

	long := core.NewChain().Append(n7).Append(n15).Append(node(t, true, n7, true, u, 2)) // 7 + 4 = 11
	assert.Equal(t, Longer, db.Admit(long))
	assert.Equal(t, 3, db.MinLength(11))
	assert.Equal(t, 0, db.MinLength(13))

	assert.Equal(t, Rejected, db.Admit(core.Chain{}))

	assert.Equal(t, []int64{1, 3, 11}, db.Values())
	assert.Equal(t, 4, db.ChainCount())
	entries := db.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, int64(11), entries[2].Value)
}

func TestAdmitConcurrent(t *testing.T) {
	u := core.Unit()
	db := New()

	var wg sync.WaitGroup
	results := make([]Admission, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := core.NewOddClass(true, u, true, u, 1+i%4)
			if err != nil {
				results[i] = Rejected
				return
			}
			results[i] = db.Admit(core.NewChain().Append(n))
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, r := range results {
		if r == Admitted {
			admitted++
		}
	}
	assert.Equal(t, 4, admitted, "one admission per distinct chain")
	assert.Equal(t, 5, db.Len())
}

func TestAdmissionString(t *testing.T) {
	assert.Equal(t, "admitted", Admitted.String())
	assert.Equal(t, "duplicate", Duplicate.String())
	assert.Equal(t, "longer", Longer.String())
	assert.Equal(t, "rejected", Rejected.String())
}
