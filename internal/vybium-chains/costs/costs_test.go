package costs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseCosts(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 8, 3: 21, 4: 40, 5: 65} {
		assert.Equal(t, want, Schoolbook(n), "m(%d)", n)
	}
	for n, want := range map[int]int{1: 1, 2: 7, 3: 18, 4: 34, 5: 55} {
		assert.Equal(t, want, SchoolbookSquare(n), "s(%d)", n)
	}

	wantParallel := []int{2, 12, 30, 60, 96, 140, 192, 258}
	for i, want := range wantParallel {
		got, ok := ParallelSchoolbook(i + 1)
		require.True(t, ok)
		assert.Equal(t, want, got, "MP[%d]", i+1)
	}
	_, ok := ParallelSchoolbook(9)
	assert.False(t, ok)
	_, ok = ParallelSchoolbook(0)
	assert.False(t, ok)
}

func TestMultiplication(t *testing.T) {
	tab, err := NewMultiplication(16)
	require.NoError(t, err)
	require.Len(t, tab.Entries, 33)

	tests := []struct {
		n, cost, alt int
		split        bool
	}{
		{4, 40, 69, false},
		{5, 65, 111, false},
		{6, 96, 128, false},
		{7, 133, 182, false},
	}
	for _, tt := range tests {
		e := tab.Entries[tt.n-1]
		assert.Equal(t, tt.n, e.N)
		assert.Equal(t, tt.cost, e.Cost, "Jm[%d]", tt.n)
		assert.Equal(t, tt.alt, e.Alternative, "Jm[%d]", tt.n)
		assert.Equal(t, tt.split, e.Split, "Jm[%d]", tt.n)
	}

	anySplit := false
	for _, e := range tab.Entries {
		assert.LessOrEqual(t, e.Cost, Schoolbook(e.N))
		if e.Split {
			anySplit = true
			assert.Less(t, e.Cost, e.Alternative)
			assert.Equal(t, e.N, e.Parts[0]+e.Parts[1])
		}
	}
	assert.True(t, anySplit, "Karatsuba must win for large operands")

	c, ok := tab.Cost(5)
	assert.True(t, ok)
	assert.Equal(t, 65, c)
	_, ok = tab.Cost(34)
	assert.False(t, ok)
}

func TestSquaring(t *testing.T) {
	tab, err := NewSquaring(16)
	require.NoError(t, err)
	require.Len(t, tab.Entries, 33)

	e4 := tab.Entries[3]
	assert.True(t, e4.Split)
	assert.Equal(t, 32, e4.Cost)
	assert.Equal(t, 34, e4.Alternative)
	assert.Equal(t, [3]int{2, 2, 2}, e4.Parts)

	e5 := tab.Entries[4]
	assert.False(t, e5.Split)
	assert.Equal(t, 55, e5.Cost)
	assert.Equal(t, 58, e5.Alternative)

	for _, e := range tab.Entries {
		assert.LessOrEqual(t, e.Cost, SchoolbookSquare(e.N))
	}
}

func TestInvalidHalf(t *testing.T) {
	for _, h := range []int{-1, 0, 1, MaxHalf + 1} {
		_, err := NewMultiplication(h)
		assert.Error(t, err)
		_, err = NewSquaring(h)
		assert.Error(t, err)
	}
}

func TestRender(t *testing.T) {
	mul, err := NewMultiplication(2)
	require.NoError(t, err)
	sq, err := NewSquaring(2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, mul, false))
	require.NoError(t, Render(&buf, sq, false))

	want := strings.Join([]string{
		"Jm[4] = 40 by schoolbook /60 prl/ (Kar = 69)",
		"Jm[5] = 65 by schoolbook /96 prl/ (Kar = 111)",
		"Js[4] = 32 by Div & Conq: [sq-2 | sq-2 ; mul-2] (scb = 34)",
		"Js[5] = 55 by schoolbook (D&Q = 58)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())

	buf.Reset()
	big, err := NewMultiplication(16)
	require.NoError(t, err)
	require.NoError(t, Render(&buf, big, true))
	assert.Contains(t, buf.String(), "Karatsuba")
	assert.Contains(t, buf.String(), "Jm[33] = ")
}
