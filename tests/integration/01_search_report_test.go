package integration_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-chains/internal/vybium-chains/recoding"
	vybiumchains "github.com/vybium/vybium-chains/pkg/vybium-chains"
)

// Test01_SearchToReport runs the reference search on small widths and checks
// the report against the database:
// 1. Run the search
// 2. Check every stored chain
// 3. Render the report and check ordering and markers
//
// Related example: examples/01_search/main.go
func Test01_SearchToReport(t *testing.T) {
	t.Log("=== Test 01: Search -> Report ===")

	config := vybiumchains.DefaultConfig().WithMaxBitWidth(6).WithRounds(3).WithWorkers(2)
	searcher, err := vybiumchains.NewSearcher(config)
	require.NoError(t, err)

	t.Log("Step 1: Running search...")
	result, err := searcher.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Rounds, 3)
	for _, r := range result.Rounds {
		t.Logf("  round %d: %d admitted", r.Round, r.Admitted)
	}

	t.Log("Step 2: Checking chains...")
	db := searcher.Database()
	for _, e := range db.Entries() {
		for _, c := range e.Chains {
			require.NoError(t, c.Verify())
			assert.Equal(t, e.Value, c.Last().Value())
			assert.Equal(t, e.Length, c.Len())
			for _, n := range c.Nodes() {
				assert.LessOrEqual(t, n.Width(), 6)
			}
		}
	}
	assert.Equal(t, 4, db.MinLength(43))
	assert.Equal(t, 3, db.MinLength(45))
	assert.Less(t, db.MinLength(45), recoding.Weight(recoding.NAF(45)), "the search beats the NAF for 45")

	t.Log("Step 3: Rendering report...")
	var buf bytes.Buffer
	require.NoError(t, searcher.WriteReport(&buf, vybiumchains.ReportOptions{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	markers := 0
	var last int64
	for _, l := range lines {
		if strings.HasPrefix(l, "===") {
			markers++
			continue
		}
		if l == "---" || strings.HasPrefix(l, "coverage:") {
			continue
		}
		v, err := reportValue(l)
		require.NoError(t, err, l)
		assert.Greater(t, v, last, "report is sorted")
		last = v
		if v > 32 {
			assert.True(t, strings.HasSuffix(l, "(unverified)"), l)
		}
	}
	assert.Equal(t, 1, markers)
	assert.Equal(t, db.Len(), len(lines)-markers-strings.Count(buf.String(), "---\n")-1)
}
