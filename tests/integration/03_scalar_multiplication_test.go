package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vybiumchains "github.com/vybium/vybium-chains/pkg/vybium-chains"
)

// Test03_ChainsMultiply checks that every chain found computes k·x in the
// Goldilocks field, including inputs that wrap around the modulus.
//
// Related example: examples/02_scalar_multiplication/main.go
func Test03_ChainsMultiply(t *testing.T) {
	t.Log("=== Test 03: Chains -> Field Scalar Multiplication ===")

	searcher, err := vybiumchains.NewSearcher(vybiumchains.DefaultConfig().WithMaxBitWidth(6).WithRounds(3))
	require.NoError(t, err)
	_, err = searcher.Run(context.Background())
	require.NoError(t, err)

	inputs := []field.Element{
		field.New(1),
		field.New(12345),
		field.New(1 << 63),
		field.Zero.Sub(field.One),
	}
	checked := 0
	for _, e := range searcher.Database().Entries() {
		k := field.New(uint64(e.Value))
		for _, c := range e.Chains {
			for _, x := range inputs {
				got, err := c.EvalField(x)
				require.NoError(t, err)
				assert.True(t, got.Equal(k.Mul(x)), "%d·%d via %s", e.Value, x.Value(), c)
				checked++
			}
		}
	}
	t.Logf("checked %d evaluations", checked)
}
