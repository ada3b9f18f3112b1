package vybiumchains

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// ScalarMul computes k·x in the Goldilocks field by following the first
// minimal chain stored for k.
func ScalarMul(db *Database, k int64, x uint64) (uint64, error) {
	e, ok := db.Lookup(k)
	if !ok {
		return 0, &ChainError{Code: ErrInvalidInput, Message: fmt.Sprintf("no chain for %d", k)}
	}
	r, err := e.Chains[0].EvalField(field.New(x))
	if err != nil {
		return 0, wrap(ErrStructure, fmt.Sprintf("evaluating chain for %d", k), err)
	}
	return r.Value(), nil
}
