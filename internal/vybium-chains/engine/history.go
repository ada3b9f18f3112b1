package engine

import (
	"github.com/pkg/errors"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
)

// ErrMalformedHistory is returned when a history slot holds a chain of the wrong shape
var ErrMalformedHistory = errors.New("malformed chain history")

// History holds every chain admitted so far, by round: slot i contains the
// chains of length i+1. Slot 0 is the unit chain.
type History [][]core.Chain

// NewHistory returns the history before the first round.
func NewHistory() History {
	return History{{core.NewChain()}}
}

// Level returns the length of the longest chains in the history.
func (h History) Level() int {
	return len(h)
}

// Count returns the number of chains in the history.
func (h History) Count() int {
	n := 0
	for _, slot := range h {
		n += len(slot)
	}
	return n
}

// All flattens the history, shortest chains first.
func (h History) All() []core.Chain {
	out := make([]core.Chain, 0, h.Count())
	for _, slot := range h {
		out = append(out, slot...)
	}
	return out
}

// ValidateHistory checks that every slot holds chains of the right length
// starting at the unit.
func ValidateHistory(h History) error {
	if len(h) == 0 || len(h[0]) == 0 {
		return errors.Wrap(ErrMalformedHistory, "missing unit chain")
	}
	for i, slot := range h {
		for j, c := range slot {
			if c.Len() != i+1 {
				return errors.Wrapf(ErrMalformedHistory, "slot %d chain %d has length %d", i, j, c.Len())
			}
			if !c.Nodes()[0].IsUnit() {
				return errors.Wrapf(ErrMalformedHistory, "slot %d chain %d does not start at the unit", i, j)
			}
		}
	}
	return nil
}
