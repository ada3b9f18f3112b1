package core

import (
	"github.com/pkg/errors"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// AddShift is one step of a chain in index form: the new element is
//
//	(±)chain[LIdx] + (±)chain[RIdx]·2^RShift
//
// where index 0 is the unit.
type AddShift struct {
	LPos   bool `yaml:"l_pos" json:"l_pos"`
	LIdx   int  `yaml:"l_idx" json:"l_idx"`
	RPos   bool `yaml:"r_pos" json:"r_pos"`
	RIdx   int  `yaml:"r_idx" json:"r_idx"`
	RShift int  `yaml:"r_shift" json:"r_shift"`
}

// Prescriptions converts the chain to index form. The unit contributes no step.
func (c Chain) Prescriptions() ([]AddShift, error) {
	if len(c.nodes) == 0 || !c.nodes[0].IsUnit() {
		return nil, errors.Wrap(ErrMalformedChain, "first node is not the unit")
	}

	pos := map[int64]int{1: 0}
	steps := make([]AddShift, 0, len(c.nodes)-1)
	for i, n := range c.nodes[1:] {
		if n == nil || n.left == nil || n.right == nil {
			return nil, errors.Wrapf(ErrMalformedChain, "node %d has no parents", i+1)
		}
		li, ok := pos[n.left.value]
		if !ok {
			return nil, errors.Wrapf(ErrMalformedChain, "left parent %d of %d is not earlier in the chain", n.left.value, n.value)
		}
		ri, ok := pos[n.right.value]
		if !ok {
			return nil, errors.Wrapf(ErrMalformedChain, "right parent %d of %d is not earlier in the chain", n.right.value, n.value)
		}
		steps = append(steps, AddShift{
			LPos:   n.leftSign,
			LIdx:   li,
			RPos:   n.rightSign,
			RIdx:   ri,
			RShift: n.shift,
		})
		pos[n.value] = i + 1
	}
	return steps, nil
}

// FromPrescriptions rebuilds a chain from its index form and verifies it.
func FromPrescriptions(steps []AddShift) (Chain, error) {
	nodes := make([]*OddClass, 1, len(steps)+1)
	nodes[0] = Unit()
	for i, s := range steps {
		if s.LIdx < 0 || s.LIdx >= len(nodes) || s.RIdx < 0 || s.RIdx >= len(nodes) {
			return Chain{}, errors.Wrapf(ErrMalformedChain, "step %d references an element that does not exist yet", i)
		}
		n, err := NewOddClass(s.LPos, nodes[s.LIdx], s.RPos, nodes[s.RIdx], s.RShift)
		if err != nil {
			return Chain{}, errors.Wrapf(err, "step %d", i)
		}
		if n.value <= 0 {
			return Chain{}, errors.Wrapf(ErrMalformedChain, "step %d evaluates to %d", i, n.value)
		}
		nodes = append(nodes, n)
	}

	c := Chain{nodes: nodes}
	if err := c.Verify(); err != nil {
		return Chain{}, err
	}
	return c, nil
}

// Eval replays the recurrence from the unit and returns the value of every
// element. Parents are resolved by position, so the result is independent of
// the values cached in the nodes.
func (c Chain) Eval() ([]int64, error) {
	steps, err := c.Prescriptions()
	if err != nil {
		return nil, err
	}
	vals := make([]int64, 1, len(steps)+1)
	vals[0] = 1
	for _, s := range steps {
		l := vals[s.LIdx]
		if !s.LPos {
			l = -l
		}
		r := vals[s.RIdx] << uint(s.RShift)
		if !s.RPos {
			r = -r
		}
		vals = append(vals, l+r)
	}
	return vals, nil
}

// EvalField computes value·x in the Goldilocks field using only the
// additions, subtractions and doublings prescribed by the chain.
func (c Chain) EvalField(x field.Element) (field.Element, error) {
	steps, err := c.Prescriptions()
	if err != nil {
		return field.Zero, err
	}
	vals := make([]field.Element, 1, len(steps)+1)
	vals[0] = x
	for _, s := range steps {
		r := vals[s.RIdx]
		for i := 0; i < s.RShift; i++ {
			r = r.Add(r)
		}
		l := vals[s.LIdx]

		var next field.Element
		switch {
		case s.LPos && s.RPos:
			next = l.Add(r)
		case s.LPos && !s.RPos:
			next = l.Sub(r)
		case !s.LPos && s.RPos:
			next = r.Sub(l)
		default:
			next = field.Zero.Sub(l).Sub(r)
		}
		vals = append(vals, next)
	}
	return vals[len(vals)-1], nil
}

// Operations counts the field operations EvalField performs.
func (c Chain) Operations() (adds, doublings int) {
	if len(c.nodes) < 2 {
		return 0, 0
	}
	for _, n := range c.nodes[1:] {
		adds++
		doublings += n.shift
	}
	return adds, doublings
}
