package core

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrPrefixMismatch is returned when two chains do not share the unit element
	ErrPrefixMismatch = errors.New("chains do not share the unit prefix")

	// ErrMalformedChain is returned by Verify for chains that break the chain invariants
	ErrMalformedChain = errors.New("malformed chain")
)

// Chain is an ordered, deduplicated sequence of nodes starting at the unit.
// A Chain is a value: Append and Merge return new chains and never modify
// the receiver. Nodes are shared between chains.
type Chain struct {
	nodes []*OddClass
}

// NewChain returns the single-node chain [unit].
func NewChain() Chain {
	return Chain{nodes: []*OddClass{Unit()}}
}

// Len returns the number of nodes, including the unit
func (c Chain) Len() int {
	return len(c.nodes)
}

// Last returns the final node, or nil for an empty chain
func (c Chain) Last() *OddClass {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[len(c.nodes)-1]
}

// Nodes returns a copy of the node slice
func (c Chain) Nodes() []*OddClass {
	out := make([]*OddClass, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Values returns the integer values of the chain in order
func (c Chain) Values() []int64 {
	vals := make([]int64, len(c.nodes))
	for i, n := range c.nodes {
		vals[i] = n.value
	}
	return vals
}

// Append returns a new chain with n added at the end.
func (c Chain) Append(n *OddClass) Chain {
	nodes := make([]*OddClass, len(c.nodes), len(c.nodes)+1)
	copy(nodes, c.nodes)
	return Chain{nodes: append(nodes, n)}
}

// Merge finds the longest common prefix of c and other (compared by value)
// and appends the remainder of other to c. Values of other that c already
// contains are skipped so the result stays deduplicated.
func (c Chain) Merge(other Chain) (Chain, error) {
	if len(c.nodes) == 0 || len(other.nodes) == 0 || c.nodes[0].value != other.nodes[0].value {
		return Chain{}, ErrPrefixMismatch
	}

	p := 1
	for p < len(c.nodes) && p < len(other.nodes) && c.nodes[p].value == other.nodes[p].value {
		p++
	}
	if p == len(other.nodes) {
		return c, nil
	}

	seen := make(map[int64]struct{}, len(c.nodes))
	for _, n := range c.nodes {
		seen[n.value] = struct{}{}
	}

	nodes := make([]*OddClass, len(c.nodes), len(c.nodes)+len(other.nodes)-p)
	copy(nodes, c.nodes)
	for _, n := range other.nodes[p:] {
		if _, dup := seen[n.value]; dup {
			continue
		}
		seen[n.value] = struct{}{}
		nodes = append(nodes, n)
	}
	return Chain{nodes: nodes}, nil
}

// Equal reports whether both chains have the same sequence of values
func (c Chain) Equal(other Chain) bool {
	if len(c.nodes) != len(other.nodes) {
		return false
	}
	for i := range c.nodes {
		if c.nodes[i].value != other.nodes[i].value {
			return false
		}
	}
	return true
}

// Compare orders chains by length, then lexicographically by value.
func (c Chain) Compare(other Chain) int {
	if len(c.nodes) != len(other.nodes) {
		if len(c.nodes) < len(other.nodes) {
			return -1
		}
		return 1
	}
	for i := range c.nodes {
		a, b := c.nodes[i].value, other.nodes[i].value
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// Fingerprint is a SHA3-256 digest of the value sequence.
func (c Chain) Fingerprint() [32]byte {
	buf := make([]byte, 8*len(c.nodes))
	for i, n := range c.nodes {
		binary.BigEndian.PutUint64(buf[i*8:], uint64(n.value))
	}
	return sha3.Sum256(buf)
}

// Verify checks the chain invariants: the first node is the unit, every value
// is positive, odd and unique, both parents of every node occur earlier in the
// chain, and the recurrence reproduces every value.
func (c Chain) Verify() error {
	if len(c.nodes) == 0 || !c.nodes[0].IsUnit() {
		return errors.Wrap(ErrMalformedChain, "first node is not the unit")
	}

	pos := make(map[int64]int, len(c.nodes))
	pos[1] = 0
	for i, n := range c.nodes[1:] {
		i++
		if n == nil || n.left == nil || n.right == nil {
			return errors.Wrapf(ErrMalformedChain, "node %d has no parents", i)
		}
		if n.value <= 0 || n.value&1 == 0 {
			return errors.Wrapf(ErrMalformedChain, "node %d has value %d", i, n.value)
		}
		if _, dup := pos[n.value]; dup {
			return errors.Wrapf(ErrMalformedChain, "value %d occurs twice", n.value)
		}
		if _, ok := pos[n.left.value]; !ok {
			return errors.Wrapf(ErrMalformedChain, "left parent %d of %d is not earlier in the chain", n.left.value, n.value)
		}
		if _, ok := pos[n.right.value]; !ok {
			return errors.Wrapf(ErrMalformedChain, "right parent %d of %d is not earlier in the chain", n.right.value, n.value)
		}
		pos[n.value] = i
	}

	vals, err := c.Eval()
	if err != nil {
		return err
	}
	for i, n := range c.nodes {
		if vals[i] != n.value {
			return errors.Wrapf(ErrMalformedChain, "node %d evaluates to %d, stores %d", i, vals[i], n.value)
		}
	}
	return nil
}

// String renders the chain as "[1, 3, 45]".
func (c Chain) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, n := range c.nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatInt(n.value, 10))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Expand renders every node, e.g. "( 1 ) ( 3 |  1 + 1·2^1 )".
func (c Chain) Expand() string {
	parts := make([]string, len(c.nodes))
	for i, n := range c.nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}
