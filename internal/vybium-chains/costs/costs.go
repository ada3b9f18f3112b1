// Package costs tabulates the bootstrapping cost of n-bit multiplication
// and squaring circuits, choosing at every size between the schoolbook
// circuit and a Karatsuba (resp. divide-and-conquer) split into half-size
// subproblems.
//
// Costs are counted in bootstrappings: A per bit of addition, M per
// single-bit product and S per single-bit square.
package costs

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

const (
	A = 2
	M = 1
	S = 1
)

// MaxHalf bounds the table size.
const MaxHalf = 64

// Schoolbook is the cost of the n-bit schoolbook product.
func Schoolbook(n int) int {
	return M*n*n + A*n*(n-1)
}

// SchoolbookSquare is the cost of the n-bit schoolbook square; products
// below the diagonal are shared.
func SchoolbookSquare(n int) int {
	return M*n*(n-1)/2 + S*n + A*n*(n-1)
}

const mp1 = 2

// parallel holds schoolbook products whose partial sums are added as a
// balanced tree, hand-derived for small n.
var parallel = [...]int{
	1: mp1,
	2: 2*2*mp1 + 1*(2*A),
	3: 3*3*mp1 + 1*(3*A) + 3*A,
	4: 4*4*mp1 + 2*(4*A) + 6*A,
	5: 5*5*mp1 + 2*(5*A) + 7*A + 6*A,
	6: 6*6*mp1 + 3*(6*A) + 8*A + 8*A,
	7: 7*7*mp1 + 3*(7*A) + 7*A + 9*A + 10*A,
	8: 8*8*mp1 + 4*(8*A) + 2*(10*A) + 13*A,
}

// ParallelSchoolbook returns the cost of the parallel-addition schoolbook
// product for 1 <= n <= 8.
func ParallelSchoolbook(n int) (int, bool) {
	if n < 1 || n >= len(parallel) {
		return 0, false
	}
	return parallel[n], true
}

// Kind selects the operation a table is for.
type Kind int

const (
	Multiplication Kind = iota
	Squaring
)

// Entry is the optimal cost for one operand size.
type Entry struct {
	N    int
	Cost int

	// Split is true when the recursive circuit is strictly cheaper than the
	// schoolbook one. Parts names the subproblem sizes: for multiplication
	// the three products, for squaring the two squares and the product.
	Split bool
	Parts [3]int

	// Alternative is the cost of the strategy not chosen; 0 for base sizes.
	Alternative int
}

// Table holds the optimal costs for sizes 1..len(Entries).
type Table struct {
	Kind    Kind
	Entries []Entry
}

// Cost returns the optimal cost for n-bit operands.
func (t *Table) Cost(n int) (int, bool) {
	if n < 1 || n > len(t.Entries) {
		return 0, false
	}
	return t.Entries[n-1].Cost, true
}

func (t *Table) set(e Entry) {
	for len(t.Entries) < e.N {
		t.Entries = append(t.Entries, Entry{N: len(t.Entries) + 1})
	}
	t.Entries[e.N-1] = e
}

func (t *Table) cost(n int) int {
	return t.Entries[n-1].Cost
}

func checkHalf(maxHalf int) error {
	if maxHalf < 2 || maxHalf > MaxHalf {
		return errors.Errorf("max half size %d out of range [2, %d]", maxHalf, MaxHalf)
	}
	return nil
}

// NewMultiplication computes the multiplication table up to 2·maxHalf+1 bits.
// Sizes up to 4 use the schoolbook circuit.
func NewMultiplication(maxHalf int) (*Table, error) {
	if err := checkHalf(maxHalf); err != nil {
		return nil, err
	}

	t := &Table{Kind: Multiplication}
	for n := 1; n <= 4; n++ {
		t.set(Entry{N: n, Cost: Schoolbook(n)})
	}
	for n := 2; n <= maxHalf; n++ {
		// three half-size products and three additions
		k0 := 2*t.cost(n) + t.cost(n+1) + A*(2*n+2*(n+1)+3*n)
		k1 := t.cost(n) + t.cost(n+1) + t.cost(n+2) + A*(2*(n+1)+2*(n+2)+3*n+1)

		t.set(choose(2*n, Schoolbook(2*n), k0, [3]int{n, n, n + 1}))
		t.set(choose(2*n+1, Schoolbook(2*n+1), k1, [3]int{n, n + 1, n + 2}))
	}
	return t, nil
}

// NewSquaring computes the squaring table up to 2·maxHalf+1 bits. Sizes up
// to 3 use the schoolbook circuit.
func NewSquaring(maxHalf int) (*Table, error) {
	mul, err := NewMultiplication(maxHalf)
	if err != nil {
		return nil, err
	}

	t := &Table{Kind: Squaring}
	for n := 1; n <= 3; n++ {
		t.set(Entry{N: n, Cost: SchoolbookSquare(n)})
	}
	for n := 2; n <= maxHalf; n++ {
		// the doubled cross product is shifted by one bit, so one addition bit is free
		d0 := 2*t.cost(n) + mul.cost(n) + A*(3*n-1)
		d1 := t.cost(n) + t.cost(n+1) + mul.cost(n+1) + A*(3*n)

		t.set(choose(2*n, SchoolbookSquare(2*n), d0, [3]int{n, n, n}))
		t.set(choose(2*n+1, SchoolbookSquare(2*n+1), d1, [3]int{n, n + 1, n + 1}))
	}
	return t, nil
}

func choose(n, schoolbook, split int, parts [3]int) Entry {
	if split < schoolbook {
		return Entry{N: n, Cost: split, Split: true, Parts: parts, Alternative: schoolbook}
	}
	return Entry{N: n, Cost: schoolbook, Alternative: split}
}

// Render writes one line per size above the base cases.
func Render(w io.Writer, t *Table, styled bool) error {
	bold := func(s string) string { return s }
	if styled {
		st := lipgloss.NewStyle().Bold(true)
		bold = func(s string) string { return st.Render(s) }
	}

	for _, e := range t.Entries {
		if e.Alternative == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, formatEntry(t.Kind, e, bold)); err != nil {
			return err
		}
	}
	return nil
}

func formatEntry(k Kind, e Entry, bold func(string) string) string {
	if k == Multiplication {
		if e.Split {
			return fmt.Sprintf("Jm[%d] = %d by %s: [%d | %d ; %d] (scb = %d)",
				e.N, e.Cost, bold("Karatsuba"), e.Parts[0], e.Parts[1], e.Parts[2], e.Alternative)
		}
		prl := ""
		if p, ok := ParallelSchoolbook(e.N); ok {
			prl = fmt.Sprintf(" /%d prl/", p)
		}
		return fmt.Sprintf("Jm[%d] = %d by schoolbook%s (Kar = %d)", e.N, e.Cost, prl, e.Alternative)
	}

	if e.Split {
		return fmt.Sprintf("Js[%d] = %d by %s: [sq-%d | sq-%d ; mul-%d] (scb = %d)",
			e.N, e.Cost, bold("Div & Conq"), e.Parts[0], e.Parts[1], e.Parts[2], e.Alternative)
	}
	return fmt.Sprintf("Js[%d] = %d by schoolbook (D&Q = %d)", e.N, e.Cost, e.Alternative)
}
