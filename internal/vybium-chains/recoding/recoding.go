// Package recoding computes signed-digit representations of integers and the
// addition-subtraction chains they induce. Digits are little-endian and take
// the values -1, 0 and 1.
package recoding

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
)

// ErrEven is returned by Chain for representations of even numbers.
var ErrEven = errors.New("representation is not odd")

// KoyamaTsuruoka returns the Koyama-Tsuruoka recoding of k. Runs of ones
// are replaced by a subtraction as soon as the balance of ones over zeros
// since the last minimum reaches three.
func KoyamaTsuruoka(k uint64) []int8 {
	switch k {
	case 0:
		return []int8{0}
	case 1:
		return []int8{1}
	}

	n := bits.Len64(k)
	d := make([]int8, n+2)
	bit := func(i int) int8 { return int8(k >> uint(i) & 1) }

	// y is the running balance of ones over zeros; z and v track its minimum
	// and maximum in the current run, at positions w and u.
	var j, x, y, z, u, v, w int
	inRun := false
	for x < n-1 {
		if bit(x) == 1 {
			y++
		} else {
			y--
		}
		x++

		if !inRun {
			if y >= z+3 {
				for ; j < w; j++ {
					d[j] = bit(j)
				}
				d[j] = -1
				j++
				v, u, inRun = y, x, true
			} else if y < z {
				z, w = y, x
			}
			continue
		}

		if v >= y+3 {
			for ; j < u; j++ {
				d[j] = bit(j) - 1
			}
			d[j] = 1
			j++
			z, w, inRun = y, x, false
		} else if y > v {
			v, u = y, x
		}
	}

	if !inRun || v <= y {
		var m int8
		if inRun {
			m = 1
		}
		for ; j < x; j++ {
			d[j] = bit(j) - m
		}
		d[j] = 1 - m
		d[j+1] = m
	} else {
		for ; j < u; j++ {
			d[j] = bit(j) - 1
		}
		d[j] = 1
		for j++; j < x; j++ {
			d[j] = bit(j)
		}
		d[j] = 1
	}
	return trim(d)
}

// NAF returns the non-adjacent form of k: no two consecutive digits are
// both non-zero.
func NAF(k uint64) []int8 {
	if k == 0 {
		return []int8{0}
	}
	// k can grow by one bit before it shrinks, so work in 128 bits.
	hi, lo := uint64(0), k
	var d []int8
	for hi != 0 || lo != 0 {
		var digit int8
		switch lo & 3 {
		case 1:
			digit = 1
			lo--
		case 3:
			digit = -1
			var carry uint64
			lo, carry = bits.Add64(lo, 1, 0)
			hi += carry
		}
		d = append(d, digit)
		lo = lo>>1 | hi<<63
		hi >>= 1
	}
	return d
}

func trim(d []int8) []int8 {
	for len(d) > 1 && d[len(d)-1] == 0 {
		d = d[:len(d)-1]
	}
	return d
}

// Value returns Σ d[i]·2^i. Digit strings longer than 63 overflow.
func Value(d []int8) int64 {
	var v int64
	for i := len(d) - 1; i >= 0; i-- {
		v = v<<1 + int64(d[i])
	}
	return v
}

// Weight returns the number of non-zero digits.
func Weight(d []int8) int {
	n := 0
	for _, x := range d {
		if x != 0 {
			n++
		}
	}
	return n
}

// Format renders d most significant digit first, e.g. "[1, 0, 0, 0, -1]".
func Format(d []int8) string {
	parts := make([]string, len(d))
	for i := range d {
		parts[i] = strconv.Itoa(int(d[len(d)-1-i]))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Chain turns an odd signed-digit representation with leading digit 1 into
// the double-and-add chain it describes: starting from the unit, every
// further non-zero digit d at distance s below the previous one yields
// d + acc·2^s. The chain has Weight(d) elements.
func Chain(d []int8) (core.Chain, error) {
	d = trim(d)
	if len(d) == 0 || d[0] == 0 {
		return core.Chain{}, ErrEven
	}
	top := len(d) - 1
	if d[top] != 1 {
		return core.Chain{}, errors.Errorf("leading digit is %d, want 1", d[top])
	}

	c := core.NewChain()
	unit := core.Unit()
	prev := top
	for i := top - 1; i >= 0; i-- {
		if d[i] == 0 {
			continue
		}
		if d[i] != 1 && d[i] != -1 {
			return core.Chain{}, errors.Errorf("digit %d at position %d", d[i], i)
		}
		n, err := core.NewOddClass(d[i] == 1, unit, true, c.Last(), prev-i)
		if err != nil {
			return core.Chain{}, errors.Wrapf(err, "digit at position %d", i)
		}
		c = c.Append(n)
		prev = i
	}
	if err := c.Verify(); err != nil {
		return core.Chain{}, err
	}
	return c, nil
}
