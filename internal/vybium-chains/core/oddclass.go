package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// MaxWidth is the largest node width. Widths do not bound values once
// combinations overlap, so NewOddClass checks for overflow separately.
const MaxWidth = 62

var (
	// ErrInvalidParent is returned when a combination references a nil or malformed node
	ErrInvalidParent = errors.New("invalid parent node")

	// ErrInvalidShift is returned when the shift is not positive, exceeds
	// MaxWidth or overflows the value range
	ErrInvalidShift = errors.New("invalid shift")
)

// OddClass is an immutable node representing one odd positive integer,
// the canonical representative of the class {v, -v}. Every node except the
// unit is the combination
//
//	(±)left + (±)right·2^shift
//
// of two earlier nodes. Parents are shared, never copied.
type OddClass struct {
	value     int64
	width     int
	leftSign  bool
	rightSign bool
	left      *OddClass
	right     *OddClass
	shift     int
}

var unit = &OddClass{value: 1, width: 1}

// Unit returns the shared base node (value 1, width 1).
func Unit() *OddClass {
	return unit
}

// NewOddClass combines two existing nodes. A sign flag of true means the
// parent is added, false means it is subtracted. The result may be
// non-positive; callers decide whether such a node is useful.
func NewOddClass(leftSign bool, left *OddClass, rightSign bool, right *OddClass, shift int) (*OddClass, error) {
	if !left.valid() || !right.valid() {
		return nil, ErrInvalidParent
	}
	if shift < 1 {
		return nil, errors.Wrapf(ErrInvalidShift, "shift %d is not positive", shift)
	}

	width := left.width
	if w := right.width + shift; w > width {
		width = w
	}
	if width > MaxWidth {
		return nil, errors.Wrapf(ErrInvalidShift, "width %d exceeds %d", width, MaxWidth)
	}

	if right.value > math.MaxInt64>>uint(shift) {
		return nil, errors.Wrapf(ErrInvalidShift, "%d·2^%d overflows", right.value, shift)
	}
	r := right.value << uint(shift)
	if leftSign == rightSign && left.value > math.MaxInt64-r {
		return nil, errors.Wrapf(ErrInvalidShift, "%d + %d overflows", left.value, r)
	}

	l := left.value
	if !leftSign {
		l = -l
	}
	if !rightSign {
		r = -r
	}

	return &OddClass{
		value:     l + r,
		width:     width,
		leftSign:  leftSign,
		rightSign: rightSign,
		left:      left,
		right:     right,
		shift:     shift,
	}, nil
}

// valid reports whether the node can be used as a parent.
func (o *OddClass) valid() bool {
	if o == nil || o.value <= 0 || o.value&1 == 0 {
		return false
	}
	if o.left == nil && o.right == nil {
		return o.value == 1 && o.width == 1 && o.shift == 0
	}
	return o.left != nil && o.right != nil && o.shift > 0
}

// Value returns the signed integer value of the node
func (o *OddClass) Value() int64 { return o.value }

// Width returns max(left width, right width + shift). Overlapping
// combinations can carry the value past 2^Width.
func (o *OddClass) Width() int { return o.width }

// Shift returns the exponent applied to the right parent
func (o *OddClass) Shift() int { return o.shift }

// LeftSign reports whether the left parent is added
func (o *OddClass) LeftSign() bool { return o.leftSign }

// RightSign reports whether the shifted right parent is added
func (o *OddClass) RightSign() bool { return o.rightSign }

// Left returns the left parent, nil for the unit
func (o *OddClass) Left() *OddClass { return o.left }

// Right returns the right parent, nil for the unit
func (o *OddClass) Right() *OddClass { return o.right }

// IsUnit reports whether o is a base node
func (o *OddClass) IsUnit() bool {
	return o != nil && o.left == nil && o.right == nil && o.value == 1
}

// String renders the node as "( v | ±l ± r·2^s )".
func (o *OddClass) String() string {
	if o == nil {
		return "( nil )"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "( %d", o.value)
	if !o.IsUnit() {
		lsign := " "
		if !o.leftSign {
			lsign = "-"
		}
		rsign := "+"
		if !o.rightSign {
			rsign = "-"
		}
		fmt.Fprintf(&sb, " | %s%d %s %d·2^%d", lsign, o.left.value, rsign, o.right.value, o.shift)
	}
	sb.WriteString(" )")
	return sb.String()
}
