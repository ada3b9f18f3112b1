// Package report turns a chain database into the human-readable listing and
// the prescription files consumed by scalar multiplication.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
	"github.com/vybium/vybium-chains/internal/vybium-chains/database"
	"github.com/vybium/vybium-chains/internal/vybium-chains/utils"
)

// Line is one reported value.
type Line struct {
	Value      int64
	Length     int
	Chains     []core.Chain // minimal chains, sorted; never empty
	GapBefore  bool         // the previous odd value is missing
	Unverified bool         // above the exhaustive threshold
}

// Report is the sorted view of a database.
type Report struct {
	MaxBitWidth int
	Threshold   int64 // 2^(MaxBitWidth-1)
	Lines       []Line

	// Coverage of the odd values below Threshold.
	Covered      uint
	Total        uint
	FirstMissing int64 // 0 when every odd value below Threshold is present
}

// Build snapshots db into a report.
func Build(db *database.Database, maxBitWidth int) (*Report, error) {
	if db == nil {
		return nil, errors.New("database must not be nil")
	}
	if maxBitWidth < 2 || maxBitWidth > core.MaxWidth {
		return nil, errors.Errorf("max bit width %d out of range [2, %d]", maxBitWidth, core.MaxWidth)
	}

	threshold := int64(1) << (maxBitWidth - 1)
	total := uint(threshold / 2)
	entries := db.Entries()

	// sized to the stored values, not to the threshold
	var size uint
	for _, e := range entries {
		if e.Value < threshold {
			size = utils.OddIndex(e.Value) + 1
		}
	}
	covered := bitset.New(size)

	r := &Report{MaxBitWidth: maxBitWidth, Threshold: threshold, Total: total}
	prev := int64(-1)
	for _, e := range entries {
		if e.Value < threshold {
			covered.Set(utils.OddIndex(e.Value))
		}
		r.Lines = append(r.Lines, Line{
			Value:      e.Value,
			Length:     e.Length,
			Chains:     e.Chains,
			GapBefore:  prev > 0 && e.Value != prev+2,
			Unverified: e.Value > threshold,
		})
		prev = e.Value
	}

	r.Covered = covered.Count()
	if idx, ok := covered.NextClear(0); ok {
		r.FirstMissing = utils.OddFromIndex(idx)
	} else if covered.Len() < total {
		r.FirstMissing = utils.OddFromIndex(covered.Len())
	}
	return r, nil
}

// Options control rendering.
type Options struct {
	AllChains bool // one line per minimal chain instead of one per value
	Styled    bool // terminal colors
}

type styles struct {
	on                 bool
	value, muted, warn lipgloss.Style
}

func newStyles(styled bool) styles {
	return styles{
		on:    styled,
		value: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7")),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
	}
}

func (st styles) paint(s lipgloss.Style, text string) string {
	if !st.on {
		return text
	}
	return s.Render(text)
}

// Render writes r to w.
func Render(w io.Writer, r *Report, opts Options) error {
	st := newStyles(opts.Styled)
	marked := false

	for _, l := range r.Lines {
		if l.GapBefore {
			if _, err := fmt.Fprintln(w, st.paint(st.muted, "---")); err != nil {
				return err
			}
		}
		if l.Unverified && !marked {
			marker := fmt.Sprintf("=== above 2^%d = %d: not exhaustive, unverified ===", r.MaxBitWidth-1, r.Threshold)
			if _, err := fmt.Fprintln(w, st.paint(st.warn, marker)); err != nil {
				return err
			}
			marked = true
		}

		chains := l.Chains
		if !opts.AllChains {
			chains = chains[:1]
		}
		for _, c := range chains {
			line := st.paint(st.value, fmt.Sprintf("%d:", l.Value)) + " " + FormatChain(c)
			if l.Unverified {
				line += " " + st.paint(st.warn, "(unverified)")
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	summary := fmt.Sprintf("coverage: %d/%d odd values below %d", r.Covered, r.Total, r.Threshold)
	if r.FirstMissing > 0 {
		summary += fmt.Sprintf(", first missing %d", r.FirstMissing)
	}
	_, err := fmt.Fprintln(w, st.paint(st.muted, summary))
	return err
}

// FormatChain renders c as "[len 3] 1 -> 3 -> 45   ( 3 |  1 + 1·2^1 ) ( 45 | -3 + 3·2^4 )".
func FormatChain(c core.Chain) string {
	vals := c.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}

	var steps []string
	for _, n := range c.Nodes() {
		if !n.IsUnit() {
			steps = append(steps, n.String())
		}
	}

	s := fmt.Sprintf("[len %d] %s", c.Len(), strings.Join(parts, " -> "))
	if len(steps) > 0 {
		s += "   " + strings.Join(steps, " ")
	}
	return s
}
