package report

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
	"github.com/vybium/vybium-chains/internal/vybium-chains/database"
	"github.com/vybium/vybium-chains/internal/vybium-chains/utils"
)

// ErrIncomplete is returned by ImportYAML when the file does not cover every
// odd value of the expected bit length.
var ErrIncomplete = errors.New("incomplete chain table")

// Prescriptions maps a value to the index form of one of its minimal chains.
// The unit is listed as "1: []".
type Prescriptions map[int64][]core.AddShift

// Collect takes the first minimal chain of every value in db, optionally
// restricted to values below limit (0 = no limit).
func Collect(db *database.Database, limit int64) (Prescriptions, error) {
	out := make(Prescriptions, db.Len())
	for _, e := range db.Entries() {
		if limit > 0 && e.Value >= limit {
			break
		}
		steps, err := e.Chains[0].Prescriptions()
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", e.Value)
		}
		out[e.Value] = steps
	}
	return out, nil
}

// ExportYAML writes the prescriptions of db to w, keys in ascending order.
func ExportYAML(w io.Writer, db *database.Database, limit int64) error {
	p, err := Collect(db, limit)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return errors.Wrap(err, "encoding prescriptions")
	}
	return enc.Close()
}

// ImportYAML reads prescriptions written by ExportYAML into a fresh database.
// Every chain is rebuilt and verified against its key. When bitLen > 0 the
// table must hold exactly the 2^bitLen/2 odd values below 2^bitLen.
func ImportYAML(r io.Reader, bitLen int) (*database.Database, error) {
	var p Prescriptions
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decoding prescriptions")
	}
	return p.Database(bitLen)
}

// Database rebuilds and verifies every chain of p.
func (p Prescriptions) Database(bitLen int) (*database.Database, error) {
	if bitLen < 0 || bitLen > core.MaxWidth {
		return nil, errors.Errorf("bit length %d out of range [0, %d]", bitLen, core.MaxWidth)
	}
	if bitLen > 0 {
		want := (1 << bitLen) / 2
		if len(p) != want {
			return nil, errors.Wrapf(ErrIncomplete, "%d chains, expected %d (1: [] included)", len(p), want)
		}
	}

	db := database.New()
	for v, steps := range p {
		if bitLen > 0 && (!utils.IsOdd(v) || utils.BitLen(v) > bitLen) {
			return nil, errors.Wrapf(ErrIncomplete, "unexpected value %d", v)
		}
		c, err := core.FromPrescriptions(steps)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", v)
		}
		if got := c.Last().Value(); got != v {
			return nil, errors.Wrapf(core.ErrMalformedChain, "chain for %d evaluates to %d", v, got)
		}
		if v == 1 {
			continue
		}
		db.Admit(c)
	}
	return db, nil
}
