package types

import (
	"github.com/arthur-debert/spinflip/pkg/errors"
)

// Structure is a periodic crystal structure. Lattice rows are the lattice
// vectors, Positions are fractional coordinates, and Numbers identify the
// species of each atom (atomic numbers when known).
type Structure struct {
	Source    string
	Comment   string
	Lattice   Matrix3
	Positions []Vector3
	Numbers   []int
	Symbols   []string
}

// NumAtoms returns the number of atoms in the structure
func (s Structure) NumAtoms() int {
	return len(s.Positions)
}

// Validate checks that per-atom sequences agree
func (s Structure) Validate() error {
	if len(s.Positions) == 0 {
		return errors.New(errors.ErrParse, "structure contains no atoms")
	}
	if len(s.Numbers) != len(s.Positions) {
		return errors.Newf(errors.ErrParse, "structure has %d positions but %d species numbers",
			len(s.Positions), len(s.Numbers))
	}
	if len(s.Symbols) != 0 && len(s.Symbols) != len(s.Positions) {
		return errors.Newf(errors.ErrParse, "structure has %d positions but %d species symbols",
			len(s.Positions), len(s.Symbols))
	}
	return nil
}

// Moments holds one magnetic moment vector per atom
type Moments []Vector3
