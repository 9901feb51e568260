package structure

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/types"
)

type lineScanner struct {
	sc     *bufio.Scanner
	source string
	line   int
}

func (l *lineScanner) next(what string) (string, error) {
	if l.sc.Scan() {
		l.line++
		return l.sc.Text(), nil
	}
	if err := l.sc.Err(); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed reading %s", l.source).
			WithDetail("source", l.source)
	}
	return "", parseError(l.source, l.line+1, "unexpected end of file, expected %s", what)
}

func parseFloats(fields []string, n int) ([]float64, bool) {
	if len(fields) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// ParsePOSCAR reads a VASP POSCAR or CONTCAR file. Both VASP 4 (no species
// line) and VASP 5 layouts are accepted, as are selective dynamics flags,
// Cartesian coordinates, per-axis scale factors and a negative scale, which
// VASP reads as the target cell volume.
func ParsePOSCAR(r io.Reader, source string) (types.Structure, error) {
	ls := &lineScanner{sc: bufio.NewScanner(r), source: source}
	s := types.Structure{Source: source}

	comment, err := ls.next("comment line")
	if err != nil {
		return s, err
	}
	s.Comment = strings.TrimSpace(comment)

	scaleLine, err := ls.next("scale factor")
	if err != nil {
		return s, err
	}
	scaleFields := strings.Fields(scaleLine)
	scale, ok := parseFloats(scaleFields, 3)
	if !ok {
		scale, _ = parseFloats(scaleFields, 1)
	}
	if scale == nil {
		return s, parseError(source, ls.line, "invalid scale factor %q", strings.TrimSpace(scaleLine))
	}

	for i := 0; i < 3; i++ {
		line, err := ls.next("lattice vector")
		if err != nil {
			return s, err
		}
		v, ok := parseFloats(strings.Fields(line), 3)
		if !ok {
			return s, parseError(source, ls.line, "invalid lattice vector %q", strings.TrimSpace(line))
		}
		copy(s.Lattice[i][:], v)
	}

	var factors [3]float64
	s.Lattice, factors, err = applyScale(s.Lattice, scale, source, ls.line)
	if err != nil {
		return s, err
	}

	line, err := ls.next("species or counts")
	if err != nil {
		return s, err
	}
	var species []string
	fields := strings.Fields(line)
	if len(fields) > 0 {
		if _, convErr := strconv.Atoi(fields[0]); convErr != nil {
			species = fields
			if line, err = ls.next("species counts"); err != nil {
				return s, err
			}
			fields = strings.Fields(line)
		}
	}
	counts, err := parseCounts(fields, len(species), source, ls.line)
	if err != nil {
		return s, err
	}
	if species == nil {
		species = speciesFromComment(s.Comment, len(counts))
	}

	mode, err := ls.next("coordinate mode")
	if err != nil {
		return s, err
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(mode)), "s") {
		if mode, err = ls.next("coordinate mode"); err != nil {
			return s, err
		}
	}
	cartesian := false
	if m := strings.ToLower(strings.TrimSpace(mode)); m != "" {
		cartesian = m[0] == 'c' || m[0] == 'k'
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	positions := make([]types.Vector3, 0, total)
	for i := 0; i < total; i++ {
		line, err := ls.next("atomic position")
		if err != nil {
			return s, err
		}
		v, ok := parseFloats(strings.Fields(line), 3)
		if !ok {
			return s, parseError(source, ls.line, "invalid atomic position %q", strings.TrimSpace(line))
		}
		positions = append(positions, types.Vector3{v[0], v[1], v[2]})
	}

	if cartesian {
		for i := range positions {
			for k := 0; k < 3; k++ {
				positions[i][k] *= factors[k]
			}
		}
		if positions, err = toFractional(s.Lattice, positions); err != nil {
			return s, err
		}
	}
	s.Positions = positions

	for i, c := range counts {
		number := i + 1
		symbol := ""
		if species != nil {
			symbol = cleanSymbol(species[i])
			if z, ok := AtomicNumber(symbol); ok {
				number = z
			}
		}
		for j := 0; j < c; j++ {
			s.Numbers = append(s.Numbers, number)
			if species != nil {
				s.Symbols = append(s.Symbols, symbol)
			}
		}
	}

	return s, nil
}

func parseCounts(fields []string, nSpecies int, source string, line int) ([]int, error) {
	if len(fields) == 0 {
		return nil, parseError(source, line, "missing species counts")
	}
	if nSpecies > 0 && len(fields) < nSpecies {
		return nil, parseError(source, line, "%d species but %d counts", nSpecies, len(fields))
	}
	n := len(fields)
	if nSpecies > 0 {
		n = nSpecies
	}
	counts := make([]int, n)
	for i := 0; i < n; i++ {
		c, err := strconv.Atoi(fields[i])
		if err != nil || c < 0 {
			return nil, parseError(source, line, "invalid species count %q", fields[i])
		}
		counts[i] = c
	}
	return counts, nil
}

// speciesFromComment recovers VASP 4 species names from the comment line
// when it lists exactly one element per count.
func speciesFromComment(comment string, n int) []string {
	fields := strings.Fields(comment)
	if len(fields) < n {
		return nil
	}
	for _, f := range fields[:n] {
		if _, ok := AtomicNumber(f); !ok {
			return nil
		}
	}
	return fields[:n]
}

// applyScale scales the lattice and returns the per-axis factors, which
// VASP also applies to Cartesian positions.
func applyScale(lattice types.Matrix3, scale []float64, source string, line int) (types.Matrix3, [3]float64, error) {
	var factors [3]float64
	if len(scale) == 3 {
		copy(factors[:], scale)
	} else {
		s := scale[0]
		switch {
		case s == 0:
			return lattice, factors, parseError(source, line, "scale factor is zero")
		case s < 0:
			vol := math.Abs(mat.Det(latticeDense(lattice)))
			if vol == 0 {
				return lattice, factors, parseError(source, line, "lattice is singular")
			}
			s = math.Cbrt(-s / vol)
		}
		factors = [3]float64{s, s, s}
	}

	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			lattice[i][k] *= factors[k]
		}
	}
	return lattice, factors, nil
}
