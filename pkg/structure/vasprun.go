package structure

import (
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// ParseVasprun reads the final structure from a vasprun.xml file, falling
// back to the initial structure for runs that did not finish.
func ParseVasprun(r io.Reader, source string) (types.Structure, error) {
	s := types.Structure{Source: source}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return s, errors.Wrapf(err, errors.ErrParse, "invalid XML in %s", source).
			WithDetail("source", source)
	}

	root := doc.Root()
	if root == nil {
		return s, parseError(source, 0, "empty XML document")
	}

	structEl := selectStructure(root)
	if structEl == nil {
		return s, parseError(source, 0, "no <structure> element found")
	}
	if name := structEl.SelectAttrValue("name", ""); name != "" {
		s.Comment = name
	}

	basis := structEl.FindElements("./crystal/varray[@name='basis']/v")
	if len(basis) != 3 {
		return s, parseError(source, 0, "expected 3 basis vectors, found %d", len(basis))
	}
	for i, v := range basis {
		vec, err := parseVector(v, source)
		if err != nil {
			return s, err
		}
		s.Lattice[i] = vec
	}

	for _, v := range structEl.FindElements("./varray[@name='positions']/v") {
		vec, err := parseVector(v, source)
		if err != nil {
			return s, err
		}
		s.Positions = append(s.Positions, types.Vector3(vec))
	}

	symbols := atomSymbols(root)
	if len(symbols) == 0 {
		return s, parseError(source, 0, "no <atominfo> atoms array found")
	}
	if len(symbols) != len(s.Positions) {
		return s, parseError(source, 0, "atominfo lists %d atoms but structure has %d positions",
			len(symbols), len(s.Positions))
	}

	species := map[string]int{}
	for _, sym := range symbols {
		sym = cleanSymbol(sym)
		z, ok := AtomicNumber(sym)
		if !ok {
			if _, seen := species[sym]; !seen {
				species[sym] = len(species) + 1
			}
			z = species[sym]
		}
		s.Numbers = append(s.Numbers, z)
		s.Symbols = append(s.Symbols, sym)
	}

	return s, nil
}

func selectStructure(root *etree.Element) *etree.Element {
	for _, name := range []string{"finalpos", "initialpos"} {
		if el := root.FindElement("//structure[@name='" + name + "']"); el != nil {
			return el
		}
	}
	all := root.FindElements("//structure")
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

func atomSymbols(root *etree.Element) []string {
	var out []string
	for _, rc := range root.FindElements("//atominfo/array[@name='atoms']/set/rc") {
		c := rc.SelectElement("c")
		if c == nil {
			continue
		}
		out = append(out, strings.TrimSpace(c.Text()))
	}
	return out
}

func parseVector(el *etree.Element, source string) ([3]float64, error) {
	var out [3]float64
	fields := strings.Fields(el.Text())
	if len(fields) != 3 {
		return out, parseError(source, 0, "expected 3 components in <v>, got %q", strings.TrimSpace(el.Text()))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out, parseError(source, 0, "invalid number %q in <v>", f)
		}
		out[i] = v
	}
	return out, nil
}
