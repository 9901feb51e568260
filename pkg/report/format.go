package report

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/spinflip/pkg/types"
)

// FormatNumber renders v with the shortest representation that parses back
// to the same float64, so values survive a round trip bit for bit. Negative
// zero prints as "0".
func FormatNumber(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatRow renders three numbers separated by single spaces
func formatRow(row [3]float64) string {
	return FormatNumber(row[0]) + " " + FormatNumber(row[1]) + " " + FormatNumber(row[2])
}

// formatMatrix renders a matrix in nested-bracket form:
//
//	[[1 0 0]
//	 [0 1 0]
//	 [0 0 1]]
func formatMatrix(m types.Matrix3) string {
	var b strings.Builder
	for i, row := range m {
		switch i {
		case 0:
			b.WriteString("[[")
		default:
			b.WriteString(" [")
		}
		b.WriteString(formatRow(row))
		if i == len(m)-1 {
			b.WriteString("]]")
		} else {
			b.WriteString("]\n")
		}
	}
	return b.String()
}

func formatVector(v types.Vector3) string {
	return "[" + formatRow(v) + "]"
}

// formatIndexList renders [2, 4, 7]
func formatIndexList(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
