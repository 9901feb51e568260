package types

// Matrix3 is a row-major 3x3 matrix of real numbers
type Matrix3 [3][3]float64

// Vector3 is a length-3 vector of real numbers
type Vector3 [3]float64

// Identity3 returns the 3x3 identity matrix
func Identity3() Matrix3 {
	return Matrix3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Flat returns the matrix elements in row-major order
func (m Matrix3) Flat() []float64 {
	out := make([]float64, 0, 9)
	for _, row := range m {
		out = append(out, row[0], row[1], row[2])
	}
	return out
}

// MatrixFromRows builds a Matrix3 from nested slices, as decoded from
// YAML, TOML or JSON documents. It reports false when the shape is not 3x3.
func MatrixFromRows(rows [][]float64) (Matrix3, bool) {
	var m Matrix3
	if len(rows) != 3 {
		return m, false
	}
	for i, row := range rows {
		if len(row) != 3 {
			return m, false
		}
		copy(m[i][:], row)
	}
	return m, true
}

// VectorFromSlice builds a Vector3 from a slice, reporting false when the
// length is not 3.
func VectorFromSlice(values []float64) (Vector3, bool) {
	var v Vector3
	if len(values) != 3 {
		return v, false
	}
	copy(v[:], values)
	return v, true
}
