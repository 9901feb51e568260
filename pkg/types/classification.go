package types

// Verdict is the outcome of classifying a single spin rotation
type Verdict string

const (
	// VerdictFlip marks a spin rotation with determinant close to -1
	VerdictFlip Verdict = "flip"

	// VerdictPreserve marks a spin rotation with determinant close to +1
	VerdictPreserve Verdict = "preserve"

	// VerdictAnomalous marks a determinant close to neither +1 nor -1.
	// Anomalous operations are never counted as flips.
	VerdictAnomalous Verdict = "anomalous"
)

// FlipClassification is the derived per-operation verdict. Index is the
// 1-based position of the operation in its OperationSet and is kept so
// filtered output can point back at the original operation.
type FlipClassification struct {
	Index       int
	Flip        bool
	Determinant float64
	Verdict     Verdict
}

// CountFlips returns how many classifications are spin flips
func CountFlips(classes []FlipClassification) int {
	n := 0
	for _, c := range classes {
		if c.Flip {
			n++
		}
	}
	return n
}
