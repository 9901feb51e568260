package ui

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/arthur-debert/spinflip/pkg/magnetic"
	"github.com/arthur-debert/spinflip/pkg/pipeline"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// Summary is the console view of a completed run
type Summary struct {
	Structure          string    `json:"structure"`
	Atoms              int       `json:"atoms"`
	SpaceGroup         string    `json:"space_group"`
	SpaceGroupFound    bool      `json:"space_group_found"`
	Symbols            []string  `json:"symbols,omitempty"`
	Moments            []float64 `json:"moments"`
	MomentsPadded      int       `json:"moments_padded,omitempty"`
	MomentsTruncated   int       `json:"moments_truncated,omitempty"`
	SpinOnlyGroup      string    `json:"spin_only_group"`
	MagneticSpaceGroup string    `json:"magnetic_space_group"`
	Operations         int       `json:"operations"`
	FlipIndices        []int     `json:"flip_indices"`
	Anomalous          []int     `json:"anomalous,omitempty"`
	LogFile            string    `json:"log_file,omitempty"`
	FlipFile           string    `json:"flip_file,omitempty"`
	StaleFlipFile      string    `json:"stale_flip_file,omitempty"`
}

// NewSummary flattens a pipeline result for display
func NewSummary(res pipeline.Result) Summary {
	s := Summary{
		Structure:          res.Structure.Source,
		Atoms:              res.Structure.NumAtoms(),
		SpaceGroup:         res.Labels.NonMagnetic.String(),
		SpaceGroupFound:    res.Labels.NonMagnetic.Found(),
		Symbols:            res.Structure.Symbols,
		Moments:            magnetic.Scalars(res.Moments),
		MomentsPadded:      res.Adjustment.Padded,
		MomentsTruncated:   res.Adjustment.Truncated,
		SpinOnlyGroup:      res.Labels.SpinOnlyGroup.String(),
		MagneticSpaceGroup: res.Labels.MagneticSpaceGroup.String(),
		Operations:         res.Operations.Len(),
		FlipIndices:        flipIndices(res.Classes),
		Anomalous:          res.Anomalous,
		LogFile:            res.Outcome.LogPath,
		StaleFlipFile:      res.Outcome.StaleFlipPath,
	}
	if res.Outcome.FlipsWritten {
		s.FlipFile = res.Outcome.FlipPath
	}
	return s
}

// InspectionRow is one classified operation
type InspectionRow struct {
	Index       int    `json:"index"`
	Determinant Number `json:"determinant"`
	Verdict     string `json:"verdict"`
}

// Number is a float64 that survives JSON encoding when it is not finite.
// NaN and the infinities are written as the strings "NaN", "+Inf" and "-Inf".
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return err
		}
		*n = Number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// Inspection lists every operation with its classification
type Inspection struct {
	NonMagnetic        string          `json:"non_magnetic"`
	SpinOnlyGroup      string          `json:"spin_only_group"`
	MagneticSpaceGroup string          `json:"magnetic_space_group"`
	Rows               []InspectionRow `json:"operations"`
	FlipIndices        []int           `json:"flip_indices"`
}

// NewInspection builds the per-operation view of a result
func NewInspection(res pipeline.Result) Inspection {
	in := Inspection{
		NonMagnetic:        res.Labels.NonMagnetic.String(),
		SpinOnlyGroup:      res.Labels.SpinOnlyGroup.String(),
		MagneticSpaceGroup: res.Labels.MagneticSpaceGroup.String(),
		Rows:               make([]InspectionRow, len(res.Classes)),
		FlipIndices:        flipIndices(res.Classes),
	}
	for i, c := range res.Classes {
		in.Rows[i] = InspectionRow{Index: c.Index, Determinant: Number(c.Determinant), Verdict: string(c.Verdict)}
	}
	return in
}

func flipIndices(classes []types.FlipClassification) []int {
	out := []int{}
	for _, c := range classes {
		if c.Flip {
			out = append(out, c.Index)
		}
	}
	return out
}
