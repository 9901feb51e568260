package types

import "fmt"

// LabelStatus tells whether a group label was produced by its analyzer
type LabelStatus string

const (
	// LabelFound means the analyzer produced a label
	LabelFound LabelStatus = "found"

	// LabelUnavailable means detection ran and produced nothing
	LabelUnavailable LabelStatus = "unavailable"

	// LabelNotAttempted means no analyzer was asked for this label
	LabelNotAttempted LabelStatus = "not_attempted"
)

// Placeholders printed in place of labels that could not be produced
const (
	PlaceholderUnknown  = "Unknown"
	PlaceholderNotFound = "Not found"
)

// Label is a descriptive group label or an explicit marker of its absence
type Label struct {
	Text        string
	Status      LabelStatus
	Placeholder string
	Reason      string
}

// FoundLabel wraps a label text produced by an analyzer
func FoundLabel(text string) Label {
	return Label{Text: text, Status: LabelFound}
}

// UnavailableLabel marks a label that detection failed to produce
func UnavailableLabel(placeholder, reason string) Label {
	return Label{Status: LabelUnavailable, Placeholder: placeholder, Reason: reason}
}

// NotAttemptedLabel marks a label nobody tried to produce
func NotAttemptedLabel(placeholder string) Label {
	return Label{Status: LabelNotAttempted, Placeholder: placeholder}
}

// Found reports whether the label carries analyzer output
func (l Label) Found() bool {
	return l.Status == LabelFound
}

// String returns the label text, or its placeholder when absent
func (l Label) String() string {
	if l.Found() {
		return l.Text
	}
	if l.Placeholder != "" {
		return l.Placeholder
	}
	return PlaceholderUnknown
}

// LabelInfo is the descriptive block attached once to the full report
type LabelInfo struct {
	NonMagnetic        Label
	SpinOnlyGroup      Label
	MagneticSpaceGroup Label
}

// String renders the block exactly as it appears in the full report
func (li LabelInfo) String() string {
	return fmt.Sprintf("Non-Magnetic Label: %s\nSpin-Only Group Type: %s\nMagnetic Space Group Label: %s",
		li.NonMagnetic, li.SpinOnlyGroup, li.MagneticSpaceGroup)
}
