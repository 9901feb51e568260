// Package types defines the core data model shared across spinflip.
// This includes the symmetry operation triple (spatial rotation, spatial
// translation, spin rotation), the ordered OperationSet produced by an
// external symmetry search, per-operation flip classifications, crystal
// structures, and the descriptive group labels attached to reports.
package types
