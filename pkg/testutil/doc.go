// Package testutil provides helpers shared by spinflip's package tests.
//
// Key components:
//   - Isolate: points user config, the log file and color detection at
//     per-test locations so tests never read or write the developer's setup
//   - MemFS: in-memory filesystem pre-populated with fixtures
//   - file assertions working on any afero.Fs
//
// Usage guidelines:
//   - Prefer MemFS for pipeline and report tests; use t.TempDir only where
//     a real path must be handed to a subprocess or the CLI
//   - Keep fixtures inline unless they are realistic input files, which
//     live in the package's testdata directory
package testutil
