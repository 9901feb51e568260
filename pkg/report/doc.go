// Package report serializes classified symmetry operations.
//
// Two reports are produced:
//
//   - the full log: every operation in input order with its rotation,
//     translation and spin rotation, plus the group labels. Human-facing,
//     no format stability beyond containing all the data.
//
//   - the flip-operations file: only the spatial rotations of spin-flip
//     operations. Its format is parsed by k-path generators and is a
//     contract:
//
//     # Found <M> spin-flipping operations
//     # Original Indices: [<i1>, <i2>, ...]
//     Operation_1
//     r11 r12 r13
//     r21 r22 r23
//     r31 r32 r33
//     <blank line>
//     ...
//
// When no operation flips spin the flip-operations file is not created at
// all, so a missing file means "no flip operations".
//
// Destinations are written through afero. Content is staged in a temporary
// file next to the destination and renamed into place on commit, so a
// failed run never leaves a truncated report behind.
package report
