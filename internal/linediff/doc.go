// Package linediff computes positional line differences between two versions
// of a file and applies them back.
//
// The diff is deliberately NOT alignment based. Lines are compared index by
// index, so a single line inserted near the top of a file produces a
// remove+add pair for every following line:
//
//	old: a b c
//	new: x a b c
//	ops: -1 a, +1 x, -2 b, +2 a, -3 c, +3 b, +4 c
//
// Diff and Apply form one coupled unit. Replaying Diff(old, new) on old with
// Apply reproduces new exactly; replacing either half with a different
// algorithm requires redesigning the other.
package linediff
