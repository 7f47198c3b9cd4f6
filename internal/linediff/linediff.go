package linediff

import "fmt"

// Kind distinguishes the two kinds of line change.
type Kind int

const (
	Removed Kind = iota
	Added
)

// String returns the persisted action name ("added" or "removed").
func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// ParseKind maps a persisted action name back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "added":
		return Added, nil
	case "removed":
		return Removed, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// Op is a single line change. Index is 0-based; the persisted form is
// 1-based (see package entry).
type Op struct {
	Kind    Kind
	Index   int
	Content string
}

// Line returns the 1-based line number of the op.
func (o Op) Line() int {
	return o.Index + 1
}

// Diff returns the ordered ops that turn old into new.
//
// For each position where the sequences differ, the old line (if any) is
// removed before the new line (if any) is added at the same index.
// Identical sequences yield an empty, non-nil slice.
func Diff(old, new []string) []Op {
	n := max(len(old), len(new))
	ops := []Op{}

	for i := 0; i < n; i++ {
		oldOK := i < len(old)
		newOK := i < len(new)
		if oldOK && newOK && old[i] == new[i] {
			continue
		}
		if oldOK {
			ops = append(ops, Op{Kind: Removed, Index: i, Content: old[i]})
		}
		if newOK {
			ops = append(ops, Op{Kind: Added, Index: i, Content: new[i]})
		}
	}

	return ops
}

// Apply applies a single op to lines and returns the result. The input slice
// may be modified.
//
// Added inserts at Index when Index is inside the sequence and appends
// otherwise. Removed deletes the line at Index when it exists; past the end
// it deletes the last line, and on an empty sequence it is a no-op. The
// recorded content is never consulted.
// A trailing run of removals (old longer than new) relies on this: each
// removal shifts the rest of the run past the end of the sequence.
func Apply(lines []string, op Op) []string {
	switch op.Kind {
	case Added:
		if op.Index >= 0 && op.Index < len(lines) {
			lines = append(lines, "")
			copy(lines[op.Index+1:], lines[op.Index:])
			lines[op.Index] = op.Content
			return lines
		}
		return append(lines, op.Content)
	case Removed:
		if len(lines) == 0 {
			return lines
		}
		if op.Index >= 0 && op.Index < len(lines) {
			return append(lines[:op.Index], lines[op.Index+1:]...)
		}
		if op.Index >= len(lines) {
			return lines[:len(lines)-1]
		}
	}
	return lines
}

// ApplyAll applies ops in order to a copy of lines.
func ApplyAll(lines []string, ops []Op) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	for _, op := range ops {
		out = Apply(out, op)
	}
	return out
}
