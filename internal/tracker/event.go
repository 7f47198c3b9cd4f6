package tracker

import "fmt"

// Kind is the type of change a notification reports.
type Kind int

const (
	Created Kind = iota
	Modified
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one change notification for a watched file.
type Event struct {
	Path string
	Kind Kind
}
