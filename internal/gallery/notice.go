package gallery

import (
	"errors"
	"log/slog"
)

var (
	ErrReferenceNotFound = errors.New("image not found")
	ErrFolderNotFound    = errors.New("folder not found")
	ErrInvalidDirective  = errors.New("invalid directive")
)

// Notice is a user-visible, non-fatal diagnostic produced while turning a
// source block into a gallery.
type Notice struct {
	Err     error
	Message string
}

func (n Notice) Error() string {
	return n.Message
}

func (n Notice) Unwrap() error {
	return n.Err
}

// Notices collects diagnostics in the order they were raised.
type Notices struct {
	list []Notice
}

func (n *Notices) Add(kind error, message string) {
	slog.Warn("litegal: "+message, slog.String("kind", kind.Error()))
	n.list = append(n.list, Notice{Err: kind, Message: message})
}

func (n *Notices) List() []Notice {
	if n == nil {
		return nil
	}
	return n.list
}

func (n *Notices) Len() int {
	if n == nil {
		return 0
	}
	return len(n.list)
}

// Count returns how many notices wrap the given kind.
func (n *Notices) Count(kind error) int {
	count := 0
	for _, notice := range n.List() {
		if errors.Is(notice, kind) {
			count++
		}
	}
	return count
}
