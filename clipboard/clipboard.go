// Package clipboard reads text from the desktop clipboard or the primary
// selection. Reads are asynchronous: each call delivers exactly one Text.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/spf13/pflag"
)

// ErrUnsupported is returned when the platform has no such buffer.
var ErrUnsupported = errors.New("clipboard source not supported on this platform")

// Source selects the buffer to read.
type Source int

const (
	// Clipboard is the explicit copy/paste buffer.
	Clipboard Source = iota
	// Selection is the X11 primary selection (last highlighted text).
	Selection
)

func (s Source) String() string {
	switch s {
	case Clipboard:
		return "clipboard"
	case Selection:
		return "selection"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// ParseSource accepts "clipboard" and "selection" (also "primary").
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clipboard":
		return Clipboard, nil
	case "selection", "primary":
		return Selection, nil
	}
	return Clipboard, fmt.Errorf("unknown clipboard source %q (valid: clipboard, selection)", s)
}

var _ pflag.Value = (*Source)(nil)

// Set implements pflag.Value.
func (s *Source) Set(v string) error {
	parsed, err := ParseSource(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Type implements pflag.Value.
func (s *Source) Type() string {
	return "source"
}

// Text is the result of a read.
type Text struct {
	Value string
	Err   error
}

// Reader is the clipboard capability consumed by the session.
type Reader interface {
	ReadText(ctx context.Context, src Source) <-chan Text
}

// System reads the desktop clipboard.
type System struct {
	// mu serializes reads: the selection is chosen through a package
	// level switch in the underlying library.
	mu sync.Mutex
}

// ReadText implements Reader.
func (s *System) ReadText(ctx context.Context, src Source) <-chan Text {
	out := make(chan Text, 1)
	go func() {
		if err := ctx.Err(); err != nil {
			out <- Text{Err: err}
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		out <- read(src)
	}()
	return out
}

func read(src Source) Text {
	switch src {
	case Clipboard:
		v, err := clipboard.ReadAll()
		return Text{Value: v, Err: err}
	case Selection:
		v, err := readPrimary()
		return Text{Value: v, Err: err}
	}
	return Text{Err: fmt.Errorf("read %v: %w", src, ErrUnsupported)}
}

// Static returns fixed text per source. Missing sources read as empty.
type Static map[Source]string

// ReadText implements Reader.
func (s Static) ReadText(_ context.Context, src Source) <-chan Text {
	out := make(chan Text, 1)
	out <- Text{Value: s[src]}
	return out
}
