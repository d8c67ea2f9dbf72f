package gallery

import (
	"errors"
	"fmt"
)

// Key identifies a keyboard input the viewer reacts to.
type Key string

const (
	KeyEscape     Key = "Escape"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// Keymap is the host's global key-handler registry. Bindings registered on
// open must be released on close so no handler leaks past the viewer's
// lifetime.
type Keymap interface {
	Bind(handler func(Key))
	Unbind()
}

// ViewState is the viewer's ephemeral UI state. While open, Index is
// always in [0, Total).
type ViewState struct {
	IsOpen bool `json:"is_open"`
	Index  int  `json:"index"`
	Total  int  `json:"total"`
}

// Carousel is a cyclic photo viewer over an ordered photo list: a small
// state machine with states Closed and Open(index). It is UI-session
// state, driven from the single cooperative UI thread.
type Carousel struct {
	total  int
	index  int
	open   bool
	keymap Keymap
}

// New builds a closed viewer over a list of the given size. keymap may be
// nil when the host has no keyboard.
func New(total int, keymap Keymap) *Carousel {
	if total < 0 {
		total = 0
	}
	return &Carousel{total: total, keymap: keymap}
}

func (c *Carousel) State() ViewState {
	return ViewState{IsOpen: c.open, Index: c.index, Total: c.total}
}

// SetPhotos replaces the underlying photo list and resets the viewer to
// Closed, releasing key bindings if it was open.
func (c *Carousel) SetPhotos(total int) {
	if total < 0 {
		total = 0
	}
	c.Close()
	c.total = total
	c.index = 0
}

// Open transitions Closed|Open -> Open(i). Only valid with photos present
// and i in range.
func (c *Carousel) Open(i int) error {
	if c.total == 0 {
		return errors.New("invalid transition: cannot open an empty gallery")
	}
	if i < 0 || i >= c.total {
		return fmt.Errorf("invalid transition: index %d out of range [0,%d)", i, c.total)
	}
	c.index = i
	if !c.open {
		c.open = true
		if c.keymap != nil {
			c.keymap.Bind(c.handleKey)
		}
	}
	return nil
}

// Close transitions to Closed from any state and detaches key bindings.
func (c *Carousel) Close() {
	if c.open && c.keymap != nil {
		c.keymap.Unbind()
	}
	c.open = false
}

// Prev moves one photo back, wrapping from the first to the last.
func (c *Carousel) Prev() error {
	if !c.open {
		return errors.New("invalid transition: viewer is closed")
	}
	c.index = (c.index - 1 + c.total) % c.total
	return nil
}

// Next moves one photo forward, wrapping from the last to the first.
func (c *Carousel) Next() error {
	if !c.open {
		return errors.New("invalid transition: viewer is closed")
	}
	c.index = (c.index + 1) % c.total
	return nil
}

// JumpTo selects a photo directly (thumbnail strip).
func (c *Carousel) JumpTo(i int) error {
	if !c.open {
		return errors.New("invalid transition: viewer is closed")
	}
	if i < 0 || i >= c.total {
		return fmt.Errorf("invalid transition: index %d out of range [0,%d)", i, c.total)
	}
	c.index = i
	return nil
}

// handleKey is only bound while the viewer is open.
func (c *Carousel) handleKey(k Key) {
	switch k {
	case KeyEscape:
		c.Close()
	case KeyArrowLeft:
		_ = c.Prev()
	case KeyArrowRight:
		_ = c.Next()
	}
}
