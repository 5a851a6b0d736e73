package interactive

import (
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/view"
	"github.com/a-h/templ"
)

// Modal shows sealed server content on demand. It only decides whether
// the content is visible.
type Modal struct {
	mu      sync.Mutex
	id      string
	label   string
	open    bool
	content view.Payload
}

func NewModal(id, label string, content view.Payload) *Modal {
	return &Modal{id: id, label: label, content: content}
}

func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Trigger flips the modal, as the open button does.
func (m *Modal) Trigger() {
	m.mu.Lock()
	m.open = !m.open
	m.mu.Unlock()
}

func (m *Modal) Close() {
	m.mu.Lock()
	m.open = false
	m.mu.Unlock()
}

// ClickOutside closes the modal; clicks inside the content do nothing.
func (m *Modal) ClickOutside() {
	m.Close()
}

func (m *Modal) ClickInside() {}

// modalState is what one render of the modal reads.
type modalState struct {
	signal string
	label  string
	open   bool
}

func (v modalState) signals() string {
	return "{" + v.signal + ": " + strconv.FormatBool(v.open) + "}"
}

func (v modalState) toggleScript() string {
	return "$" + v.signal + " = !$" + v.signal
}

func (v modalState) closeScript() string {
	return "$" + v.signal + " = false"
}

func (v modalState) display() templ.SafeCSS {
	if v.open {
		return "display:flex"
	}
	return "display:none"
}

func (m *Modal) Node() view.Node {
	return view.Client("modal", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v := modalState{signal: m.id + "Open", label: m.label, open: m.IsOpen()}
		return modalView(v, m.content).Render(ctx, w)
	}))
}
