// Package view tags every piece of a page as either server-composed or
// client-interactive and enforces the boundary between the two.
//
// A client-interactive node renders with a client-scoped context. Data
// access checks that scope through Guard and refuses to run inside it.
// Server content handed to a client node travels as a sealed Payload: the
// client node can place it but never look inside it or recompute it.
package view

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/a-h/templ"
)

type Kind int

const (
	ServerComposed Kind = iota
	ClientInteractive
)

func (k Kind) String() string {
	if k == ClientInteractive {
		return "client"
	}
	return "server"
}

var (
	ErrClientFetch = errors.New("client-interactive unit attempted a data fetch")
	ErrClientSeal  = errors.New("server content cannot be composed inside a client-interactive unit")
)

type scopeKey struct{}

type scope struct {
	kind Kind
	name string
}

// Node is a templ component carrying its composition tag.
type Node struct {
	kind      Kind
	name      string
	component templ.Component
}

func Server(name string, c templ.Component) Node {
	return Node{kind: ServerComposed, name: name, component: c}
}

func Client(name string, c templ.Component) Node {
	return Node{kind: ClientInteractive, name: name, component: c}
}

func (n Node) Kind() Kind { return n.kind }

func (n Node) Name() string { return n.name }

func (n Node) Render(ctx context.Context, w io.Writer) error {
	if n.component == nil {
		return nil
	}
	if n.kind == ClientInteractive {
		ctx = context.WithValue(ctx, scopeKey{}, scope{kind: ClientInteractive, name: n.name})
	}
	return n.component.Render(ctx, w)
}

// ScopeOf reports the innermost tagged scope ctx is rendering under.
func ScopeOf(ctx context.Context) (Kind, string) {
	s, ok := ctx.Value(scopeKey{}).(scope)
	if !ok {
		return ServerComposed, ""
	}
	return s.kind, s.name
}

// Guard returns ErrClientFetch when called from a client-interactive scope.
func Guard(ctx context.Context) error {
	if kind, _ := ScopeOf(ctx); kind == ClientInteractive {
		return ErrClientFetch
	}
	return nil
}

// Payload is a pre-rendered server subtree. It only renders itself.
type Payload struct {
	name string
	html []byte
}

// Seal renders c under server scope and freezes the result.
func Seal(ctx context.Context, name string, c templ.Component) (Payload, error) {
	if err := Guard(ctx); err != nil {
		return Payload{}, ErrClientSeal
	}
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return Payload{}, err
	}
	return Payload{name: name, html: buf.Bytes()}, nil
}

func (p Payload) Name() string { return p.name }

func (p Payload) Empty() bool { return len(p.html) == 0 }

func (p Payload) Render(_ context.Context, w io.Writer) error {
	_, err := w.Write(p.html)
	return err
}

// Fragment renders its children back to back.
func Fragment(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range children {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
