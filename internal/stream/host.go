// Package stream renders a page progressively. The shell goes out first
// with a placeholder in every suspension boundary; each boundary is then
// flushed on its own as soon as its producer settles, in settle order.
//
// Producers run concurrently but only the page loop writes, so output is
// serialized without locks around the writer.
package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusFailed   Status = "failed"
)

var ErrBoundaryTimeout = errors.New("boundary did not resolve in time")

// Producer builds the content of a boundary. It may block on fetches.
type Producer func(ctx context.Context) (templ.Component, error)

// FailureRenderer builds the local placeholder shown when a boundary fails.
type FailureRenderer func(name string, err error) templ.Component

// Writer receives the serialized page. Calls never overlap.
type Writer interface {
	WriteShell(ctx context.Context, shell []byte) error
	WriteBoundary(ctx context.Context, id string, status Status, html []byte) error
	Close(ctx context.Context) error
}

type Host struct {
	clock   clockwork.Clock
	timeout time.Duration
	failure FailureRenderer
	logger  *log.Logger
}

type Option func(*Host)

// WithBoundaryTimeout fails any boundary still pending after d. Zero disables it.
func WithBoundaryTimeout(d time.Duration) Option {
	return func(h *Host) { h.timeout = d }
}

func WithFailureRenderer(fn FailureRenderer) Option {
	return func(h *Host) { h.failure = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(h *Host) { h.logger = l }
}

func NewHost(clock clockwork.Clock, opts ...Option) *Host {
	h := &Host{clock: clock, failure: defaultFailure, logger: log.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) Clock() clockwork.Clock {
	return h.clock
}

// BeginPage opens a page bound to ctx. Every page must end with Stream or Abort.
func (h *Host) BeginPage(ctx context.Context, w Writer) *Page {
	ctx, cancel := context.WithCancel(ctx)
	return &Page{
		id:      uuid.NewString(),
		host:    h,
		ctx:     ctx,
		cancel:  cancel,
		writer:  w,
		results: make(chan resolution),
	}
}

type boundary struct {
	id          string
	name        string
	placeholder templ.Component
}

type resolution struct {
	b    *boundary
	html []byte
	err  error
}

type Page struct {
	id      string
	host    *Host
	ctx     context.Context
	cancel  context.CancelFunc
	writer  Writer
	group   errgroup.Group
	results chan resolution

	mu      sync.Mutex
	seq     int
	pending int
	flushed bool
	order   []string
}

func (p *Page) ID() string { return p.id }

// Context lives as long as the page. Deferred fetches should use it.
func (p *Page) Context() context.Context { return p.ctx }

// Flushed reports whether the shell has been handed to the writer.
func (p *Page) Flushed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushed
}

// Resolved lists boundary names in the order they were flushed.
func (p *Page) Resolved() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.order...)
}

// RegisterBoundary starts produce right away and returns the slot to place
// in the shell. The slot shows placeholder until the boundary is flushed.
func (p *Page) RegisterBoundary(name string, placeholder templ.Component, produce Producer) templ.Component {
	p.mu.Lock()
	p.seq++
	b := &boundary{id: fmt.Sprintf("b%d", p.seq), name: name, placeholder: placeholder}
	p.pending++
	p.mu.Unlock()

	p.group.Go(func() error {
		html, err := p.settle(b, produce)
		select {
		case p.results <- resolution{b: b, html: html, err: err}:
		case <-p.ctx.Done():
		}
		return nil
	})
	return slot{b: b}
}

// Stream writes the shell, then every boundary as it settles, then closes
// the writer. A shell that fails to render is returned before anything is
// written.
func (p *Page) Stream(shell templ.Component) error {
	defer p.cancel()

	var buf bytes.Buffer
	if err := shell.Render(p.ctx, &buf); err != nil {
		p.Abort()
		if _, ok := domain.FailureKindOf(err); ok {
			return err
		}
		return domain.NewFailure(domain.CompositionFailure, "shell", err)
	}
	if err := p.writer.WriteShell(p.ctx, buf.Bytes()); err != nil {
		p.Abort()
		return err
	}
	p.mu.Lock()
	p.flushed = true
	p.mu.Unlock()

	for p.remaining() > 0 {
		select {
		case r := <-p.results:
			p.mu.Lock()
			p.pending--
			p.mu.Unlock()
			if err := p.flush(r); err != nil {
				p.Abort()
				return err
			}
		case <-p.ctx.Done():
			p.Abort()
			return p.ctx.Err()
		}
	}

	_ = p.group.Wait()
	return p.writer.Close(p.ctx)
}

// Abort cancels every pending boundary and waits for their producers.
func (p *Page) Abort() {
	p.cancel()
	_ = p.group.Wait()
}

func (p *Page) remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

func (p *Page) settle(b *boundary, produce Producer) ([]byte, error) {
	ctx, cancel := context.WithCancel(p.ctx)
	defer cancel()

	out := make(chan resolution, 1)
	go func() {
		html, err := renderBoundary(ctx, b.name, produce)
		out <- resolution{html: html, err: err}
	}()

	var expired <-chan time.Time
	if p.host.timeout > 0 {
		timer := p.host.clock.NewTimer(p.host.timeout)
		defer timer.Stop()
		expired = timer.Chan()
	}

	select {
	case r := <-out:
		return r.html, r.err
	case <-expired:
		return nil, domain.NewFailure(domain.TimeoutFailure, b.name, ErrBoundaryTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func renderBoundary(ctx context.Context, name string, produce Producer) (html []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			html, err = nil, domain.Compositionf(name, "panic: %v", r)
		}
	}()

	c, err := produce(ctx)
	if err != nil {
		if _, ok := domain.FailureKindOf(err); ok {
			return nil, err
		}
		return nil, domain.NewFailure(domain.FetchFailure, name, err)
	}

	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		if _, ok := domain.FailureKindOf(err); ok {
			return nil, err
		}
		return nil, domain.NewFailure(domain.CompositionFailure, name, err)
	}
	return buf.Bytes(), nil
}

func (p *Page) flush(r resolution) error {
	status := StatusResolved
	html := r.html
	if r.err != nil {
		status = StatusFailed
		p.host.logger.Printf("page %s: boundary %s (%s) failed: %v", p.id, r.b.name, r.b.id, r.err)
		var buf bytes.Buffer
		if err := p.host.failure(r.b.name, r.err).Render(p.ctx, &buf); err != nil {
			return err
		}
		html = buf.Bytes()
	}

	p.mu.Lock()
	p.order = append(p.order, r.b.name)
	p.mu.Unlock()

	return p.writer.WriteBoundary(p.ctx, r.b.id, status, html)
}

type slot struct {
	b *boundary
}

func (s slot) Render(ctx context.Context, w io.Writer) error {
	if _, err := fmt.Fprintf(w, `<div id="%s" data-boundary="%s" data-boundary-name="%s">`,
		s.b.id, StatusPending, templ.EscapeString(s.b.name)); err != nil {
		return err
	}
	if s.b.placeholder != nil {
		if err := s.b.placeholder.Render(ctx, w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</div>")
	return err
}

func defaultFailure(name string, err error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, werr := fmt.Fprintf(w, `<div role="alert">Could not load %s.</div>`, templ.EscapeString(name))
		return werr
	})
}
