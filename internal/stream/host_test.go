package stream

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/a-h/templ"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	kind   string
	id     string
	status Status
	html   string
}

type recorder struct {
	mu     sync.Mutex
	events []event
	notify chan event
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan event, 32)}
}

func (r *recorder) push(e event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	r.notify <- e
}

func (r *recorder) WriteShell(_ context.Context, shell []byte) error {
	r.push(event{kind: "shell", html: string(shell)})
	return nil
}

func (r *recorder) WriteBoundary(_ context.Context, id string, status Status, html []byte) error {
	r.push(event{kind: "boundary", id: id, status: status, html: string(html)})
	return nil
}

func (r *recorder) Close(context.Context) error {
	r.push(event{kind: "close"})
	return nil
}

func (r *recorder) next(t *testing.T) event {
	t.Helper()
	select {
	case e := <-r.notify:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a write")
		return event{}
	}
}

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func join(cs ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range cs {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func sleeper(clk clockwork.Clock, d time.Duration, body string) Producer {
	return func(ctx context.Context) (templ.Component, error) {
		select {
		case <-clk.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return text(body), nil
	}
}

func quietHost(clk clockwork.Clock, opts ...Option) *Host {
	return NewHost(clk, append([]Option{WithLogger(log.New(io.Discard, "", 0))}, opts...)...)
}

func TestBoundariesFlushInSettleOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clk := clockwork.NewFakeClock()
	rec := newRecorder()
	page := quietHost(clk).BeginPage(ctx, rec)

	chart := page.RegisterBoundary("chart", text("loading chart"), sleeper(clk, 500*time.Millisecond, "CHART-DATA"))
	stats := page.RegisterBoundary("stats", text("loading stats"), sleeper(clk, 200*time.Millisecond, "STATS-DATA"))
	orders := page.RegisterBoundary("orders", text("loading orders"), sleeper(clk, 350*time.Millisecond, "ORDERS-DATA"))

	errCh := make(chan error, 1)
	go func() { errCh <- page.Stream(join(chart, stats, orders)) }()

	shell := rec.next(t)
	require.Equal(t, "shell", shell.kind)
	assert.Contains(t, shell.html, "loading chart")
	assert.NotContains(t, shell.html, "-DATA")

	require.NoError(t, clk.BlockUntilContext(ctx, 3))

	clk.Advance(200 * time.Millisecond)
	e := rec.next(t)
	assert.Equal(t, "STATS-DATA", e.html)
	assert.Equal(t, StatusResolved, e.status)

	clk.Advance(150 * time.Millisecond)
	assert.Equal(t, "ORDERS-DATA", rec.next(t).html)

	clk.Advance(150 * time.Millisecond)
	assert.Equal(t, "CHART-DATA", rec.next(t).html)

	assert.Equal(t, "close", rec.next(t).kind)
	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"stats", "orders", "chart"}, page.Resolved())
}

func TestBoundaryFailureStaysLocal(t *testing.T) {
	var got []error
	var mu sync.Mutex
	host := quietHost(clockwork.NewRealClock(), WithFailureRenderer(func(name string, err error) templ.Component {
		mu.Lock()
		got = append(got, err)
		mu.Unlock()
		return text("FAILED " + name)
	}))
	rec := newRecorder()
	page := host.BeginPage(context.Background(), rec)

	bad := page.RegisterBoundary("orders", text("..."), func(context.Context) (templ.Component, error) {
		return nil, errors.New("orders service unavailable")
	})
	good := page.RegisterBoundary("stats", text("..."), func(context.Context) (templ.Component, error) {
		return text("STATS"), nil
	})

	require.NoError(t, page.Stream(join(bad, good)))

	byStatus := map[Status]string{}
	for _, e := range rec.events {
		if e.kind == "boundary" {
			byStatus[e.status] = e.html
		}
	}
	assert.Equal(t, "FAILED orders", byStatus[StatusFailed])
	assert.Equal(t, "STATS", byStatus[StatusResolved])

	require.Len(t, got, 1)
	kind, ok := domain.FailureKindOf(got[0])
	require.True(t, ok)
	assert.Equal(t, domain.FetchFailure, kind)
}

func TestRenderErrorAndPanicAreCompositionFailures(t *testing.T) {
	var kinds []domain.FailureKind
	var mu sync.Mutex
	host := quietHost(clockwork.NewRealClock(), WithFailureRenderer(func(name string, err error) templ.Component {
		kind, _ := domain.FailureKindOf(err)
		mu.Lock()
		kinds = append(kinds, kind)
		mu.Unlock()
		return text("x")
	}))
	page := host.BeginPage(context.Background(), newRecorder())

	broken := templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("rating out of range")
	})
	a := page.RegisterBoundary("reviews", nil, func(context.Context) (templ.Component, error) { return broken, nil })
	b := page.RegisterBoundary("chart", nil, func(context.Context) (templ.Component, error) { panic("boom") })

	require.NoError(t, page.Stream(join(a, b)))
	assert.Equal(t, []domain.FailureKind{domain.CompositionFailure, domain.CompositionFailure}, kinds)
}

func TestBoundaryTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clk := clockwork.NewFakeClock()
	var failure error
	host := quietHost(clk,
		WithBoundaryTimeout(time.Second),
		WithFailureRenderer(func(name string, err error) templ.Component {
			failure = err
			return text("TIMED OUT")
		}),
	)
	rec := newRecorder()
	page := host.BeginPage(ctx, rec)
	slow := page.RegisterBoundary("comments", text("loading"), sleeper(clk, 5*time.Second, "COMMENTS"))

	errCh := make(chan error, 1)
	go func() { errCh <- page.Stream(slow) }()
	require.Equal(t, "shell", rec.next(t).kind)

	// one waiter for the boundary timer, one for the slow producer
	require.NoError(t, clk.BlockUntilContext(ctx, 2))
	clk.Advance(time.Second)

	e := rec.next(t)
	assert.Equal(t, StatusFailed, e.status)
	assert.Equal(t, "TIMED OUT", e.html)
	require.NoError(t, <-errCh)

	kind, ok := domain.FailureKindOf(failure)
	require.True(t, ok)
	assert.Equal(t, domain.TimeoutFailure, kind)
	assert.ErrorIs(t, failure, ErrBoundaryTimeout)
}

func TestEarlyResolutionWaitsForShell(t *testing.T) {
	rec := newRecorder()
	page := quietHost(clockwork.NewRealClock()).BeginPage(context.Background(), rec)

	produced := make(chan struct{})
	fast := page.RegisterBoundary("comments", text("loading"), func(context.Context) (templ.Component, error) {
		defer close(produced)
		return text("COMMENTS"), nil
	})
	<-produced

	require.NoError(t, page.Stream(join(text("<article>post</article>"), fast)))
	require.Len(t, rec.events, 3)
	assert.Equal(t, "shell", rec.events[0].kind)
	assert.NotContains(t, rec.events[0].html, "COMMENTS")
	assert.Equal(t, "COMMENTS", rec.events[1].html)
	assert.Equal(t, "close", rec.events[2].kind)
}

func TestShellFailureWritesNothing(t *testing.T) {
	rec := newRecorder()
	page := quietHost(clockwork.NewRealClock()).BeginPage(context.Background(), rec)
	pending := page.RegisterBoundary("stats", nil, func(ctx context.Context) (templ.Component, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	broken := templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("product has no name")
	})
	err := page.Stream(join(pending, broken))
	require.Error(t, err)

	kind, ok := domain.FailureKindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.CompositionFailure, kind)
	assert.False(t, page.Flushed())
	assert.Empty(t, rec.events)
}

func TestHTMLWriterStreamsTemplates(t *testing.T) {
	w := httptest.NewRecorder()
	writer := NewHTMLWriter(w, text("<html><body>"), text("</body></html>"))
	page := quietHost(clockwork.NewRealClock()).BeginPage(context.Background(), writer)

	slot := page.RegisterBoundary("stats", text("<p>loading</p>"), func(context.Context) (templ.Component, error) {
		return text("<p>ready</p>"), nil
	})
	require.NoError(t, page.Stream(join(text("<h1>Dashboard</h1>"), slot)))

	body := w.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "<html><body>"))
	assert.True(t, strings.HasSuffix(body, "</body></html>"))
	assert.Contains(t, body, `<div id="b1" data-boundary="pending" data-boundary-name="stats"><p>loading</p></div>`)
	assert.Contains(t, body, `<template id="b1-t"><p>ready</p></template><script>__swap("b1","resolved")</script>`)
	assert.Less(t, strings.Index(body, "<h1>Dashboard</h1>"), strings.Index(body, "<template"))
	assert.True(t, w.Flushed)
}

func TestSSEWriterPatchesBoundaries(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/patterns/dashboard/stream", nil)
	writer := NewSSEWriter(w, r, "pattern-root")
	page := quietHost(clockwork.NewRealClock()).BeginPage(context.Background(), writer)

	slot := page.RegisterBoundary("stats", text("loading"), func(context.Context) (templ.Component, error) {
		return text("ready"), nil
	})
	require.NoError(t, page.Stream(slot))

	body := w.Body.String()
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Contains(t, body, "event: datastar-patch-elements")
	assert.Contains(t, body, "selector #pattern-root")
	assert.Contains(t, body, `<div id="b1" data-boundary="resolved">ready</div>`)
}
