package pages

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/db/memory"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/application"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/stream"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/ui"
	"github.com/a-h/templ"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chunk struct {
	kind   string
	status stream.Status
	html   string
}

type recorder struct {
	mu     sync.Mutex
	chunks []chunk
	notify chan chunk
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan chunk, 16)}
}

func (r *recorder) push(c chunk) {
	r.mu.Lock()
	r.chunks = append(r.chunks, c)
	r.mu.Unlock()
	r.notify <- c
}

func (r *recorder) WriteShell(_ context.Context, shell []byte) error {
	r.push(chunk{kind: "shell", html: string(shell)})
	return nil
}

func (r *recorder) WriteBoundary(_ context.Context, _ string, status stream.Status, html []byte) error {
	r.push(chunk{kind: "boundary", status: status, html: string(html)})
	return nil
}

func (r *recorder) Close(context.Context) error {
	r.push(chunk{kind: "close"})
	return nil
}

func (r *recorder) next(t *testing.T) chunk {
	t.Helper()
	select {
	case c := <-r.notify:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a chunk")
		return chunk{}
	}
}

func (r *recorder) idle(t *testing.T) {
	t.Helper()
	select {
	case c := <-r.notify:
		t.Fatalf("unexpected %s chunk: %s", c.kind, c.html)
	case <-time.After(20 * time.Millisecond):
	}
}

type fixture struct {
	clock    clockwork.Clock
	composer *Composer
	host     *stream.Host
}

func newFixture(clk clockwork.Clock, opts ...application.Option) fixture {
	src := application.NewDataSource(memory.NewCatalogRepository(memory.DemoCatalog()), clk, opts...)
	host := stream.NewHost(clk,
		stream.WithLogger(log.New(io.Discard, "", 0)),
		stream.WithFailureRenderer(ui.BoundaryFailure),
	)
	return fixture{clock: clk, composer: NewComposer(src), host: host}
}

func instant() application.Option {
	zero := make(map[application.Kind]time.Duration)
	for _, k := range application.Kinds {
		zero[k] = 0
	}
	return application.WithLatencies(zero)
}

func TestDashboardFlushesInSettleOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clk := clockwork.NewFakeClock()
	fx := newFixture(clk)
	rec := newRecorder()
	page := fx.host.BeginPage(ctx, rec)

	shell, err := fx.composer.Compose(ctx, page, Dashboard, 0)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- page.Stream(shell) }()

	first := rec.next(t)
	require.Equal(t, "shell", first.kind)
	assert.Contains(t, first.html, "Loading chart...")
	assert.NotContains(t, first.html, "$127,450")
	assert.NotContains(t, first.html, "ORD-001")
	assert.NotContains(t, first.html, "Revenue Trend")

	require.NoError(t, clk.BlockUntilContext(ctx, 3))

	clk.Advance(200 * time.Millisecond)
	assert.Contains(t, rec.next(t).html, "$127,450")

	clk.Advance(150 * time.Millisecond)
	assert.Contains(t, rec.next(t).html, "ORD-001")

	clk.Advance(150 * time.Millisecond)
	assert.Contains(t, rec.next(t).html, "Revenue Trend")

	assert.Equal(t, "close", rec.next(t).kind)
	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"stats", "orders", "chart"}, page.Resolved())
}

func TestBlogPostHandsCommentsOff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clk := clockwork.NewFakeClock()
	fx := newFixture(clk)
	rec := newRecorder()
	page := fx.host.BeginPage(ctx, rec)

	type composed struct {
		shell templ.Component
		err   error
	}
	composedCh := make(chan composed, 1)
	go func() {
		shell, err := fx.composer.Compose(ctx, page, BlogPost, 1)
		composedCh <- composed{shell, err}
	}()

	// the post is awaited before the shell exists
	require.NoError(t, clk.BlockUntilContext(ctx, 1))
	clk.Advance(100 * time.Millisecond)
	c := <-composedCh
	require.NoError(t, c.err)

	errCh := make(chan error, 1)
	go func() { errCh <- page.Stream(c.shell) }()

	first := rec.next(t)
	require.Equal(t, "shell", first.kind)
	assert.Contains(t, first.html, "Understanding React Server Components")
	assert.Contains(t, first.html, "Loading comments...")
	assert.NotContains(t, first.html, "Alex")

	require.NoError(t, clk.BlockUntilContext(ctx, 1))
	clk.Advance(799 * time.Millisecond)
	rec.idle(t)

	clk.Advance(time.Millisecond)
	comments := rec.next(t)
	assert.Equal(t, stream.StatusResolved, comments.status)
	assert.Contains(t, comments.html, "Comments (4)")
	assert.Contains(t, comments.html, "Alex")
	assert.Contains(t, comments.html, `data-leaf="like-toggle"`)

	assert.Equal(t, "close", rec.next(t).kind)
	require.NoError(t, <-errCh)
}

func TestAwaitedPagesShipCompleteShell(t *testing.T) {
	cases := map[string][]string{
		ProductPage: {"Mechanical Keyboard", "$149.99", "Reviews (3) - Average: ***** 4.7/5", `data-leaf="add-to-cart"`},
		CartPage:    {"Open Cart", "$210.96", `data-leaf="modal"`},
		ThemePage:   {`data-leaf="theme-selector"`, "RSC Migration Patterns", "Built with server-rendered streaming - 2030"},
	}
	for pattern, want := range cases {
		t.Run(pattern, func(t *testing.T) {
			fx := newFixture(clockwork.NewFakeClockAt(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)), instant())
			rec := newRecorder()
			page := fx.host.BeginPage(context.Background(), rec)

			shell, err := fx.composer.Compose(context.Background(), page, pattern, 1)
			require.NoError(t, err)
			require.NoError(t, page.Stream(shell))

			require.Len(t, rec.chunks, 2)
			for _, s := range want {
				assert.Contains(t, rec.chunks[0].html, s)
			}
			assert.Empty(t, page.Resolved())
		})
	}
}

func TestFailingBoundaryStaysLocal(t *testing.T) {
	fx := newFixture(clockwork.NewRealClock(), instant())
	ctx := application.WithFaults(context.Background(), application.KindOrders)
	rec := newRecorder()
	page := fx.host.BeginPage(ctx, rec)

	shell, err := fx.composer.Compose(ctx, page, Dashboard, 0)
	require.NoError(t, err)
	require.NoError(t, page.Stream(shell))

	statuses := map[stream.Status]int{}
	for _, c := range rec.chunks {
		if c.kind != "boundary" {
			continue
		}
		statuses[c.status]++
		if c.status == stream.StatusFailed {
			assert.Contains(t, c.html, `data-failure="fetch"`)
			assert.Contains(t, c.html, "Could not load orders")
		}
	}
	assert.Equal(t, 2, statuses[stream.StatusResolved])
	assert.Equal(t, 1, statuses[stream.StatusFailed])
}

func TestAwaitedFailureFailsWholePage(t *testing.T) {
	fx := newFixture(clockwork.NewRealClock(), instant())

	page := fx.host.BeginPage(context.Background(), newRecorder())
	_, err := fx.composer.Compose(context.Background(), page, ProductPage, 99)
	page.Abort()
	require.ErrorIs(t, err, domain.ErrNotFound)

	ctx := application.WithFaults(context.Background(), application.KindPost)
	page = fx.host.BeginPage(ctx, newRecorder())
	_, err = fx.composer.Compose(ctx, page, BlogPost, 1)
	page.Abort()
	kind, ok := domain.FailureKindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.FetchFailure, kind)
	assert.False(t, page.Flushed())
}

func TestUnknownPattern(t *testing.T) {
	fx := newFixture(clockwork.NewRealClock(), instant())
	page := fx.host.BeginPage(context.Background(), newRecorder())
	defer page.Abort()
	_, err := fx.composer.Compose(context.Background(), page, "carousel", 1)
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestRegistry(t *testing.T) {
	require.Len(t, Patterns, 5)
	for i, p := range Patterns {
		assert.Equal(t, i+1, p.Number)
		got, ok := Lookup(p.Key)
		require.True(t, ok)
		assert.Equal(t, p.Title, got.Title)
	}
	assert.Len(t, Links(), 5)
}
