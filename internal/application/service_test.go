package application

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/db/memory"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/view"
	"github.com/a-h/templ"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(clk clockwork.Clock, opts ...Option) *DataSource {
	return NewDataSource(memory.NewCatalogRepository(memory.DemoCatalog()), clk, opts...)
}

func TestFetchWaitsItsOwnLatency(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clk := clockwork.NewFakeClock()
	src := newSource(clk)

	done := make(chan domain.Product, 1)
	go func() {
		p, err := src.Product(ctx, 1)
		assert.NoError(t, err)
		done <- p
	}()

	require.NoError(t, clk.BlockUntilContext(ctx, 1))
	clk.Advance(149 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("product resolved before its latency")
	default:
	}

	clk.Advance(time.Millisecond)
	select {
	case p := <-done:
		assert.Equal(t, "Mechanical Keyboard", p.Name)
	case <-ctx.Done():
		t.Fatal("product never resolved")
	}
}

func TestDefaultLatencies(t *testing.T) {
	src := newSource(clockwork.NewFakeClock(), WithLatency(KindComments, 2*time.Second))
	assert.Equal(t, 200*time.Millisecond, src.Latency(KindStats))
	assert.Equal(t, 350*time.Millisecond, src.Latency(KindOrders))
	assert.Equal(t, 500*time.Millisecond, src.Latency(KindRevenue))
	assert.Equal(t, 2*time.Second, src.Latency(KindComments))
	assert.Equal(t, 800*time.Millisecond, DefaultLatencies()[KindComments])

	ordered := src.Latencies()
	require.Len(t, ordered, len(Kinds))
	assert.Equal(t, KindTheme, ordered[0].Kind)
	assert.Equal(t, KindComments, ordered[len(ordered)-1].Kind)
}

func TestFetchRefusedInClientScope(t *testing.T) {
	src := newSource(clockwork.NewFakeClock(), WithLatencies(map[Kind]time.Duration{KindCart: 0}))

	var fetchErr error
	leaf := view.Client("greedy-leaf", templ.ComponentFunc(func(ctx context.Context, _ io.Writer) error {
		_, fetchErr = src.CartItems(ctx)
		return nil
	}))
	require.NoError(t, leaf.Render(context.Background(), &bytes.Buffer{}))

	assert.ErrorIs(t, fetchErr, view.ErrClientFetch)
	kind, ok := domain.FailureKindOf(fetchErr)
	require.True(t, ok)
	assert.Equal(t, domain.CompositionFailure, kind)
}

func TestInjectedFaultIsFetchFailure(t *testing.T) {
	src := newSource(clockwork.NewFakeClock(), WithLatency(KindOrders, 0))

	kinds, err := ParseFaults("orders, ")
	require.NoError(t, err)
	ctx := WithFaults(context.Background(), kinds...)

	_, err = src.RecentOrders(ctx)
	require.ErrorIs(t, err, ErrInjectedFault)
	kind, _ := domain.FailureKindOf(err)
	assert.Equal(t, domain.FetchFailure, kind)

	_, err = ParseFaults("orders,bogus")
	assert.Error(t, err)
}

func TestNotFoundIsFetchFailure(t *testing.T) {
	src := newSource(clockwork.NewFakeClock(), WithLatency(KindPost, 0))
	_, err := src.Post(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
	kind, _ := domain.FailureKindOf(err)
	assert.Equal(t, domain.FetchFailure, kind)
}

func TestCancelledWaitFails(t *testing.T) {
	src := newSource(clockwork.NewFakeClock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Stats(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThemeYearComesFromClock(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2031, 5, 1, 12, 0, 0, 0, time.UTC))
	src := newSource(clk, WithLatency(KindTheme, 0))
	c, err := src.ThemeContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2031, c.Year)
}

func TestDashboardTakesSlowestLatency(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clk := clockwork.NewFakeClock()
	src := newSource(clk)

	done := make(chan DashboardSnapshot, 1)
	go func() {
		snap, err := src.Dashboard(ctx)
		assert.NoError(t, err)
		done <- snap
	}()

	require.NoError(t, clk.BlockUntilContext(ctx, 3))
	clk.Advance(350 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("dashboard resolved before revenue")
	default:
	}
	clk.Advance(150 * time.Millisecond)

	snap := <-done
	assert.Equal(t, "$127,450", snap.Stats.Revenue)
	assert.Len(t, snap.Revenue, 6)
	assert.Len(t, snap.Orders, RecentOrdersLimit)
}
