package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/view"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// Kind names one fetch of the catalog. Each kind waits its own latency.
type Kind string

const (
	KindProduct  Kind = "product"
	KindCart     Kind = "cart"
	KindTheme    Kind = "theme"
	KindStats    Kind = "stats"
	KindOrders   Kind = "orders"
	KindRevenue  Kind = "revenue"
	KindPost     Kind = "post"
	KindComments Kind = "comments"
)

var Kinds = []Kind{KindProduct, KindCart, KindTheme, KindStats, KindOrders, KindRevenue, KindPost, KindComments}

const RecentOrdersLimit = 5

var ErrInjectedFault = errors.New("injected fault")

// DefaultLatencies returns a fresh copy of the stock latency table.
func DefaultLatencies() map[Kind]time.Duration {
	return map[Kind]time.Duration{
		KindProduct:  150 * time.Millisecond,
		KindCart:     100 * time.Millisecond,
		KindTheme:    80 * time.Millisecond,
		KindStats:    200 * time.Millisecond,
		KindOrders:   350 * time.Millisecond,
		KindRevenue:  500 * time.Millisecond,
		KindPost:     100 * time.Millisecond,
		KindComments: 800 * time.Millisecond,
	}
}

func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown fetch kind %q", raw)
}

type faultsKey struct{}

// WithFaults marks kinds that must fail for every fetch made under ctx.
func WithFaults(ctx context.Context, kinds ...Kind) context.Context {
	if len(kinds) == 0 {
		return ctx
	}
	set := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return context.WithValue(ctx, faultsKey{}, set)
}

// ParseFaults reads a comma separated list of kinds. Empty input is no faults.
func ParseFaults(raw string) ([]Kind, error) {
	var kinds []Kind
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func faulted(ctx context.Context, kind Kind) bool {
	set, _ := ctx.Value(faultsKey{}).(map[Kind]bool)
	return set[kind]
}

// DataSource is the only way page code reaches catalog data. It never
// retries or caches; whether a fetch is awaited is up to the caller.
type DataSource struct {
	repo      domain.CatalogRepository
	clock     clockwork.Clock
	latencies map[Kind]time.Duration
}

type Option func(*DataSource)

func WithLatency(kind Kind, d time.Duration) Option {
	return func(s *DataSource) { s.latencies[kind] = d }
}

func WithLatencies(latencies map[Kind]time.Duration) Option {
	return func(s *DataSource) {
		for k, d := range latencies {
			s.latencies[k] = d
		}
	}
}

func NewDataSource(repo domain.CatalogRepository, clock clockwork.Clock, opts ...Option) *DataSource {
	s := &DataSource{repo: repo, clock: clock, latencies: DefaultLatencies()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DataSource) Clock() clockwork.Clock {
	return s.clock
}

func (s *DataSource) Latency(kind Kind) time.Duration {
	return s.latencies[kind]
}

// Latencies lists the configured latency per kind, slowest last.
func (s *DataSource) Latencies() []KindLatency {
	out := make([]KindLatency, 0, len(s.latencies))
	for _, k := range Kinds {
		out = append(out, KindLatency{Kind: k, Latency: s.latencies[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Latency < out[j].Latency })
	return out
}

type KindLatency struct {
	Kind    Kind          `json:"kind"`
	Latency time.Duration `json:"latency"`
}

func (s *DataSource) fetch(ctx context.Context, kind Kind, load func(context.Context) error) error {
	if err := view.Guard(ctx); err != nil {
		return domain.NewFailure(domain.CompositionFailure, string(kind), err)
	}
	if err := s.wait(ctx, kind); err != nil {
		return domain.NewFailure(domain.FetchFailure, string(kind), err)
	}
	if faulted(ctx, kind) {
		return domain.NewFailure(domain.FetchFailure, string(kind), ErrInjectedFault)
	}
	if err := load(ctx); err != nil {
		return domain.NewFailure(domain.FetchFailure, string(kind), err)
	}
	return nil
}

func (s *DataSource) wait(ctx context.Context, kind Kind) error {
	d := s.latencies[kind]
	if d <= 0 {
		return ctx.Err()
	}
	timer := s.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *DataSource) Product(ctx context.Context, id uint) (domain.Product, error) {
	var p domain.Product
	err := s.fetch(ctx, KindProduct, func(ctx context.Context) (err error) {
		p, err = s.repo.GetProduct(ctx, id)
		return err
	})
	return p, err
}

func (s *DataSource) CartItems(ctx context.Context) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := s.fetch(ctx, KindCart, func(ctx context.Context) (err error) {
		items, err = s.repo.ListCartItems(ctx)
		return err
	})
	return items, err
}

// ThemeContent stamps the footer year from the clock.
func (s *DataSource) ThemeContent(ctx context.Context) (domain.ThemePageContent, error) {
	var c domain.ThemePageContent
	err := s.fetch(ctx, KindTheme, func(ctx context.Context) (err error) {
		c, err = s.repo.GetThemePageContent(ctx)
		return err
	})
	if err == nil {
		c.Year = s.clock.Now().Year()
	}
	return c, err
}

func (s *DataSource) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var st domain.DashboardStats
	err := s.fetch(ctx, KindStats, func(ctx context.Context) (err error) {
		st, err = s.repo.GetDashboardStats(ctx)
		return err
	})
	return st, err
}

func (s *DataSource) Revenue(ctx context.Context) ([]domain.RevenuePoint, error) {
	var points []domain.RevenuePoint
	err := s.fetch(ctx, KindRevenue, func(ctx context.Context) (err error) {
		points, err = s.repo.ListRevenuePoints(ctx)
		return err
	})
	return points, err
}

func (s *DataSource) RecentOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.fetch(ctx, KindOrders, func(ctx context.Context) (err error) {
		orders, err = s.repo.ListRecentOrders(ctx, RecentOrdersLimit)
		return err
	})
	return orders, err
}

func (s *DataSource) Post(ctx context.Context, id uint) (domain.Post, error) {
	var p domain.Post
	err := s.fetch(ctx, KindPost, func(ctx context.Context) (err error) {
		p, err = s.repo.GetPost(ctx, id)
		return err
	})
	return p, err
}

func (s *DataSource) Comments(ctx context.Context, postID uint) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := s.fetch(ctx, KindComments, func(ctx context.Context) (err error) {
		comments, err = s.repo.ListComments(ctx, postID)
		return err
	})
	return comments, err
}

type DashboardSnapshot struct {
	Stats   domain.DashboardStats `json:"stats"`
	Revenue []domain.RevenuePoint `json:"revenue"`
	Orders  []domain.Order        `json:"orders"`
}

// Dashboard fetches all three dashboard kinds concurrently and waits for
// all of them. It takes as long as the slowest kind.
func (s *DataSource) Dashboard(ctx context.Context) (DashboardSnapshot, error) {
	var snap DashboardSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Stats, err = s.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Revenue, err = s.Revenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Orders, err = s.RecentOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardSnapshot{}, err
	}
	return snap, nil
}
