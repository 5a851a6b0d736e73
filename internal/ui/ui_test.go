package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func requireComposition(t *testing.T, c templ.Component) {
	t.Helper()
	var buf bytes.Buffer
	err := c.Render(context.Background(), &buf)
	require.Error(t, err)
	kind, ok := domain.FailureKindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.CompositionFailure, kind)
	assert.Zero(t, buf.Len(), "failed unit must not write")
}

func TestProductUnits(t *testing.T) {
	p := domain.Product{
		ID:          1,
		Name:        "Mechanical Keyboard",
		Description: "Cherry MX <Brown>",
		Price:       decimal.RequireFromString("149.99"),
	}
	html := renderString(t, ProductDetails(p))
	assert.Contains(t, html, "<h1>Mechanical Keyboard</h1>")
	assert.Contains(t, html, "$149.99")
	assert.Contains(t, html, "Cherry MX &lt;Brown&gt;")

	requireComposition(t, ProductDetails(domain.Product{ID: 9}))

	specs := renderString(t, ProductSpecs([]domain.Spec{{Label: "Layout", Value: "75% Compact"}}))
	assert.Contains(t, specs, `<td class="spec-label">Layout</td><td>75% Compact</td>`)
}

func TestReviewList(t *testing.T) {
	reviews := []domain.Review{
		{ID: 1, Author: "Alice", Rating: 5, Text: "Best keyboard"},
		{ID: 2, Author: "Bob", Rating: 4, Text: "Great build"},
		{ID: 3, Author: "Charlie", Rating: 5, Text: "Perfect"},
	}
	assert.Equal(t, 4.7, AverageRating(reviews))

	html := renderString(t, ReviewList(reviews))
	assert.Contains(t, html, "Reviews (3) - Average: ***** 4.7/5")
	assert.Contains(t, html, "<strong>Bob</strong> - ****")

	assert.Contains(t, renderString(t, ReviewList(nil)), "No reviews yet.")

	requireComposition(t, ReviewList([]domain.Review{{ID: 4, Author: "Mallory", Rating: 6}}))
	requireComposition(t, ReviewList([]domain.Review{{ID: 5, Author: "Zero", Rating: 0}}))
}

func TestCartContents(t *testing.T) {
	items := []domain.CartItem{
		{ID: 1, Name: "Mechanical Keyboard", Price: decimal.RequireFromString("149.99"), Quantity: 1},
		{ID: 2, Name: "USB-C Cable", Price: decimal.RequireFromString("12.99"), Quantity: 2},
		{ID: 3, Name: "Monitor Stand", Price: decimal.RequireFromString("34.99"), Quantity: 1},
	}
	html := renderString(t, CartContents(items))
	assert.Contains(t, html, "<span>USB-C Cable x2</span><strong>$25.98</strong>")
	assert.Contains(t, html, "<span>Total:</span><span>$210.96</span>")

	requireComposition(t, CartContents([]domain.CartItem{{ID: 1, Name: "x", Quantity: 0}}))
}

func TestThemeSections(t *testing.T) {
	assert.Contains(t, renderString(t, Header("RSC Migration Patterns", []string{"Home", "Docs"})),
		"<nav><span>Home</span><span>Docs</span></nav>")
	assert.Contains(t, renderString(t, MainContent(domain.ThemePageContent{Title: "State", Features: []string{"a"}})),
		"<li>a</li>")
	assert.Contains(t, renderString(t, Footer("Built with Go", 2026)), "Built with Go - 2026")

	requireComposition(t, Header("", nil))
	requireComposition(t, Footer("x", 0))
}

func TestDashboardUnits(t *testing.T) {
	stats := domain.DashboardStats{Revenue: "$127,450", Users: "2,847", Orders: "1,234", ConversionRate: "3.2%"}
	html := renderString(t, StatsGrid(stats))
	assert.Less(t, strings.Index(html, "Revenue"), strings.Index(html, "Conv. Rate"))
	assert.Contains(t, html, `style="color:#6a1b9a;">3.2%`)
	requireComposition(t, StatsGrid(domain.DashboardStats{Revenue: "$1"}))

	points := []domain.RevenuePoint{{Month: "Sep", Value: 85000}, {Month: "Feb", Value: 127450}}
	chart := renderString(t, RevenueChart(points))
	assert.Contains(t, chart, "height:130.0px")
	assert.Contains(t, chart, "$85k")
	assert.Contains(t, chart, "$127k")
	requireComposition(t, RevenueChart(nil))

	orders := []domain.Order{
		{ID: "ORD-001", Customer: "Alice Johnson", Amount: decimal.RequireFromString("299.99"), Status: "Shipped", Date: "2026-02-21"},
		{ID: "ORD-009", Customer: "Nobody", Amount: decimal.Zero, Status: "Lost", Date: "2026-02-01"},
	}
	table := renderString(t, OrdersTable(orders))
	assert.Contains(t, table, `background:#1565c0;">Shipped`)
	assert.Contains(t, table, `background:#666;">Lost`)
	assert.Contains(t, table, "$299.99")
	requireComposition(t, OrdersTable([]domain.Order{{Customer: "Ghost"}}))
}

func TestBarHeight(t *testing.T) {
	assert.Equal(t, 130.0, BarHeight(10, 10))
	assert.Equal(t, 65.0, BarHeight(5, 10))
	assert.Zero(t, BarHeight(5, 0))
}

func TestBlogUnits(t *testing.T) {
	post := domain.Post{ID: 1, Title: "Understanding Streaming", Author: "Jane", Date: "February 22, 2026", Body: "one\n\ntwo"}
	html := renderString(t, Article(post))
	assert.Contains(t, html, "By Jane | February 22, 2026")
	assert.Equal(t, 2, strings.Count(html, `<p class="para">`))

	comments := []domain.Comment{{ID: 1, Author: "Alex", Text: "Great", Time: "2 hours ago"}}
	list := renderString(t, CommentList(comments, func(id uint) templ.Component {
		return templ.Raw("<button>like</button>")
	}))
	assert.Contains(t, list, "Comments (1)")
	assert.Contains(t, list, "<button>like</button>")

	requireComposition(t, CommentList([]domain.Comment{{ID: 2}}, nil))
}

func TestBoundaryFailure(t *testing.T) {
	err := domain.NewFailure(domain.FetchFailure, "orders", errors.New("orders <service> down"))
	html := renderString(t, BoundaryFailure("orders", err))
	assert.Contains(t, html, `data-failure="fetch"`)
	assert.Contains(t, html, "Could not load orders")
	assert.Contains(t, html, "orders &lt;service&gt; down")

	assert.Contains(t, renderString(t, BoundaryFailure("chart", errors.New("x"))), "(unknown failure)")
}

func TestDocumentPages(t *testing.T) {
	index := renderString(t, Index([]PatternLink{{Key: "dashboard", Number: 4, Title: "Parallel deferred"}}))
	assert.True(t, strings.HasPrefix(index, "<!doctype html>"))
	assert.Contains(t, index, `href="/patterns/dashboard"`)
	assert.Contains(t, index, `href="/patterns/dashboard/live"`)
	assert.True(t, strings.HasSuffix(index, "</html>"))

	live := renderString(t, LiveShell("Dashboard", "pattern-root", "/patterns/dashboard/stream", 900))
	assert.Contains(t, live, `<div id="pattern-root" data-init="@get(&#34;/patterns/dashboard/stream&#34;)">`)

	quoted := renderString(t, LiveShell("Dashboard", "pattern-root", `/s?x=');alert(1);//"`, 900))
	assert.Contains(t, quoted, `data-init="@get(&#34;/s?x=&#39;);alert(1);//\&#34;&#34;)"`)

	assert.Contains(t, renderString(t, ErrorPage(404, "product 9 not found")), "<h1>Error 404</h1>")
}

func TestDocumentHalvesWrapStreamedContent(t *testing.T) {
	head := renderString(t, DocumentHead("Dashboard <live>", 900))
	tail := renderString(t, DocumentTail())

	assert.True(t, strings.HasPrefix(head, "<!doctype html>"))
	assert.Contains(t, head, "<title>Dashboard &lt;live&gt;</title>")
	assert.True(t, strings.HasSuffix(head, `<div class="page" style="max-width:900px;">`))
	assert.NotContains(t, head, contentMark)
	assert.Equal(t, "</div></body></html>", tail)

	whole := renderString(t, templ.Join(DocumentHead("Dashboard <live>", 900), templ.Raw("<p>body</p>"), DocumentTail()))
	wrapped := renderString(t, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Document("Dashboard <live>", 900).Render(templ.WithChildren(ctx, templ.Raw("<p>body</p>")), w)
	}))
	assert.Equal(t, wrapped, whole)
}
