package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/shopspring/decimal"
)

func newTestRepository(t *testing.T) *CatalogRepository {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "catalog_test.db")

	db, err := Bootstrap(ctx, dbPath)
	if err != nil {
		t.Fatalf("bootstrap db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewCatalogRepository(db)
}

func TestProductLoadsSpecsAndReviewsInOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	product, err := repo.GetProduct(ctx, 1)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Name != "Mechanical Keyboard" {
		t.Fatalf("unexpected product name %q", product.Name)
	}
	if !product.Price.Equal(decimal.RequireFromString("149.99")) {
		t.Fatalf("unexpected price %s", product.Price)
	}
	if len(product.Specs) != 4 || product.Specs[0].Label != "Switch Type" || product.Specs[3].Label != "Battery" {
		t.Fatalf("specs out of order: %+v", product.Specs)
	}
	if len(product.Reviews) != 3 || product.Reviews[1].Author != "Bob" || product.Reviews[1].Rating != 4 {
		t.Fatalf("unexpected reviews: %+v", product.Reviews)
	}

	_, err = repo.GetProduct(ctx, 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing product, got %v", err)
	}
}

func TestCartTotalsFromSeed(t *testing.T) {
	repo := newTestRepository(t)

	items, err := repo.ListCartItems(context.Background())
	if err != nil {
		t.Fatalf("list cart items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 cart items, got %d", len(items))
	}
	if got := domain.CartTotal(items).StringFixed(2); got != "210.96" {
		t.Fatalf("unexpected cart total %s", got)
	}
}

func TestDashboardData(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	stats, err := repo.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Revenue != "$127,450" || stats.ConversionRate != "3.2%" {
		t.Fatalf("unexpected stats %+v", stats)
	}

	points, err := repo.ListRevenuePoints(ctx)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if len(points) != 6 || points[0].Month != "Sep" || points[5].Value != 127450 {
		t.Fatalf("unexpected revenue points %+v", points)
	}

	orders, err := repo.ListRecentOrders(ctx, 3)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected limit to apply, got %d orders", len(orders))
	}
	if orders[0].ID != "ORD-001" || orders[2].ID != "ORD-003" {
		t.Fatalf("orders not sorted newest first: %+v", orders)
	}
}

func TestThemeContentDecodesLists(t *testing.T) {
	repo := newTestRepository(t)

	content, err := repo.GetThemePageContent(context.Background())
	if err != nil {
		t.Fatalf("theme content: %v", err)
	}
	if len(content.NavItems) != 4 || content.NavItems[1] != "Patterns" {
		t.Fatalf("unexpected nav items %v", content.NavItems)
	}
	if len(content.Features) != 4 {
		t.Fatalf("unexpected features %v", content.Features)
	}
}

func TestPostAndComments(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	post, err := repo.GetPost(ctx, 1)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if len(post.Paragraphs()) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(post.Paragraphs()))
	}

	comments, err := repo.ListComments(ctx, post.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 4 || comments[2].Author != "Jordan" {
		t.Fatalf("unexpected comments %+v", comments)
	}

	none, err := repo.ListComments(ctx, 99)
	if err != nil {
		t.Fatalf("list comments for missing post: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no comments, got %d", len(none))
	}

	if _, err := repo.GetPost(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing post, got %v", err)
	}
}
