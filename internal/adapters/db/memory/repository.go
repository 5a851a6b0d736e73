// Package memory is a CatalogRepository over fixed in-process data. The
// server uses it when no database is wanted, and tests use it as a fixture.
package memory

import (
	"context"
	"fmt"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/shopspring/decimal"
)

type Catalog struct {
	Products []domain.Product
	Cart     []domain.CartItem
	Theme    domain.ThemePageContent
	Stats    domain.DashboardStats
	Revenue  []domain.RevenuePoint
	Orders   []domain.Order
	Posts    []domain.Post
	Comments map[uint][]domain.Comment
}

type CatalogRepository struct {
	data Catalog
}

func NewCatalogRepository(data Catalog) *CatalogRepository {
	return &CatalogRepository{data: data}
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id uint) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	for _, p := range r.data.Products {
		if p.ID == id {
			p.Specs = append([]domain.Spec(nil), p.Specs...)
			p.Reviews = append([]domain.Review(nil), p.Reviews...)
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
}

func (r *CatalogRepository) ListCartItems(ctx context.Context) ([]domain.CartItem, error) {
	return append([]domain.CartItem(nil), r.data.Cart...), ctx.Err()
}

func (r *CatalogRepository) GetThemePageContent(ctx context.Context) (domain.ThemePageContent, error) {
	t := r.data.Theme
	t.NavItems = append([]string(nil), t.NavItems...)
	t.Features = append([]string(nil), t.Features...)
	return t, ctx.Err()
}

func (r *CatalogRepository) GetDashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	return r.data.Stats, ctx.Err()
}

func (r *CatalogRepository) ListRevenuePoints(ctx context.Context) ([]domain.RevenuePoint, error) {
	return append([]domain.RevenuePoint(nil), r.data.Revenue...), ctx.Err()
}

func (r *CatalogRepository) ListRecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	orders := r.data.Orders
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return append([]domain.Order(nil), orders...), ctx.Err()
}

func (r *CatalogRepository) GetPost(ctx context.Context, id uint) (domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return domain.Post{}, err
	}
	for _, p := range r.data.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Post{}, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
}

func (r *CatalogRepository) ListComments(ctx context.Context, postID uint) ([]domain.Comment, error) {
	return append([]domain.Comment(nil), r.data.Comments[postID]...), ctx.Err()
}

// DemoCatalog is the same data the sqlite seed migration inserts.
func DemoCatalog() Catalog {
	price := decimal.RequireFromString
	return Catalog{
		Products: []domain.Product{{
			ID:          1,
			Name:        "Mechanical Keyboard",
			Description: "A premium mechanical keyboard with Cherry MX switches, RGB backlighting, and hot-swappable sockets.",
			Price:       price("149.99"),
			Specs: []domain.Spec{
				{Label: "Switch Type", Value: "Cherry MX Brown"},
				{Label: "Layout", Value: "75% Compact"},
				{Label: "Connectivity", Value: "USB-C / Bluetooth 5.0"},
				{Label: "Battery", Value: "4000mAh (wireless mode)"},
			},
			Reviews: []domain.Review{
				{ID: 1, Author: "Alice", Rating: 5, Text: "Best keyboard I have ever used! The tactile feedback is amazing."},
				{ID: 2, Author: "Bob", Rating: 4, Text: "Great build quality. Wish it had more color options."},
				{ID: 3, Author: "Charlie", Rating: 5, Text: "Perfect for both coding and gaming."},
			},
		}},
		Cart: []domain.CartItem{
			{ID: 1, Name: "Mechanical Keyboard", Price: price("149.99"), Quantity: 1},
			{ID: 2, Name: "USB-C Cable", Price: price("12.99"), Quantity: 2},
			{ID: 3, Name: "Monitor Stand", Price: price("34.99"), Quantity: 1},
		},
		Theme: domain.ThemePageContent{
			HeaderTitle: "RSC Migration Patterns",
			NavItems:    []string{"Home", "Patterns", "Docs", "About"},
			Title:       "Pattern 3: State Extraction",
			Body: "This page demonstrates extracting state (theme toggle) into a wrapper component. " +
				"The Header, MainContent, and Footer below are all rendered on the server and ship zero JavaScript. " +
				"Only the theme wrapper (which holds the theme state) and its toggle buttons run in the browser.",
			Features: []string{
				"Theme state is isolated in the wrapper component",
				"Header, MainContent, Footer remain server-rendered",
				"Children pass through the client boundary without becoming client code",
				"Heavy rendering logic stays on the server",
			},
			FooterText: "Built with server-rendered streaming",
		},
		Stats: domain.DashboardStats{Revenue: "$127,450", Users: "2,847", Orders: "1,234", ConversionRate: "3.2%"},
		Revenue: []domain.RevenuePoint{
			{Month: "Sep", Value: 85000},
			{Month: "Oct", Value: 92000},
			{Month: "Nov", Value: 108000},
			{Month: "Dec", Value: 115000},
			{Month: "Jan", Value: 121000},
			{Month: "Feb", Value: 127450},
		},
		Orders: []domain.Order{
			{ID: "ORD-001", Customer: "Alice Johnson", Amount: price("299.99"), Status: "Shipped", Date: "2026-02-21"},
			{ID: "ORD-002", Customer: "Bob Smith", Amount: price("149.50"), Status: "Processing", Date: "2026-02-21"},
			{ID: "ORD-003", Customer: "Charlie Brown", Amount: price("89.99"), Status: "Delivered", Date: "2026-02-20"},
			{ID: "ORD-004", Customer: "Diana Prince", Amount: price("449.00"), Status: "Shipped", Date: "2026-02-20"},
			{ID: "ORD-005", Customer: "Eve Wilson", Amount: price("67.25"), Status: "Processing", Date: "2026-02-19"},
		},
		Posts: []domain.Post{{
			ID:     1,
			Title:  "Understanding React Server Components",
			Author: "Jane Developer",
			Date:   "February 22, 2026",
			Body: "React Server Components represent a fundamental shift in how we build React applications. " +
				"Unlike traditional SSR, where the server renders HTML but still ships all component JavaScript to the client for hydration, " +
				"RSC keeps server components entirely on the server. The client never receives their code.\n\n" +
				"This means heavy dependencies used in server components, such as markdown parsers, date formatting libraries and database clients, " +
				"never end up in your client bundle. Only components marked with 'use client' ship JavaScript to the browser.\n\n" +
				"The migration guide covers five key patterns for restructuring your component tree to take advantage of this architecture. " +
				"This blog post page itself demonstrates Pattern 5: the server-to-client promise handoff.",
		}},
		Comments: map[uint][]domain.Comment{
			1: {
				{ID: 1, Author: "Alex", Text: "Great explanation! The donut pattern was new to me.", Time: "2 hours ago"},
				{ID: 2, Author: "Sam", Text: "We migrated our app using these patterns. Reduced client bundle by 40%.", Time: "1 hour ago"},
				{ID: 3, Author: "Jordan", Text: "The promise handoff pattern is clever. Love that the fetch starts on the server.", Time: "45 min ago"},
				{ID: 4, Author: "Taylor", Text: "Can you do a follow-up on Server Actions?", Time: "20 min ago"},
			},
		},
	}
}
