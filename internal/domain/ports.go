package domain

import "context"

type CatalogRepository interface {
	GetProduct(ctx context.Context, id uint) (Product, error)
	ListCartItems(ctx context.Context) ([]CartItem, error)
	GetThemePageContent(ctx context.Context) (ThemePageContent, error)
	GetDashboardStats(ctx context.Context) (DashboardStats, error)
	ListRevenuePoints(ctx context.Context) ([]RevenuePoint, error)
	ListRecentOrders(ctx context.Context, limit int) ([]Order, error)
	GetPost(ctx context.Context, id uint) (Post, error)
	ListComments(ctx context.Context, postID uint) ([]Comment, error)
}
