package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type CatalogRepository struct {
	db *gorm.DB
}

func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + "?_pragma=foreign_keys(1)",
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id uint) (domain.Product, error) {
	var m ProductModel
	err := r.db.WithContext(ctx).
		Preload("Specs", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&m, id).Error
	if err != nil {
		return domain.Product{}, notFound(err, "product %d", id)
	}

	specs := make([]domain.Spec, 0, len(m.Specs))
	for _, s := range m.Specs {
		specs = append(specs, domain.Spec{Label: s.Label, Value: s.Value})
	}
	reviews := make([]domain.Review, 0, len(m.Reviews))
	for _, rv := range m.Reviews {
		reviews = append(reviews, domain.Review{ID: rv.ID, Author: rv.Author, Rating: rv.Rating, Text: rv.Body})
	}

	return domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Specs:       specs,
		Reviews:     reviews,
	}, nil
}

func (r *CatalogRepository) ListCartItems(ctx context.Context) ([]domain.CartItem, error) {
	rows := make([]CartItemModel, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.CartItem, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.CartItem{ID: m.ID, Name: m.Name, Price: m.Price, Quantity: m.Quantity})
	}
	return result, nil
}

func (r *CatalogRepository) GetThemePageContent(ctx context.Context) (domain.ThemePageContent, error) {
	var m ThemePageModel
	if err := r.db.WithContext(ctx).Order("id ASC").First(&m).Error; err != nil {
		return domain.ThemePageContent{}, notFound(err, "theme page")
	}
	return domain.ThemePageContent{
		HeaderTitle: m.HeaderTitle,
		NavItems:    m.NavItems,
		Title:       m.Title,
		Body:        m.Body,
		Features:    m.Features,
		FooterText:  m.FooterText,
	}, nil
}

func (r *CatalogRepository) GetDashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var m DashboardStatsModel
	if err := r.db.WithContext(ctx).Order("id DESC").First(&m).Error; err != nil {
		return domain.DashboardStats{}, notFound(err, "dashboard stats")
	}
	return domain.DashboardStats{
		Revenue:        m.Revenue,
		Users:          m.Users,
		Orders:         m.Orders,
		ConversionRate: m.ConversionRate,
	}, nil
}

func (r *CatalogRepository) ListRevenuePoints(ctx context.Context) ([]domain.RevenuePoint, error) {
	rows := make([]RevenuePointModel, 0)
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.RevenuePoint, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.RevenuePoint{Month: m.Month, Value: m.Value})
	}
	return result, nil
}

func (r *CatalogRepository) ListRecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	rows := make([]OrderModel, 0)
	if err := r.db.WithContext(ctx).Order("placed_on DESC, id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Order, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.Order{
			ID:       m.ID,
			Customer: m.Customer,
			Amount:   m.Amount,
			Status:   m.Status,
			Date:     m.PlacedOn,
		})
	}
	return result, nil
}

func (r *CatalogRepository) GetPost(ctx context.Context, id uint) (domain.Post, error) {
	var m PostModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Post{}, notFound(err, "post %d", id)
	}
	return domain.Post{ID: m.ID, Title: m.Title, Author: m.Author, Date: m.Published, Body: m.Body}, nil
}

func (r *CatalogRepository) ListComments(ctx context.Context, postID uint) ([]domain.Comment, error) {
	rows := make([]CommentModel, 0)
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Comment, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.Comment{ID: m.ID, Author: m.Author, Text: m.Body, Time: m.Posted})
	}
	return result, nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrNotFound)
	}
	return err
}
