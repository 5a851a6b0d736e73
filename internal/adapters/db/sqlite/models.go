package sqlite

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductModel struct {
	ID          uint                 `gorm:"primaryKey"`
	Name        string               `gorm:"not null"`
	Description string               `gorm:"not null"`
	Price       decimal.Decimal      `gorm:"type:text;not null"`
	Specs       []ProductSpecModel   `gorm:"foreignKey:ProductID"`
	Reviews     []ProductReviewModel `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductModel) TableName() string { return "products" }

type ProductSpecModel struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"not null;index"`
	Position  int    `gorm:"not null"`
	Label     string `gorm:"not null"`
	Value     string `gorm:"not null"`
}

func (ProductSpecModel) TableName() string { return "product_specs" }

type ProductReviewModel struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"not null;index"`
	Author    string `gorm:"not null"`
	Rating    int    `gorm:"not null"`
	Body      string `gorm:"not null"`
}

func (ProductReviewModel) TableName() string { return "product_reviews" }

type CartItemModel struct {
	ID       uint            `gorm:"primaryKey"`
	Name     string          `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:text;not null"`
	Quantity int             `gorm:"not null;default:1"`
}

func (CartItemModel) TableName() string { return "cart_items" }

type ThemePageModel struct {
	ID          uint     `gorm:"primaryKey"`
	HeaderTitle string   `gorm:"not null"`
	NavItems    []string `gorm:"serializer:json;not null"`
	Title       string   `gorm:"not null"`
	Body        string   `gorm:"not null"`
	Features    []string `gorm:"serializer:json;not null"`
	FooterText  string   `gorm:"not null"`
}

func (ThemePageModel) TableName() string { return "theme_pages" }

type DashboardStatsModel struct {
	ID             uint   `gorm:"primaryKey"`
	Revenue        string `gorm:"not null"`
	Users          string `gorm:"not null"`
	Orders         string `gorm:"not null"`
	ConversionRate string `gorm:"not null"`
}

func (DashboardStatsModel) TableName() string { return "dashboard_stats" }

type RevenuePointModel struct {
	ID       uint   `gorm:"primaryKey"`
	Position int    `gorm:"not null;uniqueIndex"`
	Month    string `gorm:"not null"`
	Value    int64  `gorm:"not null"`
}

func (RevenuePointModel) TableName() string { return "revenue_points" }

type OrderModel struct {
	ID       string          `gorm:"primaryKey"`
	Customer string          `gorm:"not null"`
	Amount   decimal.Decimal `gorm:"type:text;not null"`
	Status   string          `gorm:"not null"`
	PlacedOn string          `gorm:"not null;index"`
}

func (OrderModel) TableName() string { return "orders" }

type PostModel struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Author    string `gorm:"not null"`
	Published string `gorm:"not null"`
	Body      string `gorm:"not null"`
}

func (PostModel) TableName() string { return "posts" }

type CommentModel struct {
	ID     uint   `gorm:"primaryKey"`
	PostID uint   `gorm:"not null;index"`
	Author string `gorm:"not null"`
	Body   string `gorm:"not null"`
	Posted string `gorm:"not null"`
}

func (CommentModel) TableName() string { return "comments" }
