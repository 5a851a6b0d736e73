package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Spec struct {
	Label string
	Value string
}

type Review struct {
	ID     uint
	Author string
	Rating int
	Text   string
}

type Product struct {
	ID          uint
	Name        string
	Description string
	Price       decimal.Decimal
	Specs       []Spec
	Reviews     []Review
}

type CartItem struct {
	ID       uint
	Name     string
	Price    decimal.Decimal
	Quantity int
}

func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type ThemeChoice struct {
	Key        string
	Background string
	Foreground string
	Label      string
}

type ThemePageContent struct {
	HeaderTitle string
	NavItems    []string
	Title       string
	Body        string
	Features    []string
	FooterText  string
	Year        int
}

type Stat struct {
	Label string
	Value string
	Color string
}

type DashboardStats struct {
	Revenue        string
	Users          string
	Orders         string
	ConversionRate string
}

// Pairs returns the stats in display order.
func (s DashboardStats) Pairs() []Stat {
	return []Stat{
		{Label: "Revenue", Value: s.Revenue, Color: "#2e7d32"},
		{Label: "Users", Value: s.Users, Color: "#1565c0"},
		{Label: "Orders", Value: s.Orders, Color: "#e65100"},
		{Label: "Conv. Rate", Value: s.ConversionRate, Color: "#6a1b9a"},
	}
}

type RevenuePoint struct {
	Month string
	Value int64
}

type Order struct {
	ID       string
	Customer string
	Amount   decimal.Decimal
	Status   string
	Date     string
}

type Post struct {
	ID     uint
	Title  string
	Author string
	Date   string
	Body   string
}

// Paragraphs splits the body on blank lines.
func (p Post) Paragraphs() []string {
	parts := strings.Split(p.Body, "\n\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type Comment struct {
	ID     uint
	Author string
	Text   string
	Time   string
}
