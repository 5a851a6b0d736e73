package ui

import (
	"fmt"
	"math"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/a-h/templ"
)

const chartBarMaxPx = 130

var statusColors = map[string]string{
	"Shipped":    "#1565c0",
	"Processing": "#e65100",
	"Delivered":  "#2e7d32",
}

func StatusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return "#666"
}

func StatsGrid(stats domain.DashboardStats) templ.Component {
	pairs := stats.Pairs()
	return unit(func() error {
		for _, s := range pairs {
			if s.Value == "" {
				return domain.Compositionf("stats", "missing value for %s", s.Label)
			}
		}
		return nil
	}, statsGrid(pairs))
}

// BarHeight scales value against peak onto the chart height in pixels.
func BarHeight(value, peak int64) float64 {
	if peak <= 0 {
		return 0
	}
	return float64(value) / float64(peak) * chartBarMaxPx
}

func barStyle(value, peak int64) templ.SafeCSS {
	return templ.SafeCSS(fmt.Sprintf("height:%.1fpx", BarHeight(value, peak)))
}

func revenueLabel(value int64) string {
	return fmt.Sprintf("$%.0fk", math.Round(float64(value)/1000))
}

func RevenueChart(points []domain.RevenuePoint) templ.Component {
	var peak int64
	for _, p := range points {
		peak = max(peak, p.Value)
	}
	return unit(func() error {
		if len(points) == 0 {
			return domain.Compositionf("revenue", "no revenue points")
		}
		for _, p := range points {
			if p.Value < 0 {
				return domain.Compositionf("revenue", "negative revenue for %s", p.Month)
			}
		}
		return nil
	}, revenueChart(points, peak))
}

func OrdersTable(orders []domain.Order) templ.Component {
	return unit(func() error {
		for i, o := range orders {
			if o.ID == "" {
				return domain.Compositionf("orders", "order at row %d has no id", i)
			}
		}
		return nil
	}, ordersTable(orders))
}
