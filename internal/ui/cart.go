package ui

import (
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/a-h/templ"
)

func CartContents(items []domain.CartItem) templ.Component {
	return unit(func() error {
		for _, item := range items {
			if item.Quantity < 1 {
				return domain.Compositionf("cart", "item %d has quantity %d", item.ID, item.Quantity)
			}
			if item.Name == "" {
				return domain.Compositionf("cart", "item %d has no name", item.ID)
			}
		}
		return nil
	}, cartContents(items))
}
