package ui

import (
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/a-h/templ"
)

func Header(title string, navItems []string) templ.Component {
	return unit(func() error {
		if title == "" {
			return domain.Compositionf("header", "missing title")
		}
		return nil
	}, siteHeader(title, navItems))
}

func MainContent(c domain.ThemePageContent) templ.Component {
	return unit(func() error {
		if c.Title == "" {
			return domain.Compositionf("main", "missing title")
		}
		return nil
	}, mainContent(c))
}

func Footer(text string, year int) templ.Component {
	return unit(func() error {
		if year <= 0 {
			return domain.Compositionf("footer", "invalid year %d", year)
		}
		return nil
	}, siteFooter(text, year))
}
