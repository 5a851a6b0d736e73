// Package pages composes the five pattern pages. Each variant decides what
// is awaited before the shell and what streams later in a boundary.
package pages

import (
	"context"
	"fmt"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/application"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/interactive"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/stream"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/ui"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/view"
	"github.com/a-h/templ"
)

type Composer struct {
	source *application.DataSource
}

func NewComposer(source *application.DataSource) *Composer {
	return &Composer{source: source}
}

func (c *Composer) Source() *application.DataSource { return c.source }

// Compose runs the awaited fetches of pattern, registers its boundaries
// on page and returns the shell. An error here fails the whole page.
func (c *Composer) Compose(ctx context.Context, page *stream.Page, pattern string, id uint) (templ.Component, error) {
	p, ok := Lookup(pattern)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, pattern)
	}
	var (
		body view.Node
		err  error
	)
	switch p.Key {
	case ProductPage:
		body, err = c.productPage(ctx, id)
	case CartPage:
		body, err = c.cartPage(ctx)
	case ThemePage:
		body, err = c.themePage(ctx)
	case Dashboard:
		body = c.dashboard(page)
	case BlogPost:
		body, err = c.blogPost(ctx, page, id)
	}
	if err != nil {
		return nil, err
	}
	return view.Fragment(ui.PatternBanner(p.Banner), body), nil
}

func (c *Composer) productPage(ctx context.Context, id uint) (view.Node, error) {
	product, err := c.source.Product(ctx, id)
	if err != nil {
		return view.Node{}, err
	}
	leaf := interactive.NewAddToCart(c.source.Clock(), product.ID, product.Name)
	return view.Server("product-page", view.Fragment(
		ui.ProductDetails(product),
		ui.ProductSpecs(product.Specs),
		ui.ReviewList(product.Reviews),
		leaf.Node(),
	)), nil
}

func (c *Composer) cartPage(ctx context.Context) (view.Node, error) {
	items, err := c.source.CartItems(ctx)
	if err != nil {
		return view.Node{}, err
	}
	cart, err := view.Seal(ctx, "cart", ui.CartContents(items))
	if err != nil {
		return view.Node{}, err
	}
	modal := interactive.NewModal("cart", "Open Cart", cart)
	return view.Server("cart-page", view.Fragment(
		ui.Heading("Shopping", "Click the button below to see the donut pattern in action."),
		modal.Node(),
	)), nil
}

func (c *Composer) themePage(ctx context.Context) (view.Node, error) {
	content, err := c.source.ThemeContent(ctx)
	if err != nil {
		return view.Node{}, err
	}
	header, err := view.Seal(ctx, "header", ui.Header(content.HeaderTitle, content.NavItems))
	if err != nil {
		return view.Node{}, err
	}
	body, err := view.Seal(ctx, "main", ui.MainContent(content))
	if err != nil {
		return view.Node{}, err
	}
	footer, err := view.Seal(ctx, "footer", ui.Footer(content.FooterText, content.Year))
	if err != nil {
		return view.Node{}, err
	}
	selector := interactive.NewThemeSelector(header, body, footer)
	return view.Server("theme-page", selector.Node()), nil
}

func (c *Composer) dashboard(page *stream.Page) view.Node {
	stats := page.RegisterBoundary("stats", ui.StatsSkeleton(), func(ctx context.Context) (templ.Component, error) {
		s, err := c.source.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return ui.StatsGrid(s), nil
	})
	chart := page.RegisterBoundary("chart", ui.ChartSkeleton(), func(ctx context.Context) (templ.Component, error) {
		points, err := c.source.Revenue(ctx)
		if err != nil {
			return nil, err
		}
		return ui.RevenueChart(points), nil
	})
	orders := page.RegisterBoundary("orders", ui.TableSkeleton(), func(ctx context.Context) (templ.Component, error) {
		list, err := c.source.RecentOrders(ctx)
		if err != nil {
			return nil, err
		}
		return ui.OrdersTable(list), nil
	})
	return view.Server("dashboard", view.Fragment(
		ui.Heading("Dashboard", ""),
		ui.Sections(stats, chart, orders),
	))
}

func (c *Composer) blogPost(ctx context.Context, page *stream.Page, id uint) (view.Node, error) {
	post, err := c.source.Post(ctx, id)
	if err != nil {
		return view.Node{}, err
	}

	// started now, awaited by the comment unit inside its boundary
	pending := stream.Go(page.Context(), func(ctx context.Context) ([]domain.Comment, error) {
		return c.source.Comments(ctx, post.ID)
	})
	comments := interactive.NewComments(pending)
	slot := page.RegisterBoundary("comments", ui.CommentsSkeleton(), func(context.Context) (templ.Component, error) {
		return comments.Node(), nil
	})

	return view.Server("blog-post", view.Fragment(
		ui.Article(post),
		ui.Divider(),
		slot,
	)), nil
}
