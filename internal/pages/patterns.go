package pages

import (
	"errors"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/ui"
)

var ErrUnknownPattern = errors.New("unknown pattern")

const (
	ProductPage = "product_page"
	CartPage    = "cart_page"
	ThemePage   = "theme_page"
	Dashboard   = "dashboard"
	BlogPost    = "blog_post"
)

type Pattern struct {
	Key      string
	Number   int
	Title    string
	Summary  string
	MaxWidth int
	Banner   ui.Banner
	// TakesID reports whether the page reads the id query parameter.
	TakesID bool
}

var Patterns = []Pattern{
	{
		Key: ProductPage, Number: 1, Title: "Pushing state to leaf components", MaxWidth: 700, TakesID: true,
		Summary: "A server-composed product page with one interactive add-to-cart leaf.",
		Banner: ui.Banner{
			Number: 1, Title: "Pushing State to Leaf Components", Background: "#e8f5e9", Border: "#a5d6a7",
			Text: "The whole page is composed on the server. Only the Add to Cart control below carries client behaviour. Product data, specs and reviews never leave the server as code.",
		},
	},
	{
		Key: CartPage, Number: 2, Title: "The donut pattern", MaxWidth: 600,
		Summary: "A client modal wrapping server-rendered cart contents it never inspects.",
		Banner: ui.Banner{
			Number: 2, Title: "The Donut Pattern", Background: "#e3f2fd", Border: "#90caf9",
			Text: "The modal below owns its open and closed state on the client. The cart inside it was rendered on the server and is passed through as a sealed payload.",
		},
	},
	{
		Key: ThemePage, Number: 3, Title: "Extracting state into a wrapper", MaxWidth: 800,
		Summary: "A theme selector wrapping header, content and footer composed on the server.",
		Banner: ui.Banner{
			Number: 3, Title: "Extracting State into a Wrapper", Background: "#fce4ec", Border: "#f48fb1",
			Text: "The theme toggle is a client wrapper. Header, main content and footer are server-composed and stay that way while nested inside it.",
		},
	},
	{
		Key: Dashboard, Number: 4, Title: "Parallel deferred sections", MaxWidth: 900,
		Summary: "Three independent boundaries streamed in the order their data arrives.",
		Banner: ui.Banner{
			Number: 4, Title: "Parallel Suspension Boundaries", Background: "#f3e5f5", Border: "#ce93d8",
			Text: "Each section below sits in its own boundary and fetches independently. Stats arrive first (~200ms), orders next (~350ms) and the chart last (~500ms).",
		},
	},
	{
		Key: BlogPost, Number: 5, Title: "Server-to-client handoff", MaxWidth: 700, TakesID: true,
		Summary: "The post is awaited; comments start on the server and resolve in their own boundary.",
		Banner: ui.Banner{
			Number: 5, Title: "Server-to-Client Handoff", Background: "#fff8e1", Border: "#ffcc80",
			Text: "The post is awaited on the server and renders immediately. The comments request starts on the server too, but the comment unit resolves it later inside its own boundary.",
		},
	},
}

func Lookup(key string) (Pattern, bool) {
	for _, p := range Patterns {
		if p.Key == key {
			return p, true
		}
	}
	return Pattern{}, false
}

func Links() []ui.PatternLink {
	links := make([]ui.PatternLink, 0, len(Patterns))
	for _, p := range Patterns {
		links = append(links, ui.PatternLink{Key: p.Key, Number: p.Number, Title: p.Title, Summary: p.Summary})
	}
	return links
}
