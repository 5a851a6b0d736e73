package interactive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/stream"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/view"
	"github.com/a-h/templ"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, n view.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(context.Background(), &buf))
	return buf.String()
}

func sealed(t *testing.T, name, html string) view.Payload {
	t.Helper()
	p, err := view.Seal(context.Background(), name, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	}))
	require.NoError(t, err)
	return p
}

func TestAddToCartRevertsAfterTwoSeconds(t *testing.T) {
	clk := clockwork.NewFakeClock()
	btn := NewAddToCart(clk, 1, "Mechanical Keyboard")

	require.Equal(t, Idle, btn.State())
	require.True(t, btn.Add())
	assert.Equal(t, Added, btn.State())

	clk.Advance(AddedResetAfter - time.Millisecond)
	assert.Equal(t, Added, btn.State())

	clk.Advance(time.Millisecond)
	assert.Eventually(t, func() bool { return btn.State() == Idle }, time.Second, time.Millisecond)
}

func TestAddToCartSecondClickIsNoop(t *testing.T) {
	clk := clockwork.NewFakeClock()
	btn := NewAddToCart(clk, 1, "Mechanical Keyboard")

	require.True(t, btn.Add())
	clk.Advance(time.Second)
	assert.False(t, btn.Add())

	// the window is not extended by the ignored click
	clk.Advance(time.Second)
	assert.Eventually(t, func() bool { return btn.State() == Idle }, time.Second, time.Millisecond)

	assert.True(t, btn.Add())
}

func TestAddToCartQuantityIsClamped(t *testing.T) {
	btn := NewAddToCart(clockwork.NewFakeClock(), 1, "Keyboard")
	assert.Equal(t, MinQuantity, btn.Quantity())

	btn.SetQuantity(0)
	assert.Equal(t, MinQuantity, btn.Quantity())
	btn.SetQuantity(500)
	assert.Equal(t, MaxQuantity, btn.Quantity())
	btn.SetQuantity(3)
	assert.Equal(t, 3, btn.Quantity())
}

func TestAddToCartNodeIsClientLeaf(t *testing.T) {
	clk := clockwork.NewFakeClock()
	btn := NewAddToCart(clk, 7, "Cable <USB-C>")
	node := btn.Node()
	assert.Equal(t, view.ClientInteractive, node.Kind())

	html := render(t, node)
	assert.Contains(t, html, `data-product-id="7"`)
	assert.Contains(t, html, "Add to Cart")
	assert.Contains(t, html, "setTimeout(() =&gt; $added = false, 2000)")
	assert.NotContains(t, html, "<USB-C>")

	btn.Add()
	html = render(t, node)
	assert.Contains(t, html, "Added!")
	assert.Contains(t, html, " disabled ")
}

func TestModalToggles(t *testing.T) {
	m := NewModal("cart", "Open Cart", sealed(t, "cart", "<p>cart</p>"))
	assert.False(t, m.IsOpen())

	m.Trigger()
	assert.True(t, m.IsOpen())
	m.ClickInside()
	assert.True(t, m.IsOpen())
	m.ClickOutside()
	assert.False(t, m.IsOpen())

	m.Trigger()
	m.Trigger()
	assert.False(t, m.IsOpen())

	m.Trigger()
	m.Close()
	assert.False(t, m.IsOpen())
}

func TestModalBehaviourIgnoresPayload(t *testing.T) {
	run := func(m *Modal) []bool {
		var seen []bool
		m.Trigger()
		seen = append(seen, m.IsOpen())
		m.ClickInside()
		seen = append(seen, m.IsOpen())
		m.ClickOutside()
		seen = append(seen, m.IsOpen())
		return seen
	}

	withCart := NewModal("cart", "Open Cart", sealed(t, "cart", "<h3>Your Cart</h3><span>$210.96</span>"))
	stub := NewModal("cart", "Open Cart", sealed(t, "stub", "<i>stub</i>"))
	assert.Equal(t, run(withCart), run(stub))

	html := render(t, stub.Node())
	assert.Contains(t, html, "<i>stub</i>")
	assert.Contains(t, html, `data-signals="{cartOpen: false}"`)
	assert.Contains(t, html, "display:none")
}

func TestModalRenderingShowsOpenState(t *testing.T) {
	m := NewModal("cart", "Open Cart", sealed(t, "cart", "x"))
	m.Trigger()
	html := render(t, m.Node())
	assert.Contains(t, html, "display:flex")
	assert.Contains(t, html, `data-on:click__stop`)
}

func TestLikeToggleIsPerItem(t *testing.T) {
	likes := NewLikeToggle()
	ids := []uint{1, 2, 3, 4}

	assert.True(t, likes.Toggle(3))
	for _, id := range ids {
		assert.Equal(t, id == 3, likes.Liked(id), "comment %d", id)
	}

	assert.False(t, likes.Toggle(3))
	for _, id := range ids {
		assert.False(t, likes.Liked(id))
	}
}

func TestLikeToggleRendering(t *testing.T) {
	likes := NewLikeToggle()
	likes.Toggle(2)

	assert.Equal(t, "{likes: {c1: false, c2: true, c3: false}}", likes.Signals([]uint{3, 1, 2}))
	assert.Contains(t, render(t, likes.Button(2)), ">Liked</button>")
	assert.Contains(t, render(t, likes.Button(1)), ">Like</button>")
	assert.Equal(t, view.ClientInteractive, likes.Button(1).Kind())
}

func TestThemeSelector(t *testing.T) {
	header := sealed(t, "header", "<header>H</header>")
	footer := sealed(t, "footer", "<footer>F</footer>")
	sel := NewThemeSelector(header, footer)

	assert.Equal(t, "light", sel.Selected().Key)
	require.NoError(t, sel.Select("ocean"))
	assert.Equal(t, "#0d1b2a", sel.Selected().Background)

	err := sel.Select("solarized")
	assert.ErrorIs(t, err, ErrUnknownTheme)
	assert.Equal(t, "ocean", sel.Selected().Key)

	html := render(t, sel.Node())
	assert.Contains(t, html, `data-theme="ocean"`)
	assert.Contains(t, html, "<header>H</header><footer>F</footer>")
	assert.Contains(t, html, `aria-pressed="true" data-attr:aria-pressed="$theme == &#39;ocean&#39;"`)
}

func TestThemeSelectorStylesEveryTheme(t *testing.T) {
	html := render(t, NewThemeSelector().Node())
	for _, th := range Themes {
		assert.Contains(t, html, `.themed[data-theme="`+th.Key+`"]{background:`+th.Background+`;color:`+th.Foreground+`}`)
		assert.Contains(t, html, ">"+th.Label+"</button>")
	}
}

func TestThemeSelectorKeepsSectionsAcrossSelections(t *testing.T) {
	sel := NewThemeSelector(sealed(t, "main", "<main>content</main>"))
	var outputs []string
	for _, key := range []string{"light", "dark", "ocean"} {
		require.NoError(t, sel.Select(key))
		outputs = append(outputs, render(t, sel.Node()))
	}
	for _, html := range outputs {
		assert.Contains(t, html, "<main>content</main>")
	}
}

func TestClientLeafCannotFetch(t *testing.T) {
	var guard error
	leaf := view.Client("fetcher", templ.ComponentFunc(func(ctx context.Context, _ io.Writer) error {
		guard = view.Guard(ctx)
		return nil
	}))
	render(t, leaf)
	assert.ErrorIs(t, guard, view.ErrClientFetch)
}

func TestCommentsResolveTheirOwnHandle(t *testing.T) {
	pending := stream.Go(context.Background(), func(context.Context) ([]domain.Comment, error) {
		return []domain.Comment{
			{ID: 1, Author: "Alex", Text: "Great explanation!", Time: "2 hours ago"},
			{ID: 3, Author: "Jordan", Text: "Clever.", Time: "45 min ago"},
		}, nil
	})
	c := NewComments(pending)
	c.Likes().Toggle(3)

	html := render(t, c.Node())
	assert.Contains(t, html, "Comments (2)")
	assert.Contains(t, html, `data-signals="{likes: {c1: false, c3: true}}"`)
	assert.Contains(t, html, `data-comment-id="3"`)
}

func TestCommentsPropagateFetchFailure(t *testing.T) {
	failure := domain.NewFailure(domain.FetchFailure, "comments", errors.New("comments api down"))
	c := NewComments(stream.Rejected[[]domain.Comment](failure))

	err := c.Node().Render(context.Background(), &bytes.Buffer{})
	kind, ok := domain.FailureKindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.FetchFailure, kind)
}
