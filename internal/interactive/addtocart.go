package interactive

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/view"
	"github.com/a-h/templ"
	"github.com/jonboulle/clockwork"
)

const (
	AddedResetAfter = 2 * time.Second
	MinQuantity     = 1
	MaxQuantity     = 99
)

type CartState int

const (
	Idle CartState = iota
	Added
)

func (s CartState) String() string {
	if s == Added {
		return "added"
	}
	return "idle"
}

// AddToCart holds quantity and a timed "added" flag. Once added, the flag
// reverts after AddedResetAfter no matter what happens in between.
type AddToCart struct {
	mu          sync.Mutex
	clock       clockwork.Clock
	productID   uint
	productName string
	quantity    int
	state       CartState
}

func NewAddToCart(clock clockwork.Clock, productID uint, productName string) *AddToCart {
	return &AddToCart{clock: clock, productID: productID, productName: productName, quantity: MinQuantity}
}

func (a *AddToCart) SetQuantity(n int) {
	if n < MinQuantity {
		n = MinQuantity
	}
	if n > MaxQuantity {
		n = MaxQuantity
	}
	a.mu.Lock()
	a.quantity = n
	a.mu.Unlock()
}

func (a *AddToCart) Quantity() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quantity
}

func (a *AddToCart) State() CartState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Add moves idle to added and reports whether it did. While added the
// button is disabled, so Add is a no-op.
func (a *AddToCart) Add() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == Added {
		return false
	}
	a.state = Added
	a.clock.AfterFunc(AddedResetAfter, func() {
		a.mu.Lock()
		a.state = Idle
		a.mu.Unlock()
	})
	return true
}

// cartButton is the state one render of the button reads.
type cartButton struct {
	productID   uint
	productName string
	quantity    int
	added       bool
}

func (v cartButton) signals() string {
	return "{qty: " + strconv.Itoa(v.quantity) + ", added: " + strconv.FormatBool(v.added) + "}"
}

func (v cartButton) clickScript() string {
	return "if (!$added) { $added = true; setTimeout(() => $added = false, " +
		strconv.FormatInt(AddedResetAfter.Milliseconds(), 10) + ") }"
}

func (v cartButton) label() string {
	if v.added {
		return "Added!"
	}
	return "Add to Cart"
}

func (a *AddToCart) Node() view.Node {
	return view.Client("add-to-cart", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		a.mu.Lock()
		v := cartButton{productID: a.productID, productName: a.productName, quantity: a.quantity, added: a.state == Added}
		a.mu.Unlock()
		return addToCartButton(v).Render(ctx, w)
	}))
}
