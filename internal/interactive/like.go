package interactive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/view"
	"github.com/a-h/templ"
)

// LikeToggle keeps one independent flag per item id.
type LikeToggle struct {
	mu    sync.Mutex
	liked map[uint]bool
}

func NewLikeToggle() *LikeToggle {
	return &LikeToggle{liked: make(map[uint]bool)}
}

// Toggle flips the flag for id and returns its new value.
func (l *LikeToggle) Toggle(id uint) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.liked[id] = !l.liked[id]
	return l.liked[id]
}

func (l *LikeToggle) Liked(id uint) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.liked[id]
}

// Signals renders the datastar signal object seeding one flag per id.
func (l *LikeToggle) Signals(ids []uint) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, 0, len(sorted))
	for _, id := range sorted {
		parts = append(parts, fmt.Sprintf("c%d: %t", id, l.liked[id]))
	}
	return "{likes: {" + strings.Join(parts, ", ") + "}}"
}

func likeScript(id uint) string {
	sig := "$likes.c" + strconv.FormatUint(uint64(id), 10)
	return sig + " = !" + sig
}

func likeTextScript(id uint) string {
	return "$likes.c" + strconv.FormatUint(uint64(id), 10) + " ? 'Liked' : 'Like'"
}

// Button is the like control for a single item.
func (l *LikeToggle) Button(id uint) view.Node {
	return view.Client("like-toggle", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return likeButton(id, l.Liked(id)).Render(ctx, w)
	}))
}
