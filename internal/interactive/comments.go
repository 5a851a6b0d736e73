package interactive

import (
	"context"
	"io"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/stream"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/ui"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/view"
	"github.com/a-h/templ"
)

// Comments receives comments still in flight. It awaits them while it
// renders and owns the like state once they arrive.
type Comments struct {
	pending *stream.Deferred[[]domain.Comment]
	likes   *LikeToggle
}

func NewComments(pending *stream.Deferred[[]domain.Comment]) *Comments {
	return &Comments{pending: pending, likes: NewLikeToggle()}
}

func (c *Comments) Likes() *LikeToggle {
	return c.likes
}

func (c *Comments) Node() view.Node {
	return view.Client("comments", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		comments, err := c.pending.Await(ctx)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(comments))
		for _, cm := range comments {
			ids = append(ids, cm.ID)
		}
		list := ui.CommentList(comments, func(id uint) templ.Component { return c.likes.Button(id) })
		return commentsLeaf(c.likes.Signals(ids), list).Render(ctx, w)
	}))
}
