package ui

import (
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/a-h/templ"
)

func Article(p domain.Post) templ.Component {
	return unit(func() error {
		if p.Title == "" {
			return domain.Compositionf("article", "post %d has no title", p.ID)
		}
		return nil
	}, article(p))
}

// CommentList renders resolved comments. likeButton supplies the
// per-comment control owned by the caller.
func CommentList(comments []domain.Comment, likeButton func(id uint) templ.Component) templ.Component {
	return unit(func() error {
		for _, c := range comments {
			if c.Author == "" {
				return domain.Compositionf("comments", "comment %d has no author", c.ID)
			}
		}
		return nil
	}, commentList(comments, likeButton))
}
