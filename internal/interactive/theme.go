package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/view"
	"github.com/a-h/templ"
)

var ErrUnknownTheme = errors.New("unknown theme")

var Themes = []domain.ThemeChoice{
	{Key: "light", Background: "#ffffff", Foreground: "#1a1a1a", Label: "Light"},
	{Key: "dark", Background: "#1a1a2e", Foreground: "#e0e0e0", Label: "Dark"},
	{Key: "ocean", Background: "#0d1b2a", Foreground: "#c9d6df", Label: "Ocean"},
}

const DefaultTheme = "light"

func LookupTheme(key string) (domain.ThemeChoice, error) {
	for _, t := range Themes {
		if t.Key == key {
			return t, nil
		}
	}
	return domain.ThemeChoice{}, fmt.Errorf("%w: %q", ErrUnknownTheme, key)
}

// ThemeSelector owns the selected theme and wraps sealed sections it
// never re-renders when the selection changes.
type ThemeSelector struct {
	mu       sync.Mutex
	selected string
	sections []view.Payload
}

func NewThemeSelector(sections ...view.Payload) *ThemeSelector {
	return &ThemeSelector{selected: DefaultTheme, sections: sections}
}

func (s *ThemeSelector) Select(key string) error {
	if _, err := LookupTheme(key); err != nil {
		return err
	}
	s.mu.Lock()
	s.selected = key
	s.mu.Unlock()
	return nil
}

func (s *ThemeSelector) Selected() domain.ThemeChoice {
	s.mu.Lock()
	key := s.selected
	s.mu.Unlock()
	t, _ := LookupTheme(key)
	return t
}

func themeSignals(key string) string {
	return "{theme: '" + key + "'}"
}

func (s *ThemeSelector) Node() view.Node {
	return view.Client("theme-selector", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return themeSelector(s.Selected(), s.sections).Render(ctx, w)
	}))
}
