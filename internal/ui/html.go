// Package ui holds the server-composed presentation units. Every unit is a
// templ component that renders fetched data and nothing else. A unit given
// malformed data fails with a composition failure instead of writing a
// partial tree.
package ui

//go:generate templ generate

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

// unit validates before writing anything, then buffers the markup so a
// failing unit leaves no partial output behind.
func unit(validate func() error, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if validate != nil {
			if err := validate(); err != nil {
				return err
			}
		}
		var buf bytes.Buffer
		if err := body.Render(ctx, &buf); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
