package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/a-h/templ"
)

const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// contentMark stands in for the page content when Document is cut in two.
const contentMark = "<!--page-content-->"

func pageWidth(maxWidth int) templ.SafeCSS {
	return templ.SafeCSS("max-width:" + strconv.Itoa(maxWidth) + "px")
}

// DocumentHead is Document up to its content, for pages that stream the
// rest later. DocumentTail closes it.
func DocumentHead(title string, maxWidth int) templ.Component {
	return documentPart(Document(title, maxWidth), true)
}

func DocumentTail() templ.Component {
	return documentPart(Document("", 0), false)
}

func documentPart(doc templ.Component, head bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := doc.Render(templ.WithChildren(ctx, templ.Raw(contentMark)), &buf); err != nil {
			return err
		}
		before, after, _ := strings.Cut(buf.String(), contentMark)
		part := after
		if head {
			part = before
		}
		_, err := io.WriteString(w, part)
		return err
	})
}

type Banner struct {
	Number     int
	Title      string
	Text       string
	Background string
	Border     string
}

func bannerStyle(b Banner) templ.SafeCSS {
	return templ.SafeCSS("background:" + b.Background + ";border:1px solid " + b.Border)
}

type PatternLink struct {
	Key     string `json:"key"`
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// LiveShell is an empty document that pulls its page from the SSE stream.
// streamURL becomes a JS string literal inside the datastar expression.
func LiveShell(title, rootID, streamURL string, maxWidth int) templ.Component {
	target, err := templ.JSONString(streamURL)
	return unit(func() error { return err }, liveShell(title, rootID, target, maxWidth))
}

// BoundaryFailure is the placeholder a boundary shows when it fails.
func BoundaryFailure(name string, err error) templ.Component {
	kind := "unknown"
	if k, ok := domain.FailureKindOf(err); ok {
		kind = k.String()
	}
	detail := ""
	var f *domain.Failure
	if errors.As(err, &f) && f.Err != nil {
		detail = f.Err.Error()
	}
	return boundaryFailure(name, kind, detail)
}
