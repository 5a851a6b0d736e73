package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// swapRuntime moves a streamed <template> into its boundary slot.
const swapRuntime = `<script>function __swap(id,s){var t=document.getElementById(id+"-t"),b=document.getElementById(id);if(!t||!b)return;b.replaceChildren(t.content.cloneNode(true));b.setAttribute("data-boundary",s);t.remove();}</script>`

// HTMLWriter streams one chunked HTML document. Each boundary arrives as a
// <template> followed by a call to the swap runtime.
type HTMLWriter struct {
	w    http.ResponseWriter
	rc   *http.ResponseController
	head templ.Component
	tail templ.Component
}

func NewHTMLWriter(w http.ResponseWriter, head, tail templ.Component) *HTMLWriter {
	return &HTMLWriter{w: w, rc: http.NewResponseController(w), head: head, tail: tail}
}

func (hw *HTMLWriter) WriteShell(ctx context.Context, shell []byte) error {
	h := hw.w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	h.Set("X-Accel-Buffering", "no")
	hw.w.WriteHeader(http.StatusOK)

	if hw.head != nil {
		if err := hw.head.Render(ctx, hw.w); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(hw.w, swapRuntime); err != nil {
		return err
	}
	if _, err := hw.w.Write(shell); err != nil {
		return err
	}
	return hw.flush()
}

func (hw *HTMLWriter) WriteBoundary(_ context.Context, id string, status Status, html []byte) error {
	if _, err := fmt.Fprintf(hw.w, `<template id="%s-t">`, id); err != nil {
		return err
	}
	if _, err := hw.w.Write(html); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(hw.w, `</template><script>__swap(%q,%q)</script>`, id, status); err != nil {
		return err
	}
	return hw.flush()
}

func (hw *HTMLWriter) Close(ctx context.Context) error {
	if hw.tail != nil {
		if err := hw.tail.Render(ctx, hw.w); err != nil {
			return err
		}
	}
	return hw.flush()
}

func (hw *HTMLWriter) flush() error {
	if err := hw.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// SSEWriter streams the page as datastar patch-elements events. The shell
// replaces the contents of the root element; each boundary then morphs its
// slot by id.
type SSEWriter struct {
	w      http.ResponseWriter
	r      *http.Request
	rootID string
	sse    *datastar.ServerSentEventGenerator
}

func NewSSEWriter(w http.ResponseWriter, r *http.Request, rootID string) *SSEWriter {
	return &SSEWriter{w: w, r: r, rootID: rootID}
}

func (sw *SSEWriter) WriteShell(_ context.Context, shell []byte) error {
	// Headers go out with the generator, so it is created only once there
	// is a shell to send. Earlier failures can still use a plain status.
	sw.sse = datastar.NewSSE(sw.w, sw.r)
	return sw.sse.PatchElements(string(shell),
		datastar.WithSelectorID(sw.rootID),
		datastar.WithModeInner(),
	)
}

func (sw *SSEWriter) WriteBoundary(_ context.Context, id string, status Status, html []byte) error {
	fragment := fmt.Sprintf(`<div id="%s" data-boundary="%s">%s</div>`, id, status, html)
	return sw.sse.PatchElements(fragment)
}

func (sw *SSEWriter) Close(context.Context) error {
	return nil
}
