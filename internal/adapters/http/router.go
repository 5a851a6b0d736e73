package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/application"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/pages"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/stream"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/ui"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
)

// RootID is the element the SSE stream patches the shell into.
const RootID = "pattern-root"

const PageIDHeader = "X-Page-Id"

var errBadRequest = errors.New("bad request")

type Handler struct {
	composer *pages.Composer
	host     *stream.Host
}

func NewRouter(composer *pages.Composer, host *stream.Host) http.Handler {
	h := &Handler{composer: composer, host: host}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.handleIndex)
	r.Get("/up", h.handleHealth)
	r.Get("/patterns/{pattern}", h.handlePattern)
	r.Get("/patterns/{pattern}/stream", h.handleStream)
	r.Get("/patterns/{pattern}/live", h.handleLive)

	r.Route("/api", func(r chi.Router) {
		r.Get("/patterns", h.handleAPIPatterns)
		r.Get("/catalog/latencies", h.handleAPILatencies)
		r.Get("/catalog/products/{id}", h.handleAPIProduct)
		r.Get("/catalog/cart", h.handleAPICart)
		r.Get("/catalog/theme", h.handleAPITheme)
		r.Get("/catalog/dashboard", h.handleAPIDashboard)
		r.Get("/catalog/posts/{id}", h.handleAPIPost)
		r.Get("/catalog/posts/{id}/comments", h.handleAPIComments)
	})

	return r
}

type pageRequest struct {
	pattern pages.Pattern
	id      uint
	faults  []application.Kind
	ctx     context.Context
}

// query rebuilds the request's query from its validated fields only.
func (p pageRequest) query() string {
	q := url.Values{}
	q.Set("id", strconv.FormatUint(uint64(p.id), 10))
	if len(p.faults) > 0 {
		kinds := make([]string, 0, len(p.faults))
		for _, k := range p.faults {
			kinds = append(kinds, string(k))
		}
		q.Set("fail", strings.Join(kinds, ","))
	}
	return q.Encode()
}

func readPageRequest(r *http.Request) (pageRequest, error) {
	key := chi.URLParam(r, "pattern")
	p, ok := pages.Lookup(key)
	if !ok {
		return pageRequest{}, fmt.Errorf("%w: %q", pages.ErrUnknownPattern, key)
	}

	id := uint(1)
	if raw := strings.TrimSpace(r.URL.Query().Get("id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			return pageRequest{}, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
		}
		id = uint(parsed)
	}

	faults, err := application.ParseFaults(r.URL.Query().Get("fail"))
	if err != nil {
		return pageRequest{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	return pageRequest{pattern: p, id: id, faults: faults, ctx: application.WithFaults(r.Context(), faults...)}, nil
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	renderHTML(r.Context(), w, http.StatusOK, ui.Index(pages.Links()))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handlePattern(w http.ResponseWriter, r *http.Request) {
	req, err := readPageRequest(r)
	if err != nil {
		renderError(r.Context(), w, err)
		return
	}
	writer := stream.NewHTMLWriter(w, ui.DocumentHead(req.pattern.Title, req.pattern.MaxWidth), ui.DocumentTail())
	h.streamPage(w, req, writer, func(err error) { renderError(r.Context(), w, err) })
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := readPageRequest(r)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writer := stream.NewSSEWriter(w, r, RootID)
	h.streamPage(w, req, writer, func(err error) { http.Error(w, err.Error(), statusFor(err)) })
}

func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	req, err := readPageRequest(r)
	if err != nil {
		renderError(r.Context(), w, err)
		return
	}
	target := url.URL{Path: "/patterns/" + req.pattern.Key + "/stream", RawQuery: req.query()}
	renderHTML(r.Context(), w, http.StatusOK, ui.LiveShell(req.pattern.Title, RootID, target.String(), req.pattern.MaxWidth))
}

// streamPage composes and streams one page. fail is used only while
// nothing has been written, so it can still choose the status code.
func (h *Handler) streamPage(w http.ResponseWriter, req pageRequest, writer stream.Writer, fail func(error)) {
	page := h.host.BeginPage(req.ctx, writer)
	w.Header().Set(PageIDHeader, page.ID())

	shell, err := h.composer.Compose(req.ctx, page, req.pattern.Key, req.id)
	if err != nil {
		page.Abort()
		log.Printf("page %s: compose %s failed: %v", page.ID(), req.pattern.Key, err)
		fail(err)
		return
	}
	if err := page.Stream(shell); err != nil {
		if !page.Flushed() {
			log.Printf("page %s: shell for %s failed: %v", page.ID(), req.pattern.Key, err)
			fail(err)
			return
		}
		log.Printf("page %s: stream for %s ended early: %v", page.ID(), req.pattern.Key, err)
	}
}

func (h *Handler) handleAPIPatterns(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pages.Links())
}

func (h *Handler) handleAPILatencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.composer.Source().Latencies())
}

func (h *Handler) handleAPIProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.composer.Source().Product(r.Context(), id)
	respondJSON(w, out, err)
}

func (h *Handler) handleAPICart(w http.ResponseWriter, r *http.Request) {
	items, err := h.composer.Source().CartItems(r.Context())
	respondJSON(w, map[string]any{"items": items, "total": domain.CartTotal(items)}, err)
}

func (h *Handler) handleAPITheme(w http.ResponseWriter, r *http.Request) {
	out, err := h.composer.Source().ThemeContent(r.Context())
	respondJSON(w, out, err)
}

func (h *Handler) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.composer.Source().Dashboard(r.Context())
	respondJSON(w, out, err)
}

func (h *Handler) handleAPIPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.composer.Source().Post(r.Context(), id)
	respondJSON(w, out, err)
}

func (h *Handler) handleAPIComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.composer.Source().Comments(r.Context(), id)
	respondJSON(w, out, err)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func respondJSON(w http.ResponseWriter, out any, err error) {
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, pages.ErrUnknownPattern), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func renderError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := http.StatusText(status)
	if status < http.StatusInternalServerError {
		message = err.Error()
	} else if kind, ok := domain.FailureKindOf(err); ok {
		message = fmt.Sprintf("The page could not be composed (%s failure).", kind)
	}
	renderHTML(ctx, w, status, ui.ErrorPage(status, message))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func renderHTML(ctx context.Context, w http.ResponseWriter, status int, fragments ...templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	for _, fragment := range fragments {
		if fragment == nil {
			continue
		}
		_ = fragment.Render(ctx, w)
	}
}
