package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/shopspring/decimal"
)

type cartView struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func doPatternsList(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "patterns.list", nil, out)
	}
	return newAPIClient(cfg.Server).get(ctx, "/api/patterns", out)
}

func doLatencies(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "catalog.latencies", nil, out)
	}
	return newAPIClient(cfg.Server).get(ctx, "/api/catalog/latencies", out)
}

func doProduct(ctx context.Context, cfg cliConfig, id uint, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "catalog.product", map[string]any{"id": id}, out)
	}
	return newAPIClient(cfg.Server).get(ctx, "/api/catalog/products/"+uintToString(id), out)
}

func doCart(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "catalog.cart", nil, out)
	}
	return newAPIClient(cfg.Server).get(ctx, "/api/catalog/cart", out)
}

func doTheme(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "catalog.theme", nil, out)
	}
	return newAPIClient(cfg.Server).get(ctx, "/api/catalog/theme", out)
}

func doDashboard(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "catalog.dashboard", nil, out)
	}
	return newAPIClient(cfg.Server).get(ctx, "/api/catalog/dashboard", out)
}

func doPost(ctx context.Context, cfg cliConfig, id uint, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "catalog.post", map[string]any{"id": id}, out)
	}
	return newAPIClient(cfg.Server).get(ctx, "/api/catalog/posts/"+uintToString(id), out)
}

func doComments(ctx context.Context, cfg cliConfig, postID uint, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "catalog.comments", map[string]any{"post_id": postID}, out)
	}
	return newAPIClient(cfg.Server).get(ctx, "/api/catalog/posts/"+uintToString(postID)+"/comments", out)
}

type chunkEvent struct {
	At     time.Duration
	Bytes  int
	Labels []string
}

type fetchResult struct {
	Status int
	PageID string
	Chunks []chunkEvent
	Total  time.Duration
	Body   string
}

var swapCall = regexp.MustCompile(`__swap\("([^"]+)","([^"]+)"\)`)

// timeline labels the chunks of a streamed document as they are appended
// to it. Labels for a swap split across two reads land on the later read.
type timeline struct {
	body      strings.Builder
	swaps     int
	sawShell  bool
	sawClosed bool
}

func (t *timeline) add(chunk []byte) []string {
	t.body.Write(chunk)
	var labels []string
	if !t.sawShell {
		t.sawShell = true
		labels = append(labels, "shell")
	}
	matches := swapCall.FindAllStringSubmatch(t.body.String(), -1)
	for _, m := range matches[t.swaps:] {
		labels = append(labels, m[1]+" "+m[2])
	}
	t.swaps = len(matches)
	if !t.sawClosed && strings.Contains(t.body.String(), "</html>") {
		t.sawClosed = true
		labels = append(labels, "end")
	}
	return labels
}

func doFetch(ctx context.Context, cfg cliConfig, pattern string, id uint, fail string) (fetchResult, error) {
	q := url.Values{}
	q.Set("id", uintToString(id))
	if fail != "" {
		q.Set("fail", fail)
	}
	target := strings.TrimRight(cfg.Server, "/") + "/patterns/" + url.PathEscape(pattern) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fetchResult{}, err
	}
	start := time.Now()
	resp, err := (&http.Client{Timeout: 30 * time.Second}).Do(req)
	if err != nil {
		return fetchResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(resp.Body)
		return fetchResult{}, fmt.Errorf("page error (%d): %s", resp.StatusCode, summarize(string(payload)))
	}

	res := fetchResult{Status: resp.StatusCode, PageID: resp.Header.Get("X-Page-Id")}
	var tl timeline
	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			res.Chunks = append(res.Chunks, chunkEvent{At: time.Since(start), Bytes: n, Labels: tl.add(buf[:n])})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}
	}
	res.Total = time.Since(start)
	res.Body = tl.body.String()
	return res, nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// summarize pulls readable text out of an error page.
func summarize(html string) string {
	text := strings.Join(strings.Fields(tagPattern.ReplaceAllString(html, " ")), " ")
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
