package main

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/db/memory"
	httpadapter "github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/http"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/application"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/pages"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/stream"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/ui"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineLabelsChunks(t *testing.T) {
	var tl timeline
	assert.Equal(t, []string{"shell"}, tl.add([]byte(`<!doctype html><div id="b1"></div>`)))
	assert.Empty(t, tl.add([]byte(`<template id="b1-t">x</template><script>__swap("b1",`)))
	assert.Equal(t, []string{"b1 resolved"}, tl.add([]byte(`"resolved")</script>`)))
	assert.Equal(t, []string{"b2 failed", "end"}, tl.add([]byte(`<script>__swap("b2","failed")</script></body></html>`)))
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte(`{"transport":"http"}`))
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, defaultSocket, cfg.Socket)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Server)

	_, err = parseConfig([]byte(`{"transport":"carrier-pigeon"}`))
	assert.Error(t, err)
}

func TestOpenRepositoryMemory(t *testing.T) {
	repo, closeRepo, err := openRepository(context.Background(), serverOptions{store: "memory"})
	require.NoError(t, err)
	defer closeRepo()
	p, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, p.Name)

	_, _, err = openRepository(context.Background(), serverOptions{store: "redis"})
	assert.Error(t, err)
}

func TestFetchAndCatalogOverHTTP(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	zero := make(map[application.Kind]time.Duration)
	for _, k := range application.Kinds {
		zero[k] = 0
	}
	clk := clockwork.NewRealClock()
	src := application.NewDataSource(memory.NewCatalogRepository(memory.DemoCatalog()), clk, application.WithLatencies(zero))
	host := stream.NewHost(clk, stream.WithFailureRenderer(ui.BoundaryFailure), stream.WithLogger(log.New(io.Discard, "", 0)))
	srv := httptest.NewServer(httpadapter.NewRouter(pages.NewComposer(src), host))
	defer srv.Close()

	cfg := cliConfig{Transport: "http", Server: srv.URL}
	ctx := context.Background()

	res, err := doFetch(ctx, cfg, "dashboard", 1, "")
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.NotEmpty(t, res.PageID)
	var labels []string
	for _, c := range res.Chunks {
		labels = append(labels, c.Labels...)
	}
	assert.Contains(t, labels, "shell")
	assert.Contains(t, labels, "end")
	assert.Len(t, labels, 5)

	_, err = doFetch(ctx, cfg, "carousel", 1, "")
	assert.ErrorContains(t, err, "404")

	var cart cartView
	require.NoError(t, doCart(ctx, cfg, &cart))
	assert.Equal(t, "210.96", cart.Total.StringFixed(2))

	var links []ui.PatternLink
	require.NoError(t, doPatternsList(ctx, cfg, &links))
	assert.Len(t, links, len(pages.Patterns))
}
