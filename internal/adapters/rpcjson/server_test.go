package rpcjson

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/db/memory"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/application"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource() *application.DataSource {
	zero := make(map[application.Kind]time.Duration)
	for _, k := range application.Kinds {
		zero[k] = 0
	}
	return application.NewDataSource(memory.NewCatalogRepository(memory.DemoCatalog()), clockwork.NewRealClock(), application.WithLatencies(zero))
}

func call(s *Server, method, params string) response {
	req := request{JSONRPC: "2.0", Method: method, ID: 1}
	if params != "" {
		req.Params = json.RawMessage(params)
	}
	return s.dispatch(context.Background(), req)
}

func TestDispatch(t *testing.T) {
	s := &Server{source: newSource()}

	resp := call(s, "patterns.list", "")
	require.Nil(t, resp.Error)
	list, ok := resp.Result.([]patternInfo)
	require.True(t, ok)
	require.Len(t, list, 5)
	assert.Equal(t, "/patterns/dashboard", list[3].Path)

	resp = call(s, "catalog.product", `{"id":1}`)
	require.Nil(t, resp.Error)

	resp = call(s, "catalog.dashboard", "")
	require.Nil(t, resp.Error)
	snap, ok := resp.Result.(application.DashboardSnapshot)
	require.True(t, ok)
	assert.Len(t, snap.Orders, application.RecentOrdersLimit)

	resp = call(s, "catalog.cart", "")
	require.Nil(t, resp.Error)
	encoded, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"total":"210.96"`)
}

func TestDispatchErrors(t *testing.T) {
	s := &Server{source: newSource()}

	cases := []struct {
		method, params string
		code           int
	}{
		{"catalog.product", "", -32602},
		{"catalog.product", `{"id":0}`, -32602},
		{"catalog.product", `{"id":42}`, 40400},
		{"catalog.comments", `{"post":1}`, -32602},
		{"weather.today", "", -32601},
	}
	for _, tc := range cases {
		resp := call(s, tc.method, tc.params)
		require.NotNil(t, resp.Error, tc.method)
		assert.Equal(t, tc.code, resp.Error.Code, tc.method)
	}

	resp := s.dispatch(context.Background(), request{JSONRPC: "1.0", Method: "patterns.list"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32600, resp.Error.Code)
}

func TestSocketRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "rpc")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "s.sock")
	s, err := Start(path, newSource())
	require.NoError(t, err)
	defer s.Close()

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(`{"jsonrpc":"2.0","method":"catalog.comments","params":{"post_id":1},"id":7}` + "\n"))
	require.NoError(t, err)

	var out struct {
		Result []struct {
			Author string
		} `json:"result"`
		ID int `json:"id"`
	}
	require.NoError(t, json.NewDecoder(bufio.NewReader(conn)).Decode(&out))
	assert.Equal(t, 7, out.ID)
	require.Len(t, out.Result, 4)
	assert.Equal(t, "Alex", out.Result[0].Author)
}
