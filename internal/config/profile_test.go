package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/db/memory"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/application"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("boundary_timeout: 3s\nlatencies:\n  stats: 1s\n  comments: 1500ms\n"), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, p.BoundaryTimeout)
	assert.Equal(t, 1500*time.Millisecond, p.Latencies["comments"])

	src := application.NewDataSource(memory.NewCatalogRepository(memory.DemoCatalog()), clockwork.NewFakeClock(), p.Options()...)
	assert.Equal(t, time.Second, src.Latency(application.KindStats))
	assert.Equal(t, 500*time.Millisecond, src.Latency(application.KindRevenue))
}

func TestParseRejectsBadProfiles(t *testing.T) {
	cases := map[string]string{
		"unknown kind":     "latencies:\n  weather: 1s\n",
		"negative latency": "latencies:\n  stats: -1s\n",
		"negative timeout": "boundary_timeout: -2s\n",
		"not a duration":   "latencies:\n  stats: soon\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)
	p, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 800*time.Millisecond, p.Latencies["comments"])
	assert.Len(t, p.Options(), 1)
}
