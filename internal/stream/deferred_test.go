package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoDoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	d := Go(context.Background(), func(context.Context) (int, error) {
		<-release
		return 7, nil
	})
	assert.False(t, d.Settled())

	close(release)
	v, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.True(t, d.Settled())
}

func TestAwaitHonoursContext(t *testing.T) {
	d := Go(context.Background(), func(ctx context.Context) (string, error) {
		select {}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := d.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSettledConstructors(t *testing.T) {
	v, err := Resolved("ok").Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	boom := errors.New("boom")
	_, err = Rejected[int](boom).Await(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGoRecoversPanics(t *testing.T) {
	d := Go(context.Background(), func(context.Context) (int, error) {
		panic("bad row")
	})
	_, err := d.Await(context.Background())
	assert.ErrorContains(t, err, "bad row")
}
