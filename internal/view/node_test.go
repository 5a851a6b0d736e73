package view

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestClientNodeRefusesFetch(t *testing.T) {
	var guardErr error
	fetching := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		guardErr = Guard(ctx)
		return nil
	})

	require.NoError(t, Server("page", fetching).Render(context.Background(), io.Discard))
	assert.NoError(t, guardErr)

	require.NoError(t, Client("modal", fetching).Render(context.Background(), io.Discard))
	assert.ErrorIs(t, guardErr, ErrClientFetch)
}

func TestScopeFollowsInnermostNode(t *testing.T) {
	var kind Kind
	var name string
	inner := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		kind, name = ScopeOf(ctx)
		return nil
	})

	require.NoError(t, Client("comments", Fragment(text("x"), inner)).Render(context.Background(), io.Discard))
	assert.Equal(t, ClientInteractive, kind)
	assert.Equal(t, "comments", name)
}

func TestSealProducesOpaquePayload(t *testing.T) {
	p, err := Seal(context.Background(), "cart", text("<ul><li>Keyboard</li></ul>"))
	require.NoError(t, err)
	assert.False(t, p.Empty())
	assert.Equal(t, "cart", p.Name())

	var buf bytes.Buffer
	require.NoError(t, Client("modal", p).Render(context.Background(), &buf))
	assert.Equal(t, "<ul><li>Keyboard</li></ul>", buf.String())
}

func TestSealInsideClientScopeFails(t *testing.T) {
	var sealErr error
	inner := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, sealErr = Seal(ctx, "late", text("server"))
		return nil
	})

	require.NoError(t, Client("wrapper", inner).Render(context.Background(), io.Discard))
	assert.ErrorIs(t, sealErr, ErrClientSeal)
}

func TestFragmentSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Fragment(text("a"), nil, text("b")).Render(context.Background(), &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "ab"))
}
