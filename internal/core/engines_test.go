package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextConfirmer(t *testing.T) {
	ctx := context.Background()

	assert.False(t, ContextConfirmer(false).Confirm(ctx, "?"))
	assert.True(t, ContextConfirmer(true).Confirm(ctx, "?"))
	assert.True(t, ContextConfirmer(false).Confirm(WithConfirmation(ctx, true), "?"))
	assert.False(t, ContextConfirmer(true).Confirm(WithConfirmation(ctx, false), "?"))

	cancelled, cancel := context.WithCancel(WithConfirmation(ctx, true))
	cancel()
	assert.False(t, ContextConfirmer(true).Confirm(cancelled, "?"), "cancelled context declines")
}

func TestStaticConfirmerAndFunc(t *testing.T) {
	assert.True(t, StaticConfirmer(true).Confirm(context.Background(), ""))
	assert.False(t, StaticConfirmer(false).Confirm(context.Background(), ""))

	var got string
	f := ConfirmFunc(func(_ context.Context, msg string) bool {
		got = msg
		return true
	})
	assert.True(t, f.Confirm(context.Background(), "continue?"))
	assert.Equal(t, "continue?", got)
}

func TestParseDialect(t *testing.T) {
	for _, d := range []Dialect{DialectAmerican, DialectBritish, DialectAustralian, DialectCanadian, DialectIndian} {
		got, err := ParseDialect(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	got, err := ParseDialect("BRITISH")
	require.NoError(t, err)
	assert.Equal(t, DialectBritish, got)

	_, err = ParseDialect("martian")
	assert.Error(t, err)
}

func TestSpan(t *testing.T) {
	s := Span{Start: 3, End: 7}
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, Span{Start: 13, End: 17}, s.Shift(10))
}
