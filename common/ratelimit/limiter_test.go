package ratelimit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResult(t *testing.T) {
	res, err := parseResult([]interface{}{int64(0), int64(11), int64(10), int64(42)})
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(11), res.CurrentCount)
	assert.Equal(t, int64(10), res.Limit)
	assert.Equal(t, int64(42), res.RetryAfterSeconds)

	res, err = parseResult([]interface{}{int64(1), int64(1), int64(10), int64(0)})
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	_, err = parseResult("nope")
	assert.Error(t, err)

	_, err = parseResult([]interface{}{int64(1), "x", int64(1), int64(0)})
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		method, path string
		want         OpClass
	}{
		{http.MethodGet, "/api/v1/wishlists", ClassRead},
		{http.MethodPost, "/api/v1/wishlists", ClassWrite},
		{http.MethodPatch, "/api/v1/wishlists/3", ClassWrite},
		{http.MethodDelete, "/api/v1/wishlists/3", ClassWrite},
		{http.MethodPut, "/api/v1/wishlists/3/order", ClassReorder},
		{http.MethodPut, "/api/v1/wishlists/3/stocks/9/order/", ClassReorder},
		{http.MethodPut, "/api/v1/wishlists/3/comments/2", ClassWrite},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.method, tt.path), "%s %s", tt.method, tt.path)
	}
}

func TestDefaultLimits(t *testing.T) {
	limits := DefaultLimits(120)

	write, ok := limits.For(ClassWrite)
	require.True(t, ok)
	assert.Equal(t, int64(120), write.Limit)

	reorder, ok := limits.For(ClassReorder)
	require.True(t, ok)
	assert.Equal(t, int64(30), reorder.Limit)

	_, ok = limits.For(ClassRead)
	assert.False(t, ok)

	small, _ := DefaultLimits(2).For(ClassReorder)
	assert.Equal(t, int64(1), small.Limit)
}
