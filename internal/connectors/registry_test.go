package connectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_CoversAllPlatforms(t *testing.T) {
	r := DefaultRegistry(nil)

	want := []string{
		"facebook", "instagram", "mastodon", "meta_ads",
		"threads", "tiktok", "twitter", "youtube",
	}
	assert.Equal(t, want, r.Platforms())

	for _, p := range want {
		c, ok := r.Lookup(p)
		require.True(t, ok, p)
		assert.Equal(t, p, c.Platform())
	}
}

func TestRegistry_UnknownPlatform(t *testing.T) {
	r := DefaultRegistry(nil)

	c, ok := r.Lookup("myspace")
	assert.False(t, ok)
	assert.Nil(t, c)
}
