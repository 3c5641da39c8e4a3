package blob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKey_CarriesPrefixAndFilename(t *testing.T) {
	key := NewKey(PhotoPrefix, "front.jpg")
	assert.True(t, strings.HasPrefix(key, PhotoPrefix+"/"))
	assert.True(t, strings.HasSuffix(key, "-front.jpg"))
}

func TestNewKey_UniqueForSameFilename(t *testing.T) {
	// Two uploads of the same filename in the same timestamp tick must not
	// collide.
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key := NewKey(PhotoPrefix, "front.jpg")
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}
