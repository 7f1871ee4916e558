package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	t.Run("carries the prefix", func(t *testing.T) {
		id := NewID("th")
		assert.True(t, strings.HasPrefix(id, "th_"))
		assert.True(t, IsValidULID(id))
	})

	t.Run("lowercases the prefix", func(t *testing.T) {
		id := NewID("TH")
		assert.True(t, strings.HasPrefix(id, "th_"))
	})

	t.Run("generates unique ids", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := NewID("th")
			assert.False(t, seen[id])
			seen[id] = true
		}
	})
}

func TestIsValidULID(t *testing.T) {
	t.Run("accepts generated ids", func(t *testing.T) {
		assert.True(t, IsValidULID(NewID("sn")))
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		assert.False(t, IsValidULID(""))
		assert.False(t, IsValidULID("noprefix"))
		assert.False(t, IsValidULID("th_"))
		assert.False(t, IsValidULID("th_notaulid"))
		assert.False(t, IsValidULID("TH_01G0EZ1XTM37C5X11SQTDNCTM1"))
		assert.False(t, IsValidULID("th_01G0EZ1XTM37C5X11SQTDNCTM1_extra"))
	})
}
