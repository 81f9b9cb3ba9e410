package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewID()
		assert.Len(t, id, 36)
		assert.True(t, IsID(id))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIsID(t *testing.T) {
	assert.True(t, IsID("0b7c3c0e-4f7d-4b9a-9c41-2b1f7c0d9e11"))
	assert.False(t, IsID(""))
	assert.False(t, IsID("not-a-uuid"))
}
