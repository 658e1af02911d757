package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewULID(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		id := NewULID()
		assert.Len(t, id, 26)
		assert.True(t, IsULID(id), id)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIsULID(t *testing.T) {
	assert.True(t, IsULID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))
	assert.False(t, IsULID(""))
	assert.False(t, IsULID("01arz3ndektsv4rrffq69g5fav"))
	assert.False(t, IsULID("01ARZ3NDEKTSV4RRFFQ69G5FA"))
	assert.False(t, IsULID("01ARZ3NDEKTSV4RRFFQ69G5FAU"))
	assert.False(t, IsULID("81ARZ3NDEKTSV4RRFFQ69G5FAV"))
}
