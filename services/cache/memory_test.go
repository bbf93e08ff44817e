package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()

	_, err := m.Get("absent")
	assert.ErrorIs(t, err, ErrMiss)

	assert.NoError(t, m.Set("k", []byte("v"), 0))
	val, err := m.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	assert.NoError(t, m.Delete("k"))
	_, err = m.Get("k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()

	assert.NoError(t, m.Set("k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := m.Get("k")
	assert.ErrorIs(t, err, ErrMiss)
}
