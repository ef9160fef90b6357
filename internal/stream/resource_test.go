package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResource_ReleaseRunsOnce(t *testing.T) {
	calls := 0
	r := NewResource("t1", "/tmp/none", 10, "audio/mpeg", func() error {
		calls++
		return errors.New("boom")
	})

	assert.EqualError(t, r.Release(), "boom")
	assert.EqualError(t, r.Release(), "boom")
	assert.Equal(t, 1, calls)
}

func TestResource_UniqueIDs(t *testing.T) {
	a := NewResource("t1", "", 0, "", nil)
	b := NewResource("t1", "", 0, "", nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NoError(t, a.Release())
}

func TestResource_NilRelease(t *testing.T) {
	var r *Resource
	assert.NoError(t, r.Release())
}
