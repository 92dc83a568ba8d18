package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUQueue_VictimOrder(t *testing.T) {
	q := newLRUQueue()
	q.unpin(1)
	q.unpin(2)
	q.unpin(3)

	got, ok := q.victim()
	assert.True(t, ok)
	assert.Equal(t, FrameID(1), got)

	got, ok = q.victim()
	assert.True(t, ok)
	assert.Equal(t, FrameID(2), got)

	got, ok = q.victim()
	assert.True(t, ok)
	assert.Equal(t, FrameID(3), got)

	_, ok = q.victim()
	assert.False(t, ok)
}

func TestLRUQueue_PinRemoves(t *testing.T) {
	q := newLRUQueue()
	q.unpin(1)
	q.unpin(2)
	q.pin(1)
	assert.Equal(t, 1, q.size())

	got, ok := q.victim()
	assert.True(t, ok)
	assert.Equal(t, FrameID(2), got)
}

func TestLRUQueue_PinAbsentIsNoop(t *testing.T) {
	q := newLRUQueue()
	q.pin(99)
	assert.Equal(t, 0, q.size())
}

func TestLRUQueue_UnpinAlreadyPresentIsNoop(t *testing.T) {
	q := newLRUQueue()
	q.unpin(1)
	q.unpin(2)
	q.unpin(1) // already queued, must not move it or duplicate it

	got, ok := q.victim()
	assert.True(t, ok)
	assert.Equal(t, FrameID(1), got)
	assert.Equal(t, 1, q.size())
}

func TestLRUQueue_AccessMovesToBack(t *testing.T) {
	q := newLRUQueue()
	q.unpin(1)
	q.unpin(2)
	q.unpin(3)
	q.access(1)

	got, ok := q.victim()
	assert.True(t, ok)
	assert.Equal(t, FrameID(2), got)

	got, ok = q.victim()
	assert.True(t, ok)
	assert.Equal(t, FrameID(3), got)

	got, ok = q.victim()
	assert.True(t, ok)
	assert.Equal(t, FrameID(1), got)
}

func TestLRUQueue_AccessAbsentIsNoop(t *testing.T) {
	q := newLRUQueue()
	q.access(1)
	assert.Equal(t, 0, q.size())
}
