/*
Package buffer implements the buffer pool manager: a fixed-size cache of
fixed-size page frames sitting between the disk manager and everything
above it (table heap, index, catalog — all out of scope here).

A Frame is one slot in the pool. Frames are allocated once, at pool
construction, and reused for the life of the process; only the page id,
pin count, dirty bit and bytes they hold change over time.

The frame's reader-writer content latch is a plain sync.RWMutex. It is
acquired only by Page Guards, in guard.go, and never by the Manager
itself — the Manager's own mutex protects pin count, dirty bit and page
id, which is a disjoint set of state from the bytes the content latch
protects.
*/
package buffer

import (
	"sync"

	"github.com/finchdb/finchdb/storage/page"
)

// FrameID is the index of a frame within the pool, in [0, poolSize).
type FrameID int32

// InvalidFrameID is never a valid frame index.
const InvalidFrameID FrameID = -1

// Frame is one in-memory slot of the buffer pool.
//
// pageID, pinCount and dirty are owned by the Manager and are only ever
// mutated while the Manager's latch is held. data is owned by whoever
// currently holds the content latch.
type Frame struct {
	id FrameID

	pageID   page.ID
	pinCount int
	dirty    bool
	data     *page.Data

	latch sync.RWMutex
}

// newFrame allocates one pool slot. Called only from NewManager.
func newFrame(id FrameID) *Frame {
	return &Frame{
		id:     id,
		pageID: page.InvalidID,
		data:   page.NewData(),
	}
}

// ID returns the frame's fixed index within the pool.
func (f *Frame) ID() FrameID { return f.id }

// PageID returns the id of the page currently resident in this frame.
func (f *Frame) PageID() page.ID { return f.pageID }

// Data returns the frame's byte buffer. The caller must hold the
// content latch (via a Read or Write guard) before touching it.
func (f *Frame) Data() *page.Data { return f.data }

// PinCount returns the frame's current pin count.
func (f *Frame) PinCount() int { return f.pinCount }

// IsDirty reports whether the frame has unflushed writes.
func (f *Frame) IsDirty() bool { return f.dirty }

// RLatch acquires the frame's content latch for reading.
func (f *Frame) RLatch() { f.latch.RLock() }

// RUnlatch releases a read hold of the content latch.
func (f *Frame) RUnlatch() { f.latch.RUnlock() }

// WLatch acquires the frame's content latch for writing.
func (f *Frame) WLatch() { f.latch.Lock() }

// WUnlatch releases a write hold of the content latch.
func (f *Frame) WUnlatch() { f.latch.Unlock() }
