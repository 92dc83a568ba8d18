package buffer

import "container/list"

// lruQueue is an ordered sequence of frame ids: front is the
// least-recently-accessed (longest-waiting eviction candidate), back is
// the most-recently-accessed. It backs both the young and old buckets of
// lruKReplacer.
//
// Built on container/list plus an index map so every operation below is
// O(1) rather than the O(n) a plain slice would need for pin/unpin/access
// by frame id.
type lruQueue struct {
	order *list.List
	index map[FrameID]*list.Element
}

func newLRUQueue() *lruQueue {
	return &lruQueue{
		order: list.New(),
		index: make(map[FrameID]*list.Element),
	}
}

// victim removes and returns the front (oldest) frame id, if any.
func (q *lruQueue) victim() (FrameID, bool) {
	front := q.order.Front()
	if front == nil {
		return InvalidFrameID, false
	}
	q.order.Remove(front)
	frameID := front.Value.(FrameID)
	delete(q.index, frameID)
	return frameID, true
}

// pin removes frameID from the queue if present; no-op otherwise.
func (q *lruQueue) pin(frameID FrameID) {
	e, ok := q.index[frameID]
	if !ok {
		return
	}
	q.order.Remove(e)
	delete(q.index, frameID)
}

// unpin appends frameID to the back, unless it is already queued.
func (q *lruQueue) unpin(frameID FrameID) {
	if _, ok := q.index[frameID]; ok {
		return
	}
	q.index[frameID] = q.order.PushBack(frameID)
}

// access moves frameID to the back if it is present; no-op otherwise.
func (q *lruQueue) access(frameID FrameID) {
	e, ok := q.index[frameID]
	if !ok {
		return
	}
	q.order.MoveToBack(e)
}

// size returns the number of frame ids currently queued.
func (q *lruQueue) size() int {
	return q.order.Len()
}
