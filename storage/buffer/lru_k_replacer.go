/*
lruKReplacer implements LRU-K, approximating the backward k-distance
eviction policy with two queues rather than a priority queue keyed on
k-distance directly.

A frame with fewer than k recorded accesses has, by definition, infinite
backward k-distance: it lives in the young bucket and is evicted before
any frame the replacer has actually observed k times. Once a frame's
history fills up to k entries it moves to the old bucket and is evicted
in plain LRU order against other old-bucket frames.

The two buckets are each a plain lruQueue, backed by a shared node map
keyed by frame id rather than two fully independent LRU replacers.
*/
package buffer

import (
	"sync"

	"github.com/pkg/errors"
)

// lruKReplacer decides which unpinned frame to evict next.
type lruKReplacer struct {
	mu sync.Mutex

	nodes map[FrameID]*lruKNode
	young *lruQueue
	old   *lruQueue

	numFrames        int
	k                int
	currentTimestamp uint64
	evictableCount   int
}

func newLRUKReplacer(numFrames, k int) *lruKReplacer {
	return &lruKReplacer{
		nodes:     make(map[FrameID]*lruKNode),
		young:     newLRUQueue(),
		old:       newLRUQueue(),
		numFrames: numFrames,
		k:         k,
	}
}

// evict picks a victim frame: young bucket first (FIFO within it), then
// old bucket (also FIFO). Returns false if no evictable frame exists.
func (r *lruKReplacer) evict() (FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictLocked()
}

func (r *lruKReplacer) evictLocked() (FrameID, bool) {
	if frameID, ok := r.young.victim(); ok {
		delete(r.nodes, frameID)
		r.evictableCount--
		return frameID, true
	}
	if frameID, ok := r.old.victim(); ok {
		delete(r.nodes, frameID)
		r.evictableCount--
		return frameID, true
	}
	return InvalidFrameID, false
}

// recordAccess registers an access to frameID at a fresh timestamp. A
// frame with no node yet gets one created, but is left off both queues
// until the caller marks it evictable.
func (r *lruKReplacer) recordAccess(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.currentTimestamp++

	node, ok := r.nodes[frameID]
	if !ok {
		node = newLRUKNode(frameID, r.k)
		r.nodes[frameID] = node
		node.addHistory(r.currentTimestamp)
		return
	}

	crossedIntoOld := node.addHistory(r.currentTimestamp)
	if !node.evictable {
		return
	}
	switch {
	case crossedIntoOld:
		r.young.pin(frameID)
		r.old.unpin(frameID)
	case node.isInOldBucket():
		r.old.access(frameID)
	default:
		r.young.access(frameID)
	}
}

// setEvictable marks frameID evictable or not. Marking a frame that has
// never been recorded is rejected: callers must recordAccess a frame at
// least once before it can be marked evictable.
func (r *lruKReplacer) setEvictable(frameID FrameID, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[frameID]
	if !ok {
		return errors.Errorf("lruKReplacer: setEvictable on untracked frame %d", frameID)
	}

	if evictable {
		if node.evictable {
			return nil
		}
		if r.evictableCount >= r.numFrames {
			if _, ok := r.evictLocked(); !ok {
				return errors.New("lruKReplacer: at capacity but no frame to evict to make room")
			}
		}
		node.evictable = true
		r.evictableCount++
		if node.isInOldBucket() {
			r.old.unpin(frameID)
		} else {
			r.young.unpin(frameID)
		}
		return nil
	}

	if !node.evictable {
		return nil
	}
	if node.isInOldBucket() {
		r.old.pin(frameID)
	} else {
		r.young.pin(frameID)
	}
	delete(r.nodes, frameID)
	r.evictableCount--
	return nil
}

// remove drops frameID's tracked history entirely. No-op if the frame
// isn't evictable (including if it isn't tracked at all); the caller
// removing a pinned frame is a BPM bug the caller must not commit.
func (r *lruKReplacer) remove(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[frameID]
	if !ok || !node.evictable {
		return
	}
	if node.isInOldBucket() {
		r.old.pin(frameID)
	} else {
		r.young.pin(frameID)
	}
	delete(r.nodes, frameID)
	r.evictableCount--
}

// size returns the number of evictable frames currently tracked.
func (r *lruKReplacer) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictableCount
}
