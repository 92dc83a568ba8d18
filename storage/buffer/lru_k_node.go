package buffer

// lruKNode is the per-frame access history the replacer classifies frames
// with: a bounded ring of the k most recent access timestamps plus the
// evictable flag. It carries no queue membership of its own — lruKReplacer
// tracks which of young/old a node lives in separately, since that
// membership only matters while the node is evictable.
type lruKNode struct {
	frameID   FrameID
	history   []uint64 // oldest first, capped at k entries
	k         int
	evictable bool
}

func newLRUKNode(frameID FrameID, k int) *lruKNode {
	return &lruKNode{
		frameID: frameID,
		history: make([]uint64, 0, k),
		k:       k,
	}
}

// addHistory records a new access timestamp, dropping the oldest entry
// once the ring is full. Returns whether this push is the one that
// crosses the node from the young bucket into the old bucket.
func (n *lruKNode) addHistory(timestamp uint64) (crossedIntoOld bool) {
	wasOld := n.isInOldBucket()
	if len(n.history) == n.k {
		n.history = append(n.history[1:], timestamp)
	} else {
		n.history = append(n.history, timestamp)
	}
	return !wasOld && n.isInOldBucket()
}

// isInOldBucket reports whether the node has accumulated k accesses.
func (n *lruKNode) isInOldBucket() bool {
	return len(n.history) >= n.k
}
