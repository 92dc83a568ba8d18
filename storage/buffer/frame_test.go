package buffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finchdb/finchdb/storage/page"
)

func TestFrame_InitialState(t *testing.T) {
	f := newFrame(3)
	assert.Equal(t, FrameID(3), f.ID())
	assert.Equal(t, page.InvalidID, f.PageID())
	assert.Equal(t, 0, f.PinCount())
	assert.False(t, f.IsDirty())
}

func TestFrame_LatchExcludesWriters(t *testing.T) {
	f := newFrame(0)
	f.WLatch()

	acquired := make(chan struct{})
	go func() {
		f.WLatch()
		close(acquired)
		f.WUnlatch()
	}()

	select {
	case <-acquired:
		t.Fatal("second writer acquired the latch while the first held it")
	case <-time.After(20 * time.Millisecond):
	}

	f.WUnlatch()
	<-acquired
}
