package buffer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGuard_FetchReadScope checks that fetching a read guard on an
// unpinned, evictable page pins the frame and marks it non-evictable,
// and that dropping the guard returns it to pin=0, evictable again.
func TestGuard_FetchReadScope(t *testing.T) {
	m, err := TestingNewManager(t, 5, 2)
	require.NoError(t, err)

	basic, pageID, ok := m.NewPageGuarded()
	require.True(t, ok)
	basic.Drop()

	guard, ok := m.FetchPageRead(context.Background(), pageID)
	require.True(t, ok)
	frameID := m.pageTable[pageID]
	assert.Equal(t, 1, m.frames[frameID].PinCount())
	assert.Equal(t, 0, m.replacer.size())

	guard.Drop()
	assert.Equal(t, 0, m.frames[frameID].PinCount())
	assert.Equal(t, 1, m.replacer.size())
}

// TestGuard_MoveSemantics checks that moving one read guard into another
// drops the destination's own pin first (two guards on the same page,
// pin=2, become pin=1 after the move), and that the survivor dropping
// at scope exit brings the pin count to zero.
func TestGuard_MoveSemantics(t *testing.T) {
	m, err := TestingNewManager(t, 5, 2)
	require.NoError(t, err)

	basic, pageID, ok := m.NewPageGuarded()
	require.True(t, ok)
	basic.Drop()

	g1, ok := m.FetchPageRead(context.Background(), pageID)
	require.True(t, ok)
	g2, ok := m.FetchPageRead(context.Background(), pageID)
	require.True(t, ok)

	frameID := m.pageTable[pageID]
	assert.Equal(t, 2, m.frames[frameID].PinCount())

	g1.MoveFrom(&g2)
	assert.Equal(t, 1, m.frames[frameID].PinCount())

	// g2 no longer owns anything; dropping it again must be a no-op.
	g2.Drop()
	assert.Equal(t, 1, m.frames[frameID].PinCount())

	g1.Drop()
	assert.Equal(t, 0, m.frames[frameID].PinCount())
}

func TestGuard_DropIsIdempotent(t *testing.T) {
	m, err := TestingNewManager(t, 5, 2)
	require.NoError(t, err)

	basic, pageID, ok := m.NewPageGuarded()
	require.True(t, ok)
	frameID := m.pageTable[pageID]

	basic.Drop()
	assert.Equal(t, 0, m.frames[frameID].PinCount())
	basic.Drop()
	basic.Drop()
	assert.Equal(t, 0, m.frames[frameID].PinCount())
}

func TestGuard_SetDirtyStagesUnpinDirtyBit(t *testing.T) {
	m, err := TestingNewManager(t, 5, 2)
	require.NoError(t, err)

	guard, pageID, ok := m.NewPageGuarded()
	require.True(t, ok)
	guard.Data()[0] = 0x7
	guard.SetDirty()
	guard.Drop()

	frameID := m.pageTable[pageID]
	assert.True(t, m.frames[frameID].IsDirty())
}

func TestGuard_WriteGuardExcludesReaders(t *testing.T) {
	m, err := TestingNewManager(t, 5, 2)
	require.NoError(t, err)

	basic, pageID, ok := m.NewPageGuarded()
	require.True(t, ok)
	basic.Drop()

	wg, ok := m.FetchPageWrite(context.Background(), pageID)
	require.True(t, ok)
	defer wg.Drop()

	frameID := m.pageTable[pageID]
	locked := make(chan struct{})
	go func() {
		m.frames[frameID].RLatch()
		close(locked)
		m.frames[frameID].RUnlatch()
	}()

	select {
	case <-locked:
		t.Fatal("reader acquired the content latch while the writer held it")
	case <-time.After(20 * time.Millisecond):
	}
}
