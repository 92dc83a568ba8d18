/*
Package buffer's Manager is the buffer pool manager (BPM): the cache of
fixed-size page frames sitting between callers and the disk manager.

The BPM keeps an exact mapping from page id to frame (the page table), a
free list of frames that have never held a page (or were emptied by
DeletePage), and an lruKReplacer that picks a victim among frames that
hold a page but are currently unpinned.

Locking follows the order fixed in the design this is built from:
Manager's own mu, then the replacer's internal mutex, and never a
frame's content latch while mu is held (RLatch/WLatch happen only in
guard.go, strictly after the pinning call below has released mu).
*/
package buffer

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/finchdb/finchdb/config"
	"github.com/finchdb/finchdb/storage/disk"
	"github.com/finchdb/finchdb/storage/page"
)

// LogManager is the constructor slot a future write-ahead-log component
// fills in. The buffer pool core never calls into it; it exists only so
// that component, once it exists, has somewhere to be handed to the BPM
// at construction time instead of requiring every caller to be touched.
type LogManager interface{}

// Manager is the buffer pool manager.
type Manager struct {
	mu sync.Mutex

	poolSize  int
	frames    []*Frame
	pageTable map[page.ID]FrameID
	freeList  []FrameID
	replacer  *lruKReplacer
	disk      *disk.Manager
	log       LogManager

	// nextPageID hands out monotonically increasing page ids independently
	// of mu: it is a narrower lock than the coarse BPM mutex, not a
	// correctness relaxation, since NewPage still calls it under mu.
	nextPageID atomic.Int64
}

// NewManager constructs a buffer pool of poolSize frames backed by dm,
// evicting via LRU-K with the given k. lm is stored but never consulted
// by the core itself; it is a constructor slot for a future WAL
// component to be wired up against.
func NewManager(poolSize, k int, dm *disk.Manager, lm LogManager) *Manager {
	frames := make([]*Frame, poolSize)
	freeList := make([]FrameID, poolSize)
	for i := 0; i < poolSize; i++ {
		frames[i] = newFrame(FrameID(i))
		freeList[i] = FrameID(i)
	}
	return &Manager{
		poolSize:  poolSize,
		frames:    frames,
		pageTable: make(map[page.ID]FrameID),
		freeList:  freeList,
		replacer:  newLRUKReplacer(poolSize, k),
		disk:      dm,
		log:       lm,
	}
}

// dataFileName is the single flat page file a config-driven disk manager
// opens inside cfg.DataDir.
const dataFileName = "finchdb.pages"

// OpenFromConfig builds a buffer pool manager, and the OS-backed disk
// manager behind it, directly from a loaded BufferPoolConfig. This is
// the construction path cmd entry points and test harnesses are meant
// to go through instead of hand-assembling pool size and k constants.
func OpenFromConfig(cfg *config.BufferPoolConfig, lm LogManager) (*Manager, error) {
	if cfg.PageSize != page.Size {
		return nil, errors.Errorf("buffer: config page_size %d does not match compiled page size %d", cfg.PageSize, page.Size)
	}

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "buffer: create data dir failed")
	}

	dm, err := disk.NewManager(fs, filepath.Join(cfg.DataDir, dataFileName))
	if err != nil {
		return nil, errors.Wrap(err, "buffer: open disk manager failed")
	}

	return NewManager(cfg.PoolSize, cfg.ReplacerK, dm, lm), nil
}

// AllocatePage hands out the next page id. Monotonic, never reused.
func (m *Manager) AllocatePage() page.ID {
	return page.ID(m.nextPageID.Inc() - 1)
}

// NewPage allocates a fresh page backed by a pinned frame. Returns false
// if the pool is saturated (every frame pinned).
func (m *Manager) NewPage() (*Frame, page.ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, ok := m.obtainFrameLocked()
	if !ok {
		return nil, page.InvalidID, false
	}

	pageID := m.AllocatePage()
	frame := m.frames[frameID]
	frame.data.Zero()
	frame.pageID = pageID
	frame.pinCount = 1
	frame.dirty = false
	m.pageTable[pageID] = frameID

	m.replacer.recordAccess(frameID)
	_ = m.replacer.setEvictable(frameID, false)

	return frame, pageID, true
}

// FetchPage returns the frame holding pageID, reading it from disk on a
// miss. Returns false if the page isn't resident and the pool has no
// frame free to bring it in. ctx only bounds the disk read on a miss; a
// page table hit never touches it.
func (m *Manager) FetchPage(ctx context.Context, pageID page.ID) (*Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frameID, ok := m.pageTable[pageID]; ok {
		frame := m.frames[frameID]
		frame.pinCount++
		// setEvictable(false) erases an evictable node, so it runs before
		// recordAccess: the access then leaves a tracked node behind that
		// UnpinPage can mark evictable again.
		_ = m.replacer.setEvictable(frameID, false)
		m.replacer.recordAccess(frameID)
		return frame, true
	}

	frameID, ok := m.obtainFrameLocked()
	if !ok {
		return nil, false
	}

	if err := ctx.Err(); err != nil {
		m.freeList = append(m.freeList, frameID)
		return nil, false
	}

	frame := m.frames[frameID]
	frame.data.Zero()
	if err := m.disk.ReadPage(pageID, frame.data); err != nil {
		// IoFailure is fatal per the error handling design; the caller has
		// no recovery path for a disk that cannot be read.
		panic(errors.Wrapf(err, "buffer: read page %d failed", pageID))
	}
	frame.pageID = pageID
	frame.pinCount = 1
	frame.dirty = false
	m.pageTable[pageID] = frameID

	m.replacer.recordAccess(frameID)
	_ = m.replacer.setEvictable(frameID, false)

	return frame, true
}

// UnpinPage decrements pageID's pin count and ORs isDirty into the
// frame's dirty flag, so one caller reporting a clean unpin never erases
// dirtiness a different caller already reported. Returns false if the
// page isn't resident or is already unpinned.
func (m *Manager) UnpinPage(pageID page.ID, isDirty bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, ok := m.pageTable[pageID]
	if !ok {
		return false
	}
	frame := m.frames[frameID]
	if frame.pinCount == 0 {
		return false
	}

	frame.pinCount--
	frame.dirty = frame.dirty || isDirty
	if frame.pinCount == 0 {
		_ = m.replacer.setEvictable(frameID, true)
	}
	return true
}

// FlushPage writes pageID's frame to disk regardless of its dirty state
// and clears the dirty flag. Returns false if the page isn't resident.
func (m *Manager) FlushPage(ctx context.Context, pageID page.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushPageLocked(ctx, pageID)
}

func (m *Manager) flushPageLocked(ctx context.Context, pageID page.ID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	frameID, ok := m.pageTable[pageID]
	if !ok {
		return false, nil
	}
	frame := m.frames[frameID]
	if err := m.disk.WritePage(pageID, frame.data); err != nil {
		return false, errors.Wrapf(err, "buffer: flush page %d failed", pageID)
	}
	frame.dirty = false
	return true, nil
}

// FlushAllPages flushes every resident page, aggregating any per-page
// failures into a single combined error rather than stopping at the
// first one.
func (m *Manager) FlushAllPages(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for pageID := range m.pageTable {
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}
		if _, err := m.flushPageLocked(ctx, pageID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// DeletePage removes pageID from the pool and returns its frame to the
// free list. Returns false (without deleting) if the page is pinned.
// Returns true, doing nothing, if the page isn't resident.
func (m *Manager) DeletePage(pageID page.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, ok := m.pageTable[pageID]
	if !ok {
		return true
	}
	frame := m.frames[frameID]
	if frame.pinCount > 0 {
		return false
	}

	delete(m.pageTable, pageID)
	m.replacer.remove(frameID)

	frame.pinCount = 0
	frame.dirty = false
	frame.pageID = page.InvalidID
	frame.data.Zero()
	m.freeList = append(m.freeList, frameID)

	return true
}

// obtainFrameLocked picks a frame to house a new or fetched page: the
// free list first, otherwise a replacer eviction (writing the victim
// back to disk first if it is dirty). Must be called with mu held.
func (m *Manager) obtainFrameLocked() (FrameID, bool) {
	if n := len(m.freeList); n > 0 {
		frameID := m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		return frameID, true
	}

	frameID, ok := m.replacer.evict()
	if !ok {
		return InvalidFrameID, false
	}

	victim := m.frames[frameID]
	if victim.dirty {
		if err := m.disk.WritePage(victim.pageID, victim.data); err != nil {
			panic(errors.Wrapf(err, "buffer: writeback of evicted page %d failed", victim.pageID))
		}
	}
	delete(m.pageTable, victim.pageID)
	return frameID, true
}
