/*
Page guards are scoped pin (and, for Read/Write, latch) handles over a
Manager+Frame pair. Go has no destructors, so callers are expected to
`defer guard.Drop()` immediately after acquiring one; Drop is idempotent
and safe to call again at scope exit.

Go also has no move constructors. Where the source relies on move
semantics (an old guard's resource being torn down when a new one is
assigned over it), this package exposes that as an explicit MoveFrom
method: dst.MoveFrom(src) drops whatever dst currently holds, then
transfers src's resource into dst and empties src, mirroring `dst =
std::move(src)` including the drop-old-value-first requirement.
*/
package buffer

import (
	"context"

	"github.com/finchdb/finchdb/storage/page"
)

// BasicGuard owns a single pin on a page. Dropping it unpins, passing
// along whatever dirty state SetDirty staged.
type BasicGuard struct {
	bpm   *Manager
	frame *Frame
	dirty bool
}

func newBasicGuard(bpm *Manager, frame *Frame) BasicGuard {
	return BasicGuard{bpm: bpm, frame: frame}
}

// valid reports whether the guard still owns a pin.
func (g *BasicGuard) valid() bool {
	return g.bpm != nil && g.frame != nil
}

// PageID returns the id of the page this guard is pinning.
func (g *BasicGuard) PageID() page.ID {
	if !g.valid() {
		return page.InvalidID
	}
	return g.frame.PageID()
}

// Data returns the frame's byte buffer. A BasicGuard holds no content
// latch, so concurrent readers/writers of the same frame must coordinate
// through a Read or Write guard instead if that matters to the caller.
func (g *BasicGuard) Data() *page.Data {
	if !g.valid() {
		return nil
	}
	return g.frame.Data()
}

// SetDirty stages the dirty bit for the unpin Drop performs.
func (g *BasicGuard) SetDirty() {
	g.dirty = true
}

// Drop releases the pin. Idempotent: calling it again, or calling it on
// a guard whose resource was moved away via MoveFrom, is a no-op.
func (g *BasicGuard) Drop() {
	if !g.valid() {
		return
	}
	g.bpm.UnpinPage(g.frame.PageID(), g.dirty)
	g.bpm = nil
	g.frame = nil
	g.dirty = false
}

// MoveFrom drops g's current resource (if any), then transfers src's
// resource into g and empties src. After the call src.Drop() is a no-op.
func (g *BasicGuard) MoveFrom(src *BasicGuard) {
	g.Drop()
	*g = *src
	*src = BasicGuard{}
}

// ReadGuard wraps a BasicGuard with the frame's content latch held for
// reading. Release order is fixed: unpin, then unlatch.
type ReadGuard struct {
	basic BasicGuard
}

func newReadGuard(bpm *Manager, frame *Frame) ReadGuard {
	frame.RLatch()
	return ReadGuard{basic: newBasicGuard(bpm, frame)}
}

// PageID returns the id of the page this guard is pinning.
func (g *ReadGuard) PageID() page.ID { return g.basic.PageID() }

// Data returns the frame's byte buffer, safe to read while this guard
// is held.
func (g *ReadGuard) Data() *page.Data { return g.basic.Data() }

// SetDirty stages the dirty bit for the unpin Drop performs.
func (g *ReadGuard) SetDirty() { g.basic.SetDirty() }

// Drop releases the pin and then the read latch. Idempotent.
func (g *ReadGuard) Drop() {
	if !g.basic.valid() {
		return
	}
	frame := g.basic.frame
	g.basic.Drop()
	frame.RUnlatch()
}

// MoveFrom drops g's current resource (if any), then transfers src's
// resource (pin and latch hold) into g and empties src.
func (g *ReadGuard) MoveFrom(src *ReadGuard) {
	g.Drop()
	*g = *src
	*src = ReadGuard{}
}

// WriteGuard wraps a BasicGuard with the frame's content latch held for
// writing. Release order is fixed: unpin, then unlatch.
type WriteGuard struct {
	basic BasicGuard
}

func newWriteGuard(bpm *Manager, frame *Frame) WriteGuard {
	frame.WLatch()
	return WriteGuard{basic: newBasicGuard(bpm, frame)}
}

// PageID returns the id of the page this guard is pinning.
func (g *WriteGuard) PageID() page.ID { return g.basic.PageID() }

// Data returns the frame's byte buffer, safe to mutate while this guard
// is held.
func (g *WriteGuard) Data() *page.Data { return g.basic.Data() }

// SetDirty stages the dirty bit for the unpin Drop performs. Writers
// should generally call this before Drop if they mutated Data().
func (g *WriteGuard) SetDirty() { g.basic.SetDirty() }

// Drop releases the pin and then the write latch. Idempotent.
func (g *WriteGuard) Drop() {
	if !g.basic.valid() {
		return
	}
	frame := g.basic.frame
	g.basic.Drop()
	frame.WUnlatch()
}

// MoveFrom drops g's current resource (if any), then transfers src's
// resource (pin and latch hold) into g and empties src.
func (g *WriteGuard) MoveFrom(src *WriteGuard) {
	g.Drop()
	*g = *src
	*src = WriteGuard{}
}

// FetchPageBasic pins pageID and returns a Basic guard over it. ctx only
// bounds the disk read on a miss, same as the underlying FetchPage.
func (m *Manager) FetchPageBasic(ctx context.Context, pageID page.ID) (BasicGuard, bool) {
	frame, ok := m.FetchPage(ctx, pageID)
	if !ok {
		return BasicGuard{}, false
	}
	return newBasicGuard(m, frame), true
}

// FetchPageRead pins pageID and returns a Read guard over it. The
// content latch is acquired after pinning and after the Manager's own
// mutex has been released, per the fixed lock order. ctx only bounds the
// disk read on a miss, same as the underlying FetchPage.
func (m *Manager) FetchPageRead(ctx context.Context, pageID page.ID) (ReadGuard, bool) {
	frame, ok := m.FetchPage(ctx, pageID)
	if !ok {
		return ReadGuard{}, false
	}
	return newReadGuard(m, frame), true
}

// FetchPageWrite pins pageID and returns a Write guard over it. The
// content latch is acquired after pinning and after the Manager's own
// mutex has been released, per the fixed lock order. ctx only bounds the
// disk read on a miss, same as the underlying FetchPage.
func (m *Manager) FetchPageWrite(ctx context.Context, pageID page.ID) (WriteGuard, bool) {
	frame, ok := m.FetchPage(ctx, pageID)
	if !ok {
		return WriteGuard{}, false
	}
	return newWriteGuard(m, frame), true
}

// NewPageGuarded allocates a fresh page and returns a Basic guard over
// it, alongside its id.
func (m *Manager) NewPageGuarded() (BasicGuard, page.ID, bool) {
	frame, pageID, ok := m.NewPage()
	if !ok {
		return BasicGuard{}, page.InvalidID, false
	}
	return newBasicGuard(m, frame), pageID, true
}
