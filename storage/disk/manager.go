/*
Package disk implements the page-granularity block store the buffer pool is
built on top of: read_page/write_page/shutdown over a single flat file.

The buffer pool's specification treats the disk manager as an external
collaborator reached only through this contract, but a concrete
implementation has to live somewhere for the buffer pool to be exercised
and tested, so it lives here. Unlike a table-heap disk manager, this one
does not know about relations, forks, or segments: a page id is nothing
more than an index into one file, offset = id * page.Size.

Two backing stores are supported through the same afero.Fs interface:
an OS-backed file for production, and an in-memory file for tests, so
unit tests never touch the real filesystem. See testing_manager.go.
*/
package disk

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/finchdb/finchdb/storage/page"
)

// Manager is the blocking, page-granularity block store the buffer pool
// manager reads pages from and writes pages to.
type Manager struct {
	fs   afero.Fs
	path string

	// mu serializes all access to fd: afero.File shares one cursor, and
	// ReadPage/WritePage both seek-then-transfer, so two goroutines racing
	// on the same handle could interleave a seek from one with the
	// read/write of the other.
	mu sync.Mutex
	fd afero.File
}

// NewManager opens (creating if necessary) the page file at path on fs.
func NewManager(fs afero.Fs, path string) (*Manager, error) {
	fd, err := fs.OpenFile(path, fileFlags, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "open page file failed")
	}
	return &Manager{fs: fs, path: path, fd: fd}, nil
}

const fileFlags = os.O_RDWR | os.O_CREATE

// ReadPage blocks until it has filled buf with page.Size bytes read from the
// page identified by id. Reading a page that was never written (never
// extended past by a prior WritePage) is a caller bug and surfaces as a
// short-read error.
func (m *Manager) ReadPage(id page.ID, buf *page.Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	off := fileOffset(id)
	if _, err := m.fd.Seek(off, io.SeekStart); err != nil {
		return errors.Wrap(err, "seek failed")
	}
	if _, err := io.ReadFull(m.fd, buf[:]); err != nil {
		return errors.Wrapf(err, "read page %d failed", id)
	}
	return nil
}

// WritePage durably writes page.Size bytes from buf to the page identified
// by id, growing the backing file first if this is the first write past the
// current end of file (the normal case for a freshly allocated page).
func (m *Manager) WritePage(id page.ID, buf *page.Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	off := fileOffset(id)
	if err := m.growTo(off + page.Size); err != nil {
		return errors.Wrap(err, "grow page file failed")
	}
	if _, err := m.fd.Seek(off, io.SeekStart); err != nil {
		return errors.Wrap(err, "seek failed")
	}
	if _, err := m.fd.Write(buf[:]); err != nil {
		return errors.Wrapf(err, "write page %d failed", id)
	}
	if err := m.fd.Sync(); err != nil {
		return errors.Wrap(err, "sync failed")
	}
	return nil
}

// Shutdown closes the backing file. The manager must not be used afterward.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Wrap(m.fd.Close(), "close page file failed")
}

// growTo extends the backing file to at least size bytes, leaving any newly
// added bytes zero-filled, matching the invariant that an unwritten page
// reads back as zeros.
func (m *Manager) growTo(size int64) error {
	info, err := m.fd.Stat()
	if err != nil {
		return errors.Wrap(err, "stat failed")
	}
	if info.Size() >= size {
		return nil
	}
	return m.fd.Truncate(size)
}

func fileOffset(id page.ID) int64 {
	return int64(id) * page.Size
}
