package disk

import (
	"testing"

	"github.com/spf13/afero"
)

// TestingNewManager initializes a disk manager backed by an in-memory
// filesystem, so unit tests never touch the real filesystem.
func TestingNewManager(t *testing.T) (*Manager, error) {
	return NewManager(afero.NewMemMapFs(), "test.pages")
}

// TestingNewFileManager initializes a disk manager backed by a real,
// temporary file under t.TempDir(), for tests that care about actual
// file growth/persistence behavior rather than pure in-memory speed.
func TestingNewFileManager(t *testing.T) (*Manager, error) {
	dir := t.TempDir()
	return NewManager(afero.NewOsFs(), dir+"/test.pages")
}
