package buffer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/finchdb/finchdb/config"
	"github.com/finchdb/finchdb/storage/disk"
)

// TestingNewManager initializes a buffer pool of poolSize frames with
// replacer k, backed by an in-memory disk manager.
func TestingNewManager(t *testing.T, poolSize, k int) (*Manager, error) {
	dm, err := disk.TestingNewManager(t)
	if err != nil {
		return nil, errors.Wrap(err, "disk.TestingNewManager failed")
	}
	return NewManager(poolSize, k, dm, nil), nil
}

// TestingNewManagerFromConfig writes a buffer pool config file with the
// given pool size and replacer k to a temp directory and builds a
// Manager by loading it back through config.Load, the same construction
// path cmd/test harnesses use instead of hand-assembling those two
// numbers as literals.
func TestingNewManagerFromConfig(t *testing.T, poolSize, k int) (*Manager, error) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buffer_pool.yaml")
	contents := fmt.Sprintf(`
pool_size: %d
replacer_k: %d
page_size: %d
data_dir: %s
`, poolSize, k, PageSize, filepath.Join(dir, "data"))
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		return nil, errors.Wrap(err, "write test config failed")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "config.Load failed")
	}
	return OpenFromConfig(cfg, nil)
}
