package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchdb/finchdb/storage/page"
)

func TestManager_WriteThenReadRoundTrip(t *testing.T) {
	m, err := TestingNewManager(t)
	require.NoError(t, err)

	want := page.NewData()
	want[0] = 0xCA
	want[page.Size-1] = 0xFE

	require.NoError(t, m.WritePage(3, want))

	got := page.NewData()
	require.NoError(t, m.ReadPage(3, got))
	assert.Equal(t, want, got)
}

func TestManager_WriteGrowsFileForFreshPage(t *testing.T) {
	m, err := TestingNewManager(t)
	require.NoError(t, err)

	// page 5 has never been written; writing it must grow the backing
	// file rather than fail with a short write.
	buf := page.NewData()
	buf[0] = 0x01
	require.NoError(t, m.WritePage(5, buf))

	got := page.NewData()
	require.NoError(t, m.ReadPage(5, got))
	assert.Equal(t, buf, got)
}

func TestManager_ReadUnwrittenPageFails(t *testing.T) {
	m, err := TestingNewManager(t)
	require.NoError(t, err)

	buf := page.NewData()
	assert.Error(t, m.ReadPage(0, buf))
}

func TestManager_ShutdownClosesFile(t *testing.T) {
	m, err := TestingNewManager(t)
	require.NoError(t, err)
	assert.NoError(t, m.Shutdown())
}

func TestManager_FileBackedRoundTrip(t *testing.T) {
	m, err := TestingNewFileManager(t)
	require.NoError(t, err)
	defer m.Shutdown()

	want := page.NewData()
	want[10] = 0x99
	require.NoError(t, m.WritePage(0, want))

	got := page.NewData()
	require.NoError(t, m.ReadPage(0, got))
	assert.Equal(t, want, got)
}
