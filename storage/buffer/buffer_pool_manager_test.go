package buffer

import (
	"testing"

	"github.com/ryogrid/pagecache/storage/disk"
	"github.com/ryogrid/pagecache/storage/page"
	"github.com/ryogrid/pagecache/types"
	"github.com/stretchr/testify/assert"
)

func TestBufferPoolManagerNewPageAssignsSequentialIDs(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(3, dm)

	for i := int32(0); i < 3; i++ {
		p := bpm.NewPage()
		assert.NotNil(t, p)
		assert.Equal(t, types.PageID(i), p.ID())
	}
}

// TestBufferPoolManagerPoolSizeOneEvictsOnSecondPage mirrors a pool of
// size 1: pinning a second page while the first is still pinned must fail,
// but once the first is unpinned the pool can evict it to make room.
func TestBufferPoolManagerPoolSizeOneEvictsOnSecondPage(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(1, dm)

	p0 := bpm.NewPage()
	assert.NotNil(t, p0)
	assert.Nil(t, bpm.NewPage(), "pool is full and page 0 is still pinned")

	assert.NoError(t, bpm.UnpinPage(p0.ID(), false))

	p1 := bpm.NewPage()
	assert.NotNil(t, p1)
	assert.Equal(t, types.PageID(1), p1.ID())
}

// TestBufferPoolManagerDirtyEvictionFlushesExactlyOnce grounds the
// requirement that a dirty page's contents reach disk when its frame is
// reused, and that reuse only writes once.
func TestBufferPoolManagerDirtyEvictionFlushesExactlyOnce(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(1, dm)

	p0 := bpm.NewPage()
	p0.Copy(0, []byte("dirty"))
	assert.NoError(t, bpm.UnpinPage(p0.ID(), true))

	writesBefore := dm.GetNumWrites()
	p1 := bpm.NewPage()
	assert.NotNil(t, p1)
	assert.Equal(t, writesBefore+1, dm.GetNumWrites())

	// the only frame is pinned by p1; unpin it so page 0 can be read back
	assert.NoError(t, bpm.UnpinPage(p1.ID(), false))
	fetched := bpm.FetchPage(types.PageID(0))
	assert.NotNil(t, fetched)
	var want [page.PageSize]byte
	copy(want[:], "dirty")
	assert.Equal(t, want, *fetched.Data())
}

// TestBufferPoolManagerDeletePinnedPageFails checks that DeletePage
// refuses to touch a page with a nonzero pin count.
func TestBufferPoolManagerDeletePinnedPageFails(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm)

	p0 := bpm.NewPage()
	assert.ErrorIs(t, bpm.DeletePage(p0.ID()), ErrPagePinned)

	assert.NoError(t, bpm.UnpinPage(p0.ID(), false))
	assert.NoError(t, bpm.DeletePage(p0.ID()))
}

func TestBufferPoolManagerDeleteUnknownPageIsNoop(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm)

	assert.NoError(t, bpm.DeletePage(types.PageID(99)))
}

func TestBufferPoolManagerUnpinUnknownPageErrors(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm)

	assert.ErrorIs(t, bpm.UnpinPage(types.PageID(99), false), ErrPageNotFound)
}

func TestBufferPoolManagerUnpinBelowZeroErrors(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm)

	p0 := bpm.NewPage()
	assert.NoError(t, bpm.UnpinPage(p0.ID(), false))
	assert.ErrorIs(t, bpm.UnpinPage(p0.ID(), false), ErrPageNotPinned)
}

func TestBufferPoolManagerFreeFrameCountTracksReuse(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm)

	assert.Equal(t, 4, bpm.FreeFrameCount())
	assert.Equal(t, 4, bpm.PoolSize())

	p0 := bpm.NewPage()
	assert.Equal(t, 3, bpm.FreeFrameCount())

	assert.NoError(t, bpm.UnpinPage(p0.ID(), false))
	assert.NoError(t, bpm.DeletePage(p0.ID()))
	assert.Equal(t, 4, bpm.FreeFrameCount())
}

func TestBufferPoolManagerReadsBackWrittenData(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(10, dm)

	p0 := bpm.NewPage()
	p0.Copy(0, []byte("Hello"))
	var want [page.PageSize]byte
	copy(want[:], "Hello")
	assert.Equal(t, want, *p0.Data())

	for i := uint32(1); i < 10; i++ {
		p := bpm.NewPage()
		assert.Equal(t, types.PageID(i), p.ID())
	}

	// pool is full and everything remains pinned
	assert.Nil(t, bpm.NewPage())

	assert.NoError(t, bpm.UnpinPage(p0.ID(), true))
	assert.True(t, bpm.FlushPage(p0.ID()))

	fetched := bpm.FetchPage(types.PageID(0))
	assert.NotNil(t, fetched)
	assert.Equal(t, want, *fetched.Data())
}
