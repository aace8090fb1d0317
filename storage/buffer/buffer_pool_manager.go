// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"errors"

	"github.com/golang-collections/collections/queue"
	"github.com/ryogrid/pagecache/common"
	"github.com/ryogrid/pagecache/container/hash"
	"github.com/ryogrid/pagecache/storage/disk"
	"github.com/ryogrid/pagecache/storage/page"
	"github.com/ryogrid/pagecache/types"
)

// pageTableBucketSize sizes the extendible hash index's bucket capacity
// for the page table; a handful of colliding page ids per bucket before a
// split is a reasonable default absent any caller-supplied hint.
const pageTableBucketSize = common.DefaultBucketSize

// ErrPageNotFound is returned by UnpinPage when pageID is not currently
// resident in the pool.
var ErrPageNotFound = errors.New("buffer pool manager: page not found")

// ErrPagePinned is returned by DeletePage when the page is still pinned by
// some caller.
var ErrPagePinned = errors.New("buffer pool manager: page is pinned")

// ErrPageNotPinned is returned by UnpinPage when the page's pin count is
// already zero.
var ErrPageNotPinned = errors.New("buffer pool manager: page is not pinned")

// BufferPoolManager mediates all disk access on behalf of higher layers,
// caching a fixed number of pages in memory and evicting via an LRU-K
// policy. A single latch is held across the full span of each exported
// method; the page table's hash index latch and the replacer's latch are
// only ever taken one at a time and never nested inside each other.
type BufferPoolManager struct {
	latch       common.ReaderWriterLatch
	diskManager disk.DiskManager
	pages       []*page.Page
	replacer    *LRUKReplacer
	freeList    *queue.Queue
	pageTable   *hash.ExtendibleHashTable[types.PageID, common.FrameID]
}

// hashPageID adapts hash.HashInt32 to the page-id key type the buffer
// pool's page table indexes on.
func hashPageID(id types.PageID) uint32 {
	return hash.HashInt32(int32(id))
}

// lruK is the K in LRU-K for the replacer this buffer pool manager drives.
const lruK = 2

// NewBufferPoolManager returns an empty buffer pool manager with poolSize
// frames, backed by diskManager.
func NewBufferPoolManager(poolSize uint32, diskManager disk.DiskManager) *BufferPoolManager {
	pages := make([]*page.Page, poolSize)
	freeList := queue.New()
	for i := uint32(0); i < poolSize; i++ {
		freeList.Enqueue(common.FrameID(i))
	}

	return &BufferPoolManager{
		latch:       common.NewRWLatch(),
		diskManager: diskManager,
		pages:       pages,
		replacer:    NewLRUKReplacer(int(poolSize), lruK),
		freeList:    freeList,
		pageTable:   hash.New[types.PageID, common.FrameID](pageTableBucketSize, hashPageID),
	}
}

// PoolSize returns the total number of frames the pool manages.
func (b *BufferPoolManager) PoolSize() int {
	b.latch.RLock()
	defer b.latch.RUnlock()
	return len(b.pages)
}

// FreeFrameCount returns the number of frames on the free list, not
// counting frames that are occupied but evictable. It is an introspection
// aid, not something the eviction algorithm itself depends on.
func (b *BufferPoolManager) FreeFrameCount() int {
	b.latch.RLock()
	defer b.latch.RUnlock()
	return b.freeList.Len()
}

// getFrameID returns a frame to (re)use: one from the free list if any is
// available, otherwise the LRU-K replacer's victim. If the victim frame
// currently holds a dirty page, that page is flushed to disk before its
// frame is handed back for reuse; if that write fails, the victim stays
// resident and evictable and no frame is returned.
func (b *BufferPoolManager) getFrameID() (common.FrameID, bool) {
	if b.freeList.Len() > 0 {
		return b.freeList.Dequeue().(common.FrameID), true
	}

	frameID, ok := b.replacer.Evict()
	if !ok {
		return 0, false
	}

	victim := b.pages[frameID]
	if victim != nil {
		if victim.IsDirty() {
			data := victim.Data()
			if err := b.diskManager.WritePage(victim.ID(), data[:]); err != nil {
				b.replacer.RecordAccess(frameID)
				b.replacer.SetEvictable(frameID, true)
				return 0, false
			}
		}
		b.pageTable.Remove(victim.ID())
	}
	return frameID, true
}

// FetchPage fetches pageID from the buffer pool, reading it from disk on a
// miss. A cache hit records an access in the replacer but does not re-pin
// the frame or mark it non-evictable — only the miss path does that; see
// DESIGN.md for the rationale.
func (b *BufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	if !pageID.IsValid() {
		return nil
	}

	b.latch.WLock()
	defer b.latch.WUnlock()

	if frameID, ok := b.pageTable.Find(pageID); ok {
		pg := b.pages[frameID]
		b.replacer.RecordAccess(frameID)
		return pg
	}

	frameID, ok := b.getFrameID()
	if !ok {
		common.Log.WithField("page_id", pageID).Warn("buffer pool exhausted, cannot fetch page")
		return nil
	}

	data := make([]byte, common.PageSize)
	if err := b.diskManager.ReadPage(pageID, data); err != nil {
		b.freeList.Enqueue(frameID)
		return nil
	}
	var pageData [common.PageSize]byte
	copy(pageData[:], data)

	pg := page.New(pageID, false, &pageData)
	b.pageTable.Insert(pageID, frameID)
	b.pages[frameID] = pg

	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)

	return pg
}

// UnpinPage unpins pageID, marking its frame evictable once its pin count
// reaches zero. It fails if the page isn't resident, or if it is already
// at pin count zero. The isDirty argument overwrites the page's dirty flag
// rather than ORing with the existing value: unpinning with isDirty=false
// after a prior dirtying unpin clears the flag.
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) error {
	b.latch.WLock()
	defer b.latch.WUnlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		common.Log.WithField("page_id", pageID).Warn("unpin of a page not resident in the buffer pool")
		return ErrPageNotFound
	}

	pg := b.pages[frameID]
	if pg.PinCount() == 0 {
		common.Log.WithField("page_id", pageID).Warn("unpin of a page already at pin count zero")
		return ErrPageNotPinned
	}

	pg.DecPinCount()
	pg.SetIsDirty(isDirty)

	if pg.PinCount() == 0 {
		b.replacer.SetEvictable(frameID, true)
	}
	return nil
}

// FlushPage writes pageID's current frame contents to disk unconditionally
// and clears its dirty flag. It also calls RecordAccess on the replacer,
// treating a flush as an access for eviction-ordering purposes.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	b.latch.WLock()
	defer b.latch.WUnlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return false
	}

	pg := b.pages[frameID]
	data := pg.Data()
	if err := b.diskManager.WritePage(pageID, data[:]); err != nil {
		return false
	}
	pg.SetIsDirty(false)
	b.replacer.RecordAccess(frameID)

	return true
}

// FlushAllPages flushes every resident page to disk.
func (b *BufferPoolManager) FlushAllPages() {
	b.latch.WLock()
	defer b.latch.WUnlock()

	for _, pg := range b.pages {
		if pg == nil {
			continue
		}
		frameID, ok := b.pageTable.Find(pg.ID())
		if !ok {
			continue
		}
		data := pg.Data()
		if err := b.diskManager.WritePage(pg.ID(), data[:]); err != nil {
			continue
		}
		pg.SetIsDirty(false)
		b.replacer.RecordAccess(frameID)
	}
}

// NewPage allocates a fresh page id via the disk manager and installs it
// in a free (or evicted) frame, returning nil if the pool is full and
// nothing can be evicted.
func (b *BufferPoolManager) NewPage() *page.Page {
	b.latch.WLock()
	defer b.latch.WUnlock()

	frameID, ok := b.getFrameID()
	if !ok {
		common.Log.Warn("buffer pool exhausted, cannot allocate new page")
		return nil
	}

	pageID := b.diskManager.AllocatePage()
	pg := page.NewEmpty(pageID)

	b.pageTable.Insert(pageID, frameID)
	b.pages[frameID] = pg

	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)

	return pg
}

// DeletePage removes pageID from the buffer pool and tells the disk manager
// to deallocate its page id. It fails if the page is still pinned.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) error {
	b.latch.WLock()
	defer b.latch.WUnlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return nil
	}

	pg := b.pages[frameID]
	if pg.PinCount() > 0 {
		return ErrPagePinned
	}

	b.pageTable.Remove(pageID)
	b.replacer.Remove(frameID)
	b.diskManager.DeallocatePage(pageID)
	b.pages[frameID] = nil
	pg.ResetMemory()

	b.freeList.Enqueue(frameID)

	return nil
}
