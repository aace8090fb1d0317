package disk

import (
	"errors"

	"github.com/dsnet/golib/memfile"
	"github.com/ryogrid/pagecache/common"
	"github.com/ryogrid/pagecache/types"
	"github.com/sasha-s/go-deadlock"
)

// VirtualDiskManagerImpl is an in-memory DiskManager backed by
// memfile.File instead of a real *os.File, for tests that want to drive
// the buffer pool manager without touching the filesystem. It carries no
// log file and no WAL-flushing bookkeeping — recovery is out of scope.
type VirtualDiskManagerImpl struct {
	db          *memfile.File
	nextPageID  types.PageID
	numWrites   uint64
	size        int64
	mutex       deadlock.Mutex
	deallocated map[types.PageID]bool
}

// NewVirtualDiskManagerImpl returns a DiskManager instance whose backing
// store is an in-memory buffer.
func NewVirtualDiskManagerImpl() DiskManager {
	return &VirtualDiskManagerImpl{
		db:          memfile.New(make([]byte, 0)),
		deallocated: make(map[types.PageID]bool),
	}
}

// ShutDown is a no-op; there is no file descriptor to release.
func (d *VirtualDiskManagerImpl) ShutDown() {}

// WritePage writes a page to the in-memory backing store.
func (d *VirtualDiskManagerImpl) WritePage(pageID types.PageID, pageData []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.deallocated[pageID] {
		return types.ErrDeallocatedPage
	}

	offset := int64(pageID) * common.PageSize
	if _, err := d.db.WriteAt(pageData, offset); err != nil {
		return err
	}

	if end := offset + int64(len(pageData)); end > d.size {
		d.size = end
	}
	d.numWrites++
	return nil
}

// ReadPage reads a page from the in-memory backing store.
func (d *VirtualDiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.deallocated[pageID] {
		return types.ErrDeallocatedPage
	}

	offset := int64(pageID) * common.PageSize
	if offset+int64(len(pageData)) > d.size {
		return errors.New("I/O error: read past end of file")
	}

	_, err := d.db.ReadAt(pageData, offset)
	return err
}

// AllocatePage hands out the next monotonically increasing page id.
func (d *VirtualDiskManagerImpl) AllocatePage() types.PageID {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	ret := d.nextPageID
	d.nextPageID++
	return ret
}

// DeallocatePage marks pageID as deallocated. It does not reclaim
// backing-store space or reuse the id; subsequent ReadPage/WritePage calls
// against pageID fail with types.ErrDeallocatedPage.
func (d *VirtualDiskManagerImpl) DeallocatePage(pageID types.PageID) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.deallocated[pageID] = true
}

// GetNumWrites returns the number of successful WritePage calls.
func (d *VirtualDiskManagerImpl) GetNumWrites() uint64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.numWrites
}

// Size returns the size of the backing store.
func (d *VirtualDiskManagerImpl) Size() int64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.size
}
