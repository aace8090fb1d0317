// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/ryogrid/pagecache/common"
	"github.com/ryogrid/pagecache/types"
)

// DiskManagerImpl is a file-backed DiskManager. It carries no log file or
// log sequence number bookkeeping — recovery is out of scope, so only page
// read/write/allocate/deallocate is implemented.
type DiskManagerImpl struct {
	db          *os.File
	fileName    string
	nextPageID  types.PageID
	numWrites   uint64
	size        int64
	deallocated map[types.PageID]bool
}

// NewDiskManagerImpl returns a DiskManager instance backed by dbFilename.
func NewDiskManagerImpl(dbFilename string) DiskManager {
	file, err := os.OpenFile(dbFilename, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		log.Fatalln("can't open db file")
		return nil
	}

	fileInfo, err := file.Stat()
	if err != nil {
		log.Fatalln("file info error")
		return nil
	}

	fileSize := fileInfo.Size()
	nPages := fileSize / common.PageSize

	nextPageID := types.PageID(0)
	if nPages > 0 {
		nextPageID = types.PageID(int32(nPages + 1))
	}

	return &DiskManagerImpl{
		db:          file,
		fileName:    dbFilename,
		nextPageID:  nextPageID,
		size:        fileSize,
		deallocated: make(map[types.PageID]bool),
	}
}

// ShutDown closes the database file.
func (d *DiskManagerImpl) ShutDown() {
	d.db.Close()
}

// WritePage writes a page to the database file.
func (d *DiskManagerImpl) WritePage(pageID types.PageID, pageData []byte) error {
	if d.deallocated[pageID] {
		return types.ErrDeallocatedPage
	}

	offset := int64(pageID) * common.PageSize
	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	bytesWritten, err := d.db.Write(pageData)
	if err != nil {
		return err
	}

	if bytesWritten != common.PageSize {
		return errors.New("bytes written not equal to page size")
	}

	if offset+int64(bytesWritten) > d.size {
		d.size = offset + int64(bytesWritten)
	}
	d.numWrites++

	return d.db.Sync()
}

// ReadPage reads a page from the database file.
func (d *DiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	if d.deallocated[pageID] {
		return types.ErrDeallocatedPage
	}

	offset := int64(pageID) * common.PageSize

	fileInfo, err := d.db.Stat()
	if err != nil {
		return errors.New("file info error")
	}

	if offset > fileInfo.Size() {
		return errors.New("I/O error: read past end of file")
	}

	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	bytesRead, err := d.db.Read(pageData)
	if err != nil && err != io.EOF {
		return errors.New("I/O error while reading")
	}

	if bytesRead < common.PageSize {
		for i := bytesRead; i < common.PageSize; i++ {
			pageData[i] = 0
		}
	}
	return nil
}

// AllocatePage hands out the next monotonically increasing page id. In a
// real deployment the disk manager owns free-space tracking; here it just
// counts up and never reuses a deallocated id's slot.
func (d *DiskManagerImpl) AllocatePage() types.PageID {
	ret := d.nextPageID
	d.nextPageID++
	return ret
}

// DeallocatePage marks pageID as deallocated. It does not reclaim disk
// space or reuse the id; subsequent ReadPage/WritePage calls against
// pageID fail with types.ErrDeallocatedPage.
func (d *DiskManagerImpl) DeallocatePage(pageID types.PageID) {
	d.deallocated[pageID] = true
}

// GetNumWrites returns the number of successful WritePage calls.
func (d *DiskManagerImpl) GetNumWrites() uint64 {
	return d.numWrites
}

// Size returns the size of the database file on disk.
func (d *DiskManagerImpl) Size() int64 {
	return d.size
}

// RemoveDBFile deletes the backing file. Only call after ShutDown.
func (d *DiskManagerImpl) RemoveDBFile() {
	os.Remove(d.fileName)
}
