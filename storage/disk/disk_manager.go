package disk

import (
	"github.com/ryogrid/pagecache/types"
)

// DiskManager is the buffer pool manager's storage collaborator: the pool
// reads and writes whole pages through it and treats its errors as fatal
// to the calling operation. On-disk layout, write-ahead logging, and
// recovery semantics are out of scope; only enough of a real
// implementation exists here to drive the buffer pool manager end to end
// in tests.
type DiskManager interface {
	ReadPage(types.PageID, []byte) error
	WritePage(types.PageID, []byte) error
	AllocatePage() types.PageID
	DeallocatePage(types.PageID)
	GetNumWrites() uint64
	ShutDown()
	Size() int64
}
