// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

const (
	// InvalidPageID represents "no page" for a page_id.
	InvalidPageID = -1
	// PageSize is the byte size of a page.
	PageSize = 4096
	// DefaultBucketSize is the extendible hash index bucket capacity
	// used when a caller does not size the index explicitly.
	DefaultBucketSize = 50
	// TimestampMax represents +infinity for a k-distance comparison.
	TimestampMax = ^uint64(0)
)

// FrameID identifies a slot in the buffer pool's frame array.
type FrameID int32

// SlotOffset is an offset within a frame's data.
type SlotOffset uintptr
