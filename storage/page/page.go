// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"github.com/ryogrid/pagecache/common"
	"github.com/ryogrid/pagecache/types"
)

// PageSize is the byte size of a page's data, mirrored here so callers
// that only import storage/page don't also need common.
const PageSize = common.PageSize

// Page is the in-memory representation of the page occupying one buffer
// pool frame: its page id, its pin count, dirty flag, and PageSize bytes of
// data.
type Page struct {
	id       types.PageID
	pinCount int
	isDirty  bool
	data     *[PageSize]byte
}

// IncPinCount increments the pin count.
func (p *Page) IncPinCount() {
	p.pinCount++
}

// DecPinCount decrements the pin count, floored at zero.
func (p *Page) DecPinCount() {
	if p.pinCount > 0 {
		p.pinCount--
	}
}

// PinCount returns the pin count.
func (p *Page) PinCount() int {
	return p.pinCount
}

// ID returns the page id currently occupying this frame.
func (p *Page) ID() types.PageID {
	return p.id
}

// Data returns the frame's fixed-size data buffer.
func (p *Page) Data() *[PageSize]byte {
	return p.data
}

// SetIsDirty sets the dirty flag.
func (p *Page) SetIsDirty(isDirty bool) {
	p.isDirty = isDirty
}

// IsDirty reports whether the frame's data has diverged from the disk image.
func (p *Page) IsDirty() bool {
	return p.isDirty
}

// Copy overwrites data starting at offset. Callers that mutate a page's
// contents are responsible for calling SetIsDirty (or unpinning with
// isDirty=true) to record the divergence.
func (p *Page) Copy(offset uint32, data []byte) {
	copy(p.data[offset:], data)
}

// ResetMemory zeroes the frame's data buffer. The buffer pool manager calls
// it when DeletePage returns the page's frame to the free list.
func (p *Page) ResetMemory() {
	*p.data = [PageSize]byte{}
}

// New wraps existing data as a page's frame contents.
func New(id types.PageID, isDirty bool, data *[PageSize]byte) *Page {
	return &Page{id: id, pinCount: 1, isDirty: isDirty, data: data}
}

// NewEmpty creates a zeroed page with pin count 1.
func NewEmpty(id types.PageID) *Page {
	return &Page{id: id, pinCount: 1, data: &[PageSize]byte{}}
}
