// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import "errors"

// PageID is the type of the page identifier: a 32-bit signed integer,
// monotonically assigned from 0 by whatever allocates pages.
type PageID int32

// InvalidPageID means "no page".
const InvalidPageID = PageID(-1)

// ErrDeallocatedPage is returned by a disk manager when a caller reads or
// writes a page that has already been deallocated.
var ErrDeallocatedPage = errors.New("page id is deallocated")

// IsValid reports whether id is a real, assigned page id.
func (id PageID) IsValid() bool {
	return id != InvalidPageID
}
