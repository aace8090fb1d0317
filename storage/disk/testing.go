// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"os"
)

// DiskManagerTest is a DiskManager for testing purposes: a real file on a
// temporary path that is removed on ShutDown.
type DiskManagerTest struct {
	path string
	DiskManager
}

// NewDiskManagerTest returns a DiskManager instance backed by a temp file.
func NewDiskManagerTest() DiskManager {
	f, err := os.CreateTemp("", "pagecache-*.db")
	if err != nil {
		panic(err)
	}
	path := f.Name()
	f.Close()
	os.Remove(path)

	return &DiskManagerTest{path: path, DiskManager: NewDiskManagerImpl(path)}
}

// ShutDown closes and removes the backing file.
func (d *DiskManagerTest) ShutDown() {
	defer os.Remove(d.path)
	d.DiskManager.ShutDown()
}
