// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import (
	"github.com/sasha-s/go-deadlock"
)

// ReaderWriterLatch is the latch type shared by the buffer pool manager,
// the LRU-K replacer, and the extendible hash index (L_B, L_R, L_H in the
// lock-ordering discipline: L_B is acquired before L_H or L_R, and L_H,
// L_R are never held across each other).
type ReaderWriterLatch interface {
	WLock()
	WUnlock()
	RLock()
	RUnlock()
}

// readerWriterLatch is backed by deadlock.RWMutex instead of sync.RWMutex
// so that a lock-ordering violation of the discipline above panics with a
// cycle report instead of hanging.
type readerWriterLatch struct {
	mutex deadlock.RWMutex
}

func NewRWLatch() ReaderWriterLatch {
	return &readerWriterLatch{}
}

func (l *readerWriterLatch) WLock() {
	l.mutex.Lock()
}

func (l *readerWriterLatch) WUnlock() {
	l.mutex.Unlock()
}

func (l *readerWriterLatch) RLock() {
	l.mutex.RLock()
}

func (l *readerWriterLatch) RUnlock() {
	l.mutex.RUnlock()
}
