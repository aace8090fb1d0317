package buffer

import (
	"testing"

	"github.com/ryogrid/pagecache/common"
	"github.com/stretchr/testify/assert"
)

func TestLRUKReplacerEmptyEvict(t *testing.T) {
	r := NewLRUKReplacer(7, 2)
	_, ok := r.Evict()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Size())
}

// TestLRUKReplacerFewerThanKGoToInfinity checks the tie-break: frames with
// fewer than k accesses all carry +inf k-distance, so among them the
// earliest-touched frame is evicted first.
func TestLRUKReplacerFewerThanKGoToInfinity(t *testing.T) {
	r := NewLRUKReplacer(7, 2)

	r.RecordAccess(1)
	r.RecordAccess(2)
	r.RecordAccess(3)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)
	r.SetEvictable(3, true)

	assert.Equal(t, 3, r.Size())

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, common.FrameID(1), victim)
	assert.Equal(t, 2, r.Size())
}

// TestLRUKReplacerPrefersLargerKDistance checks that a frame with fewer than
// k accesses (+inf k-distance) is evicted before one with a finite
// k-distance, and that a frame re-accessed after eviction starts a fresh,
// non-evictable record.
func TestLRUKReplacerPrefersLargerKDistance(t *testing.T) {
	r := NewLRUKReplacer(7, 2)

	// frame 1: accesses at t=0, t=1 -> k-distance 1
	r.RecordAccess(1)
	r.RecordAccess(1)
	// frame 2: access at t=2 only so far
	r.RecordAccess(2)

	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	// frame 2 has fewer than k accesses, so +inf beats frame 1's finite
	// distance regardless of recency.
	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, common.FrameID(2), victim)

	// Evict dropped frame 2's history, so this access creates a new record
	// that is not evictable; frame 1 is the only candidate left.
	r.RecordAccess(2)
	victim, ok = r.Evict()
	assert.True(t, ok)
	assert.Equal(t, common.FrameID(1), victim)
}

func TestLRUKReplacerNonEvictableSkipped(t *testing.T) {
	r := NewLRUKReplacer(7, 2)

	r.RecordAccess(1)
	r.SetEvictable(1, true)
	r.SetEvictable(1, false)

	_, ok := r.Evict()
	assert.False(t, ok)
}

func TestLRUKReplacerRemove(t *testing.T) {
	r := NewLRUKReplacer(7, 2)

	r.RecordAccess(1)
	r.SetEvictable(1, true)
	assert.Equal(t, 1, r.Size())

	r.Remove(1)
	assert.Equal(t, 0, r.Size())

	// removing an unknown frame is a silent no-op
	r.Remove(2)
}

func TestLRUKReplacerRemoveNonEvictablePanics(t *testing.T) {
	r := NewLRUKReplacer(7, 2)
	r.RecordAccess(1)

	assert.Panics(t, func() {
		r.Remove(1)
	})
}

func TestLRUKReplacerSetEvictableUnknownFramePanics(t *testing.T) {
	r := NewLRUKReplacer(7, 2)
	assert.Panics(t, func() {
		r.SetEvictable(5, true)
	})
}

func TestLRUKReplacerFrameIDEqualToReplacerSizeIsValid(t *testing.T) {
	r := NewLRUKReplacer(7, 2)
	assert.NotPanics(t, func() {
		r.RecordAccess(7)
	})
}

func TestLRUKReplacerFrameIDBeyondReplacerSizePanics(t *testing.T) {
	r := NewLRUKReplacer(7, 2)
	assert.Panics(t, func() {
		r.RecordAccess(8)
	})
}
