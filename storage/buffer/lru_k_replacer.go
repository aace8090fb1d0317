package buffer

import (
	"github.com/ryogrid/pagecache/common"
)

// frameInfo tracks the most recent k access timestamps for one frame:
// k-distance is timestamps[k-1]-timestamps[0] once k accesses have been
// recorded, or +inf while fewer than k have.
type frameInfo struct {
	k         int
	evictable bool
	history   []uint64
}

func newFrameInfo(k int) *frameInfo {
	return &frameInfo{k: k}
}

func (f *frameInfo) recordAccess(timestamp uint64) {
	f.history = append(f.history, timestamp)
	if len(f.history) > f.k {
		f.history = f.history[1:]
	}
}

// kDistance and earliestAccess together give Evict what it needs to rank a
// frame: kDistance for the primary sort, earliestAccess as the
// classical-LRU tiebreak.
func (f *frameInfo) kDistance() uint64 {
	if len(f.history) < f.k {
		return common.TimestampMax
	}
	return f.history[f.k-1] - f.history[0]
}

func (f *frameInfo) earliestAccess() uint64 {
	return f.history[0]
}

// LRUKReplacer implements the LRU-K eviction policy: the evictable frame
// with the largest k-distance (as computed by frameInfo.kDistance) is the
// victim, ties broken by earliest overall access timestamp.
type LRUKReplacer struct {
	latch            common.ReaderWriterLatch
	currentTimestamp uint64
	currSize         int
	replacerSize     int
	k                int
	frames           map[common.FrameID]*frameInfo
}

// NewLRUKReplacer constructs a replacer that will track at most numFrames
// distinct frame ids, evicting based on the k most recent accesses of each.
func NewLRUKReplacer(numFrames, k int) *LRUKReplacer {
	common.Assert(k > 0, "lru-k replacer k must be positive")
	return &LRUKReplacer{
		latch:        common.NewRWLatch(),
		replacerSize: numFrames,
		k:            k,
		frames:       make(map[common.FrameID]*frameInfo),
	}
}

func (r *LRUKReplacer) checkFrameID(frameID common.FrameID) {
	common.Assert(int(frameID) <= r.replacerSize, "frame id %d exceeds replacer size %d", frameID, r.replacerSize)
}

// RecordAccess notes that frameID was accessed at the current logical
// timestamp, creating its history if this is the first time it's been
// seen. A frame id exactly equal to replacerSize is accepted, not
// rejected; only ids strictly greater than replacerSize are invalid.
func (r *LRUKReplacer) RecordAccess(frameID common.FrameID) {
	r.latch.WLock()
	defer r.latch.WUnlock()

	r.checkFrameID(frameID)

	f, ok := r.frames[frameID]
	if !ok {
		f = newFrameInfo(r.k)
		r.frames[frameID] = f
	}
	f.recordAccess(r.currentTimestamp)
	r.currentTimestamp++
}

// SetEvictable toggles whether a frame is a candidate for Evict, adjusting
// Size() accordingly. frameID must already have an access recorded via
// RecordAccess; calling SetEvictable on a frame the replacer has never
// seen aborts the process.
func (r *LRUKReplacer) SetEvictable(frameID common.FrameID, evictable bool) {
	r.latch.WLock()
	defer r.latch.WUnlock()

	r.checkFrameID(frameID)

	f, ok := r.frames[frameID]
	common.Assert(ok, "SetEvictable on unknown frame %d", frameID)
	if f.evictable != evictable {
		if evictable {
			r.currSize++
		} else {
			r.currSize--
		}
	}
	f.evictable = evictable
}

// Remove drops frameID's access history outright, independent of what its
// k-distance is. frameID must currently be evictable; removing a
// non-evictable frame aborts the process, and removing an unknown frame is
// a silent no-op.
func (r *LRUKReplacer) Remove(frameID common.FrameID) {
	r.latch.WLock()
	defer r.latch.WUnlock()

	r.checkFrameID(frameID)

	f, ok := r.frames[frameID]
	if !ok {
		return
	}
	common.Assert(f.evictable, "cannot remove non-evictable frame %d from replacer", frameID)

	delete(r.frames, frameID)
	r.currSize--
}

// Evict finds the evictable frame with the largest k-distance and
// evicts it, breaking ties by earliest overall access timestamp. This is a
// plain O(n) scan over all tracked frames rather than a heap kept in sync
// with in-place k-distance changes.
func (r *LRUKReplacer) Evict() (common.FrameID, bool) {
	r.latch.WLock()
	defer r.latch.WUnlock()

	var (
		victim      common.FrameID
		victimFound bool
		victimDist  uint64
		victimEarly uint64
	)

	for id, f := range r.frames {
		if !f.evictable {
			continue
		}
		dist := f.kDistance()
		early := f.earliestAccess()

		if !victimFound {
			victim, victimDist, victimEarly, victimFound = id, dist, early, true
			continue
		}
		if dist > victimDist || (dist == victimDist && early < victimEarly) {
			victim, victimDist, victimEarly = id, dist, early
		}
	}

	if !victimFound {
		return 0, false
	}

	delete(r.frames, victim)
	r.currSize--
	return victim, true
}

// Size returns the number of currently evictable frames.
func (r *LRUKReplacer) Size() int {
	r.latch.RLock()
	defer r.latch.RUnlock()
	return r.currSize
}
