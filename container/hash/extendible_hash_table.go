package hash

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/notEpsilon/go-pair"
	"github.com/ryogrid/pagecache/common"
)

// bucket is a single extendible-hash bucket: a bounded list of (K,V)
// entries all sharing the same low-depth bits of their hash, plus the
// local depth that says how many of those bits it discriminates on.
type bucket[K comparable, V any] struct {
	depth   int
	size    int
	entries []pair.Pair[K, V]
}

func newBucket[K comparable, V any](size, depth int) *bucket[K, V] {
	return &bucket[K, V]{depth: depth, size: size}
}

func (b *bucket[K, V]) isFull() bool {
	return len(b.entries) >= b.size
}

func (b *bucket[K, V]) find(key K) (V, bool) {
	for _, e := range b.entries {
		if e.First == key {
			return e.Second, true
		}
	}
	var zero V
	return zero, false
}

func (b *bucket[K, V]) remove(key K) bool {
	for i, e := range b.entries {
		if e.First == key {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// insert overwrites an existing key's value, appends if there is room, or
// reports false so the caller (ExtendibleHashTable.insertInternal) knows a
// split is needed.
func (b *bucket[K, V]) insert(key K, value V) bool {
	for i, e := range b.entries {
		if e.First == key {
			b.entries[i] = *pair.New(key, value)
			return true
		}
	}
	if b.isFull() {
		return false
	}
	b.entries = append(b.entries, *pair.New(key, value))
	return true
}

// ExtendibleHashTable is a bucket-chained extendible hash table over
// (K,V), used as the buffer pool manager's page_id -> frame_id page
// table. It is generic so it can also serve as a general-purpose dynamic
// hash structure for any other (K,V) mapping.
type ExtendibleHashTable[K comparable, V any] struct {
	latch       common.ReaderWriterLatch
	globalDepth int
	bucketSize  int
	numBuckets  int
	dir         []*bucket[K, V]
	hash        Hasher[K]
}

// New constructs an extendible hash table with one bucket of local depth 0
// referenced by a single directory slot.
func New[K comparable, V any](bucketSize int, hash Hasher[K]) *ExtendibleHashTable[K, V] {
	common.Assert(bucketSize > 0, "extendible hash table bucket size must be positive")
	root := newBucket[K, V](bucketSize, 0)
	return &ExtendibleHashTable[K, V]{
		latch:       common.NewRWLatch(),
		bucketSize:  bucketSize,
		numBuckets:  1,
		dir:         []*bucket[K, V]{root},
		hash:        hash,
	}
}

// indexOf returns the directory slot a key currently maps to: the low
// globalDepth bits of its hash.
func (h *ExtendibleHashTable[K, V]) indexOf(key K) int {
	mask := (1 << h.globalDepth) - 1
	return int(h.hash(key)) & mask
}

// Find looks up key and reports whether it was present.
func (h *ExtendibleHashTable[K, V]) Find(key K) (V, bool) {
	h.latch.RLock()
	defer h.latch.RUnlock()
	return h.dir[h.indexOf(key)].find(key)
}

// Remove deletes the first entry matching key. Buckets are never merged
// back together.
func (h *ExtendibleHashTable[K, V]) Remove(key K) bool {
	h.latch.WLock()
	defer h.latch.WUnlock()
	return h.dir[h.indexOf(key)].remove(key)
}

// Insert adds or overwrites (key, value), splitting the target bucket
// (and possibly doubling the directory) as many times as necessary to
// make room.
func (h *ExtendibleHashTable[K, V]) Insert(key K, value V) {
	h.latch.WLock()
	defer h.latch.WUnlock()
	h.insertInternal(key, value)
}

func (h *ExtendibleHashTable[K, V]) insertInternal(key K, value V) {
	originalIndex := h.indexOf(key)
	target := h.dir[originalIndex]
	if target.insert(key, value) {
		return
	}

	originalDepth := target.depth
	b0 := newBucket[K, V](h.bucketSize, originalDepth+1)
	b1 := newBucket[K, V](h.bucketSize, originalDepth+1)

	if originalDepth+1 > h.globalDepth {
		h.globalDepth++
		originalSize := len(h.dir)
		h.dir = append(h.dir, h.dir...)
		h.dir[originalIndex] = b0
		h.dir[originalIndex+originalSize] = b1
	} else {
		depthBit := 1 << originalDepth
		for i := originalIndex & (depthBit - 1); i < len(h.dir); i += depthBit {
			if i&depthBit == 0 {
				h.dir[i] = b0
			} else {
				h.dir[i] = b1
			}
		}
	}
	// The old bucket is discarded in favor of two fresh ones: net +1
	// distinct bucket instance. See DESIGN.md for why this counts splits
	// this way instead of never incrementing after construction.
	h.numBuckets++

	h.redistribute(target)
	h.insertInternal(key, value)
}

// redistribute re-inserts every entry of a just-split bucket through the
// full insert path, so each lands in whichever of the two new buckets (or
// deeper, on further splits) its hash now selects.
func (h *ExtendibleHashTable[K, V]) redistribute(b *bucket[K, V]) {
	for _, e := range b.entries {
		h.insertInternal(e.First, e.Second)
	}
}

// GlobalDepth returns the number of hash bits the directory discriminates
// on.
func (h *ExtendibleHashTable[K, V]) GlobalDepth() int {
	h.latch.RLock()
	defer h.latch.RUnlock()
	return h.globalDepth
}

// LocalDepth returns the local depth of the bucket referenced by dirIndex.
func (h *ExtendibleHashTable[K, V]) LocalDepth(dirIndex int) int {
	h.latch.RLock()
	defer h.latch.RUnlock()
	return h.dir[dirIndex].depth
}

// NumBuckets returns the number of distinct bucket instances the index has
// ever allocated and not yet discarded via a split.
func (h *ExtendibleHashTable[K, V]) NumBuckets() int {
	h.latch.RLock()
	defer h.latch.RUnlock()
	return h.numBuckets
}

// DistinctBucketIdentities recomputes the number of distinct bucket
// identities reachable from the directory from scratch, by deduplicating
// directory entries through a set of bucket pointers, instead of trusting
// the incrementally-maintained numBuckets counter. Intended for tests and
// introspection, not the hot path.
func (h *ExtendibleHashTable[K, V]) DistinctBucketIdentities() int {
	h.latch.RLock()
	defer h.latch.RUnlock()
	seen := mapset.NewSet[*bucket[K, V]]()
	for _, b := range h.dir {
		seen.Add(b)
	}
	return seen.Cardinality()
}
