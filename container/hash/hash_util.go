package hash

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// Hasher maps a key of type K to a 32-bit hash used to select a directory
// slot. ExtendibleHashTable only ever calls a Hasher and Go's built-in ==
// on K, never anything type-specific, so any key type can be indexed by
// supplying the right Hasher.
type Hasher[K any] func(key K) uint32

// GenHashMurMur hashes arbitrary key material with murmur3, reading the
// first four bytes of the 128-bit digest as a little-endian uint32.
func GenHashMurMur(key []byte) uint32 {
	h := murmur3.New128()
	h.Write(key)
	return binary.LittleEndian.Uint32(h.Sum(nil))
}

// HashInt32 hashes a 32-bit signed integer key, the shape of both
// types.PageID and common.FrameID.
func HashInt32(key int32) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(key))
	return GenHashMurMur(buf[:])
}

// HashInt hashes a platform int key by truncating to 32 bits.
func HashInt(key int) uint32 {
	return HashInt32(int32(key))
}

// HashString hashes a string key.
func HashString(key string) uint32 {
	return GenHashMurMur([]byte(key))
}
