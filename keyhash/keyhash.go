// Package keyhash derives the 64-bit cache keys the engine is addressed
// by, using FNV-1a. Keys are expected to be unique among live entries;
// FNV-1a over the natural representation of the key material is good
// enough for that in practice, and callers with stronger requirements can
// supply their own 64-bit hashes instead.
//
// Bytes is the base primitive; Sum64 is a convenience front-end for
// common comparable key types. Byte slices are not comparable, so they
// go through Bytes directly.
package keyhash

import "fmt"

const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// Bytes returns the 64-bit FNV-1a sum of b.
func Bytes(b []byte) uint64 {
	h := uint64(offset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= prime64
	}
	return h
}

// Sum64 hashes common comparable key types using 64-bit FNV-1a.
// Supported: string, [16|32|64]byte, all int/uint widths, uintptr,
// fmt.Stringer. Slice keys go through Bytes instead. Panicking on
// unsupported types is deliberate to avoid silently poor hashing.
func Sum64[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return Bytes([]byte(v))
	case [16]byte:
		return Bytes(v[:])
	case [32]byte:
		return Bytes(v[:])
	case [64]byte:
		return Bytes(v[:])

	// Integer-like keys: hash little-endian bytes of the value.
	case uint8:
		return word(uint64(v))
	case uint16:
		return word(uint64(v))
	case uint32:
		return word(uint64(v))
	case uint64:
		return word(v)
	case uint:
		return word(uint64(v))
	case uintptr:
		return word(uint64(v))
	case int8:
		return word(uint64(uint8(v)))
	case int16:
		return word(uint64(uint16(v)))
	case int32:
		return word(uint64(uint32(v)))
	case int64:
		return word(uint64(v))
	case int:
		return word(uint64(v))

	// Fallback for pseudo-keys via String() (avoid if you can).
	case fmt.Stringer:
		return Bytes([]byte(v.String()))
	default:
		panic(fmt.Sprintf("keyhash.Sum64: unsupported key type %T; convert key to string or hash it yourself", k))
	}
}

// word hashes the 8 little-endian bytes of u without allocating.
func word(u uint64) uint64 {
	h := uint64(offset64)
	for i := 0; i < 8; i++ {
		h ^= uint64(byte(u))
		h *= prime64
		u >>= 8
	}
	return h
}
