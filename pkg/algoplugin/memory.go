// Package algoplugin is the guest-side SDK for MAC algorithm plugins: WASM
// modules compiled separately from lemacd and loaded at runtime to add or
// override tagging algorithms. It packs pointer and length into the single
// uint64 that WASM export functions can return, and provides the bump
// allocator guest code uses to hand the host a buffer to write into.
package algoplugin

import "unsafe"

// Buffer packs a pointer and length into a uint64 for crossing the WASM
// function-return boundary, which only carries a single value per the
// guest ABI lemacd plugins use.
type Buffer uint64

// ToBuffer copies data into guest memory and returns a Buffer referencing
// it. An empty slice packs to the zero Buffer.
func ToBuffer(data []byte) Buffer {
	if len(data) == 0 {
		return Buffer(0)
	}

	ptr := Alloc(uint32(len(data)))
	writeBytes(ptr, data)

	return Buffer(PackResult(ptr, uint32(len(data))))
}

// ToBytes reads the byte slice a Buffer points to out of guest memory.
func (b Buffer) ToBytes() []byte {
	if b == 0 {
		return nil
	}

	ptr, length := UnpackResult(uint64(b))
	if length == 0 {
		return nil
	}

	return ReadBytes(ptr, length)
}

// AddressSize returns the pointer and length a Buffer packs, for host code
// reading directly out of the module's exported memory.
func (b Buffer) AddressSize() (uint32, uint32) {
	if b == 0 {
		return 0, 0
	}

	return UnpackResult(uint64(b))
}

// ReadBytes reads length bytes from guest linear memory starting at ptr.
//
//nolint:gosec // guest-side WASM memory access requires unsafe pointer arithmetic.
func ReadBytes(ptr, length uint32) []byte {
	if ptr == 0 || length == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), uintptr(length))
}

// writeBytes copies data into guest linear memory starting at ptr.
//
//nolint:gosec // guest-side WASM memory access requires unsafe pointer arithmetic.
func writeBytes(ptr uint32, data []byte) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), uintptr(len(data)))
	copy(dst, data)
}

// PackResult combines a pointer and a length into a single uint64 result.
func PackResult(ptr, length uint32) uint64 {
	return uint64(ptr)<<32 | uint64(length)
}

// UnpackResult splits a combined uint64 value into pointer and length.
func UnpackResult(val uint64) (uint32, uint32) {
	return uint32(val >> 32), uint32(val)
}
