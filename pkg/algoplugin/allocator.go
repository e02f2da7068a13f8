package algoplugin

var nextPtr uint32 = 8

// ResetAllocator resets the bump allocator to its initial offset. Guests
// that process one request per instantiation never need this; it exists
// for guests the host reuses across many calls.
func ResetAllocator() {
	nextPtr = 8
}

// Alloc reserves n bytes with 8-byte alignment and returns the starting
// pointer. There is no free list: memory is reclaimed only by
// ResetAllocator or by instantiating the module afresh.
func Alloc(n uint32) uint32 {
	ptr := nextPtr
	padding := (8 - n%8) % 8
	nextPtr += n + padding

	return ptr
}

// Free is a no-op placeholder kept for symmetry with Alloc; the bump
// allocator never reclaims memory mid-instance.
func Free(ptr uint32) {
	_ = ptr
}
