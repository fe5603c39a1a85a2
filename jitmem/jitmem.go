// Package jitmem implements the §6 executable-memory-allocator boundary:
// map a page-rounded region, fill it with a padding byte, let the caller
// copy in machine code, then flip the region from writable to executable.
// This is an external collaborator the core consumes through a narrow
// interface — the core itself never touches the OS.
//
// Grounded on original_source/gcf_jit/src/os.rs's JITHandle: mmap
// PROT_WRITE|MAP_ANONYMOUS, write a fill byte then the real bytes, then
// mprotect to PROT_EXEC|PROT_READ, unmapping on any failure along the way.
// golang.org/x/sys/unix stands in for os.rs's libc calls, the same
// dependency SeleniaProject-Orizon and moby/moby both carry for raw
// syscall access the standard library doesn't expose.
package jitmem

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Region is a page-rounded block of JIT-compiled executable memory.
type Region struct {
	data []byte // mmap'd slice; len(data) is the rounded allocation size.
}

// Allocator maps and unmaps executable memory regions for compiled code.
type Allocator struct{}

// NewAllocator returns an Allocator. It holds no state: every Region is a
// standalone mmap, matching the original's one-JITHandle-per-allocation
// model rather than a pooling arena.
func NewAllocator() *Allocator { return &Allocator{} }

// Allocate maps a region at least size bytes long, rounded up to a
// power-of-two multiple of the system page size, and fills it with fill.
// The returned Region is writable but not yet executable — the caller
// copies code into Bytes() before calling MakeExecutable.
func (a *Allocator) Allocate(size int, fill byte) (*Region, error) {
	length := roundToPow2Pages(size)

	data, err := unix.Mmap(-1, 0, length, unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrap(err, "jitmem: mmap")
	}

	for i := range data {
		data[i] = fill
	}

	return &Region{data: data}, nil
}

// Bytes returns r's backing memory, writable until MakeExecutable is
// called.
func (r *Region) Bytes() []byte { return r.data }

// Pointer returns the address of the first byte of r's mapping.
func (r *Region) Pointer() uintptr {
	if len(r.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&r.data[0]))
}

// Len returns the rounded allocation size in bytes.
func (r *Region) Len() int { return len(r.data) }

// MakeExecutable flips r from writable to executable. After this call,
// writes to Bytes() are undefined; only Release may be called.
func (r *Region) MakeExecutable() error {
	if err := unix.Mprotect(r.data, unix.PROT_EXEC|unix.PROT_READ); err != nil {
		return errors.Wrap(err, "jitmem: mprotect")
	}
	return nil
}

// Release unmaps r. r must not be used again afterward.
func (r *Region) Release() error {
	if err := unix.Munmap(r.data); err != nil {
		return errors.Wrap(err, "jitmem: munmap")
	}
	r.data = nil
	return nil
}

func roundToPow2Pages(n int) int {
	pageSize := unix.Getpagesize()
	pages := (n + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	p := 1
	for p < pages {
		p <<= 1
	}
	return p * pageSize
}
