//go:build linux && chanx_sysfutex

package futex

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Operation codes from linux/futex.h. x/sys/unix exposes the syscall number
// but not these.
const (
	futexWait    = 0
	futexWake    = 1
	futexPrivate = 128
)

// Wait blocks the calling OS thread in futex(2) while *addr == val.
// EAGAIN (value changed) and EINTR are both treated as a spurious return.
func Wait(addr *atomic.Uint32, val uint32) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWait|futexPrivate),
		uintptr(val),
		0, 0, 0)
}

// Wake wakes up to n threads blocked on addr and reports how many it woke.
func Wake(addr *atomic.Uint32, n int) int {
	if n <= 0 {
		return 0
	}
	r, _, e := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWake|futexPrivate),
		uintptr(n),
		0, 0, 0)
	if e != 0 {
		return 0
	}
	return int(r)
}
