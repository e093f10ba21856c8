package bindrt

import (
	"math"
	"unsafe"
)

// Helpers shared by every generated file for moving values across the
// one-word slot boundary. Scalars travel by value, strings as pointers
// to NUL-terminated copies, objects as their handles.

// BoolArg packs a bool into a call word.
func BoolArg(v bool) uintptr {
	if v {
		return 1
	}
	return 0
}

// BoolRet unpacks a native bool result.
func BoolRet(r uintptr) bool { return r != 0 }

// Float32Arg packs a float32 bit pattern into a call word.
func Float32Arg(v float32) uintptr { return uintptr(math.Float32bits(v)) }

// Float32Ret unpacks a float32 result.
func Float32Ret(r uintptr) float32 { return math.Float32frombits(uint32(r)) }

// Float64Arg packs a float64 bit pattern into a call word. Requires a
// 64-bit uintptr, which every supported target has.
func Float64Arg(v float64) uintptr { return uintptr(math.Float64bits(v)) }

// Float64Ret unpacks a float64 result.
func Float64Ret(r uintptr) float64 { return math.Float64frombits(uint64(r)) }

// CString copies s into a NUL-terminated buffer for a native call. The
// caller passes the pointer as a call word and keeps the buffer alive
// across the call with runtime.KeepAlive.
func CString(s string) *byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &buf[0]
}

// GoString reads a NUL-terminated native string result.
func GoString(r uintptr) string {
	if r == 0 {
		return ""
	}
	p := (*byte)(unsafe.Pointer(r))
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
