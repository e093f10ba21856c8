package bindrt

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestBoolRoundTrip(t *testing.T) {
	assert.True(t, BoolRet(BoolArg(true)))
	assert.False(t, BoolRet(BoolArg(false)))
	assert.True(t, BoolRet(5))
}

func TestFloatRoundTrip(t *testing.T) {
	assert.Equal(t, float32(1.5), Float32Ret(Float32Arg(1.5)))
	assert.Equal(t, float32(-0.25), Float32Ret(Float32Arg(-0.25)))
	assert.Equal(t, 3.14159, Float64Ret(Float64Arg(3.14159)))
}

func TestCStringAndGoString(t *testing.T) {
	p := CString("widget")
	assert.Equal(t, "widget", GoString(uintptr(unsafe.Pointer(p))))
	runtime.KeepAlive(p)

	assert.Equal(t, "", GoString(0))

	empty := CString("")
	assert.Equal(t, "", GoString(uintptr(unsafe.Pointer(empty))))
	runtime.KeepAlive(empty)
}
