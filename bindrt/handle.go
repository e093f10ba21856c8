// Package bindrt is the runtime support package for gobind-generated
// wrappers: native identities, the raw-callable slot registry, the
// deferred disposal queue and value marshaling helpers.
package bindrt

import "fmt"

// Handle is the opaque native identity a wrapper represents.
type Handle uintptr

// NullHandle marks a released or never-assigned identity.
const NullHandle Handle = 0

// Valid reports whether the handle still names a native object.
func (h Handle) Valid() bool { return h != NullHandle }

func (h Handle) String() string { return fmt.Sprintf("0x%x", uintptr(h)) }

// MustHandle returns the raw identity for a native call and panics with
// an *InvalidReceiverError when the receiver was released or never set.
// The member name ends up in the error so the failing call site is
// identifiable without a debugger.
func MustHandle(h Handle, typeName, member string) uintptr {
	if h == NullHandle {
		panic(&InvalidReceiverError{Type: typeName, Member: member})
	}
	return uintptr(h)
}
