package bindrt

import "sync"

// ReleaseFunc performs the actual native release of one identity.
type ReleaseFunc func(Handle)

type disposal struct {
	typeName string
	handle   Handle
	release  ReleaseFunc
}

var disposals struct {
	sync.Mutex
	queue []disposal
}

// EnqueueDispose schedules a one-shot native release of an owned
// identity. Finalizers of shared-ownership wrappers call this instead of
// releasing inline; a null handle or nil release func is a no-op.
func EnqueueDispose(typeName string, h Handle, release ReleaseFunc) {
	if h == NullHandle || release == nil {
		return
	}
	disposals.Lock()
	disposals.queue = append(disposals.queue, disposal{typeName, h, release})
	disposals.Unlock()
}

// DrainDisposals releases everything queued so far and reports how many
// identities were freed. The host calls it from exactly one goroutine,
// typically once per frame or tick; funneling all deferred releases
// through that single consumer is what rules out a concurrent
// double-release of the same identity.
func DrainDisposals() int {
	disposals.Lock()
	pending := disposals.queue
	disposals.queue = nil
	disposals.Unlock()

	for _, d := range pending {
		d.release(d.handle)
	}
	return len(pending)
}

// PendingDisposals reports how many releases are queued.
func PendingDisposals() int {
	disposals.Lock()
	defer disposals.Unlock()
	return len(disposals.queue)
}
