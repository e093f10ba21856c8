package bindrt

import (
	"sync"
	"sync/atomic"
)

// CallRecord is one diagnostic entry: which wrapper was invoked, on
// which type, with which attribute tags.
type CallRecord struct {
	Type   string
	Member string
	Tags   []string
}

// CallLog collects call records. Safe for concurrent wrapper calls.
type CallLog struct {
	mu      sync.Mutex
	records []CallRecord
}

// Records returns a copy of everything recorded so far.
func (l *CallLog) Records() []CallRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]CallRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len reports the number of recorded calls.
func (l *CallLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Reset drops all records.
func (l *CallLog) Reset() {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()
}

func (l *CallLog) add(r CallRecord) {
	l.mu.Lock()
	l.records = append(l.records, r)
	l.mu.Unlock()
}

var recorder atomic.Pointer[CallLog]

// SetRecorder installs the process-wide call log. Passing nil turns
// recording off, which is the default.
func SetRecorder(l *CallLog) { recorder.Store(l) }

// RecordCall notes one wrapper invocation. Generated wrappers call this
// before the real native call when instrumentation was enabled at
// generation time; it never affects control flow or results.
func RecordCall(typeName, member string, tags ...string) {
	l := recorder.Load()
	if l == nil {
		return
	}
	l.add(CallRecord{Type: typeName, Member: member, Tags: tags})
}
