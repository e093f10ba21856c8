package bindrt

import "fmt"

// InvalidReceiverError reports a wrapper call on a null or already
// released native identity. Callers may recover from it; the wrapped
// object is simply gone.
type InvalidReceiverError struct {
	Type   string
	Member string
}

func (e *InvalidReceiverError) Error() string {
	return fmt.Sprintf("bindrt: %s.%s called on a null or released instance", e.Type, e.Member)
}

// MissingBindingError reports a call through a slot the loader never
// installed. This is a load-time configuration defect surfacing at call
// time; there is no safe fallback.
type MissingBindingError struct {
	Type   string
	Member string
}

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("bindrt: no native binding installed for %s.%s", e.Type, e.Member)
}
