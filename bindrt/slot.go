package bindrt

import (
	"fmt"
	"sort"
	"sync"
)

// Convention tags how a slot crosses into native code.
type Convention int

const (
	// Default pays the full managed/native transition cost and may
	// reenter Go.
	Default Convention = iota
	// Fast skips the transition bookkeeping. Only for trivial,
	// non-reentrant natives; all inheritance casts use it.
	Fast
)

func (c Convention) String() string {
	if c == Fast {
		return "fast"
	}
	return "default"
}

// Fn is the shape of every installed native entry point: raw words in,
// one raw word out, exactly like a function pointer call.
type Fn func(args ...uintptr) uintptr

// Slot is one late-bound callable. It starts empty and is installed
// exactly once at load time; afterwards it is read-only and safe to call
// from any goroutine.
type Slot struct {
	typeName string
	key      string
	conv     Convention
	fn       Fn
}

// NewSlot returns an empty slot keyed by its owning type and mangled
// member name.
func NewSlot(typeName, key string, conv Convention) Slot {
	return Slot{typeName: typeName, key: key, conv: conv}
}

// Installed reports whether the loader has bound the slot.
func (s *Slot) Installed() bool { return s.fn != nil }

// Convention returns the transition tag the loader must honor.
func (s *Slot) Convention() Convention { return s.conv }

// Call forwards to the installed native entry. Calling an empty slot
// panics with a *MissingBindingError naming the missing binding; it
// never dereferences nil silently.
func (s *Slot) Call(args ...uintptr) uintptr {
	if s.fn == nil {
		panic(&MissingBindingError{Type: s.typeName, Member: s.key})
	}
	return s.fn(args...)
}

var registry = struct {
	sync.Mutex
	types map[string]map[string]*Slot
}{types: make(map[string]map[string]*Slot)}

// Export publishes a type's slot set so the loader can install entries
// by (type, key). Generated code calls this from init; exporting the
// same type twice panics, since that means two generated copies of one
// type are linked in.
func Export(typeName string, slots map[string]*Slot) {
	registry.Lock()
	defer registry.Unlock()
	if _, exists := registry.types[typeName]; exists {
		panic(fmt.Sprintf("bindrt: slot table for %s exported twice", typeName))
	}
	registry.types[typeName] = slots
}

// Install binds one native entry point. It fails on unknown types and
// keys and on double installation; slots are written once.
func Install(typeName, key string, fn Fn) error {
	if fn == nil {
		return fmt.Errorf("bindrt: nil entry for %s.%s", typeName, key)
	}
	registry.Lock()
	defer registry.Unlock()
	slots, ok := registry.types[typeName]
	if !ok {
		return fmt.Errorf("bindrt: no slot table exported for type %s", typeName)
	}
	slot, ok := slots[key]
	if !ok {
		return fmt.Errorf("bindrt: type %s exports no slot %s", typeName, key)
	}
	if slot.fn != nil {
		return fmt.Errorf("bindrt: slot %s.%s installed twice", typeName, key)
	}
	slot.fn = fn
	return nil
}

// MissingBindings lists every exported slot that is still empty, as
// "Type.Key", sorted. A loader can assert it is empty after startup.
func MissingBindings() []string {
	registry.Lock()
	defer registry.Unlock()
	var missing []string
	for typeName, slots := range registry.types {
		for key, slot := range slots {
			if slot.fn == nil {
				missing = append(missing, typeName+"."+key)
			}
		}
	}
	sort.Strings(missing)
	return missing
}

// resetRegistry drops all exported slot tables. Test use only.
func resetRegistry() {
	registry.Lock()
	defer registry.Unlock()
	registry.types = make(map[string]map[string]*Slot)
}
