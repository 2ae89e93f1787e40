package driver

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/pkg"
)

// Entry is a registered attach/detach pair.
type Entry struct {
	Name   string
	Attach func(hal.Descriptor) error
	Detach func(hal.Descriptor) error
}

// Registry maps compatible strings to drivers and remembers which entry
// bound each device.
//
// Attach and Detach callbacks run without the registry lock held; a
// callback may block indefinitely (the serial driver's sentinel write
// does) without stalling other registry users.
type Registry struct {
	mutex   sync.RWMutex
	entries map[string]Entry
	bound   map[string]*binding // device name -> binding
}

// binding is the entry that bound (or is binding) one device. The entry is
// kept by value so the device can still be removed after its key has been
// unregistered.
type binding struct {
	key   string
	entry Entry
	ready bool // false while Attach is running
}

// DefaultRegistry is the process-wide registry used by the softuart
// command.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		bound:   make(map[string]*binding),
	}
}

// Register adds e under key. A key can be registered only once.
func (r *Registry) Register(key string, e Entry) error {
	if key == "" || e.Attach == nil || e.Detach == nil {
		return fmt.Errorf("register %q: %w", key, pkg.ErrInvalidParameter)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.entries[key]; ok {
		return fmt.Errorf("register %q: %w", key, pkg.ErrAlreadyRegistered)
	}
	r.entries[key] = e
	pkg.LogDebug(pkg.ComponentRegistry, "driver registered", "key", key, "driver", e.Name)
	return nil
}

// Unregister removes key. Devices already bound through it stay bound,
// and Remove still detaches them through the entry they were bound with.
func (r *Registry) Unregister(key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.entries[key]; !ok {
		return fmt.Errorf("unregister %q: %w", key, pkg.ErrNotRegistered)
	}
	delete(r.entries, key)
	pkg.LogDebug(pkg.ComponentRegistry, "driver unregistered", "key", key)
	return nil
}

// Lookup returns the entry registered under key.
func (r *Registry) Lookup(key string) (Entry, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	e, ok := r.entries[key]
	return e, ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Probe binds desc to the first registered entry matching one of its
// compatible strings, in the descriptor's order, and runs its Attach.
// The device name is reserved before Attach runs, so a concurrent Probe of
// the same device fails with pkg.ErrAlreadyAttached instead of attaching
// twice.
func (r *Registry) Probe(desc hal.Descriptor) error {
	name := desc.Name()

	r.mutex.Lock()
	if _, ok := r.bound[name]; ok {
		r.mutex.Unlock()
		return fmt.Errorf("probe %s: %w", name, pkg.ErrAlreadyAttached)
	}
	var b *binding
	for _, c := range desc.Compatible() {
		if e, ok := r.entries[c]; ok {
			b = &binding{key: c, entry: e}
			break
		}
	}
	if b == nil {
		r.mutex.Unlock()
		return fmt.Errorf("probe %s %v: %w", name, desc.Compatible(), pkg.ErrNoMatch)
	}
	r.bound[name] = b
	r.mutex.Unlock()

	pkg.LogDebug(pkg.ComponentRegistry, "probing", "device", name, "key", b.key, "driver", b.entry.Name)
	if err := b.entry.Attach(desc); err != nil {
		r.mutex.Lock()
		delete(r.bound, name)
		r.mutex.Unlock()
		return err
	}

	r.mutex.Lock()
	b.ready = true
	r.mutex.Unlock()
	return nil
}

// Remove runs the Detach of the entry that bound desc, whether or not that
// entry is still registered. A device whose Probe is still running is not
// bound yet and cannot be removed.
func (r *Registry) Remove(desc hal.Descriptor) error {
	name := desc.Name()

	r.mutex.Lock()
	b, ok := r.bound[name]
	if !ok || !b.ready {
		r.mutex.Unlock()
		return fmt.Errorf("remove %s: %w", name, pkg.ErrNotAttached)
	}
	delete(r.bound, name)
	r.mutex.Unlock()

	pkg.LogDebug(pkg.ComponentRegistry, "removing", "device", name, "key", b.key, "driver", b.entry.Name)
	return b.entry.Detach(desc)
}

// Bound reports whether desc is currently bound.
func (r *Registry) Bound(desc hal.Descriptor) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	b, ok := r.bound[desc.Name()]
	return ok && b.ready
}

// Register adds drv to r under each of its compatible strings. If any key
// is already taken, keys added by this call are removed again.
func Register(r *Registry, drv *Driver) error {
	e := Entry{Name: drv.Name(), Attach: drv.Attach, Detach: drv.Detach}
	var added []string
	for _, key := range drv.Compatible() {
		if err := r.Register(key, e); err != nil {
			for _, k := range added {
				_ = r.Unregister(k)
			}
			return err
		}
		added = append(added, key)
	}
	return nil
}

// Unregister removes every compatible string of drv from r.
func Unregister(r *Registry, drv *Driver) error {
	var first error
	for _, key := range drv.Compatible() {
		if err := r.Unregister(key); err != nil && first == nil {
			first = err
		}
	}
	return first
}
