// Package intent implements the anonymous broadcast channel that carries
// payload-less user intents (save, refresh, download, format) between the
// editor and whatever host logic executes them.
//
// Delivery is synchronous on the publisher's goroutine, best-effort and
// unordered with respect to unrelated listeners. An intent with no listener
// is dropped.
package intent

import "sync"

// Name identifies an intent.
type Name string

const (
	Save     Name = "save"
	Refresh  Name = "refresh"
	Download Name = "download"
	Format   Name = "format"
)

// Names lists the intents known to the editor, in shortcut order.
func Names() []Name {
	return []Name{Save, Refresh, Download, Format}
}

// Valid reports whether n is one of the known intents.
func Valid(n Name) bool {
	switch n {
	case Save, Refresh, Download, Format:
		return true
	default:
		return false
	}
}

type listener struct {
	id uint64
	fn func()
}

// Bus is a publish/subscribe registry keyed by intent name.
// The zero value is ready to use.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[Name][]listener
}

// New returns an empty bus.
func New() *Bus { return &Bus{} }

var defaultBus = New()

// Default returns the process-wide bus.
func Default() *Bus { return defaultBus }

// Subscribe registers fn for name and returns a function that removes it.
// The returned function is safe to call more than once.
func (b *Bus) Subscribe(name Name, fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	if b.listeners == nil {
		b.listeners = make(map[Name][]listener)
	}
	b.nextID++
	id := b.nextID
	b.listeners[name] = append(b.listeners[name], listener{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(name, id) })
	}
}

func (b *Bus) remove(name Name, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ls := b.listeners[name]
	for i, l := range ls {
		if l.id == id {
			b.listeners[name] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(b.listeners[name]) == 0 {
		delete(b.listeners, name)
	}
}

// Publish invokes every listener currently registered for name and returns
// how many were called. Listeners run after the registry lock is released, so
// they may subscribe, unsubscribe or publish.
func (b *Bus) Publish(name Name) int {
	b.mu.Lock()
	ls := append([]listener(nil), b.listeners[name]...)
	b.mu.Unlock()

	for _, l := range ls {
		l.fn()
	}
	return len(ls)
}

// Listeners returns the number of listeners registered for name.
func (b *Bus) Listeners(name Name) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[name])
}
