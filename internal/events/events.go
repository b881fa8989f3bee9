package events

import (
	"errors"
	"sync"
	"time"
)

// Event is a named broadcast, such as the launcher's "show" event.
type Event struct {
	Name string
	At   time.Time
}

// Emitter broadcasts named events to whoever is listening.
type Emitter interface {
	Emit(name string) error
}

// Bus fans events out to in-process subscribers. Slow subscribers drop
// events rather than block the emitter.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

var _ Emitter = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener with the given channel buffer. The returned
// cancel func unsubscribes and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Emit delivers name to every subscriber.
func (b *Bus) Emit(name string) error {
	ev := Event{Name: name, At: time.Now()}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Close unsubscribes everyone.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Multi emits to every emitter and joins their errors.
type Multi []Emitter

// Emit calls Emit on every non-nil emitter, even after a failure.
func (m Multi) Emit(name string) error {
	var errs []error
	for _, e := range m {
		if e == nil {
			continue
		}
		if err := e.Emit(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
