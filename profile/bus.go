// Package profile holds the visitor's persisted state: the active theme,
// visited planets and unlocked achievements, plus the event bus that ties
// them together.
package profile

import (
	"sync"

	"go.uber.org/zap"
)

// Event is anything published on a Bus.
type Event interface {
	EventName() string
}

// ThemeChanged is published after a theme is applied.
type ThemeChanged struct {
	Theme string
}

// EventName implements Event.
func (ThemeChanged) EventName() string { return "themechange" }

// AchievementUnlocked is published the first time an achievement unlocks.
type AchievementUnlocked struct {
	Achievement Achievement
}

// EventName implements Event.
func (AchievementUnlocked) EventName() string { return "achievement" }

// PlanetVisited is published the first time a planet is visited.
type PlanetVisited struct {
	Planet string
}

// EventName implements Event.
func (PlanetVisited) EventName() string { return "planetvisit" }

type subscriber struct {
	id int
	fn func(Event)
}

// Bus dispatches events synchronously, in subscription order, on the
// publishing goroutine. A panicking subscriber is logged and skipped.
type Bus struct {
	mu     sync.Mutex
	subs   []subscriber
	nextID int
	logger *zap.Logger
}

// NewBus creates an empty bus. A nil logger discards output.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{logger: logger}
}

// Subscription is returned by Subscribe.
type Subscription struct {
	bus  *Bus
	id   int
	once sync.Once
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.once.Do(func() {
		s.bus.remove(s.id)
	})
}

// Subscribe registers fn for every event.
func (b *Bus) Subscribe(fn func(Event)) *Subscription {
	if fn == nil {
		panic("profile: nil subscriber")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs = append(b.subs, subscriber{id: b.nextID, fn: fn})
	return &Subscription{bus: b, id: b.nextID}
}

// On registers fn for events of type T only.
func On[T Event](b *Bus, fn func(T)) *Subscription {
	return b.Subscribe(func(ev Event) {
		if e, ok := ev.(T); ok {
			fn(e)
		}
	})
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every current subscriber. Subscribers added or
// removed during delivery take effect on the next Publish.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	snapshot := make([]subscriber, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		b.deliver(s, ev)
	}
}

func (b *Bus) deliver(s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked",
				zap.String("event", ev.EventName()),
				zap.Any("panic", r))
		}
	}()
	s.fn(ev)
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
