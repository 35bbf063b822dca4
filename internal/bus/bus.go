// Package bus is the typed publish/subscribe channel between the puzzle
// controller and independent observers (timer displays, audio, UI, combat).
//
// A Bus is an explicitly constructed value owned by a game session. Every
// subscription returns a handle, and the owner of that handle is responsible
// for removing it at teardown so listeners from a finished puzzle never
// receive notifications meant for the next one.
//
// Dispatch is synchronous: Publish calls every registered subscriber for the
// channel in subscription order and returns after the last one has run.
// Subscribing the same function twice registers it twice and it is notified
// twice per publish; duplicate registrations are kept so caller bugs surface
// instead of being silently merged.
package bus

import (
	"fmt"
	"sync"
	"time"
)

// Channel names one publish/subscribe topic.
type Channel string

const (
	KillTimerChange Channel = "kill_timer_change"
	GameOver        Channel = "game_over"
	HideTimerStart  Channel = "hide_timer_start"
	HideTimerStop   Channel = "hide_timer_stop"
	NextPuzzle      Channel = "next_puzzle"
)

// Channels lists every channel in a stable order.
func Channels() []Channel {
	return []Channel{KillTimerChange, GameOver, HideTimerStart, HideTimerStop, NextPuzzle}
}

// SceneRef identifies the scene asset of a puzzle.
type SceneRef string

type registration struct {
	id uint64
	fn func(payload interface{}) error
}

// Bus dispatches payloads to per-channel subscriber lists.
type Bus struct {
	mu        sync.RWMutex
	nextID    uint64
	subs      map[Channel][]registration
	onFailure func(Failure)
}

// Option configures a Bus.
type Option func(*Bus)

// WithFailureHandler replaces the default diagnostic path for subscriber failures.
func WithFailureHandler(fn func(Failure)) Option {
	return func(b *Bus) {
		b.onFailure = fn
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		subs:      make(map[Channel][]registration),
		onFailure: reportFailure,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscription is the handle for a single registration.
type Subscription struct {
	id      uint64
	channel Channel
	bus     *Bus
}

// ID returns the registration id, unique within the bus.
func (s *Subscription) ID() uint64 { return s.id }

// Channel returns the channel this registration listens on.
func (s *Subscription) Channel() Channel { return s.channel }

// Cancel removes the registration. It is safe to call more than once.
func (s *Subscription) Cancel() bool {
	if s == nil || s.bus == nil {
		return false
	}
	return s.bus.Unsubscribe(s)
}

func (b *Bus) subscribe(ch Channel, fn func(payload interface{}) error) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[ch] = append(b.subs[ch], registration{id: b.nextID, fn: fn})
	return &Subscription{id: b.nextID, channel: ch, bus: b}
}

// Unsubscribe removes exactly the registration behind sub and reports
// whether it was still registered. Unsubscribing twice is a no-op.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	if sub == nil || sub.bus != b {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.subs[sub.channel]
	for i, r := range regs {
		if r.id != sub.id {
			continue
		}
		// Copy so in-flight snapshots keep their view.
		next := make([]registration, 0, len(regs)-1)
		next = append(next, regs[:i]...)
		next = append(next, regs[i+1:]...)
		b.subs[sub.channel] = next
		return true
	}
	return false
}

// Count returns the number of live registrations on ch.
func (b *Bus) Count(ch Channel) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[ch])
}

// Clear removes every registration on every channel.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[Channel][]registration)
}

// PublishResult describes one dispatch.
type PublishResult struct {
	Channel   Channel
	Delivered int
	Failures  []Failure
}

// Failed reports whether any subscriber failed.
func (r PublishResult) Failed() bool {
	return len(r.Failures) > 0
}

// Failure records a subscriber that returned an error or panicked.
type Failure struct {
	Channel        Channel
	SubscriptionID uint64
	Err            error
}

func (f Failure) Error() string {
	return fmt.Sprintf("bus: subscriber %d on %s failed: %v", f.SubscriptionID, f.Channel, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// publish dispatches over a snapshot without holding the lock, so
// subscribers may publish, subscribe or unsubscribe.
func (b *Bus) publish(ch Channel, payload interface{}) PublishResult {
	b.mu.RLock()
	regs := b.subs[ch]
	onFailure := b.onFailure
	b.mu.RUnlock()

	publishedTotal.WithLabelValues(string(ch)).Inc()

	res := PublishResult{Channel: ch}
	for _, r := range regs {
		if err := invoke(r.fn, payload); err != nil {
			f := Failure{Channel: ch, SubscriptionID: r.id, Err: err}
			res.Failures = append(res.Failures, f)
			subscriberFailures.WithLabelValues(string(ch)).Inc()
			if onFailure != nil {
				onFailure(f)
			}
			continue
		}
		res.Delivered++
	}
	return res
}

func invoke(fn func(interface{}) error, payload interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(payload)
}

// OnKillTimerChange registers fn for kill-timer adjustments.
func (b *Bus) OnKillTimerChange(fn func(delta time.Duration) error) *Subscription {
	mustHandler(fn == nil)
	return b.subscribe(KillTimerChange, func(p interface{}) error { return fn(p.(time.Duration)) })
}

// OnGameOver registers fn for the terminal game outcome.
func (b *Bus) OnGameOver(fn func(won bool) error) *Subscription {
	mustHandler(fn == nil)
	return b.subscribe(GameOver, func(p interface{}) error { return fn(p.(bool)) })
}

// OnHideTimerStart registers fn for hide-timer start requests.
func (b *Bus) OnHideTimerStart(fn func(d time.Duration) error) *Subscription {
	mustHandler(fn == nil)
	return b.subscribe(HideTimerStart, func(p interface{}) error { return fn(p.(time.Duration)) })
}

// OnHideTimerStop registers fn for hide-timer cancellation.
func (b *Bus) OnHideTimerStop(fn func() error) *Subscription {
	mustHandler(fn == nil)
	return b.subscribe(HideTimerStop, func(interface{}) error { return fn() })
}

// OnNextPuzzle registers fn for the puzzle resumed when the hide timer expires.
func (b *Bus) OnNextPuzzle(fn func(scene SceneRef) error) *Subscription {
	mustHandler(fn == nil)
	return b.subscribe(NextPuzzle, func(p interface{}) error { return fn(p.(SceneRef)) })
}

// ChangeKillTimer asks the kill-timer clock to move by delta. Positive is more time.
func (b *Bus) ChangeKillTimer(delta time.Duration) PublishResult {
	return b.publish(KillTimerChange, delta)
}

// EndGame announces the terminal outcome.
func (b *Bus) EndGame(won bool) PublishResult {
	return b.publish(GameOver, won)
}

// StartHideTimer asks for a hide-timer countdown of d.
func (b *Bus) StartHideTimer(d time.Duration) PublishResult {
	return b.publish(HideTimerStart, d)
}

// StopHideTimer cancels the active hide-timer countdown.
func (b *Bus) StopHideTimer() PublishResult {
	return b.publish(HideTimerStop, struct{}{})
}

// SetNextPuzzle announces the puzzle the player returns to when the hide timer ends.
func (b *Bus) SetNextPuzzle(scene SceneRef) PublishResult {
	return b.publish(NextPuzzle, scene)
}

func mustHandler(isNil bool) {
	if isNil {
		panic("bus: nil handler")
	}
}
