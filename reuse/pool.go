// Package reuse implements a keyed stash of retired views. Views are grouped
// by their concrete type and handed back most-recent-first. The whole pool is
// purged once no view has been retired for an idle window.
package reuse

import (
	"reflect"
	"sync"
	"time"

	"github.com/xqrs/gridview/clock"
)

// DefaultIdleWindow is the debounce window after the last Queue call before
// the pool is purged.
const DefaultIdleWindow = 100 * time.Millisecond

// Reusable is implemented by views that need to reset their state before
// being handed out again.
type Reusable interface {
	PrepareForReuse()
}

type options struct {
	idle      time.Duration
	scheduler clock.Scheduler
	purged    func(n int)
}

// Option configures a Pool.
type Option func(*options)

// WithIdleWindow sets the idle window after which the pool is purged. A
// non-positive window disables the cleanup timer.
func WithIdleWindow(d time.Duration) Option {
	return func(o *options) {
		o.idle = d
	}
}

// WithScheduler sets the scheduler used for the cleanup timer.
func WithScheduler(s clock.Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithPurgeFunc sets a handler called after the idle timer purged the pool.
// It receives the number of views dropped.
func WithPurgeFunc(handler func(n int)) Option {
	return func(o *options) {
		o.purged = handler
	}
}

// Pool stores retired views keyed by type tag. It is safe for concurrent use
// so that the cleanup timer may fire on another goroutine.
type Pool[V comparable] struct {
	mu sync.Mutex

	stacks map[string][]V
	pooled map[V]struct{}

	opts  options
	timer clock.Timer
	// Incremented on every timer restart so a stale callback that lost the
	// race with Stop does not purge.
	epoch uint64
}

// New returns an empty pool.
func New[V comparable](opts ...Option) *Pool[V] {
	o := options{
		idle:      DefaultIdleWindow,
		scheduler: clock.Real(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Pool[V]{
		stacks: make(map[string][]V),
		pooled: make(map[V]struct{}),
		opts:   o,
	}
}

// TagOf returns the type tag a view is pooled under.
func TagOf(v any) string {
	if v == nil {
		return ""
	}
	return reflect.TypeOf(v).String()
}

// TagFor returns the type tag for views of type T.
func TagFor[T any]() string {
	return reflect.TypeFor[T]().String()
}

// Queue retires v into the pool. A view that is already pooled is not added a
// second time. Every call restarts the idle cleanup timer.
func (p *Pool[V]) Queue(v V) {
	tag := TagOf(v)
	if tag == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.pooled[v]; !ok {
		p.pooled[v] = struct{}{}
		p.stacks[tag] = append(p.stacks[tag], v)
	}
	p.restartTimerLocked()
}

func (p *Pool[V]) restartTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.opts.idle <= 0 {
		return
	}
	p.epoch++
	epoch := p.epoch
	p.timer = p.opts.scheduler.AfterFunc(p.opts.idle, func() {
		p.mu.Lock()
		if epoch != p.epoch {
			p.mu.Unlock()
			return
		}
		p.timer = nil
		n := p.purgeLocked()
		purged := p.opts.purged
		p.mu.Unlock()
		if purged != nil {
			purged(n)
		}
	})
}

// Dequeue pops the most recently queued view with the given tag. If the view
// implements Reusable, PrepareForReuse is called before it is returned.
func (p *Pool[V]) Dequeue(tag string) (V, bool) {
	p.mu.Lock()
	stack := p.stacks[tag]
	if len(stack) == 0 {
		p.mu.Unlock()
		var zero V
		return zero, false
	}
	v := stack[len(stack)-1]
	var zero V
	stack[len(stack)-1] = zero
	p.stacks[tag] = stack[:len(stack)-1]
	delete(p.pooled, v)
	p.mu.Unlock()

	if r, ok := any(v).(Reusable); ok {
		r.PrepareForReuse()
	}
	return v, true
}

// Get pops a pooled view of type T.
func Get[T any, V comparable](p *Pool[V]) (T, bool) {
	v, ok := p.Dequeue(TagFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := any(v).(T)
	return t, ok
}

// Contains reports whether v is currently pooled.
func (p *Pool[V]) Contains(v V) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pooled[v]
	return ok
}

// Purge drops every pooled view and cancels the cleanup timer.
func (p *Pool[V]) Purge() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.epoch++
	p.purgeLocked()
}

func (p *Pool[V]) purgeLocked() int {
	n := len(p.pooled)
	clear(p.stacks)
	clear(p.pooled)
	return n
}

// Len returns the number of views pooled under tag.
func (p *Pool[V]) Len(tag string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stacks[tag])
}

// Size returns the total number of pooled views.
func (p *Pool[V]) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pooled)
}
