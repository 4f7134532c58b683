package binding

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/metadeploy/metadeploy-sdk/pkg/store"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
)

// Guard - lets an effect check whether its binding is still mounted before
// acting on a result that arrived late
type Guard interface {
	Mounted() bool
	IfMounted(fn func()) bool
}

// Selector derives the value a binding depends on
type Selector[D any] func(state store.State) D

// Effect runs whenever the dependency value changes
type Effect[D any] func(ctx context.Context, dep D, guard Guard)

// Binding re-runs an effect each time the selected dependency changes
type Binding[D any] struct {
	logger   log.FieldLogger
	store    store.Store
	selector Selector[D]
	effect   Effect[D]

	mounted atomic.Bool
	subID   string
	cancel  context.CancelFunc
	done    chan struct{}

	mu      sync.Mutex
	last    D
	hasLast bool
}

// Mount subscribes to the store and runs the effect for the current state
func Mount[D any](ctx context.Context, st store.Store, selector Selector[D], effect Effect[D]) *Binding[D] {
	ctx, cancel := context.WithCancel(ctx)
	b := &Binding[D]{
		logger:   log.NewFieldLogger().WithPackage("binding").WithComponent("binding"),
		store:    st,
		selector: selector,
		effect:   effect,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	b.mounted.Store(true)
	states, id := st.Subscribe()
	b.subID = id
	go b.watch(ctx, states)
	return b
}

func (b *Binding[D]) watch(ctx context.Context, states <-chan store.State) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-states:
			if !ok {
				b.mounted.Store(false)
				return
			}
			dep := b.selector(state)
			if !b.changed(dep) {
				continue
			}
			if !b.Mounted() {
				return
			}
			b.effect(ctx, dep, b)
		}
	}
}

func (b *Binding[D]) changed(dep D) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasLast && reflect.DeepEqual(b.last, dep) {
		return false
	}
	b.last, b.hasLast = dep, true
	return true
}

// Value - the latest dependency value seen
func (b *Binding[D]) Value() (D, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.hasLast
}

// Mounted -
func (b *Binding[D]) Mounted() bool {
	return b.mounted.Load()
}

// IfMounted runs fn only while mounted, reporting whether it ran
func (b *Binding[D]) IfMounted(fn func()) bool {
	if !b.Mounted() {
		return false
	}
	fn()
	return true
}

// Unmount stops the binding. Effects still running see Mounted() == false.
func (b *Binding[D]) Unmount() {
	if !b.mounted.CompareAndSwap(true, false) {
		return
	}
	b.logger.Trace("unmounting")
	b.cancel()
	b.store.Unsubscribe(b.subID)
}

// Done is closed once the watch loop exits
func (b *Binding[D]) Done() <-chan struct{} {
	return b.done
}
