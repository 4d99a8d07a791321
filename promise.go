package routescout

import (
	"context"
	"sync"

	"github.com/scoutrun/routescout/internal/executor"
	"github.com/scoutrun/routescout/types"
)

// deferredPromise holds the final step's answer until the workflow closes,
// then forwards it through the typed future to the hook.
type deferredPromise[T any] struct {
	promise executor.CompletableFuture[T]
	hook    Hook[T]
	mu      sync.Mutex
	value   string
	err     error
	once    sync.Once
}

func (d *deferredPromise[T]) Forward(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		d.promise.Error(d.err)
		return
	}

	d.promise.Complete(d.value)
	res, err := d.promise.Get()
	if err != nil {
		d.hook.OnError(ctx, err)
		return
	}
	d.hook.OnResult(ctx, res)
}

func (d *deferredPromise[T]) Complete(result string) {
	d.once.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.value = result
	})
}

func (d *deferredPromise[T]) Error(err error) {
	d.once.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.err = err
	})
}

type noopPromise struct{}

func (noopPromise) Complete(string) {}
func (noopPromise) Error(error)     {}

// capturePromise copies a step's answer into the shared context variables
// before passing it along, so later steps can template it into their
// instructions.
type capturePromise struct {
	key  string
	cv   types.ContextVars
	mu   *sync.Mutex
	next executor.Promise
}

func (c capturePromise) Complete(result string) {
	if c.key != "" {
		c.mu.Lock()
		c.cv[c.key] = result
		c.mu.Unlock()
	}
	c.next.Complete(result)
}

func (c capturePromise) Error(err error) {
	c.next.Error(err)
}
