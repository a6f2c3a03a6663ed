package sim

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type teardownHook struct {
	name string
	fn   func()
}

// Lifecycle issues a single teardown signal that detaches every registered
// component: clocks, dispatchers, sources, loops and registries. Hooks run
// in registration order, all within one Teardown call.
type Lifecycle struct {
	mu    sync.Mutex
	once  sync.Once
	hooks []teardownHook
	done  bool
}

// NewLifecycle creates a lifecycle with no hooks.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// Register adds a teardown hook. A hook registered after teardown runs
// immediately.
func (lc *Lifecycle) Register(name string, fn func()) {
	lc.mu.Lock()
	if !lc.done {
		lc.hooks = append(lc.hooks, teardownHook{name: name, fn: fn})
		lc.mu.Unlock()
		return
	}
	lc.mu.Unlock()
	logrus.Debugf("lifecycle already torn down, running %s now", name)
	fn()
}

// Teardown runs every hook once. Later calls have no effect.
func (lc *Lifecycle) Teardown() {
	lc.once.Do(func() {
		lc.mu.Lock()
		hooks := lc.hooks
		lc.hooks = nil
		lc.done = true
		lc.mu.Unlock()

		for _, h := range hooks {
			logrus.Debugf("teardown: %s", h.name)
			h.fn()
		}
		logrus.Infof("teardown complete (%d hooks)", len(hooks))
	})
}

// Done reports whether Teardown has been called.
func (lc *Lifecycle) Done() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.done
}
