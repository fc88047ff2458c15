package promise

import "sync"

// ExecutionContext is somewhere work can run: a fresh goroutine per
// task, a serial queue, a worker pool. Implementations must guarantee
// that a submitted task eventually runs, with the single exception of
// an invalidated InvalidatableContext, which drops it.
type ExecutionContext interface {
	Execute(task func())
}

// DefaultContext is used whenever a nil ExecutionContext is passed to
// a constructor or a chaining call. Hosts that have a designated
// foreground scheduler can install it here.
var DefaultContext ExecutionContext = Background()

// Background returns the always-available context: every task runs on
// its own goroutine.
func Background() ExecutionContext {
	return backgroundContext{}
}

type backgroundContext struct{}

func (backgroundContext) Execute(task func()) {
	go task()
}

// SerialContext runs tasks one at a time, in submission order, on a
// single drain goroutine that exists only while the queue is non-empty.
//
// The zero value is ready to use.
type SerialContext struct {
	mutex   sync.Mutex
	tasks   []func()
	running bool
}

func NewSerialContext() *SerialContext {
	return &SerialContext{}
}

// Execute appends the task to the queue. It never runs the task on the
// caller's stack.
func (c *SerialContext) Execute(task func()) {
	c.mutex.Lock()
	c.tasks = append(c.tasks, task)
	if c.running {
		c.mutex.Unlock()

		return
	}
	c.running = true
	c.mutex.Unlock()

	go c.drain()
}

func (c *SerialContext) drain() {
	for {
		c.mutex.Lock()
		if 0 == len(c.tasks) {
			c.running = false
			c.mutex.Unlock()

			return
		}
		task := c.tasks[0]
		c.tasks = c.tasks[1:]
		c.mutex.Unlock()

		task()
	}
}

// InvalidatableContext forwards tasks to a parent context until
// Invalidate is called; afterwards every submission is silently
// dropped. Useful to stop delivering callbacks to an observer that no
// longer exists.
type InvalidatableContext struct {
	parent ExecutionContext

	mutex sync.RWMutex
	valid bool
}

// NewInvalidatableContext wraps parent (nil means DefaultContext).
func NewInvalidatableContext(parent ExecutionContext) *InvalidatableContext {
	if nil == parent {
		parent = DefaultContext
	}

	return &InvalidatableContext{
		parent: parent,
		valid:  true,
	}
}

func (c *InvalidatableContext) Execute(task func()) {
	c.mutex.RLock()
	valid := c.valid
	c.mutex.RUnlock()

	if valid {
		c.parent.Execute(task)
	}
}

// Invalidate permanently marks the context invalid. Tasks already
// forwarded to the parent are not recalled.
func (c *InvalidatableContext) Invalidate() {
	c.mutex.Lock()
	c.valid = false
	c.mutex.Unlock()
}

func (c *InvalidatableContext) IsValid() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.valid
}
