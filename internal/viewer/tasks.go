package viewer

import "sync"

// taskQueue hands closures from background goroutines to the main thread.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	ready  chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{ready: make(chan struct{}, 1)}
}

func (q *taskQueue) post(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *taskQueue) take() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := q.tasks
	q.tasks = nil
	return tasks
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *taskQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.tasks = nil
}

// Post schedules fn to run on the main thread during the next Pump.
// Safe to call from any goroutine.
func (v *Viewer) Post(fn func()) {
	v.queue.post(fn)
}

// Pump runs every queued task on the calling goroutine and returns how many
// ran. Call it once per UI frame.
func (v *Viewer) Pump() int {
	tasks := v.queue.take()
	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Ready is signalled after a task is posted.
func (v *Viewer) Ready() <-chan struct{} {
	return v.queue.ready
}

// Busy reports whether any load or manifest fetch is still outstanding.
func (v *Viewer) Busy() bool {
	return len(v.inflight) > 0 || v.catalogPending > 0 || v.queue.len() > 0
}
