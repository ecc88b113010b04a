package feedback

import "sync"

// queue runs jobs one at a time on a background goroutine. Only the newest
// job waiting to run is kept: submitting replaces any job not yet started.
type queue struct {
	mu      sync.Mutex
	idle    *sync.Cond
	pending func()
	busy    bool
}

func newQueue() *queue {
	q := &queue{}
	q.idle = sync.NewCond(&q.mu)
	return q
}

func (q *queue) submit(job func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = job
	if !q.busy {
		q.busy = true
		go q.run()
	}
}

func (q *queue) run() {
	for {
		q.mu.Lock()
		job := q.pending
		q.pending = nil
		if job == nil {
			q.busy = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()

		job()
	}
}

// flush blocks until no job is running or pending.
func (q *queue) flush() {
	q.mu.Lock()
	for q.busy {
		q.idle.Wait()
	}
	q.mu.Unlock()
}
