package platform

import "sync"

// Lanes runs jobs one at a time per key, in submission order. Different
// keys run concurrently. A lane's goroutine exits once its queue drains.
type Lanes struct {
	mu     sync.Mutex
	active map[string]*lane
	wg     sync.WaitGroup
}

type lane struct {
	pending []func()
}

func NewLanes() *Lanes {
	return &Lanes{active: make(map[string]*lane)}
}

// Do queues job on the lane for key.
func (l *Lanes) Do(key string, job func()) {
	l.mu.Lock()
	if ln, ok := l.active[key]; ok {
		ln.pending = append(ln.pending, job)
		l.mu.Unlock()
		return
	}
	ln := &lane{pending: []func(){job}}
	l.active[key] = ln
	l.wg.Add(1)
	l.mu.Unlock()
	go l.run(key, ln)
}

func (l *Lanes) run(key string, ln *lane) {
	defer l.wg.Done()
	for {
		l.mu.Lock()
		if len(ln.pending) == 0 {
			delete(l.active, key)
			l.mu.Unlock()
			return
		}
		job := ln.pending[0]
		ln.pending[0] = nil
		ln.pending = ln.pending[1:]
		l.mu.Unlock()
		job()
	}
}

// Active reports how many lanes currently have work.
func (l *Lanes) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}

// Wait blocks until every queued job has finished.
func (l *Lanes) Wait() { l.wg.Wait() }
