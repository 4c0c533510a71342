package pool

import "sync"

type messageKind int

const (
	runJob messageKind = iota
	shutdown
)

type poolMessage struct {
	kind messageKind
	job  Job
}

// SharedQueueThreadPool runs jobs on a fixed number of long-lived workers
// pulling from one buffered channel. A panicking job is recovered inside
// its worker, which then loops back to pull the next message — the worker
// count never shrinks because of a bad job.
type SharedQueueThreadPool struct {
	messages chan poolMessage
	workers  int
	wg       sync.WaitGroup
	once     sync.Once
}

// NewSharedQueueThreadPool starts workers goroutines pulling from a shared
// queue. A workers value below 1 is treated as 1.
func NewSharedQueueThreadPool(workers int) (*SharedQueueThreadPool, error) {
	if workers < 1 {
		workers = 1
	}

	p := &SharedQueueThreadPool{messages: make(chan poolMessage, workers*2), workers: workers}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p, nil
}

func (p *SharedQueueThreadPool) worker() {
	defer p.wg.Done()
	for msg := range p.messages {
		if msg.kind == shutdown {
			return
		}
		p.runRecovered(msg.job)
	}
}

func (p *SharedQueueThreadPool) runRecovered(job Job) {
	defer func() { recover() }()
	job()
}

// Spawn queues job for whichever worker picks it up next.
func (p *SharedQueueThreadPool) Spawn(job Job) {
	p.messages <- poolMessage{kind: runJob, job: job}
}

// Close sends one shutdown message per worker, then waits for every worker
// to drain its remaining jobs and exit. Close does not stop Spawn: a job
// spawned afterwards is queued but never run, and Spawn blocks once the
// queue's buffer is full.
func (p *SharedQueueThreadPool) Close() error {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.messages <- poolMessage{kind: shutdown}
		}
	})
	p.wg.Wait()
	return nil
}
