package pipeline

import "sync"

// Barrier implements the channelizer's one-to-many broadcast: every
// consumer announces readiness, the producer fills a shared buffer and
// signals data-ready, and consumers drain the buffer in parallel before
// the next round begins.
type Barrier struct {
	mu         sync.Mutex
	subscribed int
	ready      int
	generation int
	dataReady  *sync.Cond
	allReady   *sync.Cond
	buffer     any
}

// NewBarrier returns a barrier with no subscribers. Subscribe must be
// called once per consumer before the first Publish.
func NewBarrier() *Barrier {
	b := &Barrier{}
	b.dataReady = sync.NewCond(&b.mu)
	b.allReady = sync.NewCond(&b.mu)
	return b
}

// Subscribe registers one more consumer that Publish must wait for.
func (b *Barrier) Subscribe() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribed++
}

// Publish waits for every subscribed consumer to announce readiness, then
// stores data as the shared buffer and wakes every consumer.
func (b *Barrier) Publish(data any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.ready < b.subscribed {
		b.allReady.Wait()
	}

	b.buffer = data
	b.ready = 0
	b.generation++
	b.dataReady.Broadcast()
}

// Await announces this consumer as ready, then blocks until the next
// Publish call fills the shared buffer, returning it.
func (b *Barrier) Await() any {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.ready++
	b.allReady.Signal()

	for b.generation == gen {
		b.dataReady.Wait()
	}
	return b.buffer
}
