package output

import (
	"log/slog"
	"sync"

	"github.com/dumphfdl/dumphfdl-go/internal/config"
	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/pipeline"
)

// FanOut multiplexes one internal record stream to N configured sinks,
// each fed through its own bounded queue so a slow sink cannot stall the
// others.
type FanOut struct {
	routes []*route
	wg     sync.WaitGroup
}

type route struct {
	sink  Sink
	kind  config.InputKind
	queue *pipeline.Queue[decoded.Record]
}

// NewFanOut builds one route per sink, applying hwm/policy from cfg.
func NewFanOut(cfg config.Output, sinks []SinkSpec) *FanOut {
	policy := pipeline.DropNewest
	if cfg.QueuePolicy == config.QueuePolicyDropOldest {
		policy = pipeline.DropOldest
	} else if cfg.QueuePolicy == config.QueuePolicyBlock {
		policy = pipeline.Block
	}

	f := &FanOut{}
	for _, spec := range sinks {
		r := &route{
			sink:  spec.Sink,
			kind:  spec.Kind,
			queue: pipeline.NewQueue[decoded.Record](cfg.QueueHWM, policy),
		}
		f.routes = append(f.routes, r)
		f.wg.Add(1)
		go f.drain(r)
	}
	return f
}

// SinkSpec pairs a constructed Sink with the record kind it subscribes
// to (decoded messages vs. raw-frame passthrough).
type SinkSpec struct {
	Kind config.InputKind
	Sink Sink
}

func (f *FanOut) drain(r *route) {
	defer f.wg.Done()
	for {
		rec, ok := r.queue.Pop()
		if !ok {
			return
		}
		if rec.ShutdownSentinel {
			return
		}
		if err := r.sink.Write(rec); err != nil {
			slog.With("stage", "output").Error("sink write failed", "error", err)
		}
	}
}

// Publish enqueues rec on every route whose kind matches, applying each
// route's own backpressure policy independently.
func (f *FanOut) Publish(kind config.InputKind, rec decoded.Record) {
	for _, r := range f.routes {
		if r.kind == kind {
			r.queue.Push(rec)
		}
	}
}

// Shutdown publishes the ordered-shutdown sentinel to every route and
// waits for all sinks to drain and close.
func (f *FanOut) Shutdown() {
	sentinel := decoded.Record{ShutdownSentinel: true}
	for _, r := range f.routes {
		r.queue.Push(sentinel)
		r.queue.Close()
	}
	f.wg.Wait()
	for _, r := range f.routes {
		if err := r.sink.Close(); err != nil {
			slog.With("stage", "output").Error("sink close failed", "error", err)
		}
	}
}
