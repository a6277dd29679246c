package pipeline

import "context"

// Stage is the polymorphic pipeline "block" abstraction: the input
// adapter, the channelizer, each channel worker, the PDU decoder, and each
// output sink all implement it. Dispatch is over this closed interface,
// never open dynamic dispatch over an unbounded set of kinds.
type Stage interface {
	// Name identifies the stage for logging and metrics labeling.
	Name() string
	// Start runs the stage until ctx is canceled or Stop is called, and
	// must return promptly once shutdown is signaled.
	Start(ctx context.Context) error
	// Stop requests the stage wind down; graceful asks it to drain
	// pending work first, while a forced stop (graceful=false) asks it to
	// exit promptly without draining.
	Stop(ctx context.Context, graceful bool) error
}
