package config

// LogLevel selects the verbosity of the structured logger.
type LogLevel string

const (
	// LogLevelDebug logs per-burst and per-symbol diagnostic detail.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs per-message and per-station events.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs recoverable anomalies (resets, overflows, CRC failures).
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only conditions requiring operator attention.
	LogLevelError LogLevel = "error"
)

// SampleFormat identifies the wire encoding of raw input samples before
// normalization to complex64.
type SampleFormat string

const (
	// SampleFormatCU8 is unsigned 8-bit interleaved I/Q, center 127.5.
	SampleFormatCU8 SampleFormat = "CU8"
	// SampleFormatCS16 is signed 16-bit interleaved I/Q.
	SampleFormatCS16 SampleFormat = "CS16"
	// SampleFormatCF32 is IEEE-754 32-bit float interleaved I/Q, already normalized.
	SampleFormatCF32 SampleFormat = "CF32"
)

// InputKind selects which record stream an --output spec subscribes to.
type InputKind string

const (
	// InputKindDecoded is the fully decoded PDU-tree record stream.
	InputKindDecoded InputKind = "decoded"
	// InputKindFrame is the pre-parse octet buffer for a burst ("raw frames").
	InputKindFrame InputKind = "frame"
)

// OutputFormat selects how a Record is serialized before hitting a sink.
type OutputFormat string

const (
	OutputFormatText        OutputFormat = "text"
	OutputFormatJSON        OutputFormat = "json"
	OutputFormatBasestation OutputFormat = "basestation"
	OutputFormatBinary      OutputFormat = "binary"
)

// OutputSinkKind selects the transport a formatted Record is written to.
type OutputSinkKind string

const (
	OutputSinkFile  OutputSinkKind = "file"
	OutputSinkTCP   OutputSinkKind = "tcp"
	OutputSinkKafka OutputSinkKind = "kafka"
	OutputSinkDB    OutputSinkKind = "db"
)

// QueuePolicy selects the backpressure behavior of a bounded inter-stage queue.
type QueuePolicy string

const (
	// QueuePolicyBlock makes producers wait for room.
	QueuePolicyBlock QueuePolicy = "block"
	// QueuePolicyDropNewest discards the incoming item and counts an overflow.
	QueuePolicyDropNewest QueuePolicy = "drop-newest"
	// QueuePolicyDropOldest evicts the oldest queued item to make room.
	QueuePolicyDropOldest QueuePolicy = "drop-oldest"
)
