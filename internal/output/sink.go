// Package output fans one decoded-message record stream out to N
// configured sinks (file, TCP, Kafka, database), each formatted by an
// independently selected internal/output/format.Formatter.
package output

import "github.com/dumphfdl/dumphfdl-go/internal/decoded"

// Sink accepts decoded records, formats each with its own Formatter, and
// delivers the bytes to a file, socket, message broker, or database.
type Sink interface {
	Write(r decoded.Record) error
	Close() error
}
