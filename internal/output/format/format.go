// Package format renders decoded.Record values into the wire/text
// representations the output sinks write out.
package format

import "github.com/dumphfdl/dumphfdl-go/internal/decoded"

// Formatter renders one record into bytes ready to hand to a Sink.
type Formatter interface {
	Format(r decoded.Record) ([]byte, error)
}

// AppName is stamped into every JSON record's "app.name" field.
const AppName = "dumphfdl-go"

// AppVersion is stamped into every JSON record's "app.ver" field.
var AppVersion = "0.1.0"
