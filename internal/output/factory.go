package output

import (
	"fmt"
	"strings"

	"github.com/dumphfdl/dumphfdl-go/internal/basestation"
	"github.com/dumphfdl/dumphfdl-go/internal/config"
	"github.com/dumphfdl/dumphfdl-go/internal/output/format"
)

// BuildSinks constructs one SinkSpec per configured --output specification.
// aircraftDB is optional and only consulted by the basestation formatter.
func BuildSinks(specs []config.OutputSpec, cfg config.Output, aircraftDB *basestation.DB) ([]SinkSpec, error) {
	out := make([]SinkSpec, 0, len(specs))
	for _, spec := range specs {
		formatter, err := buildFormatter(spec, cfg, aircraftDB)
		if err != nil {
			return nil, err
		}
		sink, err := buildSink(spec, formatter)
		if err != nil {
			return nil, err
		}
		out = append(out, SinkSpec{Kind: spec.Input, Sink: sink})
	}
	return out, nil
}

func buildFormatter(spec config.OutputSpec, cfg config.Output, aircraftDB *basestation.DB) (format.Formatter, error) {
	switch spec.Format {
	case config.OutputFormatText:
		return format.Text{UTC: cfg.UTC, Milliseconds: cfg.Milliseconds}, nil
	case config.OutputFormatJSON:
		return format.JSON{}, nil
	case config.OutputFormatBasestation:
		return format.Basestation{Lookup: aircraftDB}, nil
	case config.OutputFormatBinary:
		return format.Binary{}, nil
	default:
		return nil, fmt.Errorf("output: unsupported format %q", spec.Format)
	}
}

func buildSink(spec config.OutputSpec, formatter format.Formatter) (Sink, error) {
	switch spec.Sink {
	case config.OutputSinkFile:
		path := spec.Options["path"]
		if path == "" {
			path = "-"
		}
		return NewFileSink(path, formatter)
	case config.OutputSinkTCP:
		return NewTCPSink(spec.Options["address"], formatter)
	case config.OutputSinkKafka:
		brokers := strings.Split(spec.Options["brokers"], ",")
		return NewKafkaSink(brokers, spec.Options["topic"], formatter)
	case config.OutputSinkDB:
		return NewDBSink(spec.Options["path"], formatter)
	default:
		return nil, fmt.Errorf("output: unsupported sink kind %q", spec.Sink)
	}
}
