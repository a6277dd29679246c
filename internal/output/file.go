package output

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/output/format"
)

// FileSink writes formatted records to a file, or to stdout when the
// configured path is "-".
type FileSink struct {
	formatter format.Formatter
	file      *os.File
	writer    *bufio.Writer
	isStdout  bool
}

// NewFileSink opens path for appending, creating it if it does not exist,
// unless path is "-", in which case records are written to stdout.
func NewFileSink(path string, formatter format.Formatter) (*FileSink, error) {
	if path == "-" {
		return &FileSink{formatter: formatter, writer: bufio.NewWriter(os.Stdout), isStdout: true}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("output: open %s: %w", path, err)
	}
	return &FileSink{formatter: formatter, file: f, writer: bufio.NewWriter(f)}, nil
}

// Write implements Sink.
func (s *FileSink) Write(r decoded.Record) error {
	data, err := s.formatter.Format(r)
	if err != nil {
		return fmt.Errorf("output: format record: %w", err)
	}
	if data == nil {
		return nil
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.WriteByte('\n')
}

var _ io.Writer = (*bufio.Writer)(nil)

// Close implements Sink.
func (s *FileSink) Close() error {
	if err := s.writer.Flush(); err != nil {
		return err
	}
	if s.isStdout || s.file == nil {
		return nil
	}
	return s.file.Close()
}
