package output

import (
	"fmt"
	"net"
	"sync"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/output/format"
)

// TCPSink writes formatted records, newline-delimited, to a persistent
// TCP connection.
type TCPSink struct {
	formatter format.Formatter
	mu        sync.Mutex
	conn      net.Conn
}

// NewTCPSink dials address and returns a sink writing to that connection.
func NewTCPSink(address string, formatter format.Formatter) (*TCPSink, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("output: dial %s: %w", address, err)
	}
	return &TCPSink{formatter: formatter, conn: conn}, nil
}

// Write implements Sink.
func (s *TCPSink) Write(r decoded.Record) error {
	data, err := s.formatter.Format(r)
	if err != nil {
		return fmt.Errorf("output: format record: %w", err)
	}
	if data == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data = append(data, '\n')
	_, err = s.conn.Write(data)
	return err
}

// Close implements Sink.
func (s *TCPSink) Close() error {
	return s.conn.Close()
}
