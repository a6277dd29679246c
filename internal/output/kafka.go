package output

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/output/format"
)

// KafkaSink publishes formatted records as messages to a Kafka topic.
type KafkaSink struct {
	formatter format.Formatter
	writer    *kafka.Writer
}

// NewKafkaSink returns a sink publishing to topic on brokers. No
// connection is opened here.
func NewKafkaSink(brokers []string, topic string, formatter format.Formatter) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("output: kafka sink requires at least one broker")
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaSink{formatter: formatter, writer: writer}, nil
}

// Write implements Sink.
func (s *KafkaSink) Write(r decoded.Record) error {
	data, err := s.formatter.Format(r)
	if err != nil {
		return fmt.Errorf("output: format record: %w", err)
	}
	if data == nil {
		return nil
	}
	return s.writer.WriteMessages(context.Background(), kafka.Message{Value: data})
}

// Close implements Sink.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
