package output

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/output/format"
)

// storedRecord is the durable row schema for the database sink, an
// enrichment beyond the file/TCP/Kafka triad the base interface names.
type storedRecord struct {
	gorm.Model
	Station     string
	ChannelFreq uint32
	BitRate     int
	Slot        string
	Formatted   string
}

// DBSink persists formatted records to a gorm-backed database for
// durable querying.
type DBSink struct {
	formatter format.Formatter
	gorm      *gorm.DB
}

// NewDBSink opens (or creates) a sqlite database at path and returns a
// sink writing formatted records into it.
func NewDBSink(path string, formatter format.Formatter) (*DBSink, error) {
	g, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("output: open db %s: %w", path, err)
	}
	if err := g.AutoMigrate(&storedRecord{}); err != nil {
		return nil, fmt.Errorf("output: migrate db: %w", err)
	}
	return &DBSink{formatter: formatter, gorm: g}, nil
}

// Write implements Sink.
func (s *DBSink) Write(r decoded.Record) error {
	data, err := s.formatter.Format(r)
	if err != nil {
		return fmt.Errorf("output: format record: %w", err)
	}
	if data == nil {
		return nil
	}
	row := storedRecord{
		Station:     r.Station,
		ChannelFreq: r.ChannelFreq,
		BitRate:     r.BitRate,
		Slot:        string(r.Slot),
		Formatted:   string(data),
	}
	return s.gorm.Create(&row).Error
}

// Close implements Sink.
func (s *DBSink) Close() error {
	sqlDB, err := s.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
