// Package basestation provides read-only aircraft metadata lookups
// (registration, type, operator) keyed by ICAO address, backed by a
// small gorm/sqlite database shipped alongside the binary.
package basestation

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound indicates no aircraft record exists for the requested
// ICAO address.
var ErrNotFound = errors.New("basestation: aircraft not found")

// Aircraft is one basestation database record.
type Aircraft struct {
	ICAOAddress  uint32 `gorm:"primaryKey"`
	Registration string
	Type         string
	Operator     string
}

// DB is a read-only handle to the basestation database.
type DB struct {
	gorm *gorm.DB
}

// Open opens the sqlite database at path (or an in-memory database when
// path is empty, for tests) and ensures the schema exists.
func Open(path string) (*DB, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("basestation: open %s: %w", path, err)
	}
	if err := g.AutoMigrate(&Aircraft{}); err != nil {
		return nil, fmt.Errorf("basestation: migrate: %w", err)
	}
	return &DB{gorm: g}, nil
}

// Upsert inserts or replaces an aircraft record; used by tests and by
// bulk-loading tools, not by the decode path itself.
func (d *DB) Upsert(a Aircraft) error {
	return d.gorm.Save(&a).Error
}

// Lookup returns the aircraft record for icao, or ErrNotFound.
func (d *DB) Lookup(icao uint32) (Aircraft, error) {
	var a Aircraft
	result := d.gorm.First(&a, "icao_address = ?", icao)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Aircraft{}, ErrNotFound
	}
	if result.Error != nil {
		return Aircraft{}, fmt.Errorf("basestation: lookup %06X: %w", icao, result.Error)
	}
	return a, nil
}

// Close releases the underlying database connection.
func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
