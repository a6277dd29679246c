// Package aircraftcache maps (channel_freq, ac_id) pairs observed on
// logon confirmation to the ICAO address assigned during logon, with
// TTL-based expiry swept on a schedule independent of lookup latency.
package aircraftcache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/dumphfdl/dumphfdl-go/internal/metrics"
)

// Key identifies one aircraft binding within a channel.
type Key struct {
	ChannelFreq uint32
	ACID        int
}

// Entry is the cached binding for a Key.
type Entry struct {
	ICAOAddress uint32
	LastSeen    time.Time
}

// Cache is a TTL-based (channel_freq, ac_id) -> icao_address cache backed
// by a lock-free concurrent map.
type Cache struct {
	m       *xsync.Map[Key, Entry]
	ttl     time.Duration
	metrics *metrics.Metrics
}

// New returns an empty cache with the given TTL. metrics may be nil.
func New(ttl time.Duration, m *metrics.Metrics) *Cache {
	return &Cache{
		m:       xsync.NewMap[Key, Entry](),
		ttl:     ttl,
		metrics: m,
	}
}

// Store records (or refreshes) a binding, stamping LastSeen with now.
func (c *Cache) Store(key Key, icao uint32, now time.Time) {
	c.m.Store(key, Entry{ICAOAddress: icao, LastSeen: now})
	if c.metrics != nil {
		c.metrics.SetAircraftCacheSize(float64(c.m.Size()))
	}
}

// Lookup returns the cached ICAO address for key if present and not
// expired relative to now.
func (c *Cache) Lookup(key Key, now time.Time) (uint32, bool) {
	entry, ok := c.m.Load(key)
	if !ok {
		return 0, false
	}
	if now.Sub(entry.LastSeen) > c.ttl {
		return 0, false
	}
	return entry.ICAOAddress, true
}

// Sweep removes every entry whose LastSeen is older than the TTL as of
// now, returning the number evicted. Intended to be invoked periodically
// by a scheduler, decoupled from Lookup so lookup latency stays bounded.
func (c *Cache) Sweep(now time.Time) int {
	var evicted int
	c.m.Range(func(key Key, entry Entry) bool {
		if now.Sub(entry.LastSeen) > c.ttl {
			c.m.Delete(key)
			evicted++
		}
		return true
	})
	if evicted > 0 && c.metrics != nil {
		c.metrics.IncrementAircraftCacheEvictions(float64(evicted))
		c.metrics.SetAircraftCacheSize(float64(c.m.Size()))
	}
	return evicted
}

// Size returns the current entry count, including not-yet-swept expired
// entries.
func (c *Cache) Size() int {
	return c.m.Size()
}

// FormatACID renders an assigned aircraft ID and its bound ICAO address
// the way the text formatter prints it: "<acid-decimal> (<ICAO-hex>)".
func FormatACID(acid int, icao uint32) string {
	return formatACID(acid, icao)
}
