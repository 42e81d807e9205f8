package location

import (
	"sync"
	"time"

	"wanderlens/internal/models"
)

// DefaultTTL is how long a resolved coordinate stays fresh.
const DefaultTTL = 5 * time.Minute

// Cache holds the last successfully resolved coordinate so repeated discovery
// runs do not re-prompt the positioning hardware. It holds at most one value;
// a new resolution always replaces the previous one.
type Cache struct {
	mu         sync.Mutex
	set        bool
	coord      models.Coordinate
	resolvedAt time.Time

	ttl time.Duration
	now func() time.Time
}

// NewCache creates a cache with the given TTL; DefaultTTL when ttl is
// nonpositive.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, now: time.Now}
}

// Get returns the cached coordinate while it is younger than the TTL.
// An expired or empty cache reports absent, never an error.
func (c *Cache) Get() (models.Coordinate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.set || c.now().Sub(c.resolvedAt) >= c.ttl {
		return models.Coordinate{}, false
	}
	return c.coord, true
}

// GetAny returns the cached coordinate regardless of age. The acquirer uses
// it as a last resort when every device strategy failed.
func (c *Cache) GetAny() (models.Coordinate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.set {
		return models.Coordinate{}, false
	}
	return c.coord, true
}

// Set stores the coordinate with the current timestamp, unconditionally
// replacing any prior value.
func (c *Cache) Set(coord models.Coordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.coord = coord
	c.resolvedAt = c.now()
	c.set = true
}
