package llm

// responseCache is a bounded key→reply map. Eviction is
// oldest-inserted-first once capacity is reached, not LRU: access
// order never changes an entry's position.
type responseCache struct {
	capacity int
	order    []string
	entries  map[string]string
}

func newResponseCache(capacity int) *responseCache {
	return &responseCache{
		capacity: capacity,
		entries:  make(map[string]string, capacity),
	}
}

func (c *responseCache) get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *responseCache) add(key, value string) {
	if _, exists := c.entries[key]; exists {
		// Overwrite keeps the original insertion position.
		c.entries[key] = value
		return
	}
	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

func (c *responseCache) len() int { return len(c.entries) }
