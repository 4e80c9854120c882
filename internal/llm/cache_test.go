package llm

import (
	"fmt"
	"testing"
)

func TestResponseCacheBoundedEviction(t *testing.T) {
	c := newResponseCache(3)

	for i := 0; i < 3; i++ {
		c.add(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
	}
	if c.len() != 3 {
		t.Fatalf("unexpected size: %d", c.len())
	}

	// Inserting beyond capacity evicts exactly the oldest-inserted entry.
	c.add("k3", "v3")
	if c.len() != 3 {
		t.Fatalf("capacity exceeded: %d", c.len())
	}
	if _, ok := c.get("k0"); ok {
		t.Fatalf("oldest entry k0 should have been evicted")
	}
	for _, k := range []string{"k1", "k2", "k3"} {
		if _, ok := c.get(k); !ok {
			t.Fatalf("entry %s missing", k)
		}
	}
}

func TestResponseCacheNotLRU(t *testing.T) {
	c := newResponseCache(2)
	c.add("a", "1")
	c.add("b", "2")

	// A read must not refresh the entry's position.
	if _, ok := c.get("a"); !ok {
		t.Fatalf("entry a missing")
	}
	c.add("c", "3")
	if _, ok := c.get("a"); ok {
		t.Fatalf("eviction must be insertion-ordered, a should be gone")
	}
	if _, ok := c.get("b"); !ok {
		t.Fatalf("entry b should survive")
	}
}

func TestResponseCacheOverwriteKeepsPosition(t *testing.T) {
	c := newResponseCache(2)
	c.add("a", "1")
	c.add("b", "2")
	c.add("a", "updated")

	if v, _ := c.get("a"); v != "updated" {
		t.Fatalf("overwrite lost: %q", v)
	}
	c.add("c", "3")
	// "a" kept its original (oldest) slot, so it goes first.
	if _, ok := c.get("a"); ok {
		t.Fatalf("a should have been evicted as oldest")
	}
}
