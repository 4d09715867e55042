package cache

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](4)
	if c.Capacity() != 4 {
		t.Errorf("Capacity() = %d, want 4", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestNew_MinimumCapacity(t *testing.T) {
	for _, capacity := range []int{0, -3} {
		c := New[string, int](capacity)
		if c.Capacity() != 1 {
			t.Errorf("New(%d).Capacity() = %d, want 1", capacity, c.Capacity())
		}
	}
}

func TestLRU_GetPut(t *testing.T) {
	c := New[string, int](2)

	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache reported a hit")
	}

	c.Put("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	c.Put("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) after overwrite = %d, want 10", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() after overwrite = %d, want 1", c.Len())
	}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, string](3)
	c.Put(1, "one")
	c.Put(2, "two")
	c.Put(3, "three")
	c.Put(4, "four")

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if _, ok := peek(c, 1); ok {
		t.Error("key 1 should have been evicted")
	}
	for _, k := range []int{2, 3, 4} {
		if _, ok := peek(c, k); !ok {
			t.Errorf("key %d should still be cached", k)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestLRU_GetProtectsFromEviction(t *testing.T) {
	c := New[int, string](3)
	c.Put(1, "one")
	c.Put(2, "two")
	c.Put(3, "three")

	// Touch the oldest key so 2 becomes the victim.
	if _, ok := c.Get(1); !ok {
		t.Fatal("Get(1) missed")
	}
	c.Put(4, "four")

	if _, ok := peek(c, 2); ok {
		t.Error("key 2 should have been evicted")
	}
	if _, ok := peek(c, 1); !ok {
		t.Error("key 1 was accessed and should survive")
	}
}

func TestLRU_PutPromotes(t *testing.T) {
	c := New[int, int](2)
	c.Put(1, 1)
	c.Put(2, 2)
	c.Put(1, 11)
	c.Put(3, 3)

	if _, ok := peek(c, 2); ok {
		t.Error("key 2 should have been evicted after key 1 was rewritten")
	}
	if v, ok := peek(c, 1); !ok || v != 11 {
		t.Errorf("peek(1) = %d, %v; want 11, true", v, ok)
	}
}

func TestLRU_RecencyOrder(t *testing.T) {
	c := New[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	c.Get("a")

	want := []string{"a", "c", "b"}
	if got := keys(c); !reflect.DeepEqual(got, want) {
		t.Errorf("recency order = %v, want %v", got, want)
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	c := New[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) after Clear reported a hit")
	}

	// The cache stays usable after Clear.
	c.Put("z", 26)
	if v, ok := c.Get("z"); !ok || v != 26 {
		t.Errorf("Get(z) = %d, %v; want 26, true", v, ok)
	}
}

func TestLRU_Stats(t *testing.T) {
	c := New[string, int](1)
	c.Get("missing")
	c.Put("a", 1)
	c.Get("a")
	c.Get("a")
	c.Put("b", 2)

	want := Stats{Hits: 2, Misses: 1, Evictions: 1}
	if got := c.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestLRU_NeverExceedsCapacity(t *testing.T) {
	const capacity = 5
	c := New[int, int](capacity)
	for i := 0; i < 100; i++ {
		c.Put(i%13, i)
		if c.Len() > capacity {
			t.Fatalf("Len() = %d exceeds capacity %d after %d puts", c.Len(), capacity, i+1)
		}
	}
}

// peek reads key without touching recency or stats.
func peek[K comparable, V any](c *LRU[K, V], key K) (V, bool) {
	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return elem.Value.(*entry[K, V]).value, true
}

// keys lists the cached keys from most to least recently used.
func keys[K comparable, V any](c *LRU[K, V]) []K {
	var out []K
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		out = append(out, elem.Value.(*entry[K, V]).key)
	}
	return out
}
