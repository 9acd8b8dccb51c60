package diffserver

import "testing"

func TestLRUCacheBasicGetPut(t *testing.T) {
	c := NewLRUCache[string](10)

	if _, ok := c.Get(HashKey([]byte("missing"))); ok {
		t.Error("Get on empty cache should return false")
	}

	keyA := HashKey([]byte("a"))
	keyB := HashKey([]byte("b"))
	c.Put(keyA, "alpha")
	c.Put(keyB, "beta")

	if got, ok := c.Get(keyA); !ok || got != "alpha" {
		t.Errorf("Get(a) = (%q, %v), want (alpha, true)", got, ok)
	}
	if got, ok := c.Get(keyB); !ok || got != "beta" {
		t.Errorf("Get(b) = (%q, %v), want (beta, true)", got, ok)
	}
}

func TestLRUCacheUpdateDoesNotGrow(t *testing.T) {
	c := NewLRUCache[int](5)
	key := HashKey([]byte("x"))
	c.Put(key, 1)
	c.Put(key, 2)

	if c.Len() != 1 {
		t.Errorf("Len() = %d after updating same key, want 1", c.Len())
	}
	got, ok := c.Get(key)
	if !ok || got != 2 {
		t.Errorf("Get = (%d, %v), want (2, true)", got, ok)
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](2)
	k1, k2, k3 := HashKey([]byte("1")), HashKey([]byte("2")), HashKey([]byte("3"))
	c.Put(k1, 1)
	c.Put(k2, 2)
	c.Put(k3, 3) // evicts k1, the least recently used

	if _, ok := c.Get(k1); ok {
		t.Error("k1 should have been evicted")
	}
	if _, ok := c.Get(k2); !ok {
		t.Error("k2 should still be present")
	}
	if _, ok := c.Get(k3); !ok {
		t.Error("k3 should still be present")
	}
}

func TestLRUCacheGetRefreshesRecency(t *testing.T) {
	c := NewLRUCache[int](2)
	k1, k2, k3 := HashKey([]byte("1")), HashKey([]byte("2")), HashKey([]byte("3"))
	c.Put(k1, 1)
	c.Put(k2, 2)
	c.Get(k1) // k1 is now more recently used than k2
	c.Put(k3, 3)

	if _, ok := c.Get(k2); ok {
		t.Error("k2 should have been evicted after k1 was refreshed")
	}
	if _, ok := c.Get(k1); !ok {
		t.Error("k1 should still be present")
	}
}

func TestHashKeyDistinguishesBoundaries(t *testing.T) {
	a := HashKey([]byte("ab"), []byte("c"))
	b := HashKey([]byte("a"), []byte("bc"))
	if a == b {
		t.Error("HashKey should not collide across different part boundaries")
	}
}

func TestLRUCacheClear(t *testing.T) {
	c := NewLRUCache[int](5)
	c.Put(HashKey([]byte("x")), 1)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
}
