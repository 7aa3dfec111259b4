package s2k

import "testing"

func TestCacheHitAvoidsRecompute(t *testing.T) {
	c := NewCache()
	salt := [8]byte{1, 1, 1, 1, 1, 1, 1, 1}
	params := NewIteratedSalted(8, salt, 80)

	k1, err := c.GetDerivedKeyOrElseCompute([]byte("pw"), params, 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.derived) != 1 {
		t.Fatalf("expected one cache entry, got %d", len(c.derived))
	}

	k2, err := c.GetDerivedKeyOrElseCompute([]byte("pw"), params, 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	if &k1[0] != &k2[0] {
		t.Error("expected the cached slice to be returned, not a freshly derived one")
	}
}

func TestCacheDistinguishesKeyLength(t *testing.T) {
	c := NewCache()
	salt := [8]byte{2, 2, 2, 2, 2, 2, 2, 2}
	params := NewIteratedSalted(8, salt, 80)

	if _, err := c.GetDerivedKeyOrElseCompute([]byte("pw"), params, 16, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetDerivedKeyOrElseCompute([]byte("pw"), params, 32, nil); err != nil {
		t.Fatal(err)
	}
	if len(c.derived) != 2 {
		t.Fatalf("expected two cache entries for distinct key lengths, got %d", len(c.derived))
	}
}

func TestCacheReset(t *testing.T) {
	c := NewCache()
	params := NewSimple(2)
	if _, err := c.GetDerivedKeyOrElseCompute([]byte("pw"), params, 16, nil); err != nil {
		t.Fatal(err)
	}
	c.Reset()
	if len(c.derived) != 0 {
		t.Error("expected Reset to empty the cache")
	}
}
