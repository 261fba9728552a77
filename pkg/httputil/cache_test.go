package httputil

import (
	"errors"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	want := cachedResponse{ETag: `"v1"`, Body: []byte(`[{"id":1}]`)}
	if err := c.Set("https://example.com/a.json", want); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var got cachedResponse
	ok, err := c.Get("https://example.com/a.json", &got)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}
	if got.ETag != want.ETag || string(got.Body) != string(want.Body) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result string
	ok, err := c.Get("missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_ExpiredStillDecodes(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 10*time.Millisecond)

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	var res string
	ok, err := c.Get("key", &res)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("got error %v, want ErrExpired", err)
	}
	if !ok || res != "value" {
		t.Errorf("stale Get() = %v, %q; want true, value", ok, res)
	}
}

func TestCache_KeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	p1 := c.keyPath("test")
	p2 := c.keyPath("test")
	if p1 != p2 {
		t.Error("path should be deterministic")
	}
	p3 := c.keyPath("other")
	if p1 == p3 {
		t.Error("different keys should produce different paths")
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	t.Run("basicNamespacing", func(t *testing.T) {
		prod := c.Namespace("prod:")
		staging := c.Namespace("staging:")

		if err := prod.Set("items", "prod-data"); err != nil {
			t.Fatalf("prod.Set() failed: %v", err)
		}
		if err := staging.Set("items", "staging-data"); err != nil {
			t.Fatalf("staging.Set() failed: %v", err)
		}

		var prodVal, stagingVal string
		if ok, err := prod.Get("items", &prodVal); !ok || err != nil {
			t.Fatalf("prod.Get() = %v, %v; want true, nil", ok, err)
		}
		if ok, err := staging.Get("items", &stagingVal); !ok || err != nil {
			t.Fatalf("staging.Get() = %v, %v; want true, nil", ok, err)
		}
		if prodVal != "prod-data" || stagingVal != "staging-data" {
			t.Errorf("got %q, %q", prodVal, stagingVal)
		}
	})

	t.Run("chainedNamespacing", func(t *testing.T) {
		outer := c.Namespace("a:")
		inner := outer.Namespace("b:")

		if err := inner.Set("test", "value"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}

		var result string
		ok, err := inner.Get("test", &result)
		if !ok || err != nil || result != "value" {
			t.Errorf("Get() = %v, %v, %q; want true, nil, %q", ok, err, result, "value")
		}

		if found, _ := outer.Get("test", &result); found {
			t.Error("value accessible without full namespace chain")
		}
	})

	t.Run("preservesDirAndTTL", func(t *testing.T) {
		ns := c.Namespace("test:")
		if ns.Dir() != c.Dir() {
			t.Errorf("Dir() = %s, want %s", ns.Dir(), c.Dir())
		}
		if ns.TTL() != c.TTL() {
			t.Errorf("TTL() = %v, want %v", ns.TTL(), c.TTL())
		}
	})
}
