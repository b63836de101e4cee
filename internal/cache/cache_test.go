package cache

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

type coordKey struct {
	ni, nj  int
	element int
}

func TestGetOrCreate_ComputesOnce(t *testing.T) {
	c := New[coordKey, []float64](0)
	var calls int
	create := func() ([]float64, error) {
		calls++
		return []float64{1, 2, 3}, nil
	}

	key := coordKey{ni: 10, nj: 5}
	first, err := c.GetOrCreate(key, create)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	second, err := c.GetOrCreate(key, create)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
	if &first[0] != &second[0] {
		t.Error("second lookup should return the memoized slice")
	}
}

func TestGetOrCreate_DistinctKeys(t *testing.T) {
	c := New[coordKey, int](0)
	a, _ := c.GetOrCreate(coordKey{ni: 1}, func() (int, error) { return 1, nil })
	b, _ := c.GetOrCreate(coordKey{ni: 1, element: 1}, func() (int, error) { return 2, nil })
	if a != 1 || b != 2 {
		t.Errorf("got (%d, %d), want (1, 2)", a, b)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestGetOrCreate_ErrorNotStored(t *testing.T) {
	c := New[string, int](0)
	errBoom := errors.New("boom")

	if _, err := c.GetOrCreate("k", func() (int, error) { return 0, errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("GetOrCreate() error = %v, want %v", err, errBoom)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("failed create should not populate the cache")
	}

	v, err := c.GetOrCreate("k", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Errorf("GetOrCreate() = (%d, %v), want (7, nil)", v, err)
	}
}

func TestSoftLimitEviction(t *testing.T) {
	c := New[string, int](8)
	for i := 0; i < 20; i++ {
		_, _ = c.GetOrCreate(strconv.Itoa(i), func() (int, error) { return i, nil })
	}
	if c.Len() > 8 {
		t.Errorf("Len() = %d, want <= 8", c.Len())
	}
	// Most recent entry must survive eviction.
	if _, ok := c.Get("19"); !ok {
		t.Error("most recent entry was evicted")
	}
}

func TestStats(t *testing.T) {
	c := New[string, int](0)
	_, _ = c.GetOrCreate("a", func() (int, error) { return 1, nil })
	_, _ = c.GetOrCreate("a", func() (int, error) { return 1, nil })
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 2 {
		t.Errorf("Stats() hits=%d misses=%d, want 1 and 2", s.Hits, s.Misses)
	}
	if s.HitRate < 0.33 || s.HitRate > 0.34 {
		t.Errorf("HitRate = %v, want ~0.333", s.HitRate)
	}
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	c := New[int, int](0)
	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.GetOrCreate(42, func() (int, error) {
				calls.Add(1)
				return 42, nil
			})
		}()
	}
	wg.Wait()
	if calls.Load() != 1 {
		t.Errorf("create called %d times under contention, want 1", calls.Load())
	}
}

func BenchmarkGetOrCreateHit(b *testing.B) {
	c := New[coordKey, int](0)
	key := coordKey{ni: 100, nj: 100}
	_, _ = c.GetOrCreate(key, func() (int, error) { return 1, nil })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.GetOrCreate(key, func() (int, error) { return 1, nil })
	}
}
