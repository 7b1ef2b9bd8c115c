package internal

import (
	"testing"
)

func TestCacheStoreLoad(t *testing.T) {
	cache := NewCache[string, int](10)

	cache.Store("a", 1)

	value, ok := cache.Load("a")
	if !ok {
		t.Errorf("Expected ok, but got %v", ok)
	}

	if value != 1 {
		t.Errorf("Expected %v, but got %v", 1, value)
	}

	_, ok = cache.Load("b")
	if ok {
		t.Errorf("Expected missing key, but got %v", ok)
	}
}

func TestCacheZeroValue(t *testing.T) {
	var cache Cache[string, int]

	value, ok := cache.Load("a")
	if ok || value != 0 {
		t.Errorf("Expected zero value, but got %v %v", value, ok)
	}

	cache.Delete("a")
	cache.Clear()
	cache.Range(func(key string, value int) bool { return false })

	if cache.Count() != 0 {
		t.Errorf("Expected 0, but got %v", cache.Count())
	}

	_, ok = cache.Update("a", func(value int) int { return value })
	if ok {
		t.Errorf("Expected no update, but got %v", ok)
	}
}

func TestCacheDelete(t *testing.T) {
	cache := NewCache[string, int](10)

	cache.Store("a", 1)
	cache.Delete("a")

	_, ok := cache.Load("a")
	if ok {
		t.Errorf("Expected deleted key, but got %v", ok)
	}
}

func TestCacheCountClear(t *testing.T) {
	cache := NewCache[string, int](10)

	cache.Store("a", 1)
	cache.Store("b", 2)

	if cache.Count() != 2 {
		t.Errorf("Expected %v, but got %v", 2, cache.Count())
	}

	cache.Clear()

	if cache.Count() != 0 {
		t.Errorf("Expected %v, but got %v", 0, cache.Count())
	}
}

func TestCacheSetIfAbsent(t *testing.T) {
	cache := NewCache[string, int](10)

	cache.SetIfAbsent("a", 1)
	cache.SetIfAbsent("a", 2)

	value, _ := cache.Load("a")
	if value != 1 {
		t.Errorf("Expected %v, but got %v", 1, value)
	}
}

func TestCacheUpdate(t *testing.T) {
	cache := NewCache[string, int](10)

	cache.Store("a", 1)

	value, ok := cache.Update("a", func(value int) int { return value + 10 })
	if !ok {
		t.Errorf("Expected ok, but got %v", ok)
	}

	if value != 11 {
		t.Errorf("Expected %v, but got %v", 11, value)
	}

	stored, _ := cache.Load("a")
	if stored != 11 {
		t.Errorf("Expected %v, but got %v", 11, stored)
	}

	called := false

	_, ok = cache.Update("b", func(value int) int {
		called = true

		return value
	})

	if ok || called {
		t.Errorf("Expected no update on missing key, but got %v %v", ok, called)
	}
}

func TestCacheRangeStops(t *testing.T) {
	cache := NewCache[string, int](10)

	cache.Store("a", 1)
	cache.Store("b", 2)
	cache.Store("c", 3)

	visited := 0

	cache.Range(func(key string, value int) bool {
		visited++

		return true
	})

	if visited != 1 {
		t.Errorf("Expected %v, but got %v", 1, visited)
	}
}

func TestDoubleCacheStoreLoad(t *testing.T) {
	cache := NewDoubleCache[int, string, int](10, 10)

	cache.Store(1, "a", 100)

	value, ok := cache.Load(1, "a")
	if !ok {
		t.Errorf("Expected ok, but got %v", ok)
	}

	if value != 100 {
		t.Errorf("Expected %v, but got %v", 100, value)
	}

	_, ok = cache.Load(1, "b")
	if ok {
		t.Errorf("Expected missing sub key, but got %v", ok)
	}

	_, ok = cache.Load(2, "a")
	if ok {
		t.Errorf("Expected missing key, but got %v", ok)
	}
}

func TestDoubleCacheCounts(t *testing.T) {
	cache := NewDoubleCache[int, string, int](10, 10)

	cache.Store(1, "a", 100)
	cache.Store(1, "b", 200)
	cache.Store(2, "a", 300)

	if cache.Count(1) != 2 {
		t.Errorf("Expected %v, but got %v", 2, cache.Count(1))
	}

	if cache.Count(3) != 0 {
		t.Errorf("Expected %v, but got %v", 0, cache.Count(3))
	}

	if cache.TotalCount() != 3 {
		t.Errorf("Expected %v, but got %v", 3, cache.TotalCount())
	}
}

func TestDoubleCacheDelete(t *testing.T) {
	cache := NewDoubleCache[int, string, int](10, 10)

	cache.Store(1, "a", 100)
	cache.Store(1, "b", 200)

	cache.Delete(1, "a")

	_, ok := cache.Load(1, "a")
	if ok {
		t.Errorf("Expected deleted sub key, but got %v", ok)
	}

	if cache.Count(1) != 1 {
		t.Errorf("Expected %v, but got %v", 1, cache.Count(1))
	}

	cache.Delete(3, "a")
}

func TestDoubleCacheClearKey(t *testing.T) {
	cache := NewDoubleCache[int, string, int](10, 10)

	cache.Store(1, "a", 100)
	cache.Store(2, "a", 200)

	cache.ClearKey(1)

	if cache.Count(1) != 0 {
		t.Errorf("Expected %v, but got %v", 0, cache.Count(1))
	}

	if cache.TotalCount() != 1 {
		t.Errorf("Expected %v, but got %v", 1, cache.TotalCount())
	}
}

func TestDoubleCacheUpdate(t *testing.T) {
	cache := NewDoubleCache[int, string, int](10, 10)

	cache.Store(1, "a", 100)

	value, ok := cache.Update(1, "a", func(value int) int { return value + 1 })
	if !ok {
		t.Errorf("Expected ok, but got %v", ok)
	}

	if value != 101 {
		t.Errorf("Expected %v, but got %v", 101, value)
	}

	_, ok = cache.Update(2, "a", func(value int) int { return value })
	if ok {
		t.Errorf("Expected no update on missing key, but got %v", ok)
	}
}

func TestDoubleCacheInner(t *testing.T) {
	cache := NewDoubleCache[int, string, int](10, 10)

	cache.Store(1, "a", 100)

	inner, ok := cache.Inner(1)
	if !ok {
		t.Errorf("Expected ok, but got %v", ok)
	}

	value, _ := inner.Load("a")
	if value != 100 {
		t.Errorf("Expected %v, but got %v", 100, value)
	}

	_, ok = cache.Inner(2)
	if ok {
		t.Errorf("Expected missing key, but got %v", ok)
	}
}
