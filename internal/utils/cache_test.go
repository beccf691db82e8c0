package utils

import (
	"sync"
	"testing"
	"time"
)

func TestGetCacheConcurrentInit(t *testing.T) {
	caches := make([]*GlobalCache, 16)
	var wg sync.WaitGroup
	for i := range caches {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caches[i] = GetCache()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(caches); i++ {
		if caches[i] != caches[0] {
			t.Fatal("Expected every caller to get the same cache instance")
		}
	}
}

func TestCacheTTL(t *testing.T) {
	c := GetCache()

	c.Set("fresh", "value", time.Minute)
	if got := c.Get("fresh"); got != "value" {
		t.Errorf("Expected cached value, got %v", got)
	}

	c.Set("stale", "value", -time.Second)
	if got := c.Get("stale"); got != nil {
		t.Errorf("Expected expired entry to read as absent, got %v", got)
	}

	c.Delete("fresh")
	if got := c.Get("fresh"); got != nil {
		t.Errorf("Expected deleted entry to be gone, got %v", got)
	}
}
