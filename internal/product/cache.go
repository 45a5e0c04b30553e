package product

import (
	"sync"
	"time"
)

// Cache 수집 결과를 상품 URL 기준으로 보관하는 TTL 캐시입니다.
//
// 백그라운드 정리 고루틴 없이, 조회 시점에 만료 여부를 검사하여 제거하는
// 게으른(lazy) 만료 방식으로 동작합니다. 동일 URL에 대한 동시 수집 요청을
// 하나로 합치는 기능은 없으므로, 캐시가 비어있는 동안에는 중복 수집이
// 발생할 수 있습니다.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry

	// 테스트에서 시간을 고정할 수 있도록 주입 가능하게 한다.
	now func() time.Time
}

type cacheEntry struct {
	product   *Product
	createdAt time.Time
}

// NewCache 지정된 TTL을 갖는 새로운 Cache 인스턴스를 생성합니다.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get 캐시에서 상품을 조회합니다. 항목이 없거나 만료된 경우 false를 반환합니다.
func (c *Cache) Get(url string) (*Product, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.createdAt) >= c.ttl {
		c.mu.Lock()
		// 재검사: RUnlock과 Lock 사이에 같은 키가 갱신되었을 수 있다.
		if current, ok := c.entries[url]; ok && c.now().Sub(current.createdAt) >= c.ttl {
			delete(c.entries, url)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.product, true
}

// Set 수집 결과를 캐시에 저장합니다. 동일 키의 기존 항목은 덮어씁니다.
func (c *Cache) Set(url string, p *Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[url] = cacheEntry{
		product:   p,
		createdAt: c.now(),
	}
}

// Len 만료 여부와 무관하게 현재 보관 중인 항목 수를 반환합니다.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
