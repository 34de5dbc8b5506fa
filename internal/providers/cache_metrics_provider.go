package providers

import (
	"strings"

	"babylog/internal/structures"
)

// InstrumentedCache counts hits and misses per cached view. Response cache
// keys have the form "<view>:<revision>", where the view is "export" or
// "list:<collection>".
type InstrumentedCache struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

// cacheKind strips the trailing revision from a cache key so every revision
// of a view lands on the same label.
func cacheKind(key string) string {
	if i := strings.LastIndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

func (c *InstrumentedCache) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits(cacheKind(key))
	} else {
		c.metrics.IncCacheMisses(cacheKind(key))
	}
	return val, ok
}

func (c *InstrumentedCache) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// NewInstrumentedCacheProvider returns the response cache. A disabled cache
// is never wrapped: every lookup would count as a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, disabled := inner.(*noopCache); disabled {
		return inner
	}
	return &InstrumentedCache{inner: inner, metrics: metrics}
}
