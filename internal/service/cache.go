// cache.go — LRU-кэш встреч в терминальном статусе с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
//
// Кэшируются только completed/failed встречи: их содержимое больше
// не меняется обработкой, а именно их чаще всего запрашивает клиентский
// поллер прогресса. Инвалидация — при обновлении и удалении.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/meetnotes/internal/domain/model"
	"github.com/bigkaa/meetnotes/internal/domain/status"
)

// Prometheus-метрики кэша статусов.
var (
	statusCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mn_status_cache_hits_total",
		Help: "Количество попаданий в LRU-кэш терминальных встреч",
	})
	statusCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mn_status_cache_misses_total",
		Help: "Количество промахов LRU-кэша терминальных встреч",
	})
)

// StatusCache — per-instance LRU-кэш встреч в терминальном статусе.
type StatusCache struct {
	cache *expirable.LRU[string, *model.Meeting]
}

// NewStatusCache создаёт кэш с максимальным размером и TTL записи.
func NewStatusCache(maxSize int, ttl time.Duration) *StatusCache {
	return &StatusCache{
		cache: expirable.NewLRU[string, *model.Meeting](maxSize, nil, ttl),
	}
}

// cacheKey — ключ кэша: встречи скоупятся по владельцу.
func cacheKey(ownerID, meetingID string) string {
	return ownerID + "/" + meetingID
}

// Get возвращает встречу из кэша.
// Обновляет Prometheus-метрики hit/miss.
func (c *StatusCache) Get(ownerID, meetingID string) (*model.Meeting, bool) {
	m, ok := c.cache.Get(cacheKey(ownerID, meetingID))
	if ok {
		statusCacheHitsTotal.Inc()
		return m, true
	}
	statusCacheMissesTotal.Inc()
	return nil, false
}

// Set кладёт встречу в кэш, если её статус терминальный.
// Нетерминальные встречи игнорируются: их статус ещё изменится.
func (c *StatusCache) Set(m *model.Meeting) {
	if !status.IsTerminal(status.Status(m.Status)) {
		return
	}
	c.cache.Add(cacheKey(m.OwnerID, m.ID), m)
}

// Invalidate удаляет встречу из кэша (обновление или удаление).
func (c *StatusCache) Invalidate(ownerID, meetingID string) {
	c.cache.Remove(cacheKey(ownerID, meetingID))
}
