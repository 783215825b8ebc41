package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/crosswiki/internal/model"
)

// ReportCache is the typed wrapper storing analysis payloads by content
// hash. A nil ReportCache is a no-op, so callers never branch on whether
// caching is enabled.
type ReportCache struct {
	store Cache
	ttl   time.Duration
}

func NewReportCache(store Cache, ttl time.Duration) *ReportCache {
	return &ReportCache{store: store, ttl: ttl}
}

// Get returns the cached payload for a content hash, or nil on miss or
// decode failure. A corrupt entry is treated as a miss, never an error.
func (r *ReportCache) Get(contentHash string) *model.AnalysisPayload {
	if r == nil || r.store == nil {
		return nil
	}
	data, found := r.store.Get(Key(contentHash))
	if !found {
		return nil
	}
	var payload model.AnalysisPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		_ = r.store.Delete(Key(contentHash))
		return nil
	}
	return &payload
}

func (r *ReportCache) Put(contentHash string, payload *model.AnalysisPayload) error {
	if r == nil || r.store == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return r.store.Set(Key(contentHash), data, r.ttl)
}
