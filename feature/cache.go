package feature

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/edukit/core"
)

// CachedService 是特征服务的本地缓存装饰器。
// 在线推荐对特征的读远多于特征的变化频率，短 TTL 的本地缓存
// 可以大幅减少对远程特征服务的往返。
type CachedService struct {
	Inner core.FeatureService
	TTL   time.Duration

	mu       sync.RWMutex
	learners map[string]cacheEntry
	contents map[string]cacheEntry
	once     sync.Once
}

type cacheEntry struct {
	features map[string]float64
	expireAt time.Time
}

const defaultCacheTTL = 5 * time.Minute

func (s *CachedService) init() {
	s.once.Do(func() {
		s.learners = make(map[string]cacheEntry)
		s.contents = make(map[string]cacheEntry)
		if s.TTL <= 0 {
			s.TTL = defaultCacheTTL
		}
	})
}

func (s *CachedService) Name() string { return "feature.cached(" + s.Inner.Name() + ")" }

func (s *CachedService) GetLearnerFeatures(ctx context.Context, userID string) (map[string]float64, error) {
	s.init()
	if f, ok := s.lookup(s.learners, userID); ok {
		return f, nil
	}
	f, err := s.Inner.GetLearnerFeatures(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.put(s.learners, userID, f)
	return f, nil
}

func (s *CachedService) GetContentFeatures(ctx context.Context, contentID string) (map[string]float64, error) {
	s.init()
	if f, ok := s.lookup(s.contents, contentID); ok {
		return f, nil
	}
	f, err := s.Inner.GetContentFeatures(ctx, contentID)
	if err != nil {
		return nil, err
	}
	s.put(s.contents, contentID, f)
	return f, nil
}

// BatchGetContentFeatures 先查缓存，只向下游拉取缺失的 ID。
func (s *CachedService) BatchGetContentFeatures(ctx context.Context, contentIDs []string) (map[string]map[string]float64, error) {
	s.init()

	out := make(map[string]map[string]float64, len(contentIDs))
	missing := make([]string, 0, len(contentIDs))
	for _, id := range contentIDs {
		if f, ok := s.lookup(s.contents, id); ok {
			out[id] = f
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := s.Inner.BatchGetContentFeatures(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, f := range fetched {
		s.put(s.contents, id, f)
		out[id] = f
	}
	return out, nil
}

func (s *CachedService) Close(ctx context.Context) error {
	return s.Inner.Close(ctx)
}

func (s *CachedService) lookup(cache map[string]cacheEntry, key string) (map[string]float64, bool) {
	s.mu.RLock()
	entry, ok := cache[key]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expireAt) {
		return nil, false
	}
	return entry.features, true
}

func (s *CachedService) put(cache map[string]cacheEntry, key string, features map[string]float64) {
	s.mu.Lock()
	cache[key] = cacheEntry{features: features, expireAt: time.Now().Add(s.TTL)}
	s.mu.Unlock()
}

var _ core.FeatureService = (*CachedService)(nil)
