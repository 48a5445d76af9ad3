package store

import (
	"context"
	"sync"

	"github.com/rushteam/edukit/core"
)

// MemoryLearnerStore 是内存实现的学习者画像存储，用于测试/开发/原型。
// 生产环境由宿主应用的用户服务实现 core.LearnerStore。
type MemoryLearnerStore struct {
	mu       sync.RWMutex
	learners map[string]*core.LearnerProfile
}

func NewMemoryLearnerStore() *MemoryLearnerStore {
	return &MemoryLearnerStore{learners: make(map[string]*core.LearnerProfile)}
}

// PutLearner 写入画像（测试装配用）。
func (s *MemoryLearnerStore) PutLearner(p *core.LearnerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learners[p.UserID] = p
}

func (s *MemoryLearnerStore) GetLearner(ctx context.Context, userID string) (*core.LearnerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.learners[userID]
	if !ok {
		return nil, core.ErrLearnerNotFound
	}
	return p, nil
}

var _ core.LearnerStore = (*MemoryLearnerStore)(nil)
