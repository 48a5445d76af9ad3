package store

import (
	"context"
	"sync"

	"github.com/rushteam/edukit/core"
)

// MemoryCatalog 是内存实现的内容目录，用于测试/开发/原型。
// 加载时统一校验前置关系与主题树（有向无环），坏目录直接拒绝。
type MemoryCatalog struct {
	mu       sync.RWMutex
	contents map[string]*core.ContentItem
	byTopic  map[string][]*core.ContentItem
	topics   map[string]*core.Topic
	byGrade  map[int][]*core.Topic
}

// NewMemoryCatalog 创建目录并做 DAG 校验。
// 前置环/自引用/悬空引用返回 INVALID_INPUT。
func NewMemoryCatalog(topics []*core.Topic, contents []*core.ContentItem) (*MemoryCatalog, error) {
	if err := core.ValidateTopicTree(topics); err != nil {
		return nil, err
	}
	if err := core.ValidatePrerequisites(contents); err != nil {
		return nil, err
	}

	c := &MemoryCatalog{
		contents: make(map[string]*core.ContentItem, len(contents)),
		byTopic:  make(map[string][]*core.ContentItem),
		topics:   make(map[string]*core.Topic, len(topics)),
		byGrade:  make(map[int][]*core.Topic),
	}
	for _, t := range topics {
		c.topics[t.ID] = t
		c.byGrade[t.GradeLevel] = append(c.byGrade[t.GradeLevel], t)
	}
	for _, it := range contents {
		c.contents[it.ID] = it
		c.byTopic[it.TopicID] = append(c.byTopic[it.TopicID], it)
	}
	return c, nil
}

func (c *MemoryCatalog) GetContent(ctx context.Context, contentID string) (*core.ContentItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.contents[contentID]
	if !ok {
		return nil, core.ErrContentNotFound
	}
	return it, nil
}

func (c *MemoryCatalog) ListByTopic(ctx context.Context, topicID string) ([]*core.ContentItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := c.byTopic[topicID]
	out := make([]*core.ContentItem, len(items))
	copy(out, items)
	return out, nil
}

func (c *MemoryCatalog) ListByTopics(ctx context.Context, topicIDs []string) ([]*core.ContentItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// nil 表示全量目录（冷启动兜底用）；空切片表示空集
	if topicIDs == nil {
		out := make([]*core.ContentItem, 0, len(c.contents))
		for _, it := range c.contents {
			out = append(out, it)
		}
		return out, nil
	}

	var out []*core.ContentItem
	for _, tid := range topicIDs {
		out = append(out, c.byTopic[tid]...)
	}
	return out, nil
}

func (c *MemoryCatalog) GetTopic(ctx context.Context, topicID string) (*core.Topic, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.topics[topicID]
	if !ok {
		return nil, core.ErrTopicNotFound
	}
	return t, nil
}

func (c *MemoryCatalog) ListTopicsByGrade(ctx context.Context, gradeLevel int) ([]*core.Topic, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	topics := c.byGrade[gradeLevel]
	out := make([]*core.Topic, len(topics))
	copy(out, topics)
	return out, nil
}

var _ core.ContentCatalog = (*MemoryCatalog)(nil)
