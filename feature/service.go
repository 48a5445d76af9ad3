// Package feature 是特征服务的基础设施层：实现 core.FeatureService，
// 提供 Feast 接入、内存实现与本地缓存装饰器。
package feature

import (
	"context"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/feast"
	"github.com/rushteam/edukit/pkg/conv"
)

// FeastService 是基于 Feast Feature Store 的特征服务实现。
//
// 特征引用按 Feast 规范书写（feature_view:feature），例如：
//
//	svc := &feature.FeastService{
//	    Client: client,
//	    LearnerFeatures: []string{"learner_stats:avg_score", "learner_stats:active_days"},
//	    ContentFeatures: []string{"content_stats:completion_rate", "content_stats:avg_score"},
//	}
type FeastService struct {
	Client feast.Client

	// LearnerFeatures / ContentFeatures 是要拉取的特征引用列表
	LearnerFeatures []string
	ContentFeatures []string

	// 实体键，缺省 user_id / content_id
	LearnerEntityKey string
	ContentEntityKey string
}

func (s *FeastService) Name() string { return "feature.feast" }

// GetLearnerFeatures 获取学习者特征。特征服务不可用时返回 ErrFeatureUnavailable，
// 调用方应降级而不是失败。
func (s *FeastService) GetLearnerFeatures(ctx context.Context, userID string) (map[string]float64, error) {
	key := s.LearnerEntityKey
	if key == "" {
		key = "user_id"
	}
	rows, err := s.fetch(ctx, s.LearnerFeatures, []map[string]any{{key: userID}})
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// GetContentFeatures 获取单个内容的统计特征。
func (s *FeastService) GetContentFeatures(ctx context.Context, contentID string) (map[string]float64, error) {
	out, err := s.BatchGetContentFeatures(ctx, []string{contentID})
	if err != nil {
		return nil, err
	}
	return out[contentID], nil
}

// BatchGetContentFeatures 批量获取内容特征（一次网络往返）。
func (s *FeastService) BatchGetContentFeatures(ctx context.Context, contentIDs []string) (map[string]map[string]float64, error) {
	if len(contentIDs) == 0 {
		return map[string]map[string]float64{}, nil
	}
	key := s.ContentEntityKey
	if key == "" {
		key = "content_id"
	}
	entityRows := make([]map[string]any, len(contentIDs))
	for i, id := range contentIDs {
		entityRows[i] = map[string]any{key: id}
	}
	rows, err := s.fetch(ctx, s.ContentFeatures, entityRows)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]float64, len(contentIDs))
	for i, id := range contentIDs {
		out[id] = rows[i]
	}
	return out, nil
}

func (s *FeastService) fetch(ctx context.Context, features []string, entityRows []map[string]any) ([]map[string]float64, error) {
	if s.Client == nil || len(features) == 0 {
		return nil, core.ErrFeatureUnavailable
	}
	resp, err := s.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   features,
		EntityRows: entityRows,
	})
	if err != nil {
		return nil, core.ErrFeatureUnavailable
	}
	out := make([]map[string]float64, len(entityRows))
	for i := range out {
		out[i] = map[string]float64{}
	}
	for i, fv := range resp.FeatureVectors {
		if i >= len(out) {
			break
		}
		out[i] = conv.MapToFloat64(fv.Values)
	}
	return out, nil
}

func (s *FeastService) Close(_ context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Close()
}

var _ core.FeatureService = (*FeastService)(nil)

// MemoryService 是内存特征服务，用于测试与本地示例。
type MemoryService struct {
	Learners map[string]map[string]float64
	Contents map[string]map[string]float64
}

func (s *MemoryService) Name() string { return "feature.memory" }

func (s *MemoryService) GetLearnerFeatures(_ context.Context, userID string) (map[string]float64, error) {
	f, ok := s.Learners[userID]
	if !ok {
		return nil, core.ErrFeatureNotFound
	}
	return f, nil
}

func (s *MemoryService) GetContentFeatures(_ context.Context, contentID string) (map[string]float64, error) {
	f, ok := s.Contents[contentID]
	if !ok {
		return nil, core.ErrFeatureNotFound
	}
	return f, nil
}

func (s *MemoryService) BatchGetContentFeatures(_ context.Context, contentIDs []string) (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64, len(contentIDs))
	for _, id := range contentIDs {
		if f, ok := s.Contents[id]; ok {
			out[id] = f
		}
	}
	return out, nil
}

func (s *MemoryService) Close(_ context.Context) error { return nil }

var _ core.FeatureService = (*MemoryService)(nil)
