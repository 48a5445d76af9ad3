// Package recommend 对外暴露个性化推荐入口：
// 相似内容查询（SimilarTo）与个性化推荐列表（ForUser）。
//
// 召回策略组合在 recall 包里，本包只负责编排与结果组装，
// 不落任何副作用（目录与进度均为只读）。
package recommend

import (
	"context"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/recall"
)

const defaultLimit = 10

// Recommender 是内容推荐门面。
//
// 决策链路：
//  1. 无完成记录（零历史或只有进行中）→ 冷启动召回（年级内 beginner 内容）
//  2. 有完成记录 → 种子相似召回（limit×2 取回后剔除已见内容）
//  3. 数量不足 → 主题兴趣召回补足（跳过已选与已交互 ID）
type Recommender struct {
	catalog  core.ContentCatalog
	learners core.LearnerStore
	progress core.ProgressStore

	similar *recall.SimilarContent
}

// NewRecommender 组装推荐门面。index 可为 nil，此时相似召回全部走元数据兜底。
func NewRecommender(
	catalog core.ContentCatalog,
	learners core.LearnerStore,
	progress core.ProgressStore,
	index recall.NeighborIndex,
) *Recommender {
	return &Recommender{
		catalog:  catalog,
		learners: learners,
		progress: progress,
		similar:  &recall.SimilarContent{Index: index, Catalog: catalog},
	}
}

// SimilarTo 返回与指定内容最相似的 k 条推荐。
// 未知内容 ID 返回 NOT_FOUND。
func (r *Recommender) SimilarTo(ctx context.Context, contentID string, k int) ([]core.Recommendation, error) {
	if k <= 0 {
		k = defaultLimit
	}
	items, err := r.similar.SimilarTo(ctx, contentID, k)
	if err != nil {
		return nil, err
	}
	return toRecommendations(items), nil
}

// ForUser 返回用户的个性化推荐列表。
// 未知用户返回 NOT_FOUND；尚无完成记录的用户走冷启动。
func (r *Recommender) ForUser(ctx context.Context, userID string, limit int) ([]core.Recommendation, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	learner, err := r.learners.GetLearner(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress, err := r.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{
		UserID:   userID,
		Scene:    "recommend",
		Learner:  learner,
		Progress: progress,
	}

	// 没有可用种子（零历史或尚无完成记录）：按新用户冷启动
	seed, ok := recall.SelectSeed(progress)
	if !ok {
		cold := &recall.ColdStart{Catalog: r.catalog, TopK: limit}
		items, err := cold.Recall(ctx, rctx)
		if err != nil {
			return nil, err
		}
		return toRecommendations(items), nil
	}

	// 种子相似召回：多取一倍再剔除已见内容
	items, err := r.similar.SimilarTo(ctx, seed, limit*2)
	if err != nil {
		return nil, err
	}

	seen := rctx.SeenSet()
	picked := make([]*core.Item, 0, limit)
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		picked = append(picked, it)
		if len(picked) >= limit {
			break
		}
	}

	if len(picked) >= limit {
		return toRecommendations(picked), nil
	}
	return r.backfill(ctx, rctx, picked, limit)
}

// backfill 用主题兴趣召回补足结果（跳过已选 ID），最多补到 limit。
func (r *Recommender) backfill(
	ctx context.Context,
	rctx *core.RecommendContext,
	picked []*core.Item,
	limit int,
) ([]core.Recommendation, error) {
	topic := &recall.TopicBased{Catalog: r.catalog, TopK: limit}
	extra, err := topic.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}

	chosen := make(map[string]bool, len(picked))
	for _, it := range picked {
		chosen[it.ID] = true
	}
	for _, it := range extra {
		if chosen[it.ID] {
			continue
		}
		chosen[it.ID] = true
		picked = append(picked, it)
		if len(picked) >= limit {
			break
		}
	}
	return toRecommendations(picked), nil
}

func toRecommendations(items []*core.Item) []core.Recommendation {
	out := make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, it.ToRecommendation())
	}
	return out
}
