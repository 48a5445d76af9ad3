package recall

import (
	"context"
	"sort"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/pkg/utils"
	"github.com/rushteam/edukit/vector"
)

// NeighborIndex 是相似召回依赖的近邻索引能力。
// vector.SimilarityIndex 实现此接口；换用外部向量库时实现同样的两个方法即可。
type NeighborIndex interface {
	QueryByContent(contentID string, k int) []vector.Neighbor
	Ready() bool
}

// 元数据兜底打分：同主题基线 70 分，难度完全一致 +20、相邻 +10，类型一致 +10。
const (
	fallbackBaseScore          = 70.0
	fallbackSameDifficulty     = 20.0
	fallbackAdjacentDifficulty = 10.0
	fallbackSameType           = 10.0
)

// SimilarContent 是基于内容 Embedding 的相似召回源。
//
// 降级链路：索引缺失、索引里没有该内容时，退回元数据相似
// （同主题 + 难度/类型加分）。降级对调用方不可见，只体现在
// recall_source 标签上（similar / similar.fallback）。
type SimilarContent struct {
	Index   NeighborIndex
	Catalog core.ContentCatalog

	// TopK 返回 TopK 个相似内容
	TopK int
}

func (r *SimilarContent) Name() string        { return "recall.similar" }
func (r *SimilarContent) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *SimilarContent) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口：从用户进度中选种子内容，再做相似检索。
//
// 种子选择：最近 5 次完成里分数 >= 80 的最新一条；
// 没有高分完成时取最近完成的一条；完全没有完成记录时返回空
// （冷启动由 ColdStart 召回源负责）。
func (r *SimilarContent) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	seed, ok := SelectSeed(rctx.Progress)
	if !ok {
		return nil, nil
	}
	return r.SimilarTo(ctx, seed, r.topK())
}

// SimilarTo 查询与指定内容最相似的 k 个内容。
// 未知内容 ID 返回 NOT_FOUND（类型化失败，不静默替换）。
func (r *SimilarContent) SimilarTo(ctx context.Context, contentID string, k int) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}
	if k <= 0 {
		k = r.topK()
	}

	content, err := r.Catalog.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}

	if r.Index != nil && r.Index.Ready() {
		neighbors := r.Index.QueryByContent(contentID, k)
		if len(neighbors) > 0 {
			return r.buildFromNeighbors(ctx, neighbors), nil
		}
		// 内容不在索引里：和索引缺失一样走元数据兜底
	}

	return r.fallback(ctx, content, k)
}

// buildFromNeighbors 把近邻结果组装为 Item，目录里查不到的邻居直接跳过。
func (r *SimilarContent) buildFromNeighbors(ctx context.Context, neighbors []vector.Neighbor) []*core.Item {
	out := make([]*core.Item, 0, len(neighbors))
	for _, n := range neighbors {
		c, err := r.Catalog.GetContent(ctx, n.ContentID)
		if err != nil {
			continue
		}
		it := core.NewItem(n.ContentID)
		it.Score = n.Similarity
		it.FillContentMeta(c)
		it.PutLabel("recall_source", utils.Label{Value: "similar", Source: "recall"})
		out = append(out, it)
	}
	return out
}

// fallback 是元数据相似兜底：候选为同主题的其他内容。
func (r *SimilarContent) fallback(ctx context.Context, content *core.ContentItem, k int) ([]*core.Item, error) {
	candidates, err := r.Catalog.ListByTopic(ctx, content.TopicID)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == content.ID {
			continue
		}

		score := fallbackBaseScore
		if c.Difficulty == content.Difficulty {
			score += fallbackSameDifficulty
		} else if c.Difficulty.Adjacent(content.Difficulty) {
			score += fallbackAdjacentDifficulty
		}
		if c.Type == content.Type {
			score += fallbackSameType
		}

		it := core.NewItem(c.ID)
		it.Score = score
		it.FillContentMeta(c)
		it.PutLabel("recall_source", utils.Label{Value: "similar.fallback", Source: "recall"})
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (r *SimilarContent) topK() int {
	if r.TopK > 0 {
		return r.TopK
	}
	return 10
}

// SelectSeed 从进度记录里选择相似召回的种子内容。
//
// 规则：按最近交互排序的已完成记录里，取前 5 条中分数 >= 80 的最新一条；
// 都不够 80 分时取最近完成的一条；没有任何完成记录返回 ("", false)。
func SelectSeed(progress []*core.ProgressRecord) (string, bool) {
	completed := make([]*core.ProgressRecord, 0, len(progress))
	for _, p := range progress {
		if p != nil && p.Status.Done() {
			completed = append(completed, p)
		}
	}
	if len(completed) == 0 {
		return "", false
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].LastInteraction.After(completed[j].LastInteraction)
	})

	recent := completed
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for _, p := range recent {
		if p.Score != nil && *p.Score >= 80 {
			return p.ContentID, true
		}
	}
	return completed[0].ContentID, true
}

var _ Source = (*SimilarContent)(nil)
var _ pipeline.Node = (*SimilarContent)(nil)
