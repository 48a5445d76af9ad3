package recall

import (
	"context"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/pkg/utils"
)

// 冷启动的固定相关度：年级匹配 90 分，年级未知时降为 80 分。
const (
	coldStartGradeScore    = 90.0
	coldStartFallbackScore = 80.0
)

// ColdStart 是新用户（尚无完成记录）的召回源：按年级主题筛 beginner 内容。
//
// 年级未知时退化为全目录 beginner 内容（分数降档），
// 推荐理由直接面向用户展示。
type ColdStart struct {
	Catalog core.ContentCatalog

	// TopK 返回 TopK 个内容
	TopK int
}

func (r *ColdStart) Name() string        { return "recall.coldstart" }
func (r *ColdStart) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *ColdStart) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
// 已有可用相似种子（存在完成记录）的用户直接返回空，避免与个性化召回重叠；
// 只有进行中记录、尚无任何完成的用户仍按新用户处理。
func (r *ColdStart) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil {
		return nil, nil
	}
	if _, ok := SelectSeed(rctx.Progress); ok {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}

	if rctx.Learner != nil && rctx.Learner.GradeLevel > 0 {
		items, err := r.gradeScoped(ctx, rctx.Learner.GradeLevel, topK)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			return items, nil
		}
		// 该年级没有 beginner 内容时退化为全目录兜底
	}

	return r.anyBeginner(ctx, topK)
}

// gradeScoped 在用户年级的主题下筛 beginner 内容。
func (r *ColdStart) gradeScoped(ctx context.Context, grade, topK int) ([]*core.Item, error) {
	topics, err := r.Catalog.ListTopicsByGrade(ctx, grade)
	if err != nil {
		return nil, err
	}
	topicIDs := make([]string, 0, len(topics))
	for _, t := range topics {
		topicIDs = append(topicIDs, t.ID)
	}

	contents, err := r.Catalog.ListByTopics(ctx, topicIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, topK)
	for _, c := range contents {
		if c.Difficulty != core.DifficultyBeginner {
			continue
		}
		it := core.NewItem(c.ID)
		it.Score = coldStartGradeScore
		it.FillContentMeta(c)
		it.PutLabel("recall_source", utils.Label{Value: "coldstart", Source: "recall"})
		it.PutLabel("reason", utils.Label{Value: "Grade-appropriate introduction", Source: "recall"})
		out = append(out, it)
		if len(out) >= topK {
			break
		}
	}
	return out, nil
}

// anyBeginner 是年级未知时的兜底：全目录 beginner 内容。
// 目录接口不提供全量遍历，这里以 0 年级主题 + 已知主题的并集近似；
// 宿主目录实现可以通过 ListByTopics(nil) 返回全量内容来支持这条路径。
func (r *ColdStart) anyBeginner(ctx context.Context, topK int) ([]*core.Item, error) {
	contents, err := r.Catalog.ListByTopics(ctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, topK)
	for _, c := range contents {
		if c.Difficulty != core.DifficultyBeginner {
			continue
		}
		it := core.NewItem(c.ID)
		it.Score = coldStartFallbackScore
		it.FillContentMeta(c)
		it.PutLabel("recall_source", utils.Label{Value: "coldstart", Source: "recall"})
		it.PutLabel("reason", utils.Label{Value: "Beginner-friendly content", Source: "recall"})
		out = append(out, it)
		if len(out) >= topK {
			break
		}
	}
	return out, nil
}

var _ Source = (*ColdStart)(nil)
var _ pipeline.Node = (*ColdStart)(nil)
