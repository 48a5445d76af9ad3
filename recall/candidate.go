package recall

import (
	"context"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/pkg/utils"
)

// CandidatePool 是学习路径的候选池召回源。
//
// 候选范围：
//   - 指定了 topic_id（rctx.Params["topic_id"]）时只取该主题
//   - 未指定时取用户年级下的全部主题（年级未知则全目录）
//
// 已完成的内容在此处直接排除；前置门槛由 filter.Prerequisite 负责。
type CandidatePool struct {
	Catalog core.ContentCatalog
}

func (r *CandidatePool) Name() string        { return "recall.candidates" }
func (r *CandidatePool) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *CandidatePool) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *CandidatePool) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil {
		return nil, nil
	}

	contents, err := r.listScope(ctx, rctx)
	if err != nil {
		return nil, err
	}

	completed := rctx.CompletedSet()
	out := make([]*core.Item, 0, len(contents))
	for _, c := range contents {
		if completed[c.ID] {
			continue
		}
		it := core.NewItem(c.ID)
		it.FillContentMeta(c)
		it.PutLabel("recall_source", utils.Label{Value: "candidates", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// listScope 确定候选内容的范围（主题 > 年级 > 全目录）。
func (r *CandidatePool) listScope(ctx context.Context, rctx *core.RecommendContext) ([]*core.ContentItem, error) {
	if topicID, ok := rctx.Params["topic_id"].(string); ok && topicID != "" {
		return r.Catalog.ListByTopic(ctx, topicID)
	}

	if rctx.Learner != nil && rctx.Learner.GradeLevel > 0 {
		topics, err := r.Catalog.ListTopicsByGrade(ctx, rctx.Learner.GradeLevel)
		if err != nil {
			return nil, err
		}
		topicIDs := make([]string, 0, len(topics))
		for _, t := range topics {
			topicIDs = append(topicIDs, t.ID)
		}
		if len(topicIDs) > 0 {
			return r.Catalog.ListByTopics(ctx, topicIDs)
		}
	}

	return r.Catalog.ListByTopics(ctx, nil)
}

var _ Source = (*CandidatePool)(nil)
var _ pipeline.Node = (*CandidatePool)(nil)
