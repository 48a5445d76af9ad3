// Package path 实现学习路径生成：每次请求选出"下一个该学什么"的唯一内容。
//
// 决策优先级：
//  1. 进行中的内容优先续学（resume-in-place，不再参与打分）
//  2. 否则候选池 → 前置门槛 → 画像打分，取最高分
//  3. 候选池为空返回 (nil, nil)，表示"暂无合适内容"，不是错误
package path

import (
	"context"
	"math/rand"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/filter"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/rank"
	"github.com/rushteam/edukit/recall"
	"github.com/rushteam/edukit/rerank"
)

// Generator 是学习路径门面。
type Generator struct {
	Catalog  core.ContentCatalog
	Learners core.LearnerStore
	Progress core.ProgressStore

	// Weights 为零值时使用 rank.DefaultWeights()
	Weights rank.Weights

	// Rand 是打分扰动源；为 nil 时使用全局源（测试注入固定种子）
	Rand *rand.Rand
}

// Next 选出用户的下一个学习内容。topicID 非空时限定在该主题内。
// 未知用户返回 NOT_FOUND；没有合适内容返回 (nil, nil)。
func (g *Generator) Next(ctx context.Context, userID, topicID string) (*core.Recommendation, error) {
	learner, err := g.Learners.GetLearner(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress, err := g.Progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 进行中的内容优先续学
	if rec, ok, err := g.resume(ctx, progress); err != nil {
		return nil, err
	} else if ok {
		return rec, nil
	}

	rctx := &core.RecommendContext{
		UserID:   userID,
		Scene:    "learning_path",
		Learner:  learner,
		Progress: progress,
		Params:   map[string]any{},
	}
	if topicID != "" {
		rctx.Params["topic_id"] = topicID
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.CandidatePool{Catalog: g.Catalog},
			&filter.PrerequisiteNode{Catalog: g.Catalog},
			&rank.LearnerProfileNode{Catalog: g.Catalog, Weights: g.Weights, Rand: g.Rand},
			&rerank.TopNNode{N: 1},
		},
	}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	rec := items[0].ToRecommendation()
	return &rec, nil
}

// resume 返回第一条进行中的内容；目录里查不到的进行中记录跳过。
func (g *Generator) resume(ctx context.Context, progress []*core.ProgressRecord) (*core.Recommendation, bool, error) {
	for _, p := range progress {
		if p == nil || p.Status != core.StatusInProgress {
			continue
		}
		c, err := g.Catalog.GetContent(ctx, p.ContentID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, false, err
		}

		return &core.Recommendation{
			ContentID:   c.ID,
			Title:       c.Title,
			ContentType: c.Type,
			Difficulty:  c.Difficulty,
			Reason:      "Continue where you left off",
		}, true, nil
	}
	return nil, false, nil
}
