package recall

import (
	"context"
	"sort"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/pkg/utils"
)

// 主题召回打分：基线 75 分 + 交互占比加成（最多 +15）。
const (
	topicBaseScore  = 75.0
	topicCountBonus = 15.0
)

// TopicBased 是基于用户主题兴趣的召回源。
//
// 主题按交互次数排序；每个主题的目标难度由该主题的平均分推导
// （分数越高目标难度越高），只召回该难度下尚未完成的内容。
// 常用于相似召回结果不足时的补位。
type TopicBased struct {
	Catalog core.ContentCatalog

	// TopK 返回 TopK 个内容
	TopK int
}

func (r *TopicBased) Name() string        { return "recall.topic" }
func (r *TopicBased) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *TopicBased) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// topicStats 是单个主题的交互统计。
type topicStats struct {
	topicID    string
	count      int
	scoreSum   float64
	scoreCount int
}

// avgScore 返回主题平均分；无评分记录时返回 (0, false)。
func (s *topicStats) avgScore() (float64, bool) {
	if s.scoreCount == 0 {
		return 0, false
	}
	return s.scoreSum / float64(s.scoreCount), true
}

// TargetDifficulty 由主题平均分推导目标难度。
// 无评分视同低分（beginner 起步）。
func TargetDifficulty(avg float64, hasScores bool) core.DifficultyLevel {
	switch {
	case !hasScores, avg < 60:
		return core.DifficultyBeginner
	case avg < 75:
		return core.DifficultyEasy
	case avg < 90:
		return core.DifficultyMedium
	default:
		return core.DifficultyHard
	}
}

// Recall 实现 Source 接口。
func (r *TopicBased) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || len(rctx.Progress) == 0 {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}

	// 1. 按主题聚合交互统计；目录里查不到的内容跳过（坏数据不整体失败）
	stats := make(map[string]*topicStats)
	for _, p := range rctx.Progress {
		if p == nil {
			continue
		}
		c, err := r.Catalog.GetContent(ctx, p.ContentID)
		if err != nil {
			continue
		}
		s := stats[c.TopicID]
		if s == nil {
			s = &topicStats{topicID: c.TopicID}
			stats[c.TopicID] = s
		}
		s.count++
		if p.Score != nil {
			s.scoreSum += *p.Score
			s.scoreCount++
		}
	}
	if len(stats) == 0 {
		return nil, nil
	}

	// 2. 主题按交互次数降序；记录最大次数用于打分归一
	ordered := make([]*topicStats, 0, len(stats))
	maxCount := 0
	for _, s := range stats {
		ordered = append(ordered, s)
		if s.count > maxCount {
			maxCount = s.count
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		// 交互次数相同按主题 ID 升序，保证补位结果可复现
		return ordered[i].topicID < ordered[j].topicID
	})

	// 3. 逐主题取目标难度下用户未接触过的内容
	// （进行中的内容不再推回给用户，排除全部已交互 ID）
	seen := rctx.SeenSet()
	out := make([]*core.Item, 0, topK)
	for _, s := range ordered {
		avg, hasScores := s.avgScore()
		target := TargetDifficulty(avg, hasScores)

		contents, err := r.Catalog.ListByTopic(ctx, s.topicID)
		if err != nil {
			continue
		}
		for _, c := range contents {
			if c.Difficulty != target || seen[c.ID] {
				continue
			}

			it := core.NewItem(c.ID)
			it.Score = topicBaseScore + float64(s.count)/float64(maxCount)*topicCountBonus
			it.FillContentMeta(c)
			it.PutLabel("recall_source", utils.Label{Value: "topic", Source: "recall"})
			it.PutLabel("reason", utils.Label{Value: "Based on your interests", Source: "recall"})
			out = append(out, it)

			if len(out) >= topK {
				return out, nil
			}
		}
	}
	return out, nil
}

var _ Source = (*TopicBased)(nil)
var _ pipeline.Node = (*TopicBased)(nil)
