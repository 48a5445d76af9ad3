package rank

import (
	"context"
	"math/rand"
	"sort"
	"strconv"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/pkg/utils"
)

// LearnerProfileNode 是基于学习者画像的规则排序 Node。
//
// 打分公式：
//
//	final = (w.Style·style + w.Difficulty·difficulty + w.Topic·topic) × jitter
//
// 其中：
//   - style：学习风格对内容类型的平均偏好（StyleWeights 表）
//   - difficulty：候选难度对该主题历史表现的适配度（DifficultyScore）
//   - topic：恒为 1.0（预留给主题兴趣权重）
//   - jitter：U[0.95, 1.05] 的乘性扰动，避免完全确定性的平分
//
// 扰动源可注入（Rand 字段），测试用固定种子保证确定性。
type LearnerProfileNode struct {
	Catalog core.ContentCatalog
	Weights Weights

	// Rand 是扰动源；为 nil 时使用全局源。
	// 注意 *rand.Rand 非并发安全，多 goroutine 共享时自行加锁或留空。
	Rand *rand.Rand
}

const (
	jitterMin = 0.95
	jitterMax = 1.05
)

func (n *LearnerProfileNode) Name() string        { return "rank.learner_profile" }
func (n *LearnerProfileNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *LearnerProfileNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	weights := n.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}

	var learner *core.LearnerProfile
	if rctx != nil {
		learner = rctx.Learner
	}
	styles := learner.EffectiveStyles()

	// 每个请求只聚合一次主题成绩
	topicPerf := n.aggregateTopicPerformance(ctx, rctx)

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		c, err := n.Catalog.GetContent(ctx, it.ID)
		if err != nil {
			// 目录里查不到的候选跳过，不中断整体排序
			continue
		}

		styleScore := StyleScore(styles, c.Type)

		perf, hasRecords := topicPerf[c.TopicID]
		var avg float64
		hasScores := false
		if hasRecords && perf.scoreCount > 0 {
			avg = perf.scoreSum / float64(perf.scoreCount)
			hasScores = true
		}
		difficultyScore := DifficultyScore(c.Difficulty, avg, hasRecords, hasScores)

		const topicScore = 1.0

		it.Score = (weights.Style*styleScore +
			weights.Difficulty*difficultyScore +
			weights.Topic*topicScore) * n.jitter()
		it.PutLabel("rank_model", utils.Label{Value: "learner_profile", Source: "rank"})
		it.PutLabel("style_score", utils.Label{Value: strconv.FormatFloat(styleScore, 'f', 2, 64), Source: "rank"})
		it.PutLabel("difficulty_score", utils.Label{Value: strconv.FormatFloat(difficultyScore, 'f', 2, 64), Source: "rank"})
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

type topicPerformance struct {
	scoreSum   float64
	scoreCount int
}

// aggregateTopicPerformance 把用户进度按主题聚合（目录查不到的记录跳过）。
func (n *LearnerProfileNode) aggregateTopicPerformance(ctx context.Context, rctx *core.RecommendContext) map[string]topicPerformance {
	out := make(map[string]topicPerformance)
	if rctx == nil {
		return out
	}
	for _, p := range rctx.Progress {
		if p == nil {
			continue
		}
		c, err := n.Catalog.GetContent(ctx, p.ContentID)
		if err != nil {
			continue
		}
		perf := out[c.TopicID]
		if p.Score != nil {
			perf.scoreSum += *p.Score
			perf.scoreCount++
		}
		out[c.TopicID] = perf
	}
	return out
}

func (n *LearnerProfileNode) jitter() float64 {
	if n.Rand != nil {
		return jitterMin + n.Rand.Float64()*(jitterMax-jitterMin)
	}
	return jitterMin + rand.Float64()*(jitterMax-jitterMin)
}

var _ pipeline.Node = (*LearnerProfileNode)(nil)
