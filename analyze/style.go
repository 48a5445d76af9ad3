package analyze

import (
	"context"
	"sort"

	"github.com/rushteam/edukit/core"
)

// performanceStyleMap 把内容类型映射到"在该类型上成绩好/差"所指示的学习风格。
// 与 engagementStyleMap 刻意不同：成绩反映认知匹配，投入度反映体验偏好。
var performanceStyleMap = map[core.ContentType][]core.LearningStyle{
	core.ContentTypeConcept:    {core.StyleReadingWriting, core.StyleLogical},
	core.ContentTypeExample:    {core.StyleVisual, core.StyleLogical},
	core.ContentTypeExercise:   {core.StyleKinesthetic, core.StyleReadingWriting},
	core.ContentTypeGame:       {core.StyleKinesthetic, core.StyleVisual, core.StyleSocial},
	core.ContentTypeQuiz:       {core.StyleLogical, core.StyleSolitary},
	core.ContentTypeAssessment: {core.StyleLogical, core.StyleSolitary},
}

// engagementStyleMap 把内容类型映射到"在该类型上投入度高/低"所指示的学习风格。
var engagementStyleMap = map[core.ContentType][]core.LearningStyle{
	core.ContentTypeConcept:    {core.StyleAuditory, core.StyleReadingWriting},
	core.ContentTypeExample:    {core.StyleVisual, core.StyleAuditory},
	core.ContentTypeExercise:   {core.StyleKinesthetic, core.StyleLogical},
	core.ContentTypeGame:       {core.StyleKinesthetic, core.StyleSocial},
	core.ContentTypeQuiz:       {core.StyleReadingWriting, core.StyleSolitary},
	core.ContentTypeAssessment: {core.StyleLogical, core.StyleSolitary},
}

// 成绩/投入度两轮调整的固定参数
const (
	performanceBoost     = 0.2
	performanceBoostMin  = 70.0 // Top-2 类型均分 >= 70 才加权
	performancePenalty   = 0.1
	performancePenaltyAt = 60.0 // Bottom-2 类型均分 <= 60 才减权

	engagementBoost     = 0.15
	engagementBoostMin  = 0.6
	engagementPenalty   = 0.05
	engagementPenaltyAt = 0.4

	affinityFloor = 0.1
)

// StyleDetector 从交互历史推断学习风格亲和度。
//
// 算法：从均匀基线（0.5）出发，先按"内容类型 × 成绩"调整一轮，
// 再按"内容类型 × 投入度"调整一轮，最后归一化到总和 = 类别数。
// 两轮使用不同的类型→风格映射表。
type StyleDetector struct {
	Catalog  core.ContentCatalog
	Learners core.LearnerStore
	Progress core.ProgressStore
}

// Detect 返回用户的学习风格亲和度。
// 未知用户返回 NOT_FOUND；零历史用户返回均匀分布（仍做归一化）。
func (d *StyleDetector) Detect(ctx context.Context, userID string) (core.StyleAffinities, error) {
	if _, err := d.Learners.GetLearner(ctx, userID); err != nil {
		return nil, err
	}
	progress, err := d.Progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	affinities := core.UniformAffinities()
	if len(progress) == 0 {
		affinities.Normalize()
		return affinities, nil
	}

	scoreByType, engagementByType := d.aggregateByType(ctx, progress)
	applyPerformancePass(affinities, scoreByType)
	applyEngagementPass(affinities, engagementByType)

	affinities.Normalize()
	return affinities, nil
}

// aggregateByType 按内容类型聚合成绩均值与投入度均值。
// 目录里查不到的记录跳过；无成绩/无投入度的记录不计入对应聚合。
func (d *StyleDetector) aggregateByType(
	ctx context.Context,
	progress []*core.ProgressRecord,
) (scoreByType, engagementByType map[core.ContentType]float64) {
	type agg struct {
		sum   float64
		count int
	}
	scores := make(map[core.ContentType]*agg)
	engagements := make(map[core.ContentType]*agg)

	for _, p := range progress {
		if p == nil {
			continue
		}
		c, err := d.Catalog.GetContent(ctx, p.ContentID)
		if err != nil {
			continue
		}
		if p.Score != nil {
			a := scores[c.Type]
			if a == nil {
				a = &agg{}
				scores[c.Type] = a
			}
			a.sum += *p.Score
			a.count++
		}
		if p.EngagementScore != nil {
			a := engagements[c.Type]
			if a == nil {
				a = &agg{}
				engagements[c.Type] = a
			}
			a.sum += *p.EngagementScore
			a.count++
		}
	}

	scoreByType = make(map[core.ContentType]float64, len(scores))
	for ct, a := range scores {
		scoreByType[ct] = a.sum / float64(a.count)
	}
	engagementByType = make(map[core.ContentType]float64, len(engagements))
	for ct, a := range engagements {
		engagementByType[ct] = a.sum / float64(a.count)
	}
	return scoreByType, engagementByType
}

// typeAverage 是 (内容类型, 均值) 的有序视图。
type typeAverage struct {
	contentType core.ContentType
	avg         float64
}

// sortByAverage 按均值降序（同分按类型名升序，保证输出确定）。
func sortByAverage(byType map[core.ContentType]float64) []typeAverage {
	out := make([]typeAverage, 0, len(byType))
	for ct, avg := range byType {
		out = append(out, typeAverage{contentType: ct, avg: avg})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].avg != out[j].avg {
			return out[i].avg > out[j].avg
		}
		return out[i].contentType < out[j].contentType
	})
	return out
}

// applyPerformancePass 按成绩调整：Top-2 类型均分 >= 70 的，其映射风格 +0.2；
// Bottom-2 类型均分 <= 60 的，其映射风格 -0.1（下限 0.1）。
func applyPerformancePass(affinities core.StyleAffinities, scoreByType map[core.ContentType]float64) {
	ordered := sortByAverage(scoreByType)
	if len(ordered) == 0 {
		return
	}

	top := ordered
	if len(top) > 2 {
		top = top[:2]
	}
	for _, t := range top {
		if t.avg < performanceBoostMin {
			continue
		}
		for _, s := range performanceStyleMap[t.contentType] {
			affinities[s] += performanceBoost
		}
	}

	bottom := ordered
	if len(bottom) > 2 {
		bottom = bottom[len(bottom)-2:]
	}
	for _, t := range bottom {
		if t.avg > performancePenaltyAt {
			continue
		}
		for _, s := range performanceStyleMap[t.contentType] {
			if v := affinities[s] - performancePenalty; v > affinityFloor {
				affinities[s] = v
			} else {
				affinities[s] = affinityFloor
			}
		}
	}
}

// applyEngagementPass 按投入度调整：Top-2 类型均值 >= 0.6 的，其映射风格 +0.15；
// Bottom-2 类型均值 <= 0.4 的，其映射风格 -0.05（下限 0.1）。
func applyEngagementPass(affinities core.StyleAffinities, engagementByType map[core.ContentType]float64) {
	ordered := sortByAverage(engagementByType)
	if len(ordered) == 0 {
		return
	}

	top := ordered
	if len(top) > 2 {
		top = top[:2]
	}
	for _, t := range top {
		if t.avg < engagementBoostMin {
			continue
		}
		for _, s := range engagementStyleMap[t.contentType] {
			affinities[s] += engagementBoost
		}
	}

	bottom := ordered
	if len(bottom) > 2 {
		bottom = bottom[len(bottom)-2:]
	}
	for _, t := range bottom {
		if t.avg > engagementPenaltyAt {
			continue
		}
		for _, s := range engagementStyleMap[t.contentType] {
			if v := affinities[s] - engagementPenalty; v > affinityFloor {
				affinities[s] = v
			} else {
				affinities[s] = affinityFloor
			}
		}
	}
}
