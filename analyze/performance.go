// Package analyze 是学习分析组件：表现报告（PerformanceAnalyzer）
// 与学习风格推断（StyleDetector）。
//
// 两者都是对进度快照的纯聚合：不写任何存储，
// 同样的输入永远产出同样的报告（时钟通过 Now 注入）。
package analyze

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rushteam/edukit/core"
)

// PerformanceAnalyzer 聚合用户的全量进度历史，产出表现报告。
type PerformanceAnalyzer struct {
	Catalog  core.ContentCatalog
	Learners core.LearnerStore
	Progress core.ProgressStore

	// Now 为 nil 时使用 time.Now（测试注入固定时钟）
	Now func() time.Time
}

// Report 是一次表现分析的完整输出。
type Report struct {
	Message string `json:"message,omitempty"`

	Overall         OverallScore       `json:"overall_score"`
	Topics          []TopicPerformance `json:"topic_performance"`
	Strengths       []TypePerformance  `json:"strengths"`
	Weaknesses      []TypePerformance  `json:"weaknesses"`
	Patterns        LearningPatterns   `json:"learning_patterns"`
	Engagement      EngagementMetrics  `json:"engagement_metrics"`
	Recommendations []string           `json:"recommendations"`
}

// OverallScore 是全局成绩概览。
type OverallScore struct {
	// AverageScore 为 nil 表示没有任何打分记录
	AverageScore        *float64 `json:"average_score"`
	TotalActivities     int      `json:"total_activities"`
	CompletedActivities int      `json:"completed_activities"`
	MasteryLevel        string   `json:"mastery_level"`
}

// TopicPerformance 是单主题的成绩统计（无打分记录的主题不输出）。
type TopicPerformance struct {
	TopicID        string  `json:"topic_id"`
	TopicName      string  `json:"topic_name"`
	AverageScore   float64 `json:"average_score"`
	HighestScore   float64 `json:"highest_score"`
	CompletionRate float64 `json:"completion_rate"`
	ActivityCount  int     `json:"activity_count"`
}

// TypePerformance 是单内容类型的成绩统计，用于强弱项识别。
type TypePerformance struct {
	ContentType   core.ContentType `json:"content_type"`
	AverageScore  float64          `json:"average_score"`
	ActivityCount int              `json:"activity_count"`
}

// DailyActivity 是单日的学习活动聚合。
type DailyActivity struct {
	Date             string   `json:"date"`
	ActivityCount    int      `json:"activity_count"`
	AverageScore     *float64 `json:"average_score"`
	TotalTimeMinutes float64  `json:"total_time_minutes"`
}

// TimeDistribution 是时段分布（占全部有时间戳记录的百分比）。
// 时段切分：morning [5,12)、afternoon [12,17)、其余归 evening。
type TimeDistribution struct {
	Morning   float64 `json:"morning"`
	Afternoon float64 `json:"afternoon"`
	Evening   float64 `json:"evening"`
}

// LearningPatterns 是学习行为模式：近 7 天日活 + 时段分布。
type LearningPatterns struct {
	DailyActivity            []DailyActivity  `json:"daily_activity"`
	TimeDistribution         TimeDistribution `json:"time_distribution"`
	TotalLearningTimeMinutes float64          `json:"total_learning_time_minutes"`
}

// EngagementMetrics 是投入度指标。
type EngagementMetrics struct {
	ActiveDays      int  `json:"active_days"`
	ConsecutiveDays int  `json:"consecutive_days"`
	IsActive        bool `json:"is_currently_active"`

	// DaysSinceLastActivity 为 nil 表示没有任何带时间戳的记录
	DaysSinceLastActivity *int    `json:"days_since_last_activity"`
	CompletionRate        float64 `json:"completion_rate"`

	// AverageEngagementScore 是均值 ×100 后的百分数，nil 表示未采集
	AverageEngagementScore *float64 `json:"average_engagement_score"`
}

// Analyze 生成用户的表现报告。未知用户返回 NOT_FOUND；
// 零进度用户返回"数据不足"报告（不是错误）。
func (a *PerformanceAnalyzer) Analyze(ctx context.Context, userID string) (*Report, error) {
	if _, err := a.Learners.GetLearner(ctx, userID); err != nil {
		return nil, err
	}
	progress, err := a.Progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(progress) == 0 {
		return &Report{
			Message: "Not enough data for analysis",
			Recommendations: []string{
				"Complete some activities to generate performance insights",
			},
		}, nil
	}

	// 进度关联的内容元数据只解析一次（目录里查不到的记录跳过）
	resolved := a.resolveContent(ctx, progress)

	report := &Report{
		Overall:    a.overallScore(progress),
		Topics:     a.topicPerformance(ctx, resolved),
		Patterns:   a.learningPatterns(progress),
		Engagement: a.engagementMetrics(progress),
	}
	report.Strengths, report.Weaknesses = a.strengthsWeaknesses(resolved)
	report.Recommendations = a.recommendations(ctx, resolved, report)
	return report, nil
}

// resolvedRecord 是进度记录与其内容元数据的配对。
type resolvedRecord struct {
	record  *core.ProgressRecord
	content *core.ContentItem
}

func (a *PerformanceAnalyzer) resolveContent(ctx context.Context, progress []*core.ProgressRecord) []resolvedRecord {
	out := make([]resolvedRecord, 0, len(progress))
	for _, p := range progress {
		if p == nil {
			continue
		}
		c, err := a.Catalog.GetContent(ctx, p.ContentID)
		if err != nil {
			continue
		}
		out = append(out, resolvedRecord{record: p, content: c})
	}
	return out
}

func (a *PerformanceAnalyzer) overallScore(progress []*core.ProgressRecord) OverallScore {
	out := OverallScore{TotalActivities: len(progress)}

	var scoreSum float64
	scoreCount := 0
	masteredCount := 0
	for _, p := range progress {
		if p == nil {
			continue
		}
		if p.Score != nil {
			scoreSum += *p.Score
			scoreCount++
		}
		if p.Status.Done() {
			out.CompletedActivities++
		}
		if p.Status == core.StatusMastered {
			masteredCount++
		}
	}

	if scoreCount == 0 {
		out.CompletedActivities = 0
		out.MasteryLevel = "Not enough data"
		return out
	}

	avg := scoreSum / float64(scoreCount)
	rounded := round1(avg)
	out.AverageScore = &rounded

	switch {
	case avg >= 90 && masteredCount > 5:
		out.MasteryLevel = "Expert"
	case avg >= 80:
		out.MasteryLevel = "Proficient"
	case avg >= 70:
		out.MasteryLevel = "Competent"
	case avg >= 60:
		out.MasteryLevel = "Developing"
	default:
		out.MasteryLevel = "Beginning"
	}
	return out
}

func (a *PerformanceAnalyzer) topicPerformance(ctx context.Context, resolved []resolvedRecord) []TopicPerformance {
	type topicAgg struct {
		scoreSum   float64
		scoreCount int
		maxScore   float64
		completed  int
		total      int
	}
	byTopic := make(map[string]*topicAgg)
	for _, r := range resolved {
		agg := byTopic[r.content.TopicID]
		if agg == nil {
			agg = &topicAgg{}
			byTopic[r.content.TopicID] = agg
		}
		agg.total++
		if r.record.Status.Done() {
			agg.completed++
		}
		if r.record.Score != nil {
			agg.scoreSum += *r.record.Score
			agg.scoreCount++
			if *r.record.Score > agg.maxScore {
				agg.maxScore = *r.record.Score
			}
		}
	}

	out := make([]TopicPerformance, 0, len(byTopic))
	for topicID, agg := range byTopic {
		// 无打分记录的主题不进报告
		if agg.scoreCount == 0 {
			continue
		}
		topic, err := a.Catalog.GetTopic(ctx, topicID)
		if err != nil {
			continue
		}
		out = append(out, TopicPerformance{
			TopicID:        topicID,
			TopicName:      topic.Name,
			AverageScore:   round1(agg.scoreSum / float64(agg.scoreCount)),
			HighestScore:   round1(agg.maxScore),
			CompletionRate: round1(float64(agg.completed) / float64(agg.total) * 100),
			ActivityCount:  agg.total,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore > out[j].AverageScore
		}
		return out[i].TopicID < out[j].TopicID
	})
	return out
}

// strengthsWeaknesses 按内容类型分组打均分：>= 75 强项、< 60 弱项。
func (a *PerformanceAnalyzer) strengthsWeaknesses(resolved []resolvedRecord) (strengths, weaknesses []TypePerformance) {
	type typeAgg struct {
		scoreSum float64
		count    int
	}
	byType := make(map[core.ContentType]*typeAgg)
	for _, r := range resolved {
		if r.record.Score == nil {
			continue
		}
		agg := byType[r.content.Type]
		if agg == nil {
			agg = &typeAgg{}
			byType[r.content.Type] = agg
		}
		agg.scoreSum += *r.record.Score
		agg.count++
	}

	for ct, agg := range byType {
		avg := agg.scoreSum / float64(agg.count)
		item := TypePerformance{
			ContentType:   ct,
			AverageScore:  round1(avg),
			ActivityCount: agg.count,
		}
		if avg >= 75 {
			strengths = append(strengths, item)
		} else if avg < 60 {
			weaknesses = append(weaknesses, item)
		}
	}

	sort.SliceStable(strengths, func(i, j int) bool {
		if strengths[i].AverageScore != strengths[j].AverageScore {
			return strengths[i].AverageScore > strengths[j].AverageScore
		}
		return strengths[i].ContentType < strengths[j].ContentType
	})
	sort.SliceStable(weaknesses, func(i, j int) bool {
		if weaknesses[i].AverageScore != weaknesses[j].AverageScore {
			return weaknesses[i].AverageScore < weaknesses[j].AverageScore
		}
		return weaknesses[i].ContentType < weaknesses[j].ContentType
	})
	return strengths, weaknesses
}

func (a *PerformanceAnalyzer) learningPatterns(progress []*core.ProgressRecord) LearningPatterns {
	type dayAgg struct {
		count      int
		scoreSum   float64
		scoreCount int
		seconds    int
	}
	byDay := make(map[string]*dayAgg)
	morning, afternoon, evening := 0, 0, 0
	totalSeconds := 0

	for _, p := range progress {
		if p == nil {
			continue
		}
		totalSeconds += p.TimeSpentSeconds
		if p.LastInteraction.IsZero() {
			continue
		}

		key := p.LastInteraction.UTC().Format("2006-01-02")
		agg := byDay[key]
		if agg == nil {
			agg = &dayAgg{}
			byDay[key] = agg
		}
		agg.count++
		if p.Score != nil {
			agg.scoreSum += *p.Score
			agg.scoreCount++
		}
		agg.seconds += p.TimeSpentSeconds

		switch hour := p.LastInteraction.UTC().Hour(); {
		case hour >= 5 && hour < 12:
			morning++
		case hour >= 12 && hour < 17:
			afternoon++
		default:
			evening++
		}
	}

	days := make([]string, 0, len(byDay))
	for key := range byDay {
		days = append(days, key)
	}
	sort.Strings(days)
	// 只保留最近 7 个活跃日
	if len(days) > 7 {
		days = days[len(days)-7:]
	}

	daily := make([]DailyActivity, 0, len(days))
	for _, key := range days {
		agg := byDay[key]
		d := DailyActivity{
			Date:             key,
			ActivityCount:    agg.count,
			TotalTimeMinutes: round1(float64(agg.seconds) / 60),
		}
		if agg.scoreCount > 0 {
			avg := round1(agg.scoreSum / float64(agg.scoreCount))
			d.AverageScore = &avg
		}
		daily = append(daily, d)
	}

	var dist TimeDistribution
	if total := morning + afternoon + evening; total > 0 {
		dist.Morning = round1(float64(morning) / float64(total) * 100)
		dist.Afternoon = round1(float64(afternoon) / float64(total) * 100)
		dist.Evening = round1(float64(evening) / float64(total) * 100)
	}

	return LearningPatterns{
		DailyActivity:            daily,
		TimeDistribution:         dist,
		TotalLearningTimeMinutes: round1(float64(totalSeconds) / 60),
	}
}

func (a *PerformanceAnalyzer) engagementMetrics(progress []*core.ProgressRecord) EngagementMetrics {
	out := EngagementMetrics{}

	activeDates := make(map[string]bool)
	var lastActive time.Time
	completed := 0
	var engagementSum float64
	engagementCount := 0

	for _, p := range progress {
		if p == nil {
			continue
		}
		if p.Status.Done() {
			completed++
		}
		if p.EngagementScore != nil {
			engagementSum += *p.EngagementScore
			engagementCount++
		}
		if p.LastInteraction.IsZero() {
			continue
		}
		activeDates[p.LastInteraction.UTC().Format("2006-01-02")] = true
		if p.LastInteraction.After(lastActive) {
			lastActive = p.LastInteraction
		}
	}

	out.ActiveDays = len(activeDates)
	out.ConsecutiveDays = consecutiveDays(activeDates)

	if !lastActive.IsZero() {
		days := int(a.now().Sub(lastActive).Hours() / 24)
		out.DaysSinceLastActivity = &days
		out.IsActive = days < 7
	}

	if len(progress) > 0 {
		out.CompletionRate = round1(float64(completed) / float64(len(progress)) * 100)
	}
	if engagementCount > 0 {
		avg := round1(engagementSum / float64(engagementCount) * 100)
		out.AverageEngagementScore = &avg
	}
	return out
}

// consecutiveDays 从最近的活跃日向前数连续天数（间隔恰好 1 天才算连续）。
func consecutiveDays(activeDates map[string]bool) int {
	if len(activeDates) == 0 {
		return 0
	}
	dates := make([]time.Time, 0, len(activeDates))
	for key := range activeDates {
		t, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	streak := 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].Sub(dates[i]) == 24*time.Hour {
			streak++
		} else {
			break
		}
	}
	return streak
}

// recommendations 把分析结果转换为最多 5 条可读建议。
func (a *PerformanceAnalyzer) recommendations(ctx context.Context, resolved []resolvedRecord, report *Report) []string {
	var out []string

	weakTypes := make(map[core.ContentType]bool, len(report.Weaknesses))
	for _, w := range report.Weaknesses {
		weakTypes[w.ContentType] = true
	}
	if weakTypes[core.ContentTypeQuiz] {
		out = append(out, "Practice more quizzes to improve test-taking skills.")
	}
	if weakTypes[core.ContentTypeExercise] {
		out = append(out, "Spend more time on practice exercises for hands-on improvement.")
	}
	if weakTypes[core.ContentTypeGame] {
		out = append(out, "Try more interactive games to reinforce concepts in a fun way.")
	}

	if report.Engagement.CompletionRate < 70 {
		out = append(out, "Try to complete more of the activities you start for better learning progress.")
	}
	if report.Engagement.ConsecutiveDays < 3 {
		out = append(out, "Aim for a daily learning streak to build consistency and retention.")
	}
	if !report.Engagement.IsActive {
		out = append(out, "It's been a while! Regular practice helps retain math concepts better.")
	}

	// 低分主题的定向建议（按主题 ID 排序保证输出确定）
	type topicAgg struct {
		scoreSum float64
		count    int
	}
	byTopic := make(map[string]*topicAgg)
	for _, r := range resolved {
		if r.record.Score == nil {
			continue
		}
		agg := byTopic[r.content.TopicID]
		if agg == nil {
			agg = &topicAgg{}
			byTopic[r.content.TopicID] = agg
		}
		agg.scoreSum += *r.record.Score
		agg.count++
	}
	topicIDs := make([]string, 0, len(byTopic))
	for id := range byTopic {
		topicIDs = append(topicIDs, id)
	}
	sort.Strings(topicIDs)
	for _, id := range topicIDs {
		agg := byTopic[id]
		if agg.scoreSum/float64(agg.count) >= 60 {
			continue
		}
		topic, err := a.Catalog.GetTopic(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, "Focus on improving your understanding of '"+topic.Name+"' concepts.")
	}

	if len(out) > 5 {
		out = out[:5]
	}
	if len(out) == 0 && report.Engagement.CompletionRate > 80 {
		out = append(out, "You're doing great! Consider trying more challenging content to continue growing.")
	}
	return out
}

func (a *PerformanceAnalyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
