package analyze

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rushteam/edukit/core"
)

func affinitySum(a core.StyleAffinities) float64 {
	var total float64
	for _, v := range a {
		total += v
	}
	return total
}

func TestDetectUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.detector.Detect(context.Background(), "ghost")
	if !core.IsNotFound(err) {
		t.Fatalf("unknown user should be NOT_FOUND, got %v", err)
	}
}

// 零历史用户得到均匀分布：归一化后每类恰好 1.0。
func TestDetectNoHistory(t *testing.T) {
	f := newFixture(t)

	affinities, err := f.detector.Detect(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(affinities) != len(core.LearningStyles) {
		t.Fatalf("want %d categories, got %d", len(core.LearningStyles), len(affinities))
	}
	for _, s := range core.LearningStyles {
		if affinities[s] != 1.0 {
			t.Errorf("affinity[%s] = %v, want uniform 1.0", s, affinities[s])
		}
	}
}

// 成绩轮：高分类型的映射风格加权，低分类型的映射风格减权。
func TestDetectPerformancePass(t *testing.T) {
	f := newFixture(t)
	day := analyzeNow.Add(-time.Hour)

	// quiz 均分 95（加权 logical/solitary），concept 均分 50（减权 reading_writing/logical）
	f.put(t, &core.ProgressRecord{ContentID: "quiz-1", Status: core.StatusCompleted, Score: f64(95), LastInteraction: day})
	f.put(t, &core.ProgressRecord{ContentID: "concept-1", Status: core.StatusCompleted, Score: f64(50), LastInteraction: day})

	affinities, err := f.detector.Detect(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	if got := affinitySum(affinities); math.Abs(got-float64(len(core.LearningStyles))) > 1e-9 {
		t.Errorf("affinity sum = %v, want %d", got, len(core.LearningStyles))
	}
	if affinities[core.StyleSolitary] <= affinities[core.StyleVisual] {
		t.Error("solitary should outrank untouched styles after a strong quiz record")
	}
	if affinities[core.StyleReadingWriting] >= affinities[core.StyleVisual] {
		t.Error("reading_writing should fall below untouched styles after a weak concept record")
	}
	// logical 同时被加权和减权，净效应仍为正
	if affinities[core.StyleLogical] <= affinities[core.StyleVisual] {
		t.Error("logical should keep a net positive adjustment")
	}
}

// 投入度轮使用与成绩轮不同的映射表。
func TestDetectEngagementPass(t *testing.T) {
	f := newFixture(t)
	day := analyzeNow.Add(-time.Hour)

	// 无成绩，只有投入度：game 0.9（加权 kinesthetic/social），concept 0.3（减权 auditory/reading_writing）
	f.put(t, &core.ProgressRecord{ContentID: "game-1", Status: core.StatusCompleted, EngagementScore: f64(0.9), LastInteraction: day})
	f.put(t, &core.ProgressRecord{ContentID: "concept-1", Status: core.StatusCompleted, EngagementScore: f64(0.3), LastInteraction: day})

	affinities, err := f.detector.Detect(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	if got := affinitySum(affinities); math.Abs(got-float64(len(core.LearningStyles))) > 1e-9 {
		t.Errorf("affinity sum = %v, want %d", got, len(core.LearningStyles))
	}
	if affinities[core.StyleKinesthetic] <= affinities[core.StyleVisual] {
		t.Error("kinesthetic should be boosted by high game engagement")
	}
	if affinities[core.StyleSocial] <= affinities[core.StyleVisual] {
		t.Error("social should be boosted by high game engagement")
	}
	if affinities[core.StyleAuditory] >= affinities[core.StyleVisual] {
		t.Error("auditory should be penalized by low concept engagement")
	}
}

// 中庸的成绩（60 < avg < 70）既不加权也不减权。
func TestDetectNeutralScoresLeaveUniform(t *testing.T) {
	f := newFixture(t)
	day := analyzeNow.Add(-time.Hour)

	f.put(t, &core.ProgressRecord{ContentID: "quiz-1", Status: core.StatusCompleted, Score: f64(65), LastInteraction: day})

	affinities, err := f.detector.Detect(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	for _, s := range core.LearningStyles {
		if affinities[s] != 1.0 {
			t.Errorf("affinity[%s] = %v, want untouched 1.0", s, affinities[s])
		}
	}
}

// 减权有下限：亲和度不会被压到 0.1 以下。
func TestAffinityFloor(t *testing.T) {
	a := core.StyleAffinities{}
	for _, s := range core.LearningStyles {
		a[s] = affinityFloor + 0.01
	}
	applyPerformancePass(a, map[core.ContentType]float64{
		core.ContentTypeQuiz: 30, // 减权 logical/solitary
	})
	if a[core.StyleLogical] != affinityFloor || a[core.StyleSolitary] != affinityFloor {
		t.Errorf("penalty must clamp at floor, got logical=%v solitary=%v",
			a[core.StyleLogical], a[core.StyleSolitary])
	}
}
