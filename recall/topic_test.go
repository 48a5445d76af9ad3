package recall

import (
	"context"
	"testing"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/store"
)

func TestTargetDifficulty(t *testing.T) {
	tests := []struct {
		name      string
		avg       float64
		hasScores bool
		want      core.DifficultyLevel
	}{
		{"no scores", 0, false, core.DifficultyBeginner},
		{"struggling", 45, true, core.DifficultyBeginner},
		{"just below easy cut", 59.9, true, core.DifficultyBeginner},
		{"low pass", 60, true, core.DifficultyEasy},
		{"solid", 75, true, core.DifficultyMedium},
		{"good", 89.9, true, core.DifficultyMedium},
		{"excellent", 90, true, core.DifficultyHard},
		{"perfect", 100, true, core.DifficultyHard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetDifficulty(tt.avg, tt.hasScores); got != tt.want {
				t.Errorf("TargetDifficulty(%v, %v) = %v, want %v", tt.avg, tt.hasScores, got, tt.want)
			}
		})
	}
}

func topicCatalog(t *testing.T) *store.MemoryCatalog {
	t.Helper()
	topics := []*core.Topic{
		{ID: "t-1", Name: "Fractions", GradeLevel: 3},
		{ID: "t-2", Name: "Geometry", GradeLevel: 3},
	}
	contents := []*core.ContentItem{
		{ID: "f-easy", Type: core.ContentTypeExercise, Difficulty: core.DifficultyEasy, TopicID: "t-1"},
		{ID: "f-med-1", Type: core.ContentTypeExercise, Difficulty: core.DifficultyMedium, TopicID: "t-1"},
		{ID: "f-med-2", Type: core.ContentTypeQuiz, Difficulty: core.DifficultyMedium, TopicID: "t-1"},
		{ID: "g-beg", Type: core.ContentTypeConcept, Difficulty: core.DifficultyBeginner, TopicID: "t-2"},
	}
	catalog, err := store.NewMemoryCatalog(topics, contents)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return catalog
}

func TestTopicBasedRecall(t *testing.T) {
	r := &TopicBased{Catalog: topicCatalog(t), TopK: 10}
	rctx := &core.RecommendContext{
		UserID: "u-1",
		Progress: []*core.ProgressRecord{
			// t-1：两次交互，均分 80 → 目标难度 medium
			{ContentID: "f-easy", Status: core.StatusCompleted, Score: f64(85)},
			{ContentID: "f-med-1", Status: core.StatusCompleted, Score: f64(75)},
		},
	}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 item, got %d: %+v", len(items), items)
	}

	it := items[0]
	// f-med-1 已完成，目标难度 medium 下只剩 f-med-2
	if it.ID != "f-med-2" {
		t.Errorf("candidate = %s, want f-med-2", it.ID)
	}
	// 唯一主题占满交互占比：75 + 1.0×15
	if it.Score != 90 {
		t.Errorf("score = %v, want 90", it.Score)
	}
	if lbl := it.Labels["reason"]; lbl.Value != "Based on your interests" {
		t.Errorf("reason = %q", lbl.Value)
	}
}

// 无评分的主题视同低分，目标难度从 beginner 起步；
// 进行中的内容同样不再推回给用户。
func TestTopicBasedNoScores(t *testing.T) {
	r := &TopicBased{Catalog: topicCatalog(t), TopK: 10}
	rctx := &core.RecommendContext{
		UserID: "u-1",
		Progress: []*core.ProgressRecord{
			{ContentID: "g-beg", Status: core.StatusInProgress},
		},
	}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	// t-2 下唯一 beginner 内容是 g-beg 本身，正在学习中 → 剔除后为空
	if len(items) != 0 {
		t.Fatalf("in-progress content must not be recommended back, got %+v", items)
	}
}

// 进行中（未完成）的内容属于已交互集合，不进入主题补位结果。
func TestTopicBasedExcludesInProgress(t *testing.T) {
	r := &TopicBased{Catalog: topicCatalog(t), TopK: 10}
	rctx := &core.RecommendContext{
		UserID: "u-1",
		Progress: []*core.ProgressRecord{
			// 均分 80 → 目标难度 medium；f-med-1 正在学习中
			{ContentID: "f-easy", Status: core.StatusCompleted, Score: f64(85)},
			{ContentID: "f-med-1", Status: core.StatusInProgress, Score: f64(75)},
		},
	}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(items) != 1 || items[0].ID != "f-med-2" {
		t.Fatalf("want only f-med-2, got %+v", items)
	}
}

// 交互次数相同的主题按主题 ID 升序，两次调用结果一致。
func TestTopicBasedDeterministicOnTies(t *testing.T) {
	topics := []*core.Topic{
		{ID: "t-a", Name: "Addition", GradeLevel: 3},
		{ID: "t-b", Name: "Subtraction", GradeLevel: 3},
	}
	contents := []*core.ContentItem{
		{ID: "a-src", Type: core.ContentTypeQuiz, Difficulty: core.DifficultyMedium, TopicID: "t-a"},
		{ID: "a-new", Type: core.ContentTypeExercise, Difficulty: core.DifficultyMedium, TopicID: "t-a"},
		{ID: "b-src", Type: core.ContentTypeQuiz, Difficulty: core.DifficultyMedium, TopicID: "t-b"},
		{ID: "b-new", Type: core.ContentTypeExercise, Difficulty: core.DifficultyMedium, TopicID: "t-b"},
	}
	catalog, err := store.NewMemoryCatalog(topics, contents)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	r := &TopicBased{Catalog: catalog, TopK: 10}
	rctx := &core.RecommendContext{
		UserID: "u-1",
		Progress: []*core.ProgressRecord{
			// 两个主题各一次交互、均分相同 → 次数打平，按主题 ID 排序
			{ContentID: "a-src", Status: core.StatusCompleted, Score: f64(80)},
			{ContentID: "b-src", Status: core.StatusCompleted, Score: f64(80)},
		},
	}

	for run := 0; run < 3; run++ {
		items, err := r.Recall(context.Background(), rctx)
		if err != nil {
			t.Fatalf("recall: %v", err)
		}
		if len(items) != 2 || items[0].ID != "a-new" || items[1].ID != "b-new" {
			t.Fatalf("run %d: want [a-new b-new], got %+v", run, items)
		}
	}
}

func TestTopicBasedEmptyProgress(t *testing.T) {
	r := &TopicBased{Catalog: topicCatalog(t)}
	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: "u-1"})
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if items != nil {
		t.Errorf("empty progress should yield nil, got %+v", items)
	}
}
