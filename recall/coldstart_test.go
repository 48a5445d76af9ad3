package recall

import (
	"context"
	"testing"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/store"
)

func coldStartCatalog(t *testing.T) *store.MemoryCatalog {
	t.Helper()
	topics := []*core.Topic{
		{ID: "t-g3", Name: "Grade 3 math", GradeLevel: 3},
		{ID: "t-g4", Name: "Grade 4 math", GradeLevel: 4},
	}
	contents := []*core.ContentItem{
		{ID: "g3-intro", Type: core.ContentTypeConcept, Difficulty: core.DifficultyBeginner, TopicID: "t-g3"},
		{ID: "g3-hard", Type: core.ContentTypeExercise, Difficulty: core.DifficultyHard, TopicID: "t-g3"},
		{ID: "g4-intro", Type: core.ContentTypeConcept, Difficulty: core.DifficultyBeginner, TopicID: "t-g4"},
	}
	catalog, err := store.NewMemoryCatalog(topics, contents)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return catalog
}

func TestColdStartGradeScoped(t *testing.T) {
	r := &ColdStart{Catalog: coldStartCatalog(t), TopK: 10}
	rctx := &core.RecommendContext{
		UserID:  "u-new",
		Learner: &core.LearnerProfile{UserID: "u-new", GradeLevel: 3},
	}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(items) != 1 || items[0].ID != "g3-intro" {
		t.Fatalf("want only g3-intro, got %+v", items)
	}
	if items[0].Score != 90 {
		t.Errorf("grade-scoped cold start score = %v, want 90", items[0].Score)
	}
	if lbl := items[0].Labels["reason"]; lbl.Value != "Grade-appropriate introduction" {
		t.Errorf("reason = %q", lbl.Value)
	}
}

// 年级未知时退化为全目录 beginner 内容，分数降档为 80。
func TestColdStartUnknownGrade(t *testing.T) {
	r := &ColdStart{Catalog: coldStartCatalog(t), TopK: 10}
	rctx := &core.RecommendContext{
		UserID:  "u-new",
		Learner: &core.LearnerProfile{UserID: "u-new"},
	}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 beginner items, got %d", len(items))
	}
	for _, it := range items {
		if it.Score != 80 {
			t.Errorf("fallback cold start score = %v, want 80", it.Score)
		}
		if got := it.Meta["difficulty_level"]; got != "beginner" {
			t.Errorf("non-beginner item %s leaked into cold start", it.ID)
		}
	}
}

// 有完成记录的用户不走冷启动，避免与个性化召回重叠。
func TestColdStartSkipsUsersWithCompletions(t *testing.T) {
	r := &ColdStart{Catalog: coldStartCatalog(t)}
	rctx := &core.RecommendContext{
		UserID:  "u-1",
		Learner: &core.LearnerProfile{UserID: "u-1", GradeLevel: 3},
		Progress: []*core.ProgressRecord{
			{ContentID: "g3-intro", Status: core.StatusCompleted, Score: f64(85)},
		},
	}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("cold start must return nothing for users with completions, got %d items", len(items))
	}
}

// 只有进行中记录、尚无完成的用户仍按新用户处理。
func TestColdStartFiresWithoutCompletions(t *testing.T) {
	r := &ColdStart{Catalog: coldStartCatalog(t)}
	rctx := &core.RecommendContext{
		UserID:   "u-1",
		Learner:  &core.LearnerProfile{UserID: "u-1", GradeLevel: 3},
		Progress: []*core.ProgressRecord{{ContentID: "g3-hard", Status: core.StatusInProgress}},
	}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(items) != 1 || items[0].ID != "g3-intro" {
		t.Fatalf("want grade-scoped g3-intro for seedless user, got %+v", items)
	}
}
