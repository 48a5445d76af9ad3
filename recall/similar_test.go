package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/store"
	"github.com/rushteam/edukit/vector"
)

func f64(v float64) *float64 { return &v }

func newCatalog(t *testing.T) *store.MemoryCatalog {
	t.Helper()
	topics := []*core.Topic{
		{ID: "t-1", Name: "Fractions", GradeLevel: 3, Subject: "math"},
		{ID: "t-2", Name: "Geometry", GradeLevel: 3, Subject: "math"},
	}
	contents := []*core.ContentItem{
		{ID: "c-1", Title: "Fraction quiz", Type: core.ContentTypeQuiz, Difficulty: core.DifficultyMedium, TopicID: "t-1"},
		{ID: "c-2", Title: "More fractions", Type: core.ContentTypeQuiz, Difficulty: core.DifficultyMedium, TopicID: "t-1"},
		{ID: "c-3", Title: "Fraction basics", Type: core.ContentTypeConcept, Difficulty: core.DifficultyEasy, TopicID: "t-1"},
		{ID: "c-4", Title: "Fraction challenge", Type: core.ContentTypeExercise, Difficulty: core.DifficultyExpert, TopicID: "t-1"},
		{ID: "c-5", Title: "Shapes", Type: core.ContentTypeQuiz, Difficulty: core.DifficultyMedium, TopicID: "t-2"},
	}
	catalog, err := store.NewMemoryCatalog(topics, contents)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return catalog
}

// 无索引时退回元数据相似：同主题基线 70，难度一致 +20 / 相邻 +10，类型一致 +10。
func TestSimilarToMetadataFallback(t *testing.T) {
	ctx := context.Background()
	r := &SimilarContent{Catalog: newCatalog(t)}

	items, err := r.SimilarTo(ctx, "c-1", 10)
	if err != nil {
		t.Fatalf("similar to: %v", err)
	}

	scores := make(map[string]float64, len(items))
	for _, it := range items {
		if it.ID == "c-1" {
			t.Fatal("query content must not be recommended back")
		}
		if it.ID == "c-5" {
			t.Fatal("other topics must not appear in metadata fallback")
		}
		scores[it.ID] = it.Score
		if lbl, ok := it.Labels["recall_source"]; !ok || lbl.Value != "similar.fallback" {
			t.Errorf("item %s recall_source = %v, want similar.fallback", it.ID, lbl.Value)
		}
	}

	// c-2：同难度 + 同类型；c-3：相邻难度；c-4：难度差两级、类型不同
	want := map[string]float64{"c-2": 100, "c-3": 80, "c-4": 70}
	for id, score := range want {
		if scores[id] != score {
			t.Errorf("score[%s] = %v, want %v", id, scores[id], score)
		}
	}
	if items[0].ID != "c-2" {
		t.Errorf("best candidate = %s, want c-2", items[0].ID)
	}
}

func TestSimilarToUnknownContent(t *testing.T) {
	r := &SimilarContent{Catalog: newCatalog(t)}
	_, err := r.SimilarTo(context.Background(), "ghost", 5)
	if !core.IsNotFound(err) {
		t.Fatalf("unknown content should be NOT_FOUND, got %v", err)
	}
}

func TestSimilarToWithIndex(t *testing.T) {
	ctx := context.Background()
	idx := vector.NewSimilarityIndex(2)
	for id, v := range map[string][]float64{
		"c-1": {1, 0},
		"c-2": {0.9, 0.1},
		"c-5": {0, 1},
	} {
		if err := idx.Add(id, v); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	r := &SimilarContent{Index: idx, Catalog: newCatalog(t)}
	items, err := r.SimilarTo(ctx, "c-1", 2)
	if err != nil {
		t.Fatalf("similar to: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}
	if items[0].ID != "c-2" {
		t.Errorf("nearest = %s, want c-2", items[0].ID)
	}
	if lbl := items[0].Labels["recall_source"]; lbl.Value != "similar" {
		t.Errorf("recall_source = %q, want similar", lbl.Value)
	}
}

// 索引里没有该内容时和索引缺失一样走元数据兜底。
func TestSimilarToContentMissingFromIndex(t *testing.T) {
	idx := vector.NewSimilarityIndex(2)
	if err := idx.Add("c-2", []float64{1, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}

	r := &SimilarContent{Index: idx, Catalog: newCatalog(t)}
	items, err := r.SimilarTo(context.Background(), "c-1", 5)
	if err != nil {
		t.Fatalf("similar to: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("fallback should still produce candidates")
	}
	if lbl := items[0].Labels["recall_source"]; lbl.Value != "similar.fallback" {
		t.Errorf("recall_source = %q, want similar.fallback", lbl.Value)
	}
}

func TestSelectSeed(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	tests := []struct {
		name     string
		progress []*core.ProgressRecord
		want     string
		ok       bool
	}{
		{
			name: "no completions",
			progress: []*core.ProgressRecord{
				{ContentID: "c-1", Status: core.StatusInProgress, Score: f64(95)},
			},
			ok: false,
		},
		{
			name: "high score among recent five wins",
			progress: []*core.ProgressRecord{
				{ContentID: "c-1", Status: core.StatusCompleted, Score: f64(75), LastInteraction: day(3)},
				{ContentID: "c-2", Status: core.StatusCompleted, Score: f64(88), LastInteraction: day(2)},
				{ContentID: "c-3", Status: core.StatusCompleted, Score: f64(92), LastInteraction: day(1)},
			},
			want: "c-2",
			ok:   true,
		},
		{
			name: "no high score falls back to most recent completion",
			progress: []*core.ProgressRecord{
				{ContentID: "c-1", Status: core.StatusCompleted, Score: f64(55), LastInteraction: day(1)},
				{ContentID: "c-2", Status: core.StatusCompleted, Score: f64(65), LastInteraction: day(2)},
			},
			want: "c-2",
			ok:   true,
		},
		{
			name: "only recent five considered for high score",
			progress: []*core.ProgressRecord{
				{ContentID: "old", Status: core.StatusCompleted, Score: f64(99), LastInteraction: day(0)},
				{ContentID: "c-1", Status: core.StatusCompleted, Score: f64(50), LastInteraction: day(6)},
				{ContentID: "c-2", Status: core.StatusCompleted, Score: f64(50), LastInteraction: day(5)},
				{ContentID: "c-3", Status: core.StatusCompleted, Score: f64(50), LastInteraction: day(4)},
				{ContentID: "c-4", Status: core.StatusCompleted, Score: f64(50), LastInteraction: day(3)},
				{ContentID: "c-5", Status: core.StatusCompleted, Score: f64(50), LastInteraction: day(2)},
			},
			// 前 5 条里没有 >= 80 的，取最近完成
			want: "c-1",
			ok:   true,
		},
		{
			name: "mastered counts as completed",
			progress: []*core.ProgressRecord{
				{ContentID: "c-9", Status: core.StatusMastered, Score: f64(90), LastInteraction: day(1)},
			},
			want: "c-9",
			ok:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectSeed(tt.progress)
			if got != tt.want || ok != tt.ok {
				t.Errorf("SelectSeed() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
