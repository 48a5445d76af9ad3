package filter

import (
	"context"
	"testing"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/store"
)

func gateCatalog(t *testing.T) *store.MemoryCatalog {
	t.Helper()
	topics := []*core.Topic{{ID: "t-1", Name: "Fractions", GradeLevel: 3}}
	contents := []*core.ContentItem{
		{ID: "p", Type: core.ContentTypeConcept, Difficulty: core.DifficultyBeginner, TopicID: "t-1"},
		{ID: "c", Type: core.ContentTypeExercise, Difficulty: core.DifficultyEasy, TopicID: "t-1", Prerequisites: []string{"p"}},
		{ID: "free", Type: core.ContentTypeGame, Difficulty: core.DifficultyEasy, TopicID: "t-1"},
	}
	catalog, err := store.NewMemoryCatalog(topics, contents)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return catalog
}

// 前置未完成的候选整体排除：这是硬过滤，不是打分惩罚。
func TestPrerequisiteGate(t *testing.T) {
	node := &PrerequisiteNode{Catalog: gateCatalog(t)}
	rctx := &core.RecommendContext{
		UserID: "u-1",
		Progress: []*core.ProgressRecord{
			{ContentID: "p", Status: core.StatusInProgress}, // 进行中不算完成
		},
	}
	items := []*core.Item{core.NewItem("c"), core.NewItem("free")}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0].ID != "free" {
		t.Fatalf("want only free, got %+v", out)
	}
}

func TestPrerequisitePassesWhenCompleted(t *testing.T) {
	node := &PrerequisiteNode{Catalog: gateCatalog(t)}
	rctx := &core.RecommendContext{
		UserID: "u-1",
		Progress: []*core.ProgressRecord{
			{ContentID: "p", Status: core.StatusMastered},
		},
	}
	items := []*core.Item{core.NewItem("c")}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0].ID != "c" {
		t.Fatalf("mastered prerequisite should unlock c, got %+v", out)
	}
}

func TestSeenFilter(t *testing.T) {
	node := &SeenNode{}
	rctx := &core.RecommendContext{
		UserID: "u-1",
		Progress: []*core.ProgressRecord{
			{ContentID: "seen-1", Status: core.StatusInProgress},
			{ContentID: "seen-2", Status: core.StatusCompleted},
		},
	}
	items := []*core.Item{core.NewItem("seen-1"), core.NewItem("seen-2"), core.NewItem("fresh")}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0].ID != "fresh" {
		t.Fatalf("want only fresh, got %+v", out)
	}
}
