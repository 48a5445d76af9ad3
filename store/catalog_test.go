package store

import (
	"context"
	"testing"

	"github.com/rushteam/edukit/core"
)

func TestNewMemoryCatalogRejectsBadGraphs(t *testing.T) {
	topics := []*core.Topic{{ID: "t-1", GradeLevel: 3}}

	cycle := []*core.ContentItem{
		{ID: "a", TopicID: "t-1", Prerequisites: []string{"b"}},
		{ID: "b", TopicID: "t-1", Prerequisites: []string{"a"}},
	}
	if _, err := NewMemoryCatalog(topics, cycle); err == nil {
		t.Error("prerequisite cycle must be rejected at load time")
	}

	topicCycle := []*core.Topic{
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
	}
	if _, err := NewMemoryCatalog(topicCycle, nil); err == nil {
		t.Error("topic cycle must be rejected at load time")
	}
}

func TestMemoryCatalogLookups(t *testing.T) {
	ctx := context.Background()
	topics := []*core.Topic{
		{ID: "t-1", Name: "Fractions", GradeLevel: 3},
		{ID: "t-2", Name: "Algebra", GradeLevel: 5},
	}
	contents := []*core.ContentItem{
		{ID: "c-1", TopicID: "t-1"},
		{ID: "c-2", TopicID: "t-1"},
		{ID: "c-3", TopicID: "t-2"},
	}
	catalog, err := NewMemoryCatalog(topics, contents)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	if _, err := catalog.GetContent(ctx, "ghost"); !core.IsNotFound(err) {
		t.Errorf("want NOT_FOUND for unknown content, got %v", err)
	}
	if _, err := catalog.GetTopic(ctx, "ghost"); !core.IsNotFound(err) {
		t.Errorf("want NOT_FOUND for unknown topic, got %v", err)
	}

	byTopic, err := catalog.ListByTopic(ctx, "t-1")
	if err != nil || len(byTopic) != 2 {
		t.Errorf("ListByTopic(t-1) = %d items, err %v; want 2", len(byTopic), err)
	}

	grade3, err := catalog.ListTopicsByGrade(ctx, 3)
	if err != nil || len(grade3) != 1 || grade3[0].ID != "t-1" {
		t.Errorf("ListTopicsByGrade(3) = %+v, err %v", grade3, err)
	}

	// nil 表示全量目录；空切片表示空集
	all, err := catalog.ListByTopics(ctx, nil)
	if err != nil || len(all) != 3 {
		t.Errorf("ListByTopics(nil) = %d items, err %v; want 3", len(all), err)
	}
	none, err := catalog.ListByTopics(ctx, []string{})
	if err != nil || len(none) != 0 {
		t.Errorf("ListByTopics(empty) = %d items, err %v; want 0", len(none), err)
	}
}
