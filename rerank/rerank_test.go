package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/edukit/core"
)

func TestTopN(t *testing.T) {
	items := []*core.Item{core.NewItem("a"), core.NewItem("b"), core.NewItem("c")}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"truncates", 2, 2},
		{"n larger than items", 10, 3},
		{"zero means no truncation", 0, 3},
		{"negative means no truncation", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, items)
			if err != nil {
				t.Fatalf("process: %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
		})
	}
}

// 每种内容类型最多保留一个（首个出现的），没有类型信息的保留。
func TestDiversity(t *testing.T) {
	mk := func(id string, ct core.ContentType) *core.Item {
		it := core.NewItem(id)
		it.Meta["content_type"] = string(ct)
		return it
	}

	items := []*core.Item{
		mk("quiz-1", core.ContentTypeQuiz),
		mk("quiz-2", core.ContentTypeQuiz),
		mk("game-1", core.ContentTypeGame),
		core.NewItem("untyped"),
	}

	node := &Diversity{}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	ids := make([]string, 0, len(out))
	for _, it := range out {
		ids = append(ids, it.ID)
	}
	want := []string{"quiz-1", "game-1", "untyped"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}
