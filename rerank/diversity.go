package rerank

import (
	"context"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
)

// Diversity 是一个简单的多样性 ReRank：按内容类型去重（保留首个出现的类型）。
// 类型来源优先级：
//   - label[LabelKey].Value
//   - meta[LabelKey] (string)
//
// 推荐列表里连续出现五个 quiz 不利于学习体验，该节点保证每种类型最多出现一次。
// 没有类型信息的物品直接保留。
type Diversity struct {
	LabelKey string // 默认 "content_type"
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.LabelKey
	if key == "" {
		key = "content_type"
	}

	seen := make(map[string]bool, len(core.ContentTypes))
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		ct := ""
		if it.Labels != nil {
			if lbl, ok := it.Labels[key]; ok {
				ct = lbl.Value
			}
		}
		if ct == "" && it.Meta != nil {
			if v, ok := it.Meta[key]; ok {
				if s, ok := v.(string); ok {
					ct = s
				}
			}
		}

		if ct == "" {
			out = append(out, it)
			continue
		}
		if seen[ct] {
			continue
		}
		seen[ct] = true
		out = append(out, it)
	}

	return out, nil
}

var _ pipeline.Node = (*Diversity)(nil)
