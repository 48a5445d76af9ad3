package filter

import (
	"context"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/pkg/utils"
)

// PrerequisiteNode 是前置门槛：任何一个前置内容未完成，候选整体排除。
// 这是硬过滤而不是打分惩罚——没学过前置知识的内容不应该出现在路径里。
type PrerequisiteNode struct {
	Catalog core.ContentCatalog
}

func (n *PrerequisiteNode) Name() string        { return "filter.prerequisite" }
func (n *PrerequisiteNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *PrerequisiteNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Catalog == nil || rctx == nil || len(items) == 0 {
		return items, nil
	}

	completed := rctx.CompletedSet()
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		c, err := n.Catalog.GetContent(ctx, it.ID)
		if err != nil {
			// 目录里查不到的候选直接丢弃（坏数据跳过语义）
			continue
		}

		missing := ""
		for _, pre := range c.Prerequisites {
			if !completed[pre] {
				missing = pre
				break
			}
		}
		if missing != "" {
			it.PutLabel("filtered", utils.Label{Value: "missing_prerequisite:" + missing, Source: n.Name()})
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

var _ pipeline.Node = (*PrerequisiteNode)(nil)
