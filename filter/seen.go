package filter

import (
	"context"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/pkg/utils"
)

// SeenNode 过滤掉用户已有进度记录的内容（推荐去重）。
// 判定基于 rctx.Progress 快照，集合每次请求只构建一次。
type SeenNode struct{}

func (n *SeenNode) Name() string        { return "filter.seen" }
func (n *SeenNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *SeenNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil || len(items) == 0 {
		return items, nil
	}

	seen := rctx.SeenSet()
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if seen[it.ID] {
			it.PutLabel("filtered", utils.Label{Value: "true", Source: n.Name()})
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

var _ pipeline.Node = (*SeenNode)(nil)
