package pipeline

import (
	"context"

	"github.com/rushteam/edukit/core"
)

// PipelineHook 在每个 Node 前后执行，用于观测、埋点与结果旁路。
// Hook 返回的 items 会替换链路中的 items（通常原样返回）。
// AfterNode 返回 nil error 不会清除 Node 已产生的错误，只有非 nil 返回值会覆盖。
type PipelineHook interface {
	BeforeNode(ctx context.Context, rctx *core.RecommendContext, node Node, items []*core.Item) ([]*core.Item, error)
	AfterNode(ctx context.Context, rctx *core.RecommendContext, node Node, items []*core.Item, err error) ([]*core.Item, error)
}

// Pipeline 是 edukit 的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 推荐/学习路径两条链路共用同一套 Node 形态（Recall → Filter → Rank → ReRank）。
type Pipeline struct {
	Nodes []Node
	Hooks []PipelineHook
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		for _, h := range p.Hooks {
			next, err := h.BeforeNode(ctx, rctx, node, cur)
			if err != nil {
				return nil, err
			}
			cur = next
		}

		next, err := node.Process(ctx, rctx, cur)

		// Hook 可以改写 items、可以追加错误，但不能抹掉 Node 的失败
		for _, h := range p.Hooks {
			hooked, herr := h.AfterNode(ctx, rctx, node, next, err)
			next = hooked
			if herr != nil {
				err = herr
			}
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
