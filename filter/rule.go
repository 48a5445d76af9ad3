package filter

import (
	"context"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的规则过滤器。
// 表达式返回 true 的物品会被过滤掉。
//
// 示例：
//   - `item.meta.difficulty_level == "expert"` → 屏蔽 expert 难度
//   - `label.recall_source.contains("topic") && item.score < 76.0`
//     → 屏蔽低分的主题补位结果
type RuleFilter struct {
	// Expr 是 CEL 表达式（见 pkg/dsl）
	Expr string
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}

var _ Filter = (*RuleFilter)(nil)
