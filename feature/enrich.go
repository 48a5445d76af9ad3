package feature

import (
	"context"
	"strconv"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/pkg/utils"
)

// EnrichNode 是特征注入节点：把学习者实时特征写进 rctx.Params
// （realtime_ 前缀），把内容统计特征写进 item.Meta（feature_ 前缀）。
//
// 特征服务不可用时整体跳过，不影响主链路（降级而不是失败）。
type EnrichNode struct {
	Service core.FeatureService
}

func (n *EnrichNode) Name() string        { return "feature.enrich" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *EnrichNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Service == nil || rctx == nil {
		return items, nil
	}

	if learnerFeatures, err := n.Service.GetLearnerFeatures(ctx, rctx.UserID); err == nil {
		if rctx.Params == nil {
			rctx.Params = make(map[string]any, len(learnerFeatures))
		}
		for name, v := range learnerFeatures {
			rctx.Params["realtime_"+name] = v
		}
	} else if !core.IsUnavailable(err) && !core.IsNotFound(err) {
		return nil, err
	}

	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}
	contentFeatures, err := n.Service.BatchGetContentFeatures(ctx, ids)
	if err != nil {
		if core.IsUnavailable(err) || core.IsNotFound(err) {
			return items, nil
		}
		return nil, err
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		features, ok := contentFeatures[it.ID]
		if !ok {
			continue
		}
		if it.Meta == nil {
			it.Meta = make(map[string]any, len(features))
		}
		for name, v := range features {
			it.Meta["feature_"+name] = v
		}
		it.PutLabel("enriched", utils.Label{Value: strconv.Itoa(len(features)), Source: n.Name()})
	}
	return items, nil
}

var _ pipeline.Node = (*EnrichNode)(nil)
