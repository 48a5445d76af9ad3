package core

import "github.com/rushteam/edukit/pkg/utils"

// RecommendContext 承载学习者/场景/实时信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string
	Scene  string // 场景：recommend / learning_path / similar 等

	// Learner 是学习者画像（由宿主应用加载后注入）
	Learner *LearnerProfile

	// Progress 是用户的全量进度快照（每次请求读取一次，链路内只读共享）
	Progress []*ProgressRecord

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：新用户、连续学习中、掉线回流等
	Labels map[string]utils.Label

	// Params 请求级上下文参数，包含：
	// - 请求参数：topic_id, limit 等
	// - 实时特征：realtime_engagement 等（建议加 realtime_ 前缀区分）
	Params map[string]any
}

// CompletedSet 返回已完成（completed/mastered）的内容 ID 集合。
func (rctx *RecommendContext) CompletedSet() map[string]bool {
	out := make(map[string]bool, len(rctx.Progress))
	for _, p := range rctx.Progress {
		if p != nil && p.Status.Done() {
			out[p.ContentID] = true
		}
	}
	return out
}

// SeenSet 返回有任何进度记录的内容 ID 集合（用于推荐去重）。
func (rctx *RecommendContext) SeenSet() map[string]bool {
	out := make(map[string]bool, len(rctx.Progress))
	for _, p := range rctx.Progress {
		if p != nil {
			out[p.ContentID] = true
		}
	}
	return out
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
