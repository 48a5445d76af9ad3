// Package edukit 是一个自适应学习推荐与分析工具包（Education Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐与学习路径都通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 降级优先: 向量索引缺失时按元数据兜底，空结果是合法输出而不是错误
package edukit

import "github.com/rushteam/edukit/pipeline"

// 轻量 facade：便于用户直接 import "edukit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
