// Package builders 通过 init 注册内置 Node 的配置构建器。
// 入口处空导入即可启用配置驱动：
//
//	import _ "github.com/rushteam/edukit/config/builders"
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/edukit/config"
	"github.com/rushteam/edukit/feature"
	"github.com/rushteam/edukit/filter"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/pkg/conv"
	"github.com/rushteam/edukit/rank"
	"github.com/rushteam/edukit/recall"
	"github.com/rushteam/edukit/rerank"
)

func init() {
	config.Register("recall.similar", BuildSimilarNode)
	config.Register("recall.coldstart", BuildColdStartNode)
	config.Register("recall.topic", BuildTopicNode)
	config.Register("recall.candidates", BuildCandidatePoolNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter.seen", BuildSeenNode)
	config.Register("filter.prerequisite", BuildPrerequisiteNode)
	config.Register("filter.rule", BuildRuleFilterNode)
	config.Register("rank.learner_profile", BuildLearnerProfileNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("feature.enrich", BuildFeatureEnrichNode)
}

// buildSource 按类型构建召回源（fanout 的子配置与顶层配置共用）。
func buildSource(sourceType string, cfg map[string]interface{}) (recall.Source, error) {
	deps := config.GetDeps()
	topK := conv.ConfigGetInt(cfg, "top_k", 0)
	switch sourceType {
	case "similar":
		return &recall.SimilarContent{Index: deps.Index, Catalog: deps.Catalog, TopK: topK}, nil
	case "coldstart":
		return &recall.ColdStart{Catalog: deps.Catalog, TopK: topK}, nil
	case "topic":
		return &recall.TopicBased{Catalog: deps.Catalog, TopK: topK}, nil
	case "candidates":
		return &recall.CandidatePool{Catalog: deps.Catalog}, nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

func BuildSimilarNode(cfg map[string]interface{}) (pipeline.Node, error) {
	src, err := buildSource("similar", cfg)
	if err != nil {
		return nil, err
	}
	return src.(pipeline.Node), nil
}

func BuildColdStartNode(cfg map[string]interface{}) (pipeline.Node, error) {
	src, err := buildSource("coldstart", cfg)
	if err != nil {
		return nil, err
	}
	return src.(pipeline.Node), nil
}

func BuildTopicNode(cfg map[string]interface{}) (pipeline.Node, error) {
	src, err := buildSource("topic", cfg)
	if err != nil {
		return nil, err
	}
	return src.(pipeline.Node), nil
}

func BuildCandidatePoolNode(cfg map[string]interface{}) (pipeline.Node, error) {
	src, err := buildSource("candidates", cfg)
	if err != nil {
		return nil, err
	}
	return src.(pipeline.Node), nil
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		src, err := buildSource(conv.ConfigGet(sourceMap, "type", ""), sourceMap)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = n
	}
	return fanout, nil
}

func BuildSeenNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &filter.SeenNode{}, nil
}

func BuildPrerequisiteNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &filter.PrerequisiteNode{Catalog: config.GetDeps().Catalog}, nil
}

func BuildRuleFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	return &filter.FilterNode{Filters: []filter.Filter{&filter.RuleFilter{Expr: expr}}}, nil
}

func BuildLearnerProfileNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &rank.LearnerProfileNode{Catalog: config.GetDeps().Catalog}
	if weightsMap, ok := cfg["weights"].(map[string]interface{}); ok {
		weights := conv.MapToFloat64(weightsMap)
		node.Weights = rank.Weights{
			Style:      weights["style"],
			Difficulty: weights["difficulty"],
			Topic:      weights["topic"],
		}
	}
	return node, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{LabelKey: conv.ConfigGet(cfg, "label_key", "")}, nil
}

func BuildFeatureEnrichNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &feature.EnrichNode{Service: config.GetDeps().Features}, nil
}
