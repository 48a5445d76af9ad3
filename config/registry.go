package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/edukit/core"
	"github.com/rushteam/edukit/pipeline"
	"github.com/rushteam/edukit/recall"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/edukit/config/builders"
// 以触发内置 Node（recall.similar、recall.coldstart、rank.learner_profile 等）的 init 注册。

// NodeBuilder 根据 config 构建 Node。
// 各组件在 init 中调用 Register(typeName, builder) 即可被配置驱动。
type NodeBuilder = func(map[string]interface{}) (pipeline.Node, error)

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Deps 是配置驱动无法表达的运行时依赖（目录、索引、特征服务），
// 由宿主应用在构建 Pipeline 前注入一次。
type Deps struct {
	Catalog  core.ContentCatalog
	Index    recall.NeighborIndex
	Features core.FeatureService
}

var (
	globalDeps   Deps
	globalDepsMu sync.RWMutex
)

// SetDeps 注入运行时依赖，应在 BuildPipeline 之前调用。
func SetDeps(d Deps) {
	globalDepsMu.Lock()
	globalDeps = d
	globalDepsMu.Unlock()
}

// GetDeps 返回当前注入的运行时依赖。
func GetDeps() Deps {
	globalDepsMu.RLock()
	defer globalDepsMu.RUnlock()
	return globalDeps
}

// Register 注册一种 Node 的构建逻辑，供 DefaultFactory 与配置驱动使用。
// 建议在各组件的 init 中调用，例如：func init() { config.Register("rerank.topn", BuildTopNNode) }
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 NodeFactory，包含所有通过 Register 注册的 Node 类型。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均已注册；若有未支持类型则返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			continue
		}
		defaultBuildersMu.RLock()
		_, ok := defaultBuilders[nc.Type]
		defaultBuildersMu.RUnlock()
		if !ok {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}
