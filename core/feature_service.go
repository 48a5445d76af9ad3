package core

import "context"

// FeatureService 是特征服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（feature）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 获取学习者实时特征：近期投入度、活跃天数等
//   - 获取内容统计特征：完课率、平均分等
//
// 注意：请求级上下文特征（如 topic_id、limit 等）应通过 RecommendContext.Params
// 传递，而不是通过 FeatureService 获取。
//
// 实现：
//   - feature.MemoryService：内存实现（测试与示例）
//   - feature.FeastService：Feast 在线特征平台接入
//   - feature.CachedService：在任意实现之上叠加 TTL 缓存
type FeatureService interface {
	// Name 返回特征服务名称（用于日志/监控）
	Name() string

	// GetLearnerFeatures 获取学习者特征（单个用户）
	GetLearnerFeatures(ctx context.Context, userID string) (map[string]float64, error)

	// GetContentFeatures 获取内容特征（单个内容）
	GetContentFeatures(ctx context.Context, contentID string) (map[string]float64, error)

	// BatchGetContentFeatures 批量获取内容特征（减少网络往返）
	BatchGetContentFeatures(ctx context.Context, contentIDs []string) (map[string]map[string]float64, error)

	// Close 关闭特征服务，释放资源
	Close(ctx context.Context) error
}

// ErrFeatureNotFound 表示特征不存在
var ErrFeatureNotFound = NewDomainError(ModuleFeature, ErrorCodeNotFound, "feature: not found")

// ErrFeatureUnavailable 表示特征服务不可用（调用方应降级，而不是失败）
var ErrFeatureUnavailable = NewDomainError(ModuleFeature, ErrorCodeUnavailable, "feature: service unavailable")
