package vector

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"sync"

	"github.com/rushteam/edukit/core"
)

// 快照在 Store 中的默认 key（索引本体 + 位置→内容 ID 映射表）。
const (
	DefaultIndexKey   = "vector:content_embeddings"
	DefaultMappingKey = "vector:content_id_mapping"
)

// Neighbor 是一次近邻查询的单个结果。
type Neighbor struct {
	ContentID string

	// Similarity 是 0-100 的有界相似度：max(0, 100 - distance*10)
	Similarity float64
}

// SimilarityIndex 是内容 Embedding 的近邻索引。
//
// 设计要点：
//   - 读多写少：进程启动时 Load 一次，之后作为不可变快照被并发查询
//   - 重建归外部 Embedding 任务所有（Add + Save），查询链路从不写索引
//   - 缺失/损坏的快照是"降级模式"而不是错误：Load 软失败为空索引，
//     所有查询返回空结果，调用方必须走元数据兜底
type SimilarityIndex struct {
	mu        sync.RWMutex
	dimension int
	ids       []string             // position -> content ID
	vectors   [][]float64          // position -> embedding
	positions map[string]int       // content ID -> position
}

// snapshot 是持久化的索引本体（JSON 编码后存入 core.Store）。
type snapshot struct {
	Dimension int         `json:"dimension"`
	Vectors   [][]float64 `json:"vectors"`
}

// NewSimilarityIndex 创建一个指定维度的空索引。
func NewSimilarityIndex(dimension int) *SimilarityIndex {
	return &SimilarityIndex{
		dimension: dimension,
		positions: make(map[string]int),
	}
}

// Dimension 返回索引的向量维度。
func (idx *SimilarityIndex) Dimension() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// Len 返回索引中的向量数量。
func (idx *SimilarityIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.ids)
}

// Ready 返回索引是否已加载且非空。调用方据此决定是否走兜底策略。
func (idx *SimilarityIndex) Ready() bool {
	return idx.Len() > 0
}

// Load 从 Store 反序列化索引快照与 ID 映射表。
//
// 软失败语义：快照缺失或损坏时索引保持为空并返回 nil，
// 不向上抛错——这是文档化的降级模式，由查询方兜底。
func (idx *SimilarityIndex) Load(ctx context.Context, s core.Store, keys ...string) error {
	indexKey, mappingKey := DefaultIndexKey, DefaultMappingKey
	if len(keys) > 0 && keys[0] != "" {
		indexKey = keys[0]
	}
	if len(keys) > 1 && keys[1] != "" {
		mappingKey = keys[1]
	}

	rawIndex, err := s.Get(ctx, indexKey)
	if err != nil {
		return nil // 缺失快照：保持空索引
	}
	rawMapping, err := s.Get(ctx, mappingKey)
	if err != nil {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(rawIndex, &snap); err != nil {
		return nil // 损坏快照：同样降级为空
	}
	var ids []string
	if err := json.Unmarshal(rawMapping, &ids); err != nil {
		return nil
	}
	if len(ids) != len(snap.Vectors) {
		return nil // 映射表与索引不一致，视同损坏
	}

	positions := make(map[string]int, len(ids))
	for i, id := range ids {
		positions[id] = i
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if snap.Dimension > 0 {
		idx.dimension = snap.Dimension
	}
	idx.ids = ids
	idx.vectors = snap.Vectors
	idx.positions = positions
	return nil
}

// Save 把当前索引持久化到 Store（索引本体 + ID 映射表两个 key）。
// 由外部 Embedding 重建任务调用；查询链路不会触达。
func (idx *SimilarityIndex) Save(ctx context.Context, s core.Store, keys ...string) error {
	indexKey, mappingKey := DefaultIndexKey, DefaultMappingKey
	if len(keys) > 0 && keys[0] != "" {
		indexKey = keys[0]
	}
	if len(keys) > 1 && keys[1] != "" {
		mappingKey = keys[1]
	}

	idx.mu.RLock()
	snap := snapshot{Dimension: idx.dimension, Vectors: idx.vectors}
	ids := idx.ids
	idx.mu.RUnlock()

	rawIndex, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	rawMapping, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	if err := s.Set(ctx, indexKey, rawIndex); err != nil {
		return err
	}
	return s.Set(ctx, mappingKey, rawMapping)
}

// Add 插入或替换一个内容向量（重建任务专用）。
// 维度不匹配返回 INVALID_INPUT。
func (idx *SimilarityIndex) Add(contentID string, vec []float64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dimension == 0 {
		idx.dimension = len(vec)
	}
	if len(vec) != idx.dimension {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector: dimension mismatch")
	}

	if pos, ok := idx.positions[contentID]; ok {
		idx.vectors[pos] = vec
		return nil
	}
	idx.positions[contentID] = len(idx.ids)
	idx.ids = append(idx.ids, contentID)
	idx.vectors = append(idx.vectors, vec)
	return nil
}

// QueryByContent 按内容 ID 查询 k 个最相似的内容。
//
// 自身匹配会被排除；结果按相似度降序，最多 k 条。
// 内容不在索引中或索引为空时返回空结果（降级模式，不是错误）。
func (idx *SimilarityIndex) QueryByContent(contentID string, k int) []Neighbor {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	pos, ok := idx.positions[contentID]
	if !ok {
		return nil
	}
	// k+1 近邻，排除自身后截断到 k
	return idx.search(idx.vectors[pos], k+1, pos)
}

// QueryByVector 按向量查询 k 个最相似的内容。
// 用于尚未入库的新内容（还没有内容 ID 对应的向量位置）。
func (idx *SimilarityIndex) QueryByVector(vec []float64, k int) []Neighbor {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.search(vec, k, -1)
}

// search 在快照上做欧氏距离暴力检索。exclude 为自身位置（-1 表示无）。
// 调用方必须持有读锁。
func (idx *SimilarityIndex) search(query []float64, k int, exclude int) []Neighbor {
	if len(idx.vectors) == 0 || len(query) != idx.dimension || k <= 0 {
		return nil
	}

	type scored struct {
		pos  int
		dist float64
	}
	results := make([]scored, 0, len(idx.vectors))
	for i, v := range idx.vectors {
		if i == exclude {
			continue
		}
		results = append(results, scored{pos: i, dist: euclideanDistance(query, v)})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].dist < results[j].dist
	})

	limit := k
	if exclude >= 0 {
		limit = k - 1 // QueryByContent 传入的是 k+1
	}
	if limit > len(results) {
		limit = len(results)
	}

	out := make([]Neighbor, 0, limit)
	for _, r := range results[:limit] {
		out = append(out, Neighbor{
			ContentID:  idx.ids[r.pos],
			Similarity: distanceToSimilarity(r.dist),
		})
	}
	return out
}

// distanceToSimilarity 把欧氏距离换算为 0-100 的有界相似度。
func distanceToSimilarity(dist float64) float64 {
	return math.Max(0, 100-dist*10)
}

func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
