package vector

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/edukit/core"
)

// Search 实现 core.VectorService 接口，使 SimilarityIndex 可以
// 与外部向量数据库实现互换（召回层只依赖领域接口）。
//
// Collection 与 Filter 对进程内快照无意义，会被忽略。
func (idx *SimilarityIndex) Search(ctx context.Context, req *core.VectorSearchRequest) (*core.VectorSearchResult, error) {
	if req == nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector: search request is nil")
	}

	metric := req.Metric
	if metric == "" {
		metric = string(core.MetricEuclidean)
	}
	if !core.ValidateVectorMetric(metric) {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector: unknown metric "+metric)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.vectors) == 0 || len(req.Vector) != idx.dimension {
		return &core.VectorSearchResult{Items: []core.VectorSearchItem{}}, nil
	}

	type scored struct {
		pos   int
		score float64
		dist  float64
	}
	results := make([]scored, 0, len(idx.vectors))
	for i, v := range idx.vectors {
		var score, dist float64
		switch core.MetricType(metric) {
		case core.MetricCosine:
			score = cosineSimilarity(req.Vector, v)
			dist = 1 - score
		case core.MetricInnerProduct:
			score = innerProduct(req.Vector, v)
			dist = -score
		default: // euclidean
			dist = euclideanDistance(req.Vector, v)
			score = distanceToSimilarity(dist)
		}
		results = append(results, scored{pos: i, score: score, dist: dist})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	items := make([]core.VectorSearchItem, 0, len(results))
	for _, r := range results {
		items = append(items, core.VectorSearchItem{
			ID:       idx.ids[r.pos],
			Score:    r.score,
			Distance: r.dist,
		})
	}
	return &core.VectorSearchResult{Items: items}, nil
}

// Close 实现 core.VectorService 接口；进程内快照无资源可释放。
func (idx *SimilarityIndex) Close() error { return nil }

var _ core.VectorService = (*SimilarityIndex)(nil)

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func innerProduct(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
