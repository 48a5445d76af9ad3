package feature

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/edukit/core"
)

func memoryService() *MemoryService {
	return &MemoryService{
		Learners: map[string]map[string]float64{
			"u-1": {"avg_score": 82.5, "active_days": 4},
		},
		Contents: map[string]map[string]float64{
			"c-1": {"completion_rate": 0.7},
			"c-2": {"completion_rate": 0.9},
		},
	}
}

func TestMemoryService(t *testing.T) {
	ctx := context.Background()
	svc := memoryService()

	f, err := svc.GetLearnerFeatures(ctx, "u-1")
	if err != nil || f["avg_score"] != 82.5 {
		t.Fatalf("learner features = %v, err %v", f, err)
	}
	if _, err := svc.GetLearnerFeatures(ctx, "ghost"); !core.IsNotFound(err) {
		t.Errorf("unknown user should be NOT_FOUND, got %v", err)
	}

	batch, err := svc.BatchGetContentFeatures(ctx, []string{"c-1", "missing"})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(batch) != 1 || batch["c-1"]["completion_rate"] != 0.7 {
		t.Errorf("batch = %v", batch)
	}
}

// countingService 记录每个方法的下游调用次数。
type countingService struct {
	*MemoryService
	learnerCalls int
	batchCalls   int
}

func (s *countingService) GetLearnerFeatures(ctx context.Context, userID string) (map[string]float64, error) {
	s.learnerCalls++
	return s.MemoryService.GetLearnerFeatures(ctx, userID)
}

func (s *countingService) BatchGetContentFeatures(ctx context.Context, ids []string) (map[string]map[string]float64, error) {
	s.batchCalls++
	return s.MemoryService.BatchGetContentFeatures(ctx, ids)
}

func TestCachedService(t *testing.T) {
	ctx := context.Background()
	inner := &countingService{MemoryService: memoryService()}
	svc := &CachedService{Inner: inner, TTL: time.Minute}

	for i := 0; i < 3; i++ {
		if _, err := svc.GetLearnerFeatures(ctx, "u-1"); err != nil {
			t.Fatalf("get learner features: %v", err)
		}
	}
	if inner.learnerCalls != 1 {
		t.Errorf("learner calls = %d, want 1 (cached)", inner.learnerCalls)
	}

	// 批量：第二次只向下游拉取缺失的 ID
	if _, err := svc.BatchGetContentFeatures(ctx, []string{"c-1"}); err != nil {
		t.Fatalf("batch: %v", err)
	}
	out, err := svc.BatchGetContentFeatures(ctx, []string{"c-1", "c-2"})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("batch = %v, want both ids", out)
	}
	if inner.batchCalls != 2 {
		t.Errorf("batch calls = %d, want 2", inner.batchCalls)
	}

	// 缓存不可用错误不落缓存
	if _, err := svc.GetLearnerFeatures(ctx, "ghost"); !core.IsNotFound(err) {
		t.Errorf("unknown user should be NOT_FOUND, got %v", err)
	}
}

func TestEnrichNode(t *testing.T) {
	ctx := context.Background()
	node := &EnrichNode{Service: memoryService()}

	rctx := &core.RecommendContext{UserID: "u-1"}
	items := []*core.Item{core.NewItem("c-1"), core.NewItem("unknown")}

	out, err := node.Process(ctx, rctx, items)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := rctx.Params["realtime_avg_score"]; got != 82.5 {
		t.Errorf("realtime_avg_score = %v, want 82.5", got)
	}
	if got := out[0].Meta["feature_completion_rate"]; got != 0.7 {
		t.Errorf("feature_completion_rate = %v, want 0.7", got)
	}
	if _, ok := out[0].Labels["enriched"]; !ok {
		t.Error("enriched items should carry the enriched label")
	}
	// 没有特征的内容原样保留
	if _, ok := out[1].Labels["enriched"]; ok {
		t.Error("items without features must not be labeled enriched")
	}
}

// 特征服务不可用时整体跳过，不影响主链路。
func TestEnrichNodeDegradesWhenUnavailable(t *testing.T) {
	node := &EnrichNode{Service: &FeastService{}} // 无 Client → UNAVAILABLE

	rctx := &core.RecommendContext{UserID: "u-1"}
	items := []*core.Item{core.NewItem("c-1")}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("unavailable features must degrade, got %v", err)
	}
	if len(out) != 1 || len(out[0].Meta) != 0 {
		t.Errorf("items should pass through untouched, got %+v", out)
	}
}
