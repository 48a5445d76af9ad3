package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rushteam/edukit/core"
)

func f64(v float64) *float64 { return &v }

func newProgressStore(t *testing.T) (*KVProgressStore, *MemoryStore) {
	t.Helper()
	kv := NewMemoryStore()
	t.Cleanup(func() { kv.Close() })
	return NewKVProgressStore(kv), kv
}

func TestProgressPutGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newProgressStore(t)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := &core.ProgressRecord{
		UserID:          "u-1",
		ContentID:       "c-1",
		Status:          core.StatusCompleted,
		Score:           f64(88),
		Attempts:        2,
		LastInteraction: at,
	}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "u-1", "c-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != core.StatusCompleted || *got.Score != 88 || got.Attempts != 2 {
		t.Errorf("got %+v", got)
	}
	if !got.LastInteraction.Equal(at) {
		t.Errorf("LastInteraction = %v, want %v", got.LastInteraction, at)
	}
}

func TestProgressGetNotFound(t *testing.T) {
	s, _ := newProgressStore(t)
	_, err := s.Get(context.Background(), "u-1", "missing")
	if !core.IsNotFound(err) {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}

func TestProgressPutValidation(t *testing.T) {
	s, _ := newProgressStore(t)
	if err := s.Put(context.Background(), &core.ProgressRecord{UserID: "u-1"}); err == nil {
		t.Error("record without content id must be rejected")
	}
	if err := s.Put(context.Background(), nil); err == nil {
		t.Error("nil record must be rejected")
	}
}

// 单条脏记录跳过并继续，不让一条坏数据拖垮整个用户的读取。
func TestProgressListSkipsMalformed(t *testing.T) {
	ctx := context.Background()
	s, kv := newProgressStore(t)

	if err := s.Put(ctx, &core.ProgressRecord{UserID: "u-1", ContentID: "c-1", Status: core.StatusCompleted}); err != nil {
		t.Fatalf("put: %v", err)
	}
	// 直接往 Hash 里塞坏数据
	if err := kv.HSet(ctx, "progress:u-1", "c-bad", []byte("{broken")); err != nil {
		t.Fatalf("hset: %v", err)
	}

	records, err := s.ListByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].ContentID != "c-1" {
		t.Fatalf("want only the healthy record, got %+v", records)
	}
	if s.Diagnostics() != 1 {
		t.Errorf("diagnostics = %d, want 1 skipped record", s.Diagnostics())
	}
}

// 诊断计数并发安全：多个 goroutine 同时读取时计数不丢失（-race 下验证）。
func TestProgressListConcurrent(t *testing.T) {
	ctx := context.Background()
	s, kv := newProgressStore(t)

	if err := s.Put(ctx, &core.ProgressRecord{UserID: "u-1", ContentID: "c-1", Status: core.StatusCompleted}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.HSet(ctx, "progress:u-1", "c-bad", []byte("{broken")); err != nil {
		t.Fatalf("hset: %v", err)
	}

	const readers = 8
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := s.ListByUser(ctx, "u-1")
			if err != nil {
				errs <- err
				return
			}
			if len(records) != 1 {
				errs <- fmt.Errorf("want 1 record, got %d", len(records))
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	if s.Diagnostics() != readers {
		t.Errorf("diagnostics = %d, want %d (one skip per read)", s.Diagnostics(), readers)
	}
}

func TestProgressListEmptyUser(t *testing.T) {
	s, _ := newProgressStore(t)
	records, err := s.ListByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("want empty list, got %+v", records)
	}
}
