package store

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/rushteam/edukit/core"
)

// progressKeyPrefix 是进度 Hash 的 key 前缀，实际 key 为 progress:{userID}，
// field 为 contentID。内存与 Redis 后端共用同一布局。
const progressKeyPrefix = "progress:"

// KVProgressStore 是基于 core.KeyValueStore 的进度存储实现。
// 每个用户一个 Hash：单条读写 O(1)，全量读取一次 HGetAll。
//
// 坏数据语义：单条记录反序列化失败时跳过该条并继续
// （分析/推荐不因一条脏数据整体失败），跳过数量可通过 Diagnostics 观测。
type KVProgressStore struct {
	kv core.KeyValueStore

	// skipped 累计 ListByUser 跳过的脏记录数（只增计数，并发读安全）
	skipped atomic.Int64
}

func NewKVProgressStore(kv core.KeyValueStore) *KVProgressStore {
	return &KVProgressStore{kv: kv}
}

func (s *KVProgressStore) ListByUser(ctx context.Context, userID string) ([]*core.ProgressRecord, error) {
	raw, err := s.kv.HGetAll(ctx, progressKeyPrefix+userID)
	if err != nil {
		return nil, err
	}

	out := make([]*core.ProgressRecord, 0, len(raw))
	for _, data := range raw {
		var rec core.ProgressRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			s.skipped.Add(1)
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}

func (s *KVProgressStore) Get(ctx context.Context, userID, contentID string) (*core.ProgressRecord, error) {
	data, err := s.kv.HGet(ctx, progressKeyPrefix+userID, contentID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, core.ErrProgressNotFound
		}
		return nil, err
	}

	var rec core.ProgressRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, core.NewDomainError(core.ModuleProgress, core.ErrorCodeInternalError, "progress: malformed record for "+contentID)
	}
	return &rec, nil
}

func (s *KVProgressStore) Put(ctx context.Context, record *core.ProgressRecord) error {
	if record == nil || record.UserID == "" || record.ContentID == "" {
		return core.NewDomainError(core.ModuleProgress, core.ErrorCodeInvalidInput, "progress: record requires user and content id")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.kv.HSet(ctx, progressKeyPrefix+record.UserID, record.ContentID, data)
}

// Diagnostics 返回 ListByUser 累计跳过的脏记录数。
func (s *KVProgressStore) Diagnostics() int { return int(s.skipped.Load()) }

var _ core.ProgressStore = (*KVProgressStore)(nil)
