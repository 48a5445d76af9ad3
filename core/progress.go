package core

import (
	"encoding/json"
	"time"

	"context"
)

// CompletionStatus 是单条学习进度的完成状态。
// 实践上单调递进（not_started → in_progress → completed → mastered），
// 但存储层不强制单调；本库按读取到的状态计算。
type CompletionStatus string

const (
	StatusNotStarted CompletionStatus = "not_started"
	StatusInProgress CompletionStatus = "in_progress"
	StatusCompleted  CompletionStatus = "completed"
	StatusMastered   CompletionStatus = "mastered"
)

// Done 判断状态是否属于"已完成"集合（completed / mastered）。
// 前置门槛、完成率、种子选择统一使用此判定。
func (s CompletionStatus) Done() bool {
	return s == StatusCompleted || s == StatusMastered
}

// ProgressRecord 是 (用户, 内容) 维度的学习进度记录。
// 首次交互时创建，之后原地更新；本库从不删除进度（生命周期归持久层）。
type ProgressRecord struct {
	UserID    string
	ContentID string
	Status    CompletionStatus

	// Score 是 0-100 的成绩，未评分时为 nil
	Score *float64

	// Attempts 是累计交互次数
	Attempts int

	// TimeSpentSeconds 是累计学习时长（秒）
	TimeSpentSeconds int

	// LastInteraction 是最近一次交互时间
	LastInteraction time.Time

	// CompletedAt 仅在首次进入 completed/mastered 时写入，之后不再变更
	CompletedAt *time.Time

	// EngagementScore 是 0-1 的投入度，未采集时为 nil
	EngagementScore *float64

	// Mistakes 是结构化的错误数据，对推荐逻辑不透明
	Mistakes json.RawMessage
}

// Interaction 是一次学习交互的增量输入。
type Interaction struct {
	Status           CompletionStatus
	Score            *float64
	TimeSpentSeconds int
	EngagementScore  *float64
	Mistakes         json.RawMessage
	At               time.Time
}

// ApplyInteraction 把一次交互合并进进度记录。
//
// 状态迁移的统一约定：
//   - 每次交互 Attempts +1，并刷新 LastInteraction
//   - CompletedAt 只在"首次"进入 completed/mastered 时写入一次
//   - 状态按输入覆盖，不强制单调（回退由调用方业务自行约束）
func (p *ProgressRecord) ApplyInteraction(in Interaction) {
	p.Attempts++
	if !in.At.IsZero() {
		p.LastInteraction = in.At
	}
	if in.Status != "" {
		wasDone := p.Status.Done()
		p.Status = in.Status
		if !wasDone && in.Status.Done() && p.CompletedAt == nil {
			at := in.At
			if at.IsZero() {
				at = time.Now()
			}
			p.CompletedAt = &at
		}
	}
	if in.Score != nil {
		p.Score = in.Score
	}
	if in.TimeSpentSeconds > 0 {
		p.TimeSpentSeconds += in.TimeSpentSeconds
	}
	if in.EngagementScore != nil {
		p.EngagementScore = in.EngagementScore
	}
	if len(in.Mistakes) > 0 {
		p.Mistakes = in.Mistakes
	}
}

// ProgressStore 是学习进度的领域接口。
//
// 由宿主应用的存储层实现；本库自带基于 core.Store 的实现
// （store.KVProgressStore，可挂内存或 Redis 后端）。
// 推荐与路径生成只读进度；显式的进度更新由宿主请求层调用 Put。
type ProgressStore interface {
	// ListByUser 获取用户的全部进度记录
	ListByUser(ctx context.Context, userID string) ([]*ProgressRecord, error)

	// Get 获取单条进度；不存在返回 ErrProgressNotFound
	Get(ctx context.Context, userID, contentID string) (*ProgressRecord, error)

	// Put 创建或覆盖单条进度
	Put(ctx context.Context, record *ProgressRecord) error
}

// ErrProgressNotFound 表示 (用户, 内容) 维度的进度不存在
var ErrProgressNotFound = NewDomainError(ModuleProgress, ErrorCodeNotFound, "progress: record not found")
