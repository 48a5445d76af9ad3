package core

import (
	"context"
	"time"
)

// LearnerProfile 是学习者画像的核心抽象。
//
// 一句话定义：学习者画像 = 推荐链路的"全局上下文 + 决策信号"。
//
// 它不是某一个 Node，而是：
//   - 被所有 Node 共享（冷启动、风格打分、难度推进都读它）
//   - 由宿主应用维护；本库只读
//
// 设计要点：
//
//	维度            作用
//	年级            冷启动 / 候选池按年级主题过滤
//	显式学习风格    风格打分（未设置时回落到默认组合）
//	推断亲和度      analyze.StyleDetector 的输出，可回写画像
type LearnerProfile struct {
	UserID string

	// GradeLevel 是年级（0 表示未知，冷启动时降级为全量 beginner 推荐）
	GradeLevel int

	// Styles 是用户显式声明的学习风格标签；为空时打分使用默认组合
	Styles []LearningStyle

	// Affinities 是最近一次推断出的风格亲和度（可选）
	Affinities StyleAffinities

	// UpdateTime 是画像最后更新时间
	UpdateTime time.Time
}

// NewLearnerProfile 创建一个空画像。
func NewLearnerProfile(userID string) *LearnerProfile {
	return &LearnerProfile{UserID: userID, UpdateTime: time.Now()}
}

// EffectiveStyles 返回打分使用的风格组合。
// 未设置显式风格时默认 {visual, kinesthetic}（多数低龄学习者的稳妥默认）。
func (p *LearnerProfile) EffectiveStyles() []LearningStyle {
	if p != nil && len(p.Styles) > 0 {
		return p.Styles
	}
	return []LearningStyle{StyleVisual, StyleKinesthetic}
}

// LearnerStore 是学习者画像的领域接口，由宿主应用实现。
type LearnerStore interface {
	// GetLearner 按 ID 获取画像；不存在返回 ErrLearnerNotFound
	GetLearner(ctx context.Context, userID string) (*LearnerProfile, error)
}

// ErrLearnerNotFound 表示用户不存在。
// 未知用户是类型化失败（NOT_FOUND），从不静默替换为空画像。
var ErrLearnerNotFound = NewDomainError(ModuleLearner, ErrorCodeNotFound, "learner: profile not found")
