package core

import (
	"context"
	"encoding/json"
)

// ContentType 是学习内容的类型。
// 内容类型与学习风格的匹配关系由 rank/analyze 的权重表定义。
type ContentType string

const (
	ContentTypeConcept    ContentType = "concept"    // 概念讲解
	ContentTypeExample    ContentType = "example"    // 示例演示
	ContentTypeExercise   ContentType = "exercise"   // 练习题
	ContentTypeGame       ContentType = "game"       // 互动游戏
	ContentTypeQuiz       ContentType = "quiz"       // 小测验
	ContentTypeAssessment ContentType = "assessment" // 阶段测评
)

// ContentTypes 是全部内容类型的固定枚举顺序（用于遍历权重表）。
var ContentTypes = []ContentType{
	ContentTypeConcept,
	ContentTypeExample,
	ContentTypeExercise,
	ContentTypeGame,
	ContentTypeQuiz,
	ContentTypeAssessment,
}

// DifficultyLevel 是有序的难度等级：beginner < easy < medium < hard < expert。
// 底层使用 int，便于比较相邻难度；对外序列化使用字符串形式。
type DifficultyLevel int

const (
	DifficultyBeginner DifficultyLevel = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
	DifficultyExpert
)

var difficultyNames = [...]string{"beginner", "easy", "medium", "hard", "expert"}

func (d DifficultyLevel) String() string {
	if d < DifficultyBeginner || d > DifficultyExpert {
		return "unknown"
	}
	return difficultyNames[d]
}

// ParseDifficulty 解析难度等级字符串。未知难度返回 (0, false)。
func ParseDifficulty(s string) (DifficultyLevel, bool) {
	for i, name := range difficultyNames {
		if name == s {
			return DifficultyLevel(i), true
		}
	}
	return DifficultyBeginner, false
}

// Adjacent 判断两个难度是否相邻（如 easy 与 medium）。
func (d DifficultyLevel) Adjacent(other DifficultyLevel) bool {
	diff := int(d) - int(other)
	return diff == 1 || diff == -1
}

// Next 返回难度晋级后的下一等级；expert 封顶。
func (d DifficultyLevel) Next() DifficultyLevel {
	if d >= DifficultyExpert {
		return DifficultyExpert
	}
	return d + 1
}

// ContentItem 是课程内容的最小单元（概念/练习/测验/游戏等）。
// 发布后不可变；由外部内容目录负责生命周期，本库只读。
type ContentItem struct {
	ID               string
	Title            string
	Description      string
	Type             ContentType
	Difficulty       DifficultyLevel
	TopicID          string
	EstimatedMinutes int

	// Payload 是内容的结构化数据（题干、素材等），对推荐逻辑不透明。
	// 解析失败属于"坏数据跳过"语义，不会中断整体计算。
	Payload json.RawMessage

	// Prerequisites 是前置内容 ID 的有序集合。
	// 不允许自引用；环在目录加载时由 ValidatePrerequisites 拒绝。
	Prerequisites []string
}

// Topic 是内容的主题分组（某年级/某学科下的知识点）。
type Topic struct {
	ID         string
	Name       string
	GradeLevel int
	Subject    string
	ParentID   string // 可选的父主题
}

// ContentCatalog 是内容目录的领域接口。
//
// 由宿主应用的存储层实现（本库自带 store.MemoryCatalog 供测试/原型使用）。
// 目录是只读协作方：推荐与分析从不写目录。
type ContentCatalog interface {
	// GetContent 按 ID 获取内容；不存在返回 ErrContentNotFound。
	GetContent(ctx context.Context, contentID string) (*ContentItem, error)

	// ListByTopic 获取某主题下的全部内容
	ListByTopic(ctx context.Context, topicID string) ([]*ContentItem, error)

	// ListByTopics 获取一组主题下的全部内容。
	// 约定：topicIDs 为 nil 时返回全量目录（冷启动兜底用），空切片返回空集。
	ListByTopics(ctx context.Context, topicIDs []string) ([]*ContentItem, error)

	// GetTopic 按 ID 获取主题；不存在返回 ErrTopicNotFound
	GetTopic(ctx context.Context, topicID string) (*Topic, error)

	// ListTopicsByGrade 获取某年级的全部主题
	ListTopicsByGrade(ctx context.Context, gradeLevel int) ([]*Topic, error)
}

// Catalog 错误定义
var (
	ErrContentNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: content not found")
	ErrTopicNotFound   = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: topic not found")
)

// ValidatePrerequisites 校验前置关系构成有向无环图。
//
// 前置关系本质是图，遍历时不能依赖"碰运气终止"；
// 目录加载时统一校验：自引用、引用缺失、环 都判定为非法目录。
func ValidatePrerequisites(items []*ContentItem) error {
	byID := make(map[string]*ContentItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	const (
		white = 0 // 未访问
		gray  = 1 // 访问中（在当前 DFS 栈上）
		black = 2 // 已完成
	)
	color := make(map[string]int, len(items))

	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case gray:
			return NewDomainError(ModuleCatalog, ErrorCodeInvalidInput, "catalog: prerequisite cycle detected at "+id)
		case black:
			return nil
		}
		color[id] = gray
		it := byID[id]
		if it != nil {
			for _, pre := range it.Prerequisites {
				if pre == id {
					return NewDomainError(ModuleCatalog, ErrorCodeInvalidInput, "catalog: content "+id+" lists itself as prerequisite")
				}
				if _, ok := byID[pre]; !ok {
					return NewDomainError(ModuleCatalog, ErrorCodeInvalidInput, "catalog: content "+id+" references unknown prerequisite "+pre)
				}
				if err := visit(pre); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	for _, it := range items {
		if err := visit(it.ID); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTopicTree 校验主题的父子关系无环（父链最终终止于根主题）。
func ValidateTopicTree(topics []*Topic) error {
	byID := make(map[string]*Topic, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
	}
	for _, t := range topics {
		seen := map[string]bool{t.ID: true}
		cur := t
		for cur.ParentID != "" {
			parent, ok := byID[cur.ParentID]
			if !ok {
				return NewDomainError(ModuleCatalog, ErrorCodeInvalidInput, "catalog: topic "+cur.ID+" references unknown parent "+cur.ParentID)
			}
			if seen[parent.ID] {
				return NewDomainError(ModuleCatalog, ErrorCodeInvalidInput, "catalog: topic cycle detected at "+parent.ID)
			}
			seen[parent.ID] = true
			cur = parent
		}
	}
	return nil
}
