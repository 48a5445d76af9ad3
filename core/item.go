package core

import "github.com/rushteam/edukit/pkg/utils"

// Item 是推荐链路中的统一承载结构：分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// FillContentMeta 把内容元数据写入 Item.Meta，供最终结果组装使用。
func (it *Item) FillContentMeta(c *ContentItem) {
	if it.Meta == nil {
		it.Meta = make(map[string]any)
	}
	it.Meta["title"] = c.Title
	it.Meta["content_type"] = string(c.Type)
	it.Meta["difficulty_level"] = c.Difficulty.String()
	it.Meta["topic_id"] = c.TopicID
}

// Recommendation 是对外返回的推荐结果行：纯数据、无副作用。
type Recommendation struct {
	ContentID   string          `json:"id"`
	Title       string          `json:"title"`
	ContentType ContentType     `json:"content_type"`
	Difficulty  DifficultyLevel `json:"difficulty_level"`

	// Score 是相似度/相关度分数（相似场景 0-100，路径场景为加权分）
	Score float64 `json:"score"`

	// Reason 是给用户看的推荐理由（可为空）
	Reason string `json:"reason,omitempty"`
}

// ToRecommendation 把 Item 转换成对外结果行（reason 取自同名 Label）。
func (it *Item) ToRecommendation() Recommendation {
	rec := Recommendation{ContentID: it.ID, Score: it.Score}
	if v, ok := it.Meta["title"].(string); ok {
		rec.Title = v
	}
	if v, ok := it.Meta["content_type"].(string); ok {
		rec.ContentType = ContentType(v)
	}
	if v, ok := it.Meta["difficulty_level"].(string); ok {
		if d, ok := ParseDifficulty(v); ok {
			rec.Difficulty = d
		}
	}
	if lbl, ok := it.Labels["reason"]; ok {
		rec.Reason = lbl.Value
	}
	return rec
}
