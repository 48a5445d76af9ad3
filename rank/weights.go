package rank

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/edukit/core"
)

// Weights 是路径打分的加权系数。三项之和无需为 1，
// 随机扰动只负责打破平分，不改变相对排序的主导项。
type Weights struct {
	Style      float64 `yaml:"style"`
	Difficulty float64 `yaml:"difficulty"`
	Topic      float64 `yaml:"topic"`
}

// DefaultWeights 是默认加权：风格与难度各 0.4，主题兴趣 0.1（预留项）。
func DefaultWeights() Weights {
	return Weights{Style: 0.4, Difficulty: 0.4, Topic: 0.1}
}

// LoadWeights 从 YAML 文件加载加权系数（调参用），缺省项取默认值。
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, err
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return DefaultWeights(), err
	}
	return w, nil
}

// styleWeightDefault 是权重表未覆盖组合的兜底权重。
const styleWeightDefault = 0.7

// StyleWeights 是"学习风格 × 内容类型"的固定偏好权重表（取值 [0.5, 1.0]）。
// 显式建模为不可变配置数据，便于独立调参与测试，而不是散落在选择逻辑里。
var StyleWeights = map[core.LearningStyle]map[core.ContentType]float64{
	core.StyleVisual: {
		core.ContentTypeConcept:    0.8,
		core.ContentTypeExample:    1.0,
		core.ContentTypeExercise:   0.6,
		core.ContentTypeGame:       1.0,
		core.ContentTypeQuiz:       0.7,
		core.ContentTypeAssessment: 0.5,
	},
	core.StyleAuditory: {
		core.ContentTypeConcept:    1.0,
		core.ContentTypeExample:    0.8,
		core.ContentTypeExercise:   0.6,
		core.ContentTypeGame:       0.7,
		core.ContentTypeQuiz:       0.7,
		core.ContentTypeAssessment: 0.6,
	},
	core.StyleReadingWriting: {
		core.ContentTypeConcept:    0.9,
		core.ContentTypeExample:    0.8,
		core.ContentTypeExercise:   1.0,
		core.ContentTypeGame:       0.6,
		core.ContentTypeQuiz:       0.9,
		core.ContentTypeAssessment: 0.8,
	},
	core.StyleKinesthetic: {
		core.ContentTypeConcept:    0.6,
		core.ContentTypeExample:    0.7,
		core.ContentTypeExercise:   0.9,
		core.ContentTypeGame:       1.0,
		core.ContentTypeQuiz:       0.8,
		core.ContentTypeAssessment: 0.7,
	},
	core.StyleLogical: {
		core.ContentTypeConcept:    0.9,
		core.ContentTypeExample:    0.7,
		core.ContentTypeExercise:   1.0,
		core.ContentTypeGame:       0.6,
		core.ContentTypeQuiz:       0.8,
		core.ContentTypeAssessment: 0.9,
	},
	core.StyleSocial: {
		core.ContentTypeConcept:    0.7,
		core.ContentTypeExample:    0.8,
		core.ContentTypeExercise:   0.7,
		core.ContentTypeGame:       1.0,
		core.ContentTypeQuiz:       0.8,
		core.ContentTypeAssessment: 0.6,
	},
	core.StyleSolitary: {
		core.ContentTypeConcept:    0.9,
		core.ContentTypeExample:    0.8,
		core.ContentTypeExercise:   0.9,
		core.ContentTypeGame:       0.5,
		core.ContentTypeQuiz:       0.8,
		core.ContentTypeAssessment: 1.0,
	},
}

// StyleScore 返回一组学习风格对某内容类型的平均偏好权重。
func StyleScore(styles []core.LearningStyle, contentType core.ContentType) float64 {
	if len(styles) == 0 {
		return styleWeightDefault
	}
	var sum float64
	for _, s := range styles {
		w, ok := StyleWeights[s][contentType]
		if !ok {
			w = styleWeightDefault
		}
		sum += w
	}
	return sum / float64(len(styles))
}

// DifficultyScore 返回候选难度对用户的适配度（0-1）。
//
// 由用户在候选所属主题上的平均分分档：
//   - 该主题无任何记录：easy/medium 0.9，其余 0.7
//   - 有记录但无评分：轻微偏向简单内容 0.8
//   - 平均分 >90：hard/expert 1.0，其余 0.6
//   - 平均分 >75：medium 1.0，hard 0.8，其余 0.5
//   - 平均分 >60：easy/medium 0.9，其余 0.4
//   - 其余（挣扎中）：beginner 1.0，easy 0.8，其余 0.3
func DifficultyScore(d core.DifficultyLevel, avg float64, hasRecords, hasScores bool) float64 {
	if !hasRecords {
		if d == core.DifficultyEasy || d == core.DifficultyMedium {
			return 0.9
		}
		return 0.7
	}
	if !hasScores {
		return 0.8
	}

	switch {
	case avg > 90:
		if d == core.DifficultyHard || d == core.DifficultyExpert {
			return 1.0
		}
		return 0.6
	case avg > 75:
		switch d {
		case core.DifficultyMedium:
			return 1.0
		case core.DifficultyHard:
			return 0.8
		default:
			return 0.5
		}
	case avg > 60:
		if d == core.DifficultyEasy || d == core.DifficultyMedium {
			return 0.9
		}
		return 0.4
	default:
		switch d {
		case core.DifficultyBeginner:
			return 1.0
		case core.DifficultyEasy:
			return 0.8
		default:
			return 0.3
		}
	}
}
