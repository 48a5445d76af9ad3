package rank

import (
	"testing"

	"github.com/rushteam/edukit/core"
)

func TestStyleScore(t *testing.T) {
	tests := []struct {
		name        string
		styles      []core.LearningStyle
		contentType core.ContentType
		want        float64
	}{
		{
			name:        "single style",
			styles:      []core.LearningStyle{core.StyleVisual},
			contentType: core.ContentTypeExample,
			want:        1.0,
		},
		{
			name:        "averaged across styles",
			styles:      []core.LearningStyle{core.StyleVisual, core.StyleKinesthetic},
			contentType: core.ContentTypeGame,
			want:        1.0, // (1.0 + 1.0) / 2
		},
		{
			name:        "mixed preference",
			styles:      []core.LearningStyle{core.StyleVisual, core.StyleLogical},
			contentType: core.ContentTypeExercise,
			want:        0.8, // (0.6 + 1.0) / 2
		},
		{
			name:        "empty styles use default weight",
			styles:      nil,
			contentType: core.ContentTypeQuiz,
			want:        0.7,
		},
		{
			name:        "unknown style uses default weight",
			styles:      []core.LearningStyle{"telepathic"},
			contentType: core.ContentTypeQuiz,
			want:        0.7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StyleScore(tt.styles, tt.contentType); got != tt.want {
				t.Errorf("StyleScore(%v, %s) = %v, want %v", tt.styles, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestDifficultyScore(t *testing.T) {
	tests := []struct {
		name       string
		difficulty core.DifficultyLevel
		avg        float64
		hasRecords bool
		hasScores  bool
		want       float64
	}{
		// 该主题没有任何记录：轻微偏向 easy/medium
		{"no records easy", core.DifficultyEasy, 0, false, false, 0.9},
		{"no records medium", core.DifficultyMedium, 0, false, false, 0.9},
		{"no records hard", core.DifficultyHard, 0, false, false, 0.7},

		// 有记录但没有评分
		{"no scores", core.DifficultyExpert, 0, true, false, 0.8},

		// 高分用户推向更高难度
		{"excelling hard", core.DifficultyHard, 92, true, true, 1.0},
		{"excelling expert", core.DifficultyExpert, 92, true, true, 1.0},
		{"excelling easy", core.DifficultyEasy, 92, true, true, 0.6},

		{"doing well medium", core.DifficultyMedium, 80, true, true, 1.0},
		{"doing well hard", core.DifficultyHard, 80, true, true, 0.8},
		{"doing well beginner", core.DifficultyBeginner, 80, true, true, 0.5},

		{"average easy", core.DifficultyEasy, 65, true, true, 0.9},
		{"average medium", core.DifficultyMedium, 65, true, true, 0.9},
		{"average expert", core.DifficultyExpert, 65, true, true, 0.4},

		// 挣扎中的用户回到基础内容
		{"struggling beginner", core.DifficultyBeginner, 40, true, true, 1.0},
		{"struggling easy", core.DifficultyEasy, 40, true, true, 0.8},
		{"struggling hard", core.DifficultyHard, 40, true, true, 0.3},

		// 边界：90 不属于最高档
		{"boundary 90 hard", core.DifficultyHard, 90, true, true, 0.8},
		{"boundary 90 medium", core.DifficultyMedium, 90, true, true, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DifficultyScore(tt.difficulty, tt.avg, tt.hasRecords, tt.hasScores)
			if got != tt.want {
				t.Errorf("DifficultyScore(%v, %v, %v, %v) = %v, want %v",
					tt.difficulty, tt.avg, tt.hasRecords, tt.hasScores, got, tt.want)
			}
		})
	}
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	if w.Style != 0.4 || w.Difficulty != 0.4 || w.Topic != 0.1 {
		t.Errorf("DefaultWeights() = %+v", w)
	}
}
