package core

// LearningStyle 是学习风格类别（VARK 扩展的七分类）。
type LearningStyle string

const (
	StyleVisual         LearningStyle = "visual"
	StyleAuditory       LearningStyle = "auditory"
	StyleReadingWriting LearningStyle = "reading_writing"
	StyleKinesthetic    LearningStyle = "kinesthetic"
	StyleLogical        LearningStyle = "logical"
	StyleSocial         LearningStyle = "social"
	StyleSolitary       LearningStyle = "solitary"
)

// LearningStyles 是全部风格类别的固定枚举顺序。
var LearningStyles = []LearningStyle{
	StyleVisual,
	StyleAuditory,
	StyleReadingWriting,
	StyleKinesthetic,
	StyleLogical,
	StyleSocial,
	StyleSolitary,
}

// StyleAffinities 是风格类别到非负亲和度的映射。
// 归一化约定：亲和度之和等于类别数（均值恒为 1），只保序、不放大漂移。
type StyleAffinities map[LearningStyle]float64

// UniformAffinities 返回均匀分布（每类 0.5）。
// 无观测数据的用户必须得到均匀分布，这是亲和度的基线不变量。
func UniformAffinities() StyleAffinities {
	out := make(StyleAffinities, len(LearningStyles))
	for _, s := range LearningStyles {
		out[s] = 0.5
	}
	return out
}

// Normalize 原地归一化：缩放后总和等于类别数。
// 全零或空集合不做处理（避免除零）。
func (a StyleAffinities) Normalize() {
	var total float64
	for _, v := range a {
		total += v
	}
	if total <= 0 {
		return
	}
	n := float64(len(a))
	for s, v := range a {
		a[s] = v / total * n
	}
}
