// Package scoring 健康生活方式评分（0–100），纯函数，不依赖模型与网络
package scoring

import (
	"math"
	"strings"

	"wisefido-wellness/internal/domain"
)

const (
	MinScore = 0
	MaxScore = 100

	defaultStress = 5
)

// ComputeScore 按分段规则累加各项得分后截断到 [0,100]
// 缺失或非法的数值按 0 计（压力按 5）；缺失的枚举按最差档计
func ComputeScore(r domain.LifestyleRecord) int {
	total := BMIPoints(r.BMIValue()) +
		StepsPoints(r.DailySteps) +
		SleepPoints(r.SleepHours) +
		ExercisePoints(r.ExerciseFrequency) +
		DietPoints(r.DietQuality) +
		FruitsVeggiesPoints(r.FruitsVeggiesServings) +
		StressPoints(r.StressLevel) +
		ScreenTimePoints(r.ScreenTimeHours) +
		SmokingPoints(r.SmokingHabit) +
		AlcoholPoints(r.AlcoholConsumption)
	return clamp(total)
}

// BMIPoints 区间左闭右开
func BMIPoints(bmi float64) int {
	bmi = sanitize(bmi)
	switch {
	case bmi >= 18.5 && bmi < 25:
		return 15
	case (bmi >= 17 && bmi < 18.5) || (bmi >= 25 && bmi < 27):
		return 12
	case (bmi >= 16 && bmi < 17) || (bmi >= 27 && bmi < 30):
		return 8
	case (bmi >= 15 && bmi < 16) || (bmi >= 30 && bmi < 35):
		return 4
	default:
		return 0
	}
}

func StepsPoints(steps int) int {
	switch {
	case steps >= 10000:
		return 15
	case steps >= 8000:
		return 12
	case steps >= 6000:
		return 9
	case steps >= 4000:
		return 6
	case steps >= 2000:
		return 3
	default:
		return 0
	}
}

// SleepPoints 7–9 小时满分
func SleepPoints(hours float64) int {
	h := sanitize(hours)
	switch {
	case h >= 7 && h <= 9:
		return 15
	case (h >= 6 && h < 7) || (h > 9 && h <= 10):
		return 12
	case (h >= 5 && h < 6) || (h > 10 && h <= 11):
		return 8
	case (h >= 4 && h < 5) || h > 11:
		return 4
	default:
		return 0
	}
}

func ExercisePoints(daysPerWeek int) int {
	switch {
	case daysPerWeek >= 5:
		return 15
	case daysPerWeek >= 3:
		return 12
	case daysPerWeek >= 2:
		return 8
	case daysPerWeek >= 1:
		return 4
	default:
		return 0
	}
}

func DietPoints(quality string) int {
	switch normalize(quality) {
	case "excellent":
		return 10
	case "good":
		return 8
	case "fair", "average":
		return 6
	default:
		return 2
	}
}

func FruitsVeggiesPoints(servings int) int {
	switch {
	case servings >= 5:
		return 10
	case servings >= 4:
		return 8
	case servings >= 3:
		return 6
	case servings >= 2:
		return 4
	case servings >= 1:
		return 2
	default:
		return 0
	}
}

// StressPoints 超出 1–10 的取值按默认 5 处理
func StressPoints(level int) int {
	if level < domain.MinStress || level > domain.MaxStress {
		level = defaultStress
	}
	switch {
	case level <= 2:
		return 10
	case level <= 4:
		return 8
	case level <= 6:
		return 6
	case level <= 8:
		return 3
	default:
		return 0
	}
}

func ScreenTimePoints(hours float64) int {
	h := sanitize(hours)
	switch {
	case h <= 2:
		return 5
	case h <= 4:
		return 4
	case h <= 6:
		return 3
	case h <= 8:
		return 2
	case h <= 10:
		return 1
	default:
		return 0
	}
}

// SmokingPoints 未填写按最差档
func SmokingPoints(habit string) int {
	switch normalize(habit) {
	case "", "yes", "daily", "heavy":
		return -10
	case "occasional", "occasionally", "social":
		return -5
	default:
		return 0
	}
}

// AlcoholPoints 未填写按最差档
func AlcoholPoints(consumption string) int {
	switch normalize(consumption) {
	case "", "heavy", "daily":
		return -5
	case "frequently":
		return -2
	default:
		return 0
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sanitize 负数、NaN、Inf 视为缺失
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
