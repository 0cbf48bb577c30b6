package domain

import (
	"fmt"
	"math"
)

// 问卷录入的取值范围
const (
	MinAge      = 18
	MaxAge      = 120
	MinHeightCm = 100
	MaxHeightCm = 250
	MinWeightKg = 20
	MaxWeightKg = 300
	MaxExercise = 7
	MinStress   = 1
	MaxStress   = 10
)

// Validate 提交前校验；评分本身不依赖校验（缺失或非法值按默认值计分）
func (r LifestyleRecord) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if r.Age < MinAge || r.Age > MaxAge {
		add("age", "must be between %d and %d", MinAge, MaxAge)
	}
	if _, err := ParseGender(r.Gender); err != nil {
		add("gender", "must be Male or Female")
	}
	if !inRange(r.HeightCm, MinHeightCm, MaxHeightCm) {
		add("height_cm", "must be between %d and %d", MinHeightCm, MaxHeightCm)
	}
	if !inRange(r.WeightKg, MinWeightKg, MaxWeightKg) {
		add("weight_kg", "must be between %d and %d", MinWeightKg, MaxWeightKg)
	}
	if _, err := ParseChronicDisease(r.ChronicDisease); err != nil {
		add("chronic_disease", "must be one of None, Stroke, Hypertension, Obesity")
	}
	if r.DailySteps < 0 {
		add("daily_steps", "must not be negative")
	}
	if r.ExerciseFrequency < 0 || r.ExerciseFrequency > MaxExercise {
		add("exercise_frequency", "must be between 0 and %d", MaxExercise)
	}
	if !nonNegative(r.SleepHours) {
		add("sleep_hours", "must not be negative")
	}
	if r.AlcoholConsumption == "" {
		add("alcohol_consumption", "is required")
	}
	if r.SmokingHabit == "" {
		add("smoking_habit", "is required")
	}
	if _, err := ParseDietQuality(r.DietQuality); err != nil {
		add("diet_quality", "must be one of Excellent, Good, Fair, Poor")
	}
	if r.FruitsVeggiesServings < 0 {
		add("fruits_veggies", "must not be negative")
	}
	if r.StressLevel < MinStress || r.StressLevel > MaxStress {
		add("stress_level", "must be between %d and %d", MinStress, MaxStress)
	}
	if !nonNegative(r.ScreenTimeHours) {
		add("screen_time_hours", "must not be negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
