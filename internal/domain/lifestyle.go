package domain

import "math"

// 数据集列名：selected_features.json / label_encoders.json / 远端 /predict 请求体共用
const (
	FieldAge                = "Age"
	FieldGender             = "Gender"
	FieldHeightCm           = "Height_cm"
	FieldWeightKg           = "Weight_kg"
	FieldBMI                = "BMI"
	FieldChronicDisease     = "Chronic_Disease"
	FieldDailySteps         = "Daily_Steps"
	FieldExerciseFrequency  = "Exercise_Frequency"
	FieldSleepHours         = "Sleep_Hours"
	FieldAlcoholConsumption = "Alcohol_Consumption"
	FieldSmokingHabit       = "Smoking_Habit"
	FieldDietQuality        = "Diet_Quality"
	FieldFruitsVeggies      = "FRUITS_VEGGIES"
	FieldStressLevel        = "Stress_Level"
	FieldScreenTimeHours    = "Screen_Time_Hours"
	FieldSaltIntake         = "Salt_Intake"
)

// LifestyleRecord 一次问卷提交的原始数据
// 枚举字段保留用户输入的字符串，由 Parse* 解析；BMI 由 DeriveBMI 计算，不信任客户端传入值
type LifestyleRecord struct {
	Age                   int      `json:"age"`
	Gender                string   `json:"gender"`
	HeightCm              float64  `json:"height_cm"`
	WeightKg              float64  `json:"weight_kg"`
	BMI                   *float64 `json:"bmi"`
	ChronicDisease        string   `json:"chronic_disease"`
	DailySteps            int      `json:"daily_steps"`
	ExerciseFrequency     int      `json:"exercise_frequency"`
	SleepHours            float64  `json:"sleep_hours"`
	AlcoholConsumption    string   `json:"alcohol_consumption"`
	SmokingHabit          string   `json:"smoking_habit"`
	DietQuality           string   `json:"diet_quality"`
	FruitsVeggiesServings int      `json:"fruits_veggies"`
	StressLevel           int      `json:"stress_level"`
	ScreenTimeHours       float64  `json:"screen_time_hours"`
	SaltIntake            string   `json:"salt_intake,omitempty"`
}

// DeriveBMI 由身高体重计算 BMI（保留两位小数），任一缺失时置空
func (r *LifestyleRecord) DeriveBMI() {
	r.BMI = ComputeBMI(r.HeightCm, r.WeightKg)
}

// ComputeBMI weightKg / (heightCm/100)^2
func ComputeBMI(heightCm, weightKg float64) *float64 {
	if !isPositive(heightCm) || !isPositive(weightKg) {
		return nil
	}
	m := heightCm / 100
	bmi := math.Round(weightKg/(m*m)*100) / 100
	return &bmi
}

// BMIValue 缺失时返回 0
func (r LifestyleRecord) BMIValue() float64 {
	if r.BMI == nil || math.IsNaN(*r.BMI) || math.IsInf(*r.BMI, 0) {
		return 0
	}
	return *r.BMI
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
