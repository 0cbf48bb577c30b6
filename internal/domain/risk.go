package domain

import (
	"fmt"
	"time"
)

// Condition 预测的三种疾病
type Condition string

const (
	ConditionObesity      Condition = "obesity"
	ConditionHypertension Condition = "hypertension"
	ConditionStroke       Condition = "stroke"
)

// Conditions 固定顺序
var Conditions = []Condition{ConditionObesity, ConditionHypertension, ConditionStroke}

// RiskPrediction 单个疾病的预测结果
// ProbabilityAvailable=false 表示概率不是模型给出的（远端接口只返回 0/1 标志）
type RiskPrediction struct {
	PredictedClass       int     `json:"predicted_class"`
	Probability          float64 `json:"probability"`
	ProbabilityAvailable bool    `json:"probability_available"`
}

// RiskSet 三个疾病的预测
type RiskSet struct {
	Obesity      RiskPrediction `json:"obesity"`
	Hypertension RiskPrediction `json:"hypertension"`
	Stroke       RiskPrediction `json:"stroke"`
}

func (s RiskSet) Get(c Condition) RiskPrediction {
	switch c {
	case ConditionHypertension:
		return s.Hypertension
	case ConditionStroke:
		return s.Stroke
	default:
		return s.Obesity
	}
}

func (s *RiskSet) Set(c Condition, p RiskPrediction) error {
	switch c {
	case ConditionObesity:
		s.Obesity = p
	case ConditionHypertension:
		s.Hypertension = p
	case ConditionStroke:
		s.Stroke = p
	default:
		return fmt.Errorf("unknown condition %q", c)
	}
	return nil
}

// InferenceMode 推理路径
type InferenceMode string

const (
	ModeLocal  InferenceMode = "local"
	ModeRemote InferenceMode = "remote"
)

func ParseInferenceMode(s string) (InferenceMode, error) {
	switch InferenceMode(s) {
	case ModeLocal, ModeRemote:
		return InferenceMode(s), nil
	}
	return "", fmt.Errorf("unknown inference mode %q", s)
}

// Assessment 一次完整评估：评分 + 风险预测
type Assessment struct {
	ID            string          `json:"assessment_id"`
	UserID        string          `json:"user_id"`
	Record        LifestyleRecord `json:"record"`
	Score         int             `json:"wellness_score"`
	Risks         RiskSet         `json:"risks"`
	InferenceMode InferenceMode   `json:"inference_mode"`
	FellBack      bool            `json:"fell_back"`
	CreatedAt     time.Time       `json:"created_at"`
	Persisted     bool            `json:"persisted"`
}
