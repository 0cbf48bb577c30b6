package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wisefido-wellness/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RemoteRequest /predict 请求体，字段使用数据集列名
type RemoteRequest struct {
	Age                int      `json:"Age"`
	Gender             string   `json:"Gender"`
	HeightCm           float64  `json:"Height_cm"`
	WeightKg           float64  `json:"Weight_kg"`
	BMI                *float64 `json:"BMI"`
	ChronicDisease     string   `json:"Chronic_Disease"`
	DailySteps         int      `json:"Daily_Steps"`
	ExerciseFrequency  int      `json:"Exercise_Frequency"`
	SleepHours         float64  `json:"Sleep_Hours"`
	AlcoholConsumption string   `json:"Alcohol_Consumption"`
	SmokingHabit       string   `json:"Smoking_Habit"`
	DietQuality        string   `json:"Diet_Quality"`
	FruitsVeggies      int      `json:"FRUITS_VEGGIES"`
	StressLevel        int      `json:"Stress_Level"`
	ScreenTimeHours    float64  `json:"Screen_Time_Hours"`
	SaltIntake         string   `json:"Salt_Intake,omitempty"`
}

// RemoteResponse /predict 响应，每个疾病一个 0/1 标志
type RemoteResponse struct {
	ObesityFlag      *int `json:"Obesity_Flag"`
	HypertensionFlag *int `json:"Hypertension_Flag"`
	StrokeFlag       *int `json:"Stroke_Flag"`
}

// RemoteStatusError 非 2xx 响应，Body 为响应体文本
type RemoteStatusError struct {
	StatusCode int
	Body       string
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("prediction endpoint returned %d: %s", e.StatusCode, e.Body)
}

// RemotePredictor 远端预测服务客户端（不重试，降级只发生一次）
type RemotePredictor struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewRemotePredictor(baseURL string, timeout time.Duration, logger *zap.Logger) *RemotePredictor {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RemotePredictor{
		httpClient: client,
		logger:     logger.With(zap.String("component", "remote_predictor")),
	}
}

func NewRemoteRequest(rec domain.LifestyleRecord) RemoteRequest {
	return RemoteRequest{
		Age:                rec.Age,
		Gender:             rec.Gender,
		HeightCm:           rec.HeightCm,
		WeightKg:           rec.WeightKg,
		BMI:                rec.BMI,
		ChronicDisease:     rec.ChronicDisease,
		DailySteps:         rec.DailySteps,
		ExerciseFrequency:  rec.ExerciseFrequency,
		SleepHours:         rec.SleepHours,
		AlcoholConsumption: rec.AlcoholConsumption,
		SmokingHabit:       rec.SmokingHabit,
		DietQuality:        rec.DietQuality,
		FruitsVeggies:      rec.FruitsVeggiesServings,
		StressLevel:        rec.StressLevel,
		ScreenTimeHours:    rec.ScreenTimeHours,
		SaltIntake:         rec.SaltIntake,
	}
}

// Predict POST /predict
// 远端只给出 0/1 标志：概率记为 0 且 ProbabilityAvailable=false
func (p *RemotePredictor) Predict(ctx context.Context, rec domain.LifestyleRecord) (domain.RiskSet, error) {
	var risks domain.RiskSet

	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(NewRemoteRequest(rec)).
		Post("/predict")
	if err != nil {
		p.logger.Error("Prediction endpoint call failed", zap.Error(err))
		return risks, fmt.Errorf("call prediction endpoint: %w", err)
	}
	if !resp.IsSuccess() {
		body := strings.TrimSpace(resp.String())
		p.logger.Error("Prediction endpoint returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", body),
		)
		return risks, &RemoteStatusError{StatusCode: resp.StatusCode(), Body: body}
	}

	var out RemoteResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return risks, fmt.Errorf("decode prediction response: %w", err)
	}

	flags := map[domain.Condition]*int{
		domain.ConditionObesity:      out.ObesityFlag,
		domain.ConditionHypertension: out.HypertensionFlag,
		domain.ConditionStroke:       out.StrokeFlag,
	}
	for _, c := range domain.Conditions {
		f := flags[c]
		if f == nil {
			return risks, fmt.Errorf("prediction response is missing the %s flag", c)
		}
		if *f != 0 && *f != 1 {
			return risks, fmt.Errorf("prediction response %s flag %d is not binary", c, *f)
		}
		if err := risks.Set(c, domain.RiskPrediction{PredictedClass: *f}); err != nil {
			return risks, err
		}
	}
	return risks, nil
}
