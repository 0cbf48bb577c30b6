// Package inference 风险预测：本地模型优先，失败后降级到远端预测服务
package inference

import (
	"context"
	"errors"
	"fmt"
	"math"

	"wisefido-wellness/internal/domain"
)

// Runtime 张量推理运行时，输入为 [1, n] float32
type Runtime interface {
	Run(ctx context.Context, modelPath string, input []float32) (*RuntimeOutput, error)
}

// RuntimeOutput 模型输出：probabilities [1,2] 或 label [1]，二者取其一
type RuntimeOutput struct {
	Probabilities []float32
	Label         []int64
}

// ErrRuntimeUnavailable 未配置本地运行时
var ErrRuntimeUnavailable = errors.New("local tensor runtime is not configured")

// Interpret 把原始输出转换为预测结果
// 仅有 label 时概率取 label 值，并标记为非模型概率
func Interpret(out *RuntimeOutput) (domain.RiskPrediction, error) {
	if out == nil {
		return domain.RiskPrediction{}, errors.New("empty model output")
	}
	if len(out.Probabilities) > 0 {
		if len(out.Probabilities) != 2 {
			return domain.RiskPrediction{}, fmt.Errorf("probabilities output has %d values, expected 2", len(out.Probabilities))
		}
		p := float64(out.Probabilities[1])
		if math.IsNaN(p) || p < 0 || p > 1 {
			return domain.RiskPrediction{}, fmt.Errorf("probability %v out of range", p)
		}
		class := 0
		if p >= 0.5 {
			class = 1
		}
		return domain.RiskPrediction{PredictedClass: class, Probability: p, ProbabilityAvailable: true}, nil
	}
	if len(out.Label) > 0 {
		if len(out.Label) != 1 {
			return domain.RiskPrediction{}, fmt.Errorf("label output has %d values, expected 1", len(out.Label))
		}
		label := out.Label[0]
		if label != 0 && label != 1 {
			return domain.RiskPrediction{}, fmt.Errorf("label %d is not binary", label)
		}
		return domain.RiskPrediction{PredictedClass: int(label), Probability: float64(label)}, nil
	}
	return domain.RiskPrediction{}, errors.New("model produced neither probabilities nor label")
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
