package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError 单个字段校验失败
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors 一次校验的全部问题
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConfigMismatchError 模型工件（词表/标准化参数/特征清单）之间不一致
type ConfigMismatchError struct {
	Reason string
}

func (e *ConfigMismatchError) Error() string {
	return "model artifacts mismatch: " + e.Reason
}

// EncodingError 记录中的取值无法编码为特征
type EncodingError struct {
	Field  string
	Value  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s=%q: %s", e.Field, e.Value, e.Reason)
}

// AssetProvisioningError 工件复制失败或内置工件缺失/损坏
type AssetProvisioningError struct {
	Artifact string
	Err      error
}

func (e *AssetProvisioningError) Error() string {
	return fmt.Sprintf("provision artifact %s: %v", e.Artifact, e.Err)
}

func (e *AssetProvisioningError) Unwrap() error { return e.Err }

// ErrPredictionUnavailable 本地与远端都无法给出预测
var ErrPredictionUnavailable = errors.New("prediction unavailable")

// PredictionUnavailableError 携带远端失败原因（非 2xx 时为响应体文本）
type PredictionUnavailableError struct {
	Reason string
	Err    error
}

func (e *PredictionUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prediction unavailable: %s: %v", e.Reason, e.Err)
	}
	return "prediction unavailable: " + e.Reason
}

func (e *PredictionUnavailableError) Unwrap() error { return e.Err }

func (e *PredictionUnavailableError) Is(target error) bool {
	return target == ErrPredictionUnavailable
}
