package features

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"wisefido-wellness/internal/domain"
)

// 工件文件名
const (
	LabelEncodersFile    = "label_encoders.json"
	ScalerFile           = "scaler.json"
	SelectedFeaturesFile = "selected_features.json"
)

// Vocabulary 分类字段 -> 训练时的类别列表（下标即编码值）
type Vocabulary map[string][]string

// Scaler 标准化参数，与特征清单按下标对齐
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Artifacts 编码所需的三个 JSON 工件
type Artifacts struct {
	Vocabulary Vocabulary
	Scaler     Scaler
	Features   []string
}

// LoadArtifacts 从工件目录读取；解析失败视为工件不一致
func LoadArtifacts(fsys fs.FS) (*Artifacts, error) {
	var a Artifacts
	if err := readJSON(fsys, LabelEncodersFile, &a.Vocabulary); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, ScalerFile, &a.Scaler); err != nil {
		return nil, err
	}
	order, err := readFeatureOrder(fsys)
	if err != nil {
		return nil, err
	}
	a.Features = order
	return &a, nil
}

func readJSON(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.ConfigMismatchError{Reason: fmt.Sprintf("%s is not valid JSON: %v", name, err)}
	}
	return nil
}

// readFeatureOrder 支持 ["Age", ...] 与 {"features": ["Age", ...]} 两种写法
func readFeatureOrder(fsys fs.FS) ([]string, error) {
	data, err := fs.ReadFile(fsys, SelectedFeaturesFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SelectedFeaturesFile, err)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Features []string `json:"features"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, &domain.ConfigMismatchError{Reason: fmt.Sprintf("%s is not a feature list: %v", SelectedFeaturesFile, err)}
	}
	return wrapped.Features, nil
}
