// Package features 把 LifestyleRecord 编码为模型输入向量（类别编码 + 标准化，按特征清单排序）
package features

import (
	"fmt"
	"math"
	"strings"

	"wisefido-wellness/internal/domain"
)

type extractor func(r domain.LifestyleRecord) (float64, error)

// Encoder 由工件构建，构建时完成全部一致性校验；Encode 只可能返回 EncodingError
type Encoder struct {
	order   []string
	mean    []float64
	scale   []float64
	extract []extractor
}

// NewEncoder 校验工件并建立字段抽取表
func NewEncoder(vocab Vocabulary, scaler Scaler, order []string) (*Encoder, error) {
	if len(order) == 0 {
		return nil, mismatch("feature list is empty")
	}
	if len(scaler.Mean) != len(order) || len(scaler.Scale) != len(order) {
		return nil, mismatch("scaler has %d means and %d scales for %d features",
			len(scaler.Mean), len(scaler.Scale), len(order))
	}

	e := &Encoder{
		order:   append([]string(nil), order...),
		mean:    append([]float64(nil), scaler.Mean...),
		scale:   append([]float64(nil), scaler.Scale...),
		extract: make([]extractor, len(order)),
	}
	seen := make(map[string]struct{}, len(order))
	for i, name := range order {
		if _, dup := seen[name]; dup {
			return nil, mismatch("feature %s listed twice", name)
		}
		seen[name] = struct{}{}

		if !finite(e.mean[i]) {
			return nil, mismatch("mean for %s is not finite", name)
		}
		if e.scale[i] == 0 || !finite(e.scale[i]) {
			return nil, mismatch("scale for %s must be a non-zero finite number", name)
		}

		ex, err := extractorFor(name, vocab)
		if err != nil {
			return nil, err
		}
		e.extract[i] = ex
	}
	return e, nil
}

// NewEncoderFromArtifacts NewEncoder 的便捷形式
func NewEncoderFromArtifacts(a *Artifacts) (*Encoder, error) {
	return NewEncoder(a.Vocabulary, a.Scaler, a.Features)
}

// Encode 一次性编码（每次调用都会重新校验工件）
func Encode(r domain.LifestyleRecord, vocab Vocabulary, scaler Scaler, order []string) ([]float64, error) {
	e, err := NewEncoder(vocab, scaler, order)
	if err != nil {
		return nil, err
	}
	return e.Encode(r)
}

// Features 特征顺序
func (e *Encoder) Features() []string {
	return append([]string(nil), e.order...)
}

// Encode (raw - mean) / scale，顺序与特征清单一致
func (e *Encoder) Encode(r domain.LifestyleRecord) ([]float64, error) {
	out := make([]float64, len(e.order))
	for i, ex := range e.extract {
		raw, err := ex(r)
		if err != nil {
			return nil, err
		}
		out[i] = (raw - e.mean[i]) / e.scale[i]
	}
	return out, nil
}

func extractorFor(name string, vocab Vocabulary) (extractor, error) {
	switch name {
	case domain.FieldAge:
		return numeric(name, func(r domain.LifestyleRecord) float64 { return float64(r.Age) }), nil
	case domain.FieldHeightCm:
		return numeric(name, func(r domain.LifestyleRecord) float64 { return r.HeightCm }), nil
	case domain.FieldWeightKg:
		return numeric(name, func(r domain.LifestyleRecord) float64 { return r.WeightKg }), nil
	case domain.FieldBMI:
		return func(r domain.LifestyleRecord) (float64, error) {
			if r.BMI == nil {
				return 0, &domain.EncodingError{Field: name, Reason: "height and weight are required"}
			}
			return checkFinite(name, *r.BMI)
		}, nil
	case domain.FieldDailySteps:
		return numeric(name, func(r domain.LifestyleRecord) float64 { return float64(r.DailySteps) }), nil
	case domain.FieldExerciseFrequency:
		return numeric(name, func(r domain.LifestyleRecord) float64 { return float64(r.ExerciseFrequency) }), nil
	case domain.FieldSleepHours:
		return numeric(name, func(r domain.LifestyleRecord) float64 { return r.SleepHours }), nil
	case domain.FieldFruitsVeggies:
		return numeric(name, func(r domain.LifestyleRecord) float64 { return float64(r.FruitsVeggiesServings) }), nil
	case domain.FieldStressLevel:
		return numeric(name, func(r domain.LifestyleRecord) float64 { return float64(r.StressLevel) }), nil
	case domain.FieldScreenTimeHours:
		return numeric(name, func(r domain.LifestyleRecord) float64 { return r.ScreenTimeHours }), nil

	case domain.FieldGender:
		idx, err := buildIndex(name, vocab, domain.Genders, singleLabel[domain.Gender])
		if err != nil {
			return nil, err
		}
		return categorical(name, idx, domain.ParseGender, func(r domain.LifestyleRecord) string { return r.Gender }), nil
	case domain.FieldChronicDisease:
		idx, err := buildIndex(name, vocab, domain.ChronicDiseases, singleLabel[domain.ChronicDisease])
		if err != nil {
			return nil, err
		}
		return categorical(name, idx, domain.ParseChronicDisease, func(r domain.LifestyleRecord) string { return r.ChronicDisease }), nil
	case domain.FieldAlcoholConsumption:
		idx, err := buildIndex(name, vocab, domain.YesNoValues, singleLabel[domain.YesNo])
		if err != nil {
			return nil, err
		}
		return categorical(name, idx, domain.ParseYesNo, func(r domain.LifestyleRecord) string { return r.AlcoholConsumption }), nil
	case domain.FieldSmokingHabit:
		idx, err := buildIndex(name, vocab, domain.YesNoValues, singleLabel[domain.YesNo])
		if err != nil {
			return nil, err
		}
		return categorical(name, idx, domain.ParseYesNo, func(r domain.LifestyleRecord) string { return r.SmokingHabit }), nil
	case domain.FieldDietQuality:
		idx, err := buildIndex(name, vocab, domain.DietQualities, domain.DietQuality.Labels)
		if err != nil {
			return nil, err
		}
		return categorical(name, idx, domain.ParseDietQuality, func(r domain.LifestyleRecord) string { return r.DietQuality }), nil
	case domain.FieldSaltIntake:
		idx, err := labelIndex(name, vocab)
		if err != nil {
			return nil, err
		}
		return categorical(name, idx, parseLabel, func(r domain.LifestyleRecord) string { return r.SaltIntake }), nil
	}
	return nil, mismatch("feature %s is not produced by the lifestyle record", name)
}

func singleLabel[T ~string](v T) []string { return []string{string(v)} }

// buildIndex 把词表映射到强类型枚举：基数必须一致，且每个枚举值都要出现在词表里
func buildIndex[T ~string](field string, vocab Vocabulary, values []T, labels func(T) []string) (map[T]int, error) {
	list, ok := vocab[field]
	if !ok {
		return nil, mismatch("no label encoder for categorical feature %s", field)
	}
	if len(list) != len(values) {
		return nil, mismatch("label encoder for %s has %d classes, expected %d", field, len(list), len(values))
	}
	idx := make(map[T]int, len(values))
	for _, v := range values {
		pos := -1
		for i, entry := range list {
			for _, label := range labels(v) {
				if strings.EqualFold(strings.TrimSpace(entry), label) {
					pos = i
				}
			}
		}
		if pos < 0 {
			return nil, mismatch("label encoder for %s is missing %q", field, string(v))
		}
		idx[v] = pos
	}
	return idx, nil
}

// labelIndex 没有固定枚举的类别字段直接按词表位置编码
func labelIndex(field string, vocab Vocabulary) (map[string]int, error) {
	list, ok := vocab[field]
	if !ok || len(list) == 0 {
		return nil, mismatch("no label encoder for categorical feature %s", field)
	}
	idx := make(map[string]int, len(list))
	for i, entry := range list {
		label, _ := parseLabel(entry)
		if _, dup := idx[label]; dup || label == "" {
			return nil, mismatch("label encoder for %s has a blank or duplicate class %q", field, entry)
		}
		idx[label] = i
	}
	return idx, nil
}

func parseLabel(s string) (string, error) {
	return strings.ToLower(strings.TrimSpace(s)), nil
}

func numeric(field string, get func(domain.LifestyleRecord) float64) extractor {
	return func(r domain.LifestyleRecord) (float64, error) {
		return checkFinite(field, get(r))
	}
}

func categorical[T ~string](field string, idx map[T]int, parse func(string) (T, error), get func(domain.LifestyleRecord) string) extractor {
	return func(r domain.LifestyleRecord) (float64, error) {
		raw := get(r)
		v, err := parse(raw)
		if err != nil {
			return 0, &domain.EncodingError{Field: field, Value: raw, Reason: "value is not in the model vocabulary"}
		}
		pos, ok := idx[v]
		if !ok {
			return 0, &domain.EncodingError{Field: field, Value: raw, Reason: "value is not in the model vocabulary"}
		}
		return float64(pos), nil
	}
}

func checkFinite(field string, v float64) (float64, error) {
	if !finite(v) {
		return 0, &domain.EncodingError{Field: field, Value: fmt.Sprint(v), Reason: "not a finite number"}
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func mismatch(format string, args ...any) error {
	return &domain.ConfigMismatchError{Reason: fmt.Sprintf(format, args...)}
}
