package domain

import (
	"fmt"
	"strings"
)

// Gender 性别
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Genders 模型词表必须覆盖的取值
var Genders = []Gender{GenderMale, GenderFemale}

// ParseGender 大小写不敏感
func ParseGender(s string) (Gender, error) {
	for _, g := range Genders {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// ChronicDisease 既往慢性病
type ChronicDisease string

const (
	ChronicNone         ChronicDisease = "None"
	ChronicStroke       ChronicDisease = "Stroke"
	ChronicHypertension ChronicDisease = "Hypertension"
	ChronicObesity      ChronicDisease = "Obesity"
)

var ChronicDiseases = []ChronicDisease{ChronicNone, ChronicStroke, ChronicHypertension, ChronicObesity}

func ParseChronicDisease(s string) (ChronicDisease, error) {
	for _, c := range ChronicDiseases {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown chronic disease %q", s)
}

// YesNo 模型侧的吸烟/饮酒取值；评分使用更细的原始字符串
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

var YesNoValues = []YesNo{Yes, No}

func ParseYesNo(s string) (YesNo, error) {
	for _, v := range YesNoValues {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("expected Yes or No, got %q", s)
}

// DietQuality 饮食质量
type DietQuality string

const (
	DietExcellent DietQuality = "Excellent"
	DietGood      DietQuality = "Good"
	DietFair      DietQuality = "Fair"
	DietPoor      DietQuality = "Poor"
)

var DietQualities = []DietQuality{DietExcellent, DietGood, DietFair, DietPoor}

// Labels 词表中可接受的写法（训练数据里 Fair 记作 Average）
func (d DietQuality) Labels() []string {
	if d == DietFair {
		return []string{"Fair", "Average"}
	}
	return []string{string(d)}
}

func ParseDietQuality(s string) (DietQuality, error) {
	v := strings.TrimSpace(s)
	for _, d := range DietQualities {
		for _, label := range d.Labels() {
			if strings.EqualFold(v, label) {
				return d, nil
			}
		}
	}
	return "", fmt.Errorf("unknown diet quality %q", s)
}
