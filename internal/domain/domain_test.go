package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() LifestyleRecord {
	return LifestyleRecord{
		Age:                   35,
		Gender:                "Male",
		HeightCm:              175,
		WeightKg:              70,
		ChronicDisease:        "None",
		DailySteps:            8000,
		ExerciseFrequency:     3,
		SleepHours:            7.5,
		AlcoholConsumption:    "No",
		SmokingHabit:          "No",
		DietQuality:           "Good",
		FruitsVeggiesServings: 4,
		StressLevel:           4,
		ScreenTimeHours:       3,
	}
}

func TestDeriveBMI(t *testing.T) {
	r := validRecord()
	bogus := 99.0
	r.BMI = &bogus
	r.DeriveBMI()
	require.NotNil(t, r.BMI)
	assert.Equal(t, 22.86, *r.BMI)

	r.HeightCm = 0
	r.DeriveBMI()
	assert.Nil(t, r.BMI)
	assert.Equal(t, 0.0, r.BMIValue())
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validRecord().Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	r := validRecord()
	r.Age = 12
	r.Gender = "other"
	r.StressLevel = 0
	r.ExerciseFrequency = 9

	err := r.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"age", "gender", "stress_level", "exercise_frequency"}, fields)
}

func TestParseEnums(t *testing.T) {
	g, err := ParseGender(" female ")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, g)

	d, err := ParseDietQuality("average")
	require.NoError(t, err)
	assert.Equal(t, DietFair, d)

	_, err = ParseYesNo("daily")
	assert.Error(t, err)

	_, err = ParseChronicDisease("diabetes")
	assert.Error(t, err)
}

func TestPredictionUnavailableIs(t *testing.T) {
	err := error(&PredictionUnavailableError{Reason: "remote returned 500"})
	assert.True(t, errors.Is(err, ErrPredictionUnavailable))
	assert.Contains(t, err.Error(), "remote returned 500")
}

func TestRiskSetGetSet(t *testing.T) {
	var s RiskSet
	require.NoError(t, s.Set(ConditionStroke, RiskPrediction{PredictedClass: 1, Probability: 0.8, ProbabilityAvailable: true}))
	assert.Equal(t, 1, s.Get(ConditionStroke).PredictedClass)
	assert.Error(t, s.Set(Condition("diabetes"), RiskPrediction{}))
}
