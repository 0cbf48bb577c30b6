package scoring

import (
	"math"
	"math/rand"
	"testing"

	"wisefido-wellness/internal/domain"

	"github.com/stretchr/testify/assert"
)

func bmi(v float64) *float64 { return &v }

func bestRecord() domain.LifestyleRecord {
	return domain.LifestyleRecord{
		BMI:                   bmi(22),
		DailySteps:            10000,
		SleepHours:            8,
		ExerciseFrequency:     5,
		DietQuality:           "excellent",
		FruitsVeggiesServings: 5,
		StressLevel:           2,
		ScreenTimeHours:       2,
		SmokingHabit:          "No",
		AlcoholConsumption:    "No",
	}
}

func TestComputeScore_Best(t *testing.T) {
	// 15+15+15+15+10+10+10+5，无扣分
	assert.Equal(t, 95, ComputeScore(bestRecord()))
}

func TestComputeScore_WorstClampsToZero(t *testing.T) {
	r := domain.LifestyleRecord{
		BMI:                bmi(40),
		DailySteps:         0,
		SleepHours:         0,
		ExerciseFrequency:  0,
		DietQuality:        "poor",
		StressLevel:        10,
		ScreenTimeHours:    16,
		SmokingHabit:       "yes",
		AlcoholConsumption: "heavy",
	}
	assert.Equal(t, 0, ComputeScore(r))
}

func TestComputeScore_EmptyRecordUsesDefaults(t *testing.T) {
	// diet 2 + stress(5) 6 + screen(0) 5 - smoking 10 - alcohol 5 = -2 -> 0
	assert.Equal(t, 0, ComputeScore(domain.LifestyleRecord{}))
}

func TestComputeScore_MissingEnumsScoreAsWorst(t *testing.T) {
	r := bestRecord()
	r.DietQuality, r.SmokingHabit, r.AlcoholConsumption = "", "", ""
	missing := ComputeScore(r)

	r.DietQuality, r.SmokingHabit, r.AlcoholConsumption = "poor", "heavy", "daily"
	assert.Equal(t, ComputeScore(r), missing)
	assert.Equal(t, 72, missing)
}

func TestComputeScore_Deterministic(t *testing.T) {
	r := bestRecord()
	r.SmokingHabit = "occasional"
	first := ComputeScore(r)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeScore(r))
	}
	assert.Equal(t, 90, first)
}

func TestBMIPoints_Boundaries(t *testing.T) {
	cases := []struct {
		bmi  float64
		want int
	}{
		{14.9, 0}, {15, 4}, {15.99, 4}, {16, 8}, {16.99, 8}, {17, 12}, {18.49, 12}, {18.5, 15},
		{24.99, 15}, {25, 12}, {26.99, 12}, {27, 8}, {29.99, 8}, {30, 4}, {34.99, 4}, {35, 0},
		{-1, 0}, {math.NaN(), 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, BMIPoints(c.bmi), "bmi=%v", c.bmi)
	}
}

func TestSleepPoints_Boundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  int
	}{
		{3.9, 0}, {4, 4}, {4.9, 4}, {5, 8}, {5.9, 8}, {6, 12}, {6.9, 12}, {7, 15}, {8, 15}, {9, 15},
		{9.5, 12}, {10, 12}, {10.5, 8}, {11, 8}, {11.5, 4}, {20, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SleepPoints(c.hours), "hours=%v", c.hours)
	}
}

func TestStepsPoints_Boundaries(t *testing.T) {
	cases := []struct {
		steps int
		want  int
	}{
		{0, 0}, {1999, 0}, {2000, 3}, {3999, 3}, {4000, 6}, {5999, 6}, {6000, 9},
		{7999, 9}, {8000, 12}, {9999, 12}, {10000, 15}, {30000, 15}, {-5, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StepsPoints(c.steps), "steps=%d", c.steps)
	}
}

func TestExercisePoints_Boundaries(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{0, 0}, {1, 4}, {2, 8}, {3, 12}, {4, 12}, {5, 15}, {7, 15}, {-1, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExercisePoints(c.days), "days=%d", c.days)
	}
}

func TestFruitsVeggiesPoints_Boundaries(t *testing.T) {
	cases := []struct {
		servings int
		want     int
	}{
		{0, 0}, {1, 2}, {2, 4}, {3, 6}, {4, 8}, {5, 10}, {9, 10}, {-1, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FruitsVeggiesPoints(c.servings), "servings=%d", c.servings)
	}
}

func TestStressPoints_Boundaries(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 10}, {2, 10}, {3, 8}, {4, 8}, {5, 6}, {6, 6}, {7, 3}, {8, 3}, {9, 0}, {10, 0},
		{0, 6}, {42, 6},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StressPoints(c.level), "level=%d", c.level)
	}
}

func TestScreenTimePoints_Boundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  int
	}{
		{0, 5}, {2, 5}, {2.1, 4}, {4, 4}, {4.1, 3}, {6, 3}, {6.1, 2}, {8, 2},
		{8.5, 1}, {10, 1}, {10.1, 0}, {16, 0}, {-3, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ScreenTimePoints(c.hours), "hours=%v", c.hours)
	}
}

func TestCategoricalPoints(t *testing.T) {
	assert.Equal(t, 10, DietPoints("Excellent"))
	assert.Equal(t, 8, DietPoints("GOOD"))
	assert.Equal(t, 6, DietPoints("fair"))
	assert.Equal(t, 6, DietPoints("Average"))
	assert.Equal(t, 2, DietPoints("poor"))
	assert.Equal(t, 2, DietPoints("junk"))
	assert.Equal(t, 2, DietPoints(""))

	assert.Equal(t, -10, SmokingPoints("yes"))
	assert.Equal(t, -10, SmokingPoints("Daily"))
	assert.Equal(t, -10, SmokingPoints("heavy"))
	assert.Equal(t, -5, SmokingPoints("occasional"))
	assert.Equal(t, -5, SmokingPoints("social"))
	assert.Equal(t, 0, SmokingPoints("no"))
	assert.Equal(t, -10, SmokingPoints(""))

	assert.Equal(t, -5, AlcoholPoints("heavy"))
	assert.Equal(t, -5, AlcoholPoints("Daily"))
	assert.Equal(t, -2, AlcoholPoints("frequently"))
	assert.Equal(t, 0, AlcoholPoints("Yes"))
	assert.Equal(t, 0, AlcoholPoints("moderate"))
	assert.Equal(t, 0, AlcoholPoints("no"))
	assert.Equal(t, -5, AlcoholPoints(""))
}

func randomRecord(rng *rand.Rand) domain.LifestyleRecord {
	words := []string{"", "yes", "no", "daily", "heavy", "occasional", "moderate", "excellent", "good", "fair", "poor", "junk"}
	return domain.LifestyleRecord{
		BMI:                   bmi(rng.Float64()*60 - 5),
		DailySteps:            rng.Intn(40000) - 1000,
		SleepHours:            rng.Float64()*26 - 1,
		ExerciseFrequency:     rng.Intn(10) - 1,
		DietQuality:           words[rng.Intn(len(words))],
		FruitsVeggiesServings: rng.Intn(12) - 1,
		StressLevel:           rng.Intn(14) - 2,
		ScreenTimeHours:       rng.Float64()*26 - 1,
		SmokingHabit:          words[rng.Intn(len(words))],
		AlcoholConsumption:    words[rng.Intn(len(words))],
	}
}

func TestComputeScore_AlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		s := ComputeScore(randomRecord(rng))
		if s < MinScore || s > MaxScore {
			t.Fatalf("score %d out of range", s)
		}
	}
}

func FuzzComputeScore(f *testing.F) {
	f.Add(22.0, 10000, 8.0, 5, "excellent", 5, 2, 2.0, "no", "no")
	f.Add(40.0, 0, 0.0, 0, "poor", 0, 10, 16.0, "yes", "heavy")
	f.Fuzz(func(t *testing.T, b float64, steps int, sleep float64, exercise int, diet string, fv, stress int, screen float64, smoking, alcohol string) {
		r := domain.LifestyleRecord{
			BMI: bmi(b), DailySteps: steps, SleepHours: sleep, ExerciseFrequency: exercise,
			DietQuality: diet, FruitsVeggiesServings: fv, StressLevel: stress, ScreenTimeHours: screen,
			SmokingHabit: smoking, AlcoholConsumption: alcohol,
		}
		s := ComputeScore(r)
		if s < MinScore || s > MaxScore {
			t.Fatalf("score %d out of range", s)
		}
		if s != ComputeScore(r) {
			t.Fatalf("score not deterministic")
		}
	})
}
