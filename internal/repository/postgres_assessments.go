package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"wisefido-wellness/internal/domain"

	"go.uber.org/zap"
)

// PostgresAssessmentsRepository lifestyle_assessments 表
type PostgresAssessmentsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresAssessmentsRepository(db *sql.DB, logger *zap.Logger) *PostgresAssessmentsRepository {
	return &PostgresAssessmentsRepository{db: db, logger: logger}
}

// 确保实现了接口
var _ AssessmentsRepository = (*PostgresAssessmentsRepository)(nil)

const assessmentColumns = `
	assessment_id::text,
	user_id,
	age,
	gender,
	height_cm,
	weight_kg,
	bmi,
	chronic_disease,
	daily_steps,
	exercise_frequency,
	sleep_hours,
	alcohol_consumption,
	smoking_habit,
	diet_quality,
	fruits_veggies,
	stress_level,
	screen_time_hours,
	COALESCE(salt_intake, '') AS salt_intake,
	wellness_score,
	risks::text,
	inference_mode,
	fell_back,
	created_at`

func (r *PostgresAssessmentsRepository) InsertAssessment(ctx context.Context, a *domain.Assessment) error {
	if a == nil || a.ID == "" || a.UserID == "" {
		return fmt.Errorf("assessment_id and user_id are required")
	}
	risks, err := json.Marshal(a.Risks)
	if err != nil {
		return fmt.Errorf("failed to marshal risks: %w", err)
	}

	rec := a.Record
	query := `
		INSERT INTO lifestyle_assessments (
			assessment_id, user_id, age, gender, height_cm, weight_kg, bmi,
			chronic_disease, daily_steps, exercise_frequency, sleep_hours,
			alcohol_consumption, smoking_habit, diet_quality, fruits_veggies,
			stress_level, screen_time_hours, salt_intake,
			wellness_score, risks, inference_mode, fell_back, created_at
		) VALUES (
			$1::uuid, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, NULLIF($18, ''),
			$19, $20::jsonb, $21, $22, $23
		)
	`
	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.UserID, rec.Age, rec.Gender, rec.HeightCm, rec.WeightKg, nullFloat(rec.BMI),
		rec.ChronicDisease, rec.DailySteps, rec.ExerciseFrequency, rec.SleepHours,
		rec.AlcoholConsumption, rec.SmokingHabit, rec.DietQuality, rec.FruitsVeggiesServings,
		rec.StressLevel, rec.ScreenTimeHours, rec.SaltIntake,
		a.Score, string(risks), string(a.InferenceMode), a.FellBack, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}
	return nil
}

func (r *PostgresAssessmentsRepository) GetLatestAssessment(ctx context.Context, userID string) (*domain.Assessment, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	query := `SELECT` + assessmentColumns + `
		FROM lifestyle_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	a, err := scanAssessment(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest assessment: %w", err)
	}
	return a, nil
}

func (r *PostgresAssessmentsRepository) ListAssessments(ctx context.Context, userID string, page, size int) ([]*domain.Assessment, int, error) {
	if userID == "" {
		return nil, 0, fmt.Errorf("user_id is required")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lifestyle_assessments WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	page, size = normalizePage(page, size)
	query := `SELECT` + assessmentColumns + `
		FROM lifestyle_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan assessment: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate assessments: %w", err)
	}
	return items, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(s rowScanner) (*domain.Assessment, error) {
	var (
		a     domain.Assessment
		bmi   sql.NullFloat64
		risks string
		mode  string
	)
	rec := &a.Record
	err := s.Scan(
		&a.ID, &a.UserID, &rec.Age, &rec.Gender, &rec.HeightCm, &rec.WeightKg, &bmi,
		&rec.ChronicDisease, &rec.DailySteps, &rec.ExerciseFrequency, &rec.SleepHours,
		&rec.AlcoholConsumption, &rec.SmokingHabit, &rec.DietQuality, &rec.FruitsVeggiesServings,
		&rec.StressLevel, &rec.ScreenTimeHours, &rec.SaltIntake,
		&a.Score, &risks, &mode, &a.FellBack, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if bmi.Valid {
		v := bmi.Float64
		rec.BMI = &v
	}
	if risks != "" {
		if err := json.Unmarshal([]byte(risks), &a.Risks); err != nil {
			return nil, fmt.Errorf("invalid risks json: %w", err)
		}
	}
	a.InferenceMode = domain.InferenceMode(mode)
	a.Persisted = true
	return &a, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
