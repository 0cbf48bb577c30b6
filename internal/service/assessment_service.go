package service

import (
	"context"
	"errors"
	"time"

	"wisefido-wellness/internal/domain"
	"wisefido-wellness/internal/inference"
	"wisefido-wellness/internal/repository"
	"wisefido-wellness/internal/scoring"
	"wisefido-wellness/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RiskRouter inference.Router
type RiskRouter interface {
	SelectMode(ctx context.Context, userID string) domain.InferenceMode
	Predict(ctx context.Context, userID string, rec domain.LifestyleRecord, mode domain.InferenceMode) (*inference.Outcome, error)
}

// PreferenceStore store.Preferences
type PreferenceStore interface {
	SetOfflineMode(ctx context.Context, userID string, enabled bool) error
	Language(ctx context.Context, userID string) (string, error)
	SetLanguage(ctx context.Context, userID, tag string) (string, error)
}

// Observer 评估指标
type Observer interface {
	ObserveAssessment(outcome string, score int)
	ObservePersistFailure()
}

// 评估结果标签
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// AssessmentService 评估流程：校验 -> 风险预测 -> 评分 -> 持久化
type AssessmentService struct {
	router   RiskRouter
	repo     repository.AssessmentsRepository
	prefs    PreferenceStore
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
}

func NewAssessmentService(router RiskRouter, repo repository.AssessmentsRepository, prefs PreferenceStore, logger *zap.Logger) *AssessmentService {
	return &AssessmentService{
		router: router,
		repo:   repo,
		prefs:  prefs,
		logger: logger.With(zap.String("component", "assessment_service")),
		now:    time.Now,
	}
}

// SetObserver 可选
func (s *AssessmentService) SetObserver(o Observer) { s.observer = o }

// Submit 执行一次完整评估
// 校验失败时不做任何预测；预测不可用时不持久化；持久化失败只记录日志，结果仍返回（Persisted=false）
func (s *AssessmentService) Submit(ctx context.Context, userID string, rec domain.LifestyleRecord) (*domain.Assessment, error) {
	rec.DeriveBMI()
	if err := rec.Validate(); err != nil {
		s.observe(OutcomeInvalid, 0)
		return nil, err
	}

	mode := s.router.SelectMode(ctx, userID)
	outcome, err := s.router.Predict(ctx, userID, rec, mode)
	if err != nil {
		if errors.Is(err, domain.ErrPredictionUnavailable) {
			s.observe(OutcomeUnavailable, 0)
		} else {
			s.observe(OutcomeError, 0)
		}
		return nil, err
	}

	a := &domain.Assessment{
		ID:            uuid.New().String(),
		UserID:        userID,
		Record:        rec,
		Score:         scoring.ComputeScore(rec),
		Risks:         outcome.Risks,
		InferenceMode: outcome.Mode,
		FellBack:      outcome.FellBack,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.InsertAssessment(ctx, a); err != nil {
		s.logger.Error("Failed to persist assessment",
			zap.String("assessment_id", a.ID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		if s.observer != nil {
			s.observer.ObservePersistFailure()
		}
	} else {
		a.Persisted = true
	}

	s.logger.Info("Assessment completed",
		zap.String("assessment_id", a.ID),
		zap.String("user_id", userID),
		zap.Int("score", a.Score),
		zap.String("mode", string(a.InferenceMode)),
		zap.Bool("fell_back", a.FellBack),
		zap.Bool("persisted", a.Persisted),
	)
	s.observe(OutcomeOK, a.Score)
	return a, nil
}

// Latest 最近一次评估，评分按存储的记录重新计算；不存在时返回 nil, nil
func (s *AssessmentService) Latest(ctx context.Context, userID string) (*domain.Assessment, error) {
	a, err := s.repo.GetLatestAssessment(ctx, userID)
	if err != nil || a == nil {
		return a, err
	}
	if score := scoring.ComputeScore(a.Record); score != a.Score {
		s.logger.Warn("Stored score differs from recomputed score",
			zap.String("assessment_id", a.ID), zap.Int("stored", a.Score), zap.Int("recomputed", score))
		a.Score = score
	}
	return a, nil
}

func (s *AssessmentService) History(ctx context.Context, userID string, page, size int) ([]*domain.Assessment, int, error) {
	return s.repo.ListAssessments(ctx, userID, page, size)
}

// ScoreResult 仅评分
type ScoreResult struct {
	Score int      `json:"wellness_score"`
	BMI   *float64 `json:"bmi"`
}

// Score 不校验、不预测
func (s *AssessmentService) Score(rec domain.LifestyleRecord) ScoreResult {
	rec.DeriveBMI()
	return ScoreResult{Score: scoring.ComputeScore(rec), BMI: rec.BMI}
}

// Preferences 用户偏好视图
type Preferences struct {
	OfflineMode bool   `json:"offline_mode"`
	Language    string `json:"language"`
}

// PreferencesUpdate 未设置的字段保持不变
type PreferencesUpdate struct {
	OfflineMode *bool   `json:"offline_mode"`
	Language    *string `json:"language"`
}

func (s *AssessmentService) Preferences(ctx context.Context, userID string) (*Preferences, error) {
	lang, err := s.prefs.Language(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Preferences{
		OfflineMode: s.router.SelectMode(ctx, userID) == domain.ModeLocal,
		Language:    lang,
	}, nil
}

func (s *AssessmentService) UpdatePreferences(ctx context.Context, userID string, u PreferencesUpdate) (*Preferences, error) {
	if u.Language != nil {
		if _, err := s.prefs.SetLanguage(ctx, userID, *u.Language); err != nil {
			if errors.Is(err, store.ErrInvalidLanguage) {
				return nil, domain.ValidationErrors{{Field: "language", Message: err.Error()}}
			}
			return nil, err
		}
	}
	if u.OfflineMode != nil {
		if err := s.prefs.SetOfflineMode(ctx, userID, *u.OfflineMode); err != nil {
			return nil, err
		}
	}
	return s.Preferences(ctx, userID)
}

func (s *AssessmentService) observe(outcome string, score int) {
	if s.observer != nil {
		s.observer.ObserveAssessment(outcome, score)
	}
}
