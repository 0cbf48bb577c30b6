package httpapi

import (
	"context"
	"errors"
	"net/http"

	"wisefido-wellness/internal/domain"
	"wisefido-wellness/internal/service"

	"go.uber.org/zap"
)

// WellnessService service.AssessmentService
type WellnessService interface {
	Submit(ctx context.Context, userID string, rec domain.LifestyleRecord) (*domain.Assessment, error)
	Latest(ctx context.Context, userID string) (*domain.Assessment, error)
	History(ctx context.Context, userID string, page, size int) ([]*domain.Assessment, int, error)
	Score(rec domain.LifestyleRecord) service.ScoreResult
	Preferences(ctx context.Context, userID string) (*service.Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, u service.PreferencesUpdate) (*service.Preferences, error)
}

// WellnessHandler 评估相关接口
type WellnessHandler struct {
	svc    WellnessService
	logger *zap.Logger
}

func NewWellnessHandler(svc WellnessService, logger *zap.Logger) *WellnessHandler {
	return &WellnessHandler{svc: svc, logger: logger}
}

// 评分档位（展示用）
const (
	BandGood = "good"
	BandFair = "fair"
	BandPoor = "poor"
)

func scoreBand(score int) string {
	switch {
	case score >= 80:
		return BandGood
	case score >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

type scoreResponse struct {
	service.ScoreResult
	Band string `json:"band"`
}

type assessmentListResponse struct {
	Items []*domain.Assessment `json:"items"`
	Total int                  `json:"total"`
	Page  int                  `json:"page"`
	Size  int                  `json:"size"`
}

// SubmitAssessment POST /api/v1/wellness/assessments
func (h *WellnessHandler) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	var rec domain.LifestyleRecord
	if err := readBodyJSON(r, maxBodyBytes, &rec); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body: "+err.Error()))
		return
	}

	a, err := h.svc.Submit(r.Context(), userIDFrom(r), rec)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !a.Persisted {
		writeJSON(w, http.StatusOK, Warn(a, "assessment computed but could not be saved"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}

// LatestAssessment GET /api/v1/wellness/assessments/latest
func (h *WellnessHandler) LatestAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Latest(r.Context(), userIDFrom(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if a == nil {
		writeJSON(w, http.StatusNotFound, Fail("no assessment found"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}

// ListAssessments GET /api/v1/wellness/assessments?page=&size=
func (h *WellnessHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)

	items, total, err := h.svc.History(r.Context(), userIDFrom(r), page, size)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assessmentListResponse{Items: items, Total: total, Page: page, Size: size}))
}

// Score POST /api/v1/wellness/score
func (h *WellnessHandler) Score(w http.ResponseWriter, r *http.Request) {
	var rec domain.LifestyleRecord
	if err := readBodyJSON(r, maxBodyBytes, &rec); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body: "+err.Error()))
		return
	}
	res := h.svc.Score(rec)
	writeJSON(w, http.StatusOK, Ok(scoreResponse{ScoreResult: res, Band: scoreBand(res.Score)}))
}

// GetPreferences GET /api/v1/wellness/preferences
func (h *WellnessHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Preferences(r.Context(), userIDFrom(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

// UpdatePreferences PUT /api/v1/wellness/preferences
func (h *WellnessHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var u service.PreferencesUpdate
	if err := readBodyJSON(r, maxBodyBytes, &u); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body: "+err.Error()))
		return
	}
	p, err := h.svc.UpdatePreferences(r.Context(), userIDFrom(r), u)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *WellnessHandler) writeError(w http.ResponseWriter, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, FailWith(err.Error(), verrs))
	case errors.Is(err, domain.ErrPredictionUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, Fail(err.Error()))
	default:
		h.logger.Error("Wellness request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}
