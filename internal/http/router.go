package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 /metrics）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterWellnessRoutes 评估、评分与偏好接口
func (r *Router) RegisterWellnessRoutes(h *WellnessHandler) {
	r.Handle("/api/v1/wellness/assessments", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.SubmitAssessment(w, req)
		case http.MethodGet:
			h.ListAssessments(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/v1/wellness/assessments/latest", methodOnly(http.MethodGet, h.LatestAssessment))
	r.Handle("/api/v1/wellness/score", methodOnly(http.MethodPost, h.Score))
	r.Handle("/api/v1/wellness/preferences", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.GetPreferences(w, req)
		case http.MethodPut:
			h.UpdatePreferences(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterOpsRoutes /health 与 /metrics
func (r *Router) RegisterOpsRoutes(metrics http.Handler) {
	r.Handle("/health", methodOnly(http.MethodGet, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	}))
	if metrics != nil {
		r.HandleHandler("/metrics", metrics)
	}
}
