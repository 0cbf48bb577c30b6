package inference

import (
	"context"
	"errors"
	"time"

	"wisefido-wellness/internal/domain"

	"go.uber.org/zap"
)

// Predictor 返回三个疾病的预测
type Predictor interface {
	Predict(ctx context.Context, rec domain.LifestyleRecord) (domain.RiskSet, error)
}

// AssetChecker 本地工件准备（assets.Provisioner）
type AssetChecker interface {
	Ready() bool
	EnsureReady(ctx context.Context) error
}

// PreferenceStore 离线模式开关的持久化（store.Preferences）
type PreferenceStore interface {
	OfflineMode(ctx context.Context, userID string) (enabled bool, stored bool, err error)
	SetOfflineMode(ctx context.Context, userID string, enabled bool) error
}

// Observer 推理指标
type Observer interface {
	ObservePrediction(mode string, ok bool, elapsed time.Duration)
	ObserveFallback(reason string)
}

// 降级原因（指标标签）
const (
	FallbackProvisioningFailed = "provisioning_failed"
	FallbackRuntimeUnavailable = "runtime_unavailable"
	FallbackLocalFailed        = "local_failed"
)

// RouterOptions 路由配置
type RouterOptions struct {
	DefaultMode   domain.InferenceMode
	RemoteTimeout time.Duration
}

// Outcome 一次路由的结果
type Outcome struct {
	Risks    domain.RiskSet
	Mode     domain.InferenceMode
	FellBack bool
}

// Router 推理路由状态机：
// local 成功即结束；local 失败（工件/编码/运行时任一环节）记录“本地已禁用”偏好后转 remote；
// remote 失败返回 PredictionUnavailableError。
type Router struct {
	local    Predictor
	remote   Predictor
	assets   AssetChecker
	prefs    PreferenceStore
	opts     RouterOptions
	logger   *zap.Logger
	observer Observer
}

func NewRouter(local, remote Predictor, assets AssetChecker, prefs PreferenceStore, opts RouterOptions, logger *zap.Logger) *Router {
	if opts.DefaultMode == "" {
		opts.DefaultMode = domain.ModeLocal
	}
	return &Router{
		local:  local,
		remote: remote,
		assets: assets,
		prefs:  prefs,
		opts:   opts,
		logger: logger.With(zap.String("component", "inference_router")),
	}
}

// SetObserver 可选
func (r *Router) SetObserver(o Observer) { r.observer = o }

// SelectMode 根据持久化偏好选择路径；读取失败或未设置时使用默认模式
func (r *Router) SelectMode(ctx context.Context, userID string) domain.InferenceMode {
	if r.prefs == nil {
		return r.opts.DefaultMode
	}
	enabled, stored, err := r.prefs.OfflineMode(ctx, userID)
	if err != nil {
		r.logger.Warn("Failed to read offline mode preference, using default",
			zap.String("user_id", userID), zap.Error(err))
		return r.opts.DefaultMode
	}
	if !stored {
		return r.opts.DefaultMode
	}
	if enabled {
		return domain.ModeLocal
	}
	return domain.ModeRemote
}

type routeState int

const (
	stateLocal routeState = iota
	stateRemote
	stateDone
)

// Predict 按 mode 执行；返回的 Outcome.Mode 是实际使用的路径
func (r *Router) Predict(ctx context.Context, userID string, rec domain.LifestyleRecord, mode domain.InferenceMode) (*Outcome, error) {
	out := &Outcome{}
	state := stateRemote
	if mode == domain.ModeLocal {
		state = stateLocal
	}

	for state != stateDone {
		switch state {
		case stateLocal:
			start := time.Now()
			risks, reason, err := r.tryLocal(ctx, rec)
			r.observePrediction(domain.ModeLocal, err == nil, time.Since(start))
			if err == nil {
				out.Risks, out.Mode = risks, domain.ModeLocal
				r.reenableLocal(ctx, userID)
				state = stateDone
				continue
			}

			r.logger.Warn("Local inference failed, falling back to remote",
				zap.String("user_id", userID),
				zap.String("reason", reason),
				zap.Error(err),
			)
			if r.observer != nil {
				r.observer.ObserveFallback(reason)
			}
			r.persistOfflineMode(ctx, userID, false)
			out.FellBack = true
			state = stateRemote

		case stateRemote:
			start := time.Now()
			risks, err := r.callRemote(ctx, rec)
			r.observePrediction(domain.ModeRemote, err == nil, time.Since(start))
			if err != nil {
				r.logger.Error("Remote prediction failed", zap.String("user_id", userID), zap.Error(err))
				return nil, &domain.PredictionUnavailableError{Reason: "remote prediction failed", Err: err}
			}
			out.Risks, out.Mode = risks, domain.ModeRemote
			state = stateDone
		}
	}
	return out, nil
}

func (r *Router) tryLocal(ctx context.Context, rec domain.LifestyleRecord) (domain.RiskSet, string, error) {
	if r.local == nil {
		return domain.RiskSet{}, FallbackRuntimeUnavailable, ErrRuntimeUnavailable
	}
	if r.assets != nil && !r.assets.Ready() {
		if err := r.assets.EnsureReady(ctx); err != nil {
			return domain.RiskSet{}, FallbackProvisioningFailed, err
		}
	}
	risks, err := r.local.Predict(ctx, rec)
	if err != nil {
		if errors.Is(err, ErrRuntimeUnavailable) {
			return domain.RiskSet{}, FallbackRuntimeUnavailable, err
		}
		return domain.RiskSet{}, FallbackLocalFailed, err
	}
	return risks, "", nil
}

func (r *Router) callRemote(ctx context.Context, rec domain.LifestyleRecord) (domain.RiskSet, error) {
	if r.remote == nil {
		return domain.RiskSet{}, errors.New("remote predictor is not configured")
	}
	if r.opts.RemoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.RemoteTimeout)
		defer cancel()
	}
	return r.remote.Predict(ctx, rec)
}

// reenableLocal 本地成功但偏好仍记为禁用时纠正
func (r *Router) reenableLocal(ctx context.Context, userID string) {
	if r.prefs == nil {
		return
	}
	enabled, stored, err := r.prefs.OfflineMode(ctx, userID)
	if err != nil {
		r.logger.Warn("Failed to read offline mode preference", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if stored && !enabled {
		r.persistOfflineMode(ctx, userID, true)
	}
}

func (r *Router) persistOfflineMode(ctx context.Context, userID string, enabled bool) {
	if r.prefs == nil {
		return
	}
	if err := r.prefs.SetOfflineMode(ctx, userID, enabled); err != nil {
		r.logger.Warn("Failed to persist offline mode preference",
			zap.String("user_id", userID), zap.Bool("enabled", enabled), zap.Error(err))
		return
	}
	r.logger.Info("Offline mode preference updated", zap.String("user_id", userID), zap.Bool("enabled", enabled))
}

func (r *Router) observePrediction(mode domain.InferenceMode, ok bool, elapsed time.Duration) {
	if r.observer != nil {
		r.observer.ObservePrediction(string(mode), ok, elapsed)
	}
}
